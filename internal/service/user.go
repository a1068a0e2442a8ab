package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/order-service/internal/domain/models"
	"github.com/linemk/order-service/internal/storage"
)

// UserService определяет CRUD операции над пользователями.
type UserService interface {
	Create(ctx context.Context, name, email string) (int64, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id int64, name, email string) error
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	log      *slog.Logger
	db       *sql.DB
	userRepo storage.UserStorage
}

func NewUserService(log *slog.Logger, db *sql.DB, userRepo storage.UserStorage) UserService {
	return &userService{
		log:      log,
		db:       db,
		userRepo: userRepo,
	}
}

// Create добавляет пользователя. При занятом email транзакция откатывается
// и возвращается storage.ErrEmailExists.
func (s *userService) Create(ctx context.Context, name, email string) (int64, error) {
	const op = "service.UserService.Create"
	logger := s.log.With(slog.String("op", op), slog.String("email", email))

	var created *models.User
	err := inTx(ctx, s.db, logger, func(tx *sql.Tx) error {
		var err error
		created, err = s.userRepo.CreateUser(ctx, tx, &models.User{Name: name, Email: email})
		return err
	})
	if err != nil {
		if errors.Is(err, storage.ErrEmailExists) {
			logger.Warn("email already registered")
		} else {
			logger.Error("failed to create user", slog.Any("error", err))
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("user created", slog.Int64("userID", created.ID))
	return created.ID, nil
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	const op = "service.UserService.List"

	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		s.log.Error("failed to list users", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// Update перезаписывает имя и email. Если пользователя нет, возвращается storage.ErrUserNotFound.
func (s *userService) Update(ctx context.Context, id int64, name, email string) error {
	const op = "service.UserService.Update"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", id))

	err := inTx(ctx, s.db, logger, func(tx *sql.Tx) error {
		return s.userRepo.UpdateUser(ctx, tx, &models.User{ID: id, Name: name, Email: email})
	})
	if err != nil {
		logger.Warn("failed to update user", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("user updated")
	return nil
}

// Delete удаляет пользователя. Пользователь, на которого ссылаются заказы, не удаляется.
func (s *userService) Delete(ctx context.Context, id int64) error {
	const op = "service.UserService.Delete"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", id))

	err := inTx(ctx, s.db, logger, func(tx *sql.Tx) error {
		return s.userRepo.DeleteUser(ctx, tx, id)
	})
	if err != nil {
		logger.Warn("failed to delete user", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("user deleted")
	return nil
}
