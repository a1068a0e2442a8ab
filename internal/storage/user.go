package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/linemk/order-service/internal/domain/models"
)

// UserStorage описывает методы для работы с таблицей usuarios.
// Методы, изменяющие данные, выполняются в транзакции, которую открывает сервис.
type UserStorage interface {
	CreateUser(ctx context.Context, tx *sql.Tx, user *models.User) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, tx *sql.Tx, user *models.User) error
	DeleteUser(ctx context.Context, tx *sql.Tx, id int64) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db: db}
}

// CreateUser вставляет пользователя и возвращает его с присвоенным id.
// Если email уже занят, возвращается ErrEmailExists.
func (r *userRepository) CreateUser(ctx context.Context, tx *sql.Tx, user *models.User) (*models.User, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		"INSERT INTO usuarios (nome, email) VALUES ($1, $2) RETURNING id",
		user.Name, user.Email,
	).Scan(&id)
	if err != nil {
		return nil, classifyError(err)
	}
	user.ID = id
	return user, nil
}

// ListUsers возвращает всех пользователей, пустой срез если их нет
func (r *userRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, nome, email FROM usuarios ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, tx *sql.Tx, user *models.User) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE usuarios SET nome = $1, email = $2 WHERE id = $3",
		user.Name, user.Email, user.ID,
	)
	if err != nil {
		return classifyError(err)
	}
	return expectAffected(res)
}

// DeleteUser удаляет пользователя. Пользователя с заказами удалить нельзя (ErrUserHasOrders).
func (r *userRepository) DeleteUser(ctx context.Context, tx *sql.Tx, id int64) error {
	res, err := tx.ExecContext(ctx, "DELETE FROM usuarios WHERE id = $1", id)
	if err != nil {
		return classifyError(err)
	}
	return expectAffected(res)
}

func expectAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}
