package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/linemk/order-service/internal/service"
)

// UserRequest — тело POST /usuarios и PUT /usuarios/{id}.
// Поля указателями: обязательно наличие поля, пустая строка допустима.
type UserRequest struct {
	Name  *string `json:"nome" validate:"required"`
	Email *string `json:"email" validate:"required"`
}

// CreateUserResponse — ответ при создании пользователя
type CreateUserResponse struct {
	ID int64 `json:"id"`
}

// StatusResponse — ответ на изменение и удаление
type StatusResponse struct {
	Status string `json:"status"`
}

var validate = validator.New()

func decodeUserRequest(r *http.Request) (*UserRequest, error) {
	var req UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, badRequest("invalid request", err)
	}
	if err := validate.Struct(req); err != nil {
		return nil, badRequest("validation error", err)
	}
	return &req, nil
}

func userIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, badRequest("invalid user id", err)
	}
	return id, nil
}

// CreateUserHandler обрабатывает POST /usuarios
func CreateUserHandler(log *slog.Logger, userService service.UserService) http.HandlerFunc {
	return handle(log, "handlers.CreateUserHandler", func(w http.ResponseWriter, r *http.Request) error {
		req, err := decodeUserRequest(r)
		if err != nil {
			return err
		}

		id, err := userService.Create(r.Context(), *req.Name, *req.Email)
		if err != nil {
			return err
		}
		return writeJSON(w, http.StatusOK, CreateUserResponse{ID: id})
	})
}

// ListUsersHandler обрабатывает GET /usuarios
func ListUsersHandler(log *slog.Logger, userService service.UserService) http.HandlerFunc {
	return handle(log, "handlers.ListUsersHandler", func(w http.ResponseWriter, r *http.Request) error {
		users, err := userService.List(r.Context())
		if err != nil {
			return err
		}
		return writeJSON(w, http.StatusOK, users)
	})
}

// UpdateUserHandler обрабатывает PUT /usuarios/{id}
func UpdateUserHandler(log *slog.Logger, userService service.UserService) http.HandlerFunc {
	return handle(log, "handlers.UpdateUserHandler", func(w http.ResponseWriter, r *http.Request) error {
		id, err := userIDParam(r)
		if err != nil {
			return err
		}
		req, err := decodeUserRequest(r)
		if err != nil {
			return err
		}

		if err := userService.Update(r.Context(), id, *req.Name, *req.Email); err != nil {
			return err
		}
		return writeJSON(w, http.StatusOK, StatusResponse{Status: "updated"})
	})
}

// DeleteUserHandler обрабатывает DELETE /usuarios/{id}
func DeleteUserHandler(log *slog.Logger, userService service.UserService) http.HandlerFunc {
	return handle(log, "handlers.DeleteUserHandler", func(w http.ResponseWriter, r *http.Request) error {
		id, err := userIDParam(r)
		if err != nil {
			return err
		}

		if err := userService.Delete(r.Context(), id); err != nil {
			return err
		}
		return writeJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
	})
}
