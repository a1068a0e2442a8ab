package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/moogar0880/problems"

	"github.com/linemk/order-service/internal/storage"
)

// тексты ошибок, которые видит клиент
const (
	detailEmailExists  = "Email já cadastrado."
	detailUserNotFound = "Usuário não encontrado."
	detailUserHasOrder = "Usuário possui pedidos."
	detailInternal     = "internal server error"
)

// requestError — ошибка во входных данных запроса (тело, путь)
type requestError struct {
	detail string
	err    error
}

func (e *requestError) Error() string {
	if e.err != nil {
		return e.detail + ": " + e.err.Error()
	}
	return e.detail
}

func (e *requestError) Unwrap() error { return e.err }

func badRequest(detail string, err error) error {
	return &requestError{detail: detail, err: err}
}

// apiFunc — обработчик, который возвращает ошибку вместо того, чтобы писать ее сам
type apiFunc func(w http.ResponseWriter, r *http.Request) error

// handle превращает apiFunc в http.HandlerFunc. Все ошибки обработчиков
// проходят через одно место и отдаются как application/problem+json.
func handle(log *slog.Logger, op string, fn apiFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		status, detail := translateError(err)
		logger := log.With(slog.String("op", op), slog.Int("status", status))
		if status >= http.StatusInternalServerError {
			logger.Error("request failed", slog.Any("error", err))
		} else {
			logger.Warn("request rejected", slog.Any("error", err))
		}

		writeProblem(w, r, status, detail)
	}
}

// translateError сопоставляет ошибку HTTP статусу и тексту для клиента
func translateError(err error) (int, string) {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest, reqErr.detail
	case errors.Is(err, storage.ErrEmailExists):
		return http.StatusBadRequest, detailEmailExists
	case errors.Is(err, storage.ErrUserNotFound):
		return http.StatusNotFound, detailUserNotFound
	case errors.Is(err, storage.ErrUserHasOrders):
		return http.StatusConflict, detailUserHasOrder
	default:
		return http.StatusInternalServerError, detailInternal
	}
}

func writeProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	problem := problems.NewDetailedProblem(status, detail)
	problem.Instance = r.URL.Path

	w.Header().Set("Content-Type", problems.ProblemMediaType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(problem)
}

// writeJSON сначала кодирует v в буфер: при ошибке кодирования в ответ еще ничего
// не записано, и handle может отдать 500.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// заголовки уже отправлены, ошибку записи (клиент ушел) отдать некуда
	_, _ = w.Write(buf.Bytes())
	return nil
}
