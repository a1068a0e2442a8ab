package storage

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailExists   = errors.New("email already exists")
	ErrUserHasOrders = errors.New("user has orders")
)

// коды ошибок postgres, см. https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// classifyError переводит ошибки ограничений postgres в ошибки хранилища.
// Остальные ошибки возвращаются без изменений.
func classifyError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %w", ErrEmailExists, err)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %w", ErrUserHasOrders, err)
	}
	return err
}
