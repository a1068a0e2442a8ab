package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// inTx выполняет fn в одной транзакции. Соединение берется на время транзакции
// и возвращается в пул после commit или rollback.
func inTx(ctx context.Context, db *sql.DB, logger *slog.Logger, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
