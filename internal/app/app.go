package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	"github.com/linemk/order-service/internal/config"
)

const pingTimeout = 5 * time.Second

type App struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *sql.DB
}

// NewApp создаёт новый экземпляр App и проверяет доступность БД.
// Недоступная БД - ошибка старта.
func NewApp(log *slog.Logger, cfg *config.Config) (*App, error) {
	db, err := OpenDB(cfg.Database)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		Logger: log,
		DB:     db,
	}

	return app, nil
}

// OpenDB открывает *sql.DB на драйвере lib/pq и пингует его.
// Соединение берется из пула на время одной транзакции или запроса и сразу возвращается.
func OpenDB(dbCfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", dbCfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
