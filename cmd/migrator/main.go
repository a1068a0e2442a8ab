package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/linemk/order-service/internal/app"
	"github.com/linemk/order-service/internal/config"
	"github.com/linemk/order-service/internal/lib/logger"
	"github.com/linemk/order-service/internal/storage"
	"github.com/pkg/errors"
)

// migrator - явный шаг инициализации БД: применяет миграции схемы,
// с флагом -seed дополнительно загружает базовые данные. Оба шага идемпотентны.
func main() {
	var (
		migrationsPathFlag string
		seed               bool
	)
	flag.StringVar(&migrationsPathFlag, "migrations-path", "", "path to migration files")
	flag.BoolVar(&seed, "seed", false, "load baseline data after migrating")
	flag.Parse()

	cfg := config.MustLoad()
	log := logger.SetupLogger(cfg.Env)

	migrationsPath := cfg.Migrations.Path
	if migrationsPathFlag != "" {
		migrationsPath = migrationsPathFlag
	}

	if err := migrateUp(log, migrationsPath, cfg.Database.MigrateDSN(cfg.Migrations.Table)); err != nil {
		log.Error("migration failed", slog.Any("error", err))
		os.Exit(1)
	}

	if !seed {
		return
	}

	if err := seedDB(cfg.Database); err != nil {
		log.Error("seed failed", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("baseline data loaded")
}

func migrateUp(log *slog.Logger, migrationsPath, dsn string) error {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return errors.Wrap(err, "failed to create migrate instance")
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("no migrations to apply")
			return nil
		}
		return errors.Wrap(err, "failed to apply migrations")
	}

	version, dirty, err := m.Version()
	if err != nil {
		return errors.Wrap(err, "failed to read schema version")
	}
	log.Info("migrations applied successfully", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	return nil
}

func seedDB(dbCfg config.DatabaseConfig) error {
	db, err := app.OpenDB(dbCfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return storage.Seed(ctx, db)
}
