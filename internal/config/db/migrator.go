package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v4/stdlib"
	"go.uber.org/zap"
)

// Migrator создаёт таблицу signing_keys
type Migrator struct {
	log            *zap.Logger
	dsn            string
	migrationsPath string
}

func NewMigrator(dsn, path string, log *zap.Logger) *Migrator {
	return &Migrator{dsn: dsn, migrationsPath: path, log: log}
}

func (m *Migrator) Up() error {
	db, err := sql.Open("pgx", m.dsn)
	if err != nil {
		return fmt.Errorf("failed to open sql.DB for migrations: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping DB for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create postgres migrate driver: %w", err)
	}

	mg, err := migrate.NewWithDatabaseInstance("file://"+m.migrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to initialize migrate: %w", err)
	}

	err = mg.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		m.log.Info("no new migrations to apply")
	case err != nil:
		return fmt.Errorf("migrate up failed: %w", err)
	default:
		m.log.Info("database migrated successfully", zap.String("path", m.migrationsPath))
	}

	return nil
}
