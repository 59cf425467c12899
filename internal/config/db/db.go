package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
)

const connectTimeout = 5 * time.Second

type Database struct {
	Pool *pgxpool.Pool
	log  *zap.Logger
}

// NewDatabase подключается к PostgreSQL. В отличие от хранилища метрик,
// без БД работать нельзя: ключ подписи обязан где-то храниться.
func NewDatabase(ctx context.Context, dsn string, log *zap.Logger) (*Database, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database DSN is empty")
	}

	pool, err := connect(ctx, dsn)
	if err != nil {
		return nil, err
	}

	log.Info("connected to database")
	return &Database{Pool: pool, log: log}, nil
}

func connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1

	pool, err := pgxpool.ConnectConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return pool, nil
}

func (db *Database) IsConnected(ctx context.Context) bool {
	if db == nil || db.Pool == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return db.Pool.Ping(ctx) == nil
}

func (db *Database) Close() error {
	if db != nil && db.Pool != nil {
		db.Pool.Close()
		db.log.Info("database connection closed")
	}
	return nil
}
