package dbstorage

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"
	"github.com/kazakovdmitriy/go-cert-signer/internal/retry"
	"github.com/kazakovdmitriy/go-cert-signer/internal/service/keyservice"
	"go.uber.org/zap"
)

var _ keyservice.KeyStorage = (*dbstorage)(nil)

// querier - часть *pgxpool.Pool, которая нужна хранилищу
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type dbstorage struct {
	db       querier
	keyName  string
	retryCfg retry.RetryConfig
	log      *zap.Logger
}

func NewDBStorage(db querier, keyName string, retryCfg retry.RetryConfig, log *zap.Logger) *dbstorage {
	if log == nil {
		log = zap.NewNop()
	}

	storage := &dbstorage{
		db:       db,
		keyName:  keyName,
		retryCfg: retryCfg,
		log:      log,
	}

	storage.retryCfg.IsRetryableFn = IsRetryableError
	storage.retryCfg.OnRetry = func(attempt int, err error) {
		log.Warn("retrying key storage query",
			zap.Int("attempt", attempt),
			zap.String("key name", keyName),
			zap.Error(err),
		)
	}

	return storage
}

func (db *dbstorage) Load(ctx context.Context) (string, bool, error) {
	query := `SELECT pem FROM signing_keys WHERE name = $1;`

	var pemKey string
	found := true

	err := retry.Do(ctx, db.retryCfg, func(ctx context.Context) error {
		err := db.db.QueryRow(ctx, query, db.keyName).Scan(&pemKey)
		if errors.Is(err, pgx.ErrNoRows) {
			found = false
			return nil
		}
		return err
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to load signing key %q: %w", db.keyName, err)
	}

	return pemKey, found, nil
}

func (db *dbstorage) Save(ctx context.Context, pemKey string) error {
	query := `
		INSERT INTO signing_keys (name, pem)
		VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING;
	`

	var tag pgconn.CommandTag
	err := retry.Do(ctx, db.retryCfg, func(ctx context.Context) error {
		var err error
		tag, err = db.db.Exec(ctx, query, db.keyName, pemKey)
		return err
	})
	if err != nil {
		db.log.Error("failed to store signing key", zap.Error(err), zap.String("key name", db.keyName))
		return fmt.Errorf("failed to store signing key %q: %w", db.keyName, err)
	}

	if tag.RowsAffected() == 0 {
		return keyservice.ErrKeyExists
	}

	return nil
}

func (db *dbstorage) Name() string {
	return "postgres:" + db.keyName
}

// IsRetryableError - сетевая ошибка, таймаут или конфликт сериализации
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if pgconn.Timeout(err) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgerrcode.IsConnectionException(pgErr.Code) ||
			pgErr.Code == pgerrcode.SerializationFailure ||
			pgErr.Code == pgerrcode.DeadlockDetected ||
			pgErr.Code == pgerrcode.CannotConnectNow
	}

	// pgconn v1 оборачивает ошибки dial в *net.OpError
	var netErr *net.OpError
	return errors.As(err, &netErr)
}
