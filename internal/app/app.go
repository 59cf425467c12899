package app

import (
	"context"
	"fmt"

	"github.com/kazakovdmitriy/go-cert-signer/internal/config"
	"github.com/kazakovdmitriy/go-cert-signer/internal/config/db"
	"github.com/kazakovdmitriy/go-cert-signer/internal/model"
	"github.com/kazakovdmitriy/go-cert-signer/internal/observers"
	"github.com/kazakovdmitriy/go-cert-signer/internal/repository/dbstorage"
	"github.com/kazakovdmitriy/go-cert-signer/internal/repository/envstorage"
	"github.com/kazakovdmitriy/go-cert-signer/internal/repository/filestorage"
	"github.com/kazakovdmitriy/go-cert-signer/internal/repository/memstorage"
	"github.com/kazakovdmitriy/go-cert-signer/internal/retry"
	"github.com/kazakovdmitriy/go-cert-signer/internal/service/keyservice"
	"github.com/kazakovdmitriy/go-cert-signer/internal/service/signerservice"
	"github.com/kazakovdmitriy/go-cert-signer/internal/utils/crypto"
	"go.uber.org/zap"
)

// App связывает хранилище ключа, KeyManager, подписчика и проверяющего
type App struct {
	cfg       *config.CertFlags
	log       *zap.Logger
	resources *ResourceGroup
	events    *observers.EventPublisherImpl

	Keys     *keyservice.KeyManager
	Signer   *signerservice.PSSSigner
	Verifier *signerservice.PSSVerifier
}

func NewApp(ctx context.Context, cfg *config.CertFlags, log *zap.Logger, opts ...keyservice.Option) (*App, error) {
	a := &App{
		cfg:       cfg,
		log:       log,
		resources: NewResourceGroup(log),
		events:    observers.NewEventPublisher(),
	}

	if err := a.auditInitializer(); err != nil {
		a.Close()
		return nil, err
	}

	storage, err := a.storageInitializer(ctx)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("key storage initialization error: %w", err)
	}

	opts = append([]keyservice.Option{keyservice.WithRequireExistingKey(cfg.RequireExistingKey)}, opts...)
	a.Keys = keyservice.NewKeyManager(storage, []byte(cfg.KeyPassword), log, opts...)
	a.Signer = signerservice.NewPSSSigner(a.Keys, log)

	if cfg.PublicKeyPath != "" {
		pub, err := crypto.LoadPublicKey(cfg.PublicKeyPath)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Verifier = signerservice.NewPSSVerifier(signerservice.NewStaticPublicKey(pub), log)
	} else {
		a.Verifier = signerservice.NewPSSVerifier(a.Keys, log)
	}

	return a, nil
}

func (a *App) Logger() *zap.Logger {
	return a.log
}

func (a *App) Close() error {
	return a.resources.CloseAll()
}

// Sign подписывает payload и публикует событие аудита
func (a *App) Sign(ctx context.Context, payload []byte) ([]byte, error) {
	blob, err := a.Signer.Sign(ctx, payload)
	if err != nil {
		return nil, err
	}
	a.events.Publish(model.NewSigningEvent(model.ActionSign, payload, true, ""))
	return blob, nil
}

// Verify проверяет блоб и публикует событие аудита с причиной отказа
func (a *App) Verify(ctx context.Context, blob []byte) bool {
	ok, reason := a.Verifier.VerifyDetailed(ctx, blob)
	event := model.NewSigningEvent(model.ActionVerify, blob, ok, "")
	if !ok {
		event.Reason = reason.String()
	}
	a.events.Publish(event)
	return ok
}

func (a *App) auditInitializer() error {
	if a.cfg.AuditFile == "" {
		return nil
	}

	fileObserver, err := observers.NewFileObserver(a.cfg.AuditFile, a.log)
	if err != nil {
		return err
	}
	a.resources.Register(fileObserver)
	a.events.Register(fileObserver)
	a.events.Register(observers.NewEventLogger(a.log))

	a.log.Info("audit trail enabled", zap.String("path", a.cfg.AuditFile))
	return nil
}

func (a *App) storageInitializer(ctx context.Context) (keyservice.KeyStorage, error) {
	switch a.cfg.KeyStore {
	case config.StoreFile:
		a.log.Info("using file key storage", zap.String("path", a.cfg.KeyFile))
		return filestorage.NewFileStorage(a.cfg.KeyFile, a.log), nil

	case config.StoreDB:
		delays, err := a.cfg.GetRetryDelaysAsDuration()
		if err != nil {
			return nil, err
		}

		migrator := db.NewMigrator(a.cfg.DatabaseDSN, a.cfg.MigrationsPath, a.log)
		if err := migrator.Up(); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}

		database, err := db.NewDatabase(ctx, a.cfg.DatabaseDSN, a.log)
		if err != nil {
			return nil, err
		}
		a.resources.Register(database)

		a.log.Info("using postgres key storage", zap.String("key name", a.cfg.KeyName))
		return dbstorage.NewDBStorage(
			database.Pool,
			a.cfg.KeyName,
			retry.RetryConfig{MaxRetries: a.cfg.MaxRetries, Delays: delays},
			a.log,
		), nil

	case config.StoreMemory:
		a.log.Warn("using in-memory key storage, the signing key is lost when the process exits")
		return memstorage.NewMemStorage(""), nil

	case config.StoreEnv:
		a.log.Info("using environment key storage", zap.String("variable", a.cfg.KeyVariable))
		return envstorage.NewEnvStorage(a.cfg.KeyVariable, a.log), nil

	default:
		return nil, fmt.Errorf("unknown key store %q", a.cfg.KeyStore)
	}
}
