package envstorage

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/kazakovdmitriy/go-cert-signer/internal/service/keyservice"
	"go.uber.org/zap"
)

// DefaultVariable - переменная окружения со слотом ключа
const DefaultVariable = "CERT_PRIVATE_KEY"

var _ keyservice.KeyStorage = (*envStorage)(nil)

type (
	LookupFunc func(key string) (string, bool)
	SetFunc    func(key, value string) error
)

// envStorage хранит ключ в переменной окружения процесса.
// Запись живёт только до рестарта: для продакшена нужен внешний слот.
type envStorage struct {
	mu       sync.Mutex
	variable string
	lookup   LookupFunc
	set      SetFunc
	log      *zap.Logger
}

func NewEnvStorage(variable string, log *zap.Logger) *envStorage {
	return NewEnvStorageWith(variable, os.LookupEnv, os.Setenv, log)
}

func NewEnvStorageWith(variable string, lookup LookupFunc, set SetFunc, log *zap.Logger) *envStorage {
	if variable == "" {
		variable = DefaultVariable
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &envStorage{
		variable: variable,
		lookup:   lookup,
		set:      set,
		log:      log,
	}
}

func (e *envStorage) Load(ctx context.Context) (string, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	value, ok := e.lookup(e.variable)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false, nil
	}

	// в .env файлах PEM часто записан в одну строку с экранированными переводами строк
	if !strings.Contains(value, "\n") && strings.Contains(value, `\n`) {
		value = strings.ReplaceAll(value, `\n`, "\n")
	}

	return value, true, nil
}

func (e *envStorage) Save(ctx context.Context, pemKey string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if value, ok := e.lookup(e.variable); ok && strings.TrimSpace(value) != "" {
		return keyservice.ErrKeyExists
	}

	if err := e.set(e.variable, pemKey); err != nil {
		return fmt.Errorf("failed to set %s: %w", e.variable, err)
	}

	e.log.Warn("signing key written to process environment; it will be lost on restart",
		zap.String("variable", e.variable),
	)
	return nil
}

func (e *envStorage) Name() string {
	return "env:" + e.variable
}
