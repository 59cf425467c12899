package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/kazakovdmitriy/go-cert-signer/internal/service/keyservice"
	"go.uber.org/zap"
)

var _ keyservice.KeyStorage = (*fileStorage)(nil)

type fileStorage struct {
	mu   sync.Mutex
	path string
	log  *zap.Logger
}

func NewFileStorage(path string, log *zap.Logger) *fileStorage {
	if log == nil {
		log = zap.NewNop()
	}
	return &fileStorage{path: path, log: log}
}

func (f *fileStorage) Load(ctx context.Context) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			f.log.Info("key file does not exist", zap.String("path", f.path))
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read key file: %w", err)
	}

	if len(data) == 0 {
		return "", false, nil
	}

	return string(data), true, nil
}

// Save пишет ключ во временный файл и публикует его жёсткой ссылкой.
// Link не заменяет существующий файл, поэтому из конкурирующих процессов побеждает первый.
func (f *fileStorage) Save(ctx context.Context, pemKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// пустой файл Load считает отсутствием ключа
	if info, err := os.Stat(f.path); err == nil && info.Size() == 0 {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove empty key file: %w", err)
		}
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".signing-key-*")
	if err != nil {
		return fmt.Errorf("failed to create temp key file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(pemKey); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write key file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod key file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close key file: %w", err)
	}

	if err := os.Link(tmp.Name(), f.path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return keyservice.ErrKeyExists
		}
		return fmt.Errorf("failed to move key file into place: %w", err)
	}

	f.log.Info("signing key saved to file", zap.String("path", f.path))
	return nil
}

func (f *fileStorage) Name() string {
	return "file:" + f.path
}
