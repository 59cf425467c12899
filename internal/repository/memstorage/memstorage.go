package memstorage

import (
	"context"
	"sync"

	"github.com/kazakovdmitriy/go-cert-signer/internal/service/keyservice"
)

var _ keyservice.KeyStorage = (*memStorage)(nil)

type memStorage struct {
	mu     sync.Mutex
	pemKey string
}

// NewMemStorage - слот ключа в памяти процесса; после рестарта ключ теряется
func NewMemStorage(pemKey string) *memStorage {
	return &memStorage{pemKey: pemKey}
}

func (m *memStorage) Load(ctx context.Context) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pemKey, m.pemKey != "", nil
}

func (m *memStorage) Save(ctx context.Context, pemKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pemKey != "" {
		return keyservice.ErrKeyExists
	}
	m.pemKey = pemKey
	return nil
}

func (m *memStorage) Name() string {
	return "memory"
}
