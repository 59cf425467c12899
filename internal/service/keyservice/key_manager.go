package keyservice

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/kazakovdmitriy/go-cert-signer/internal/model"
	"github.com/kazakovdmitriy/go-cert-signer/internal/utils/crypto"
	"go.uber.org/zap"
)

const (
	// DefaultKeyBits - размер модуля RSA
	DefaultKeyBits = 2048

	// DefaultDebugPassword используется, если пароль не задан. Только для разработки.
	DefaultDebugPassword = "debug-insecure-password"
)

var rsaGenerateKey = rsa.GenerateKey

type Option func(*KeyManager)

// WithRequireExistingKey запрещает генерацию ключа: без сохранённого ключа GetOrCreateKey вернёт KeyLoadError
func WithRequireExistingKey(require bool) Option {
	return func(m *KeyManager) { m.requireExisting = require }
}

func WithKeyBits(bits int) Option {
	return func(m *KeyManager) { m.keyBits = bits }
}

func WithRandom(r io.Reader) Option {
	return func(m *KeyManager) { m.random = r }
}

// KeyManager владеет ключевой парой процесса.
// Ключ создаётся не более одного раза; после инициализации чтение идёт без блокировок.
type KeyManager struct {
	storage         KeyStorage
	password        []byte
	debugPassword   bool
	requireExisting bool
	keyBits         int
	random          io.Reader
	log             *zap.Logger

	mu      sync.Mutex
	keyPair atomic.Pointer[model.KeyPair]
}

func NewKeyManager(storage KeyStorage, password []byte, log *zap.Logger, opts ...Option) *KeyManager {
	if log == nil {
		log = zap.NewNop()
	}

	m := &KeyManager{
		storage: storage,
		keyBits: DefaultKeyBits,
		random:  rand.Reader,
		log:     log,
	}

	if len(password) == 0 {
		m.password = []byte(DefaultDebugPassword)
		m.debugPassword = true
		log.Warn("signing key password is not set, using the debug default; unsafe outside development")
	} else {
		m.password = append([]byte(nil), password...)
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Password возвращает копию пароля, которым зашифрован ключ
func (m *KeyManager) Password() []byte {
	return append([]byte(nil), m.password...)
}

func (m *KeyManager) UsingDebugPassword() bool {
	return m.debugPassword
}

func (m *KeyManager) GetOrCreateKey(ctx context.Context) (*model.KeyPair, error) {
	if kp := m.keyPair.Load(); kp != nil {
		return kp, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if kp := m.keyPair.Load(); kp != nil {
		return kp, nil
	}

	kp, err := m.loadOrGenerate(ctx)
	if err != nil {
		return nil, err
	}

	m.keyPair.Store(kp)
	return kp, nil
}

// PublicKey возвращает публичный ключ сохранённой пары и никогда не создаёт новую.
// Без ключа в хранилище возвращает KeyLoadError с ErrKeyNotConfigured.
func (m *KeyManager) PublicKey(ctx context.Context) (*rsa.PublicKey, error) {
	if kp := m.keyPair.Load(); kp != nil {
		return kp.PublicKey, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if kp := m.keyPair.Load(); kp != nil {
		return kp.PublicKey, nil
	}

	kp, found, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &KeyLoadError{Storage: m.storage.Name(), Err: ErrKeyNotConfigured}
	}

	m.keyPair.Store(kp)
	return kp.PublicKey, nil
}

func (m *KeyManager) loadOrGenerate(ctx context.Context) (*model.KeyPair, error) {
	kp, found, err := m.load(ctx)
	if err != nil || found {
		return kp, err
	}

	if m.requireExisting {
		return nil, &KeyLoadError{Storage: m.storage.Name(), Err: ErrKeyNotConfigured}
	}

	return m.generate(ctx)
}

func (m *KeyManager) load(ctx context.Context) (*model.KeyPair, bool, error) {
	pemKey, found, err := m.storage.Load(ctx)
	if err != nil {
		return nil, false, &KeyLoadError{Storage: m.storage.Name(), Err: err}
	}
	if !found || pemKey == "" {
		return nil, false, nil
	}

	priv, err := crypto.DecryptPrivateKey([]byte(pemKey), m.password)
	if err != nil {
		if errors.Is(err, crypto.ErrNotRSA) {
			err = fmt.Errorf("%w: %w", ErrNotRSAKey, err)
		}
		return nil, true, &KeyLoadError{Storage: m.storage.Name(), Err: err}
	}

	m.log.Info("signing key loaded",
		zap.String("storage", m.storage.Name()),
		zap.Int("bits", priv.N.BitLen()),
	)
	return model.NewKeyPair(priv), true, nil
}

func (m *KeyManager) generate(ctx context.Context) (*model.KeyPair, error) {
	m.log.Info("no signing key configured, generating a new one",
		zap.String("storage", m.storage.Name()),
		zap.Int("bits", m.keyBits),
	)

	priv, err := rsaGenerateKey(m.random, m.keyBits)
	if err != nil {
		return nil, &KeyGenerationError{Err: err}
	}

	encoded, err := crypto.EncryptPrivateKey(priv, m.password)
	if err != nil {
		return nil, &KeyGenerationError{Err: err}
	}

	if err := m.storage.Save(ctx, string(encoded)); err != nil {
		if errors.Is(err, ErrKeyExists) {
			// ключ сохранил другой процесс - используем его
			m.log.Warn("signing key was stored concurrently, reloading", zap.String("storage", m.storage.Name()))
			kp, found, loadErr := m.load(ctx)
			if loadErr != nil {
				return nil, loadErr
			}
			if !found {
				return nil, &KeyLoadError{Storage: m.storage.Name(), Err: ErrKeyNotConfigured}
			}
			return kp, nil
		}
		return nil, &KeyPersistError{Storage: m.storage.Name(), Err: err}
	}

	m.log.Info("signing key generated and stored", zap.String("storage", m.storage.Name()))
	if m.debugPassword {
		m.log.Warn("generated signing key is encrypted with the debug password")
	}

	return model.NewKeyPair(priv), nil
}
