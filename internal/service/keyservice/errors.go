package keyservice

import (
	"errors"
	"fmt"
)

var (
	ErrKeyLoad          = errors.New("failed to load signing key")
	ErrKeyGeneration    = errors.New("failed to generate signing key")
	ErrKeyPersist       = errors.New("failed to persist signing key")
	ErrKeyNotConfigured = errors.New("signing key is not configured")
	ErrNotRSAKey        = errors.New("signing key is not an RSA key")
)

// KeyLoadError - ключ в хранилище есть, но его не удалось прочитать или расшифровать
type KeyLoadError struct {
	Storage string
	Err     error
}

func (e *KeyLoadError) Error() string {
	return fmt.Sprintf("%s from %s: %v", ErrKeyLoad, e.Storage, e.Err)
}

func (e *KeyLoadError) Unwrap() []error { return []error{ErrKeyLoad, e.Err} }

type KeyGenerationError struct {
	Err error
}

func (e *KeyGenerationError) Error() string {
	return fmt.Sprintf("%s: %v", ErrKeyGeneration, e.Err)
}

func (e *KeyGenerationError) Unwrap() []error { return []error{ErrKeyGeneration, e.Err} }

// KeyPersistError - ключ сгенерирован, но не сохранён; такой ключ не используется
type KeyPersistError struct {
	Storage string
	Err     error
}

func (e *KeyPersistError) Error() string {
	return fmt.Sprintf("%s to %s: %v", ErrKeyPersist, e.Storage, e.Err)
}

func (e *KeyPersistError) Unwrap() []error { return []error{ErrKeyPersist, e.Err} }
