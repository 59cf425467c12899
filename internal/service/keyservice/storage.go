package keyservice

import (
	"context"
	"errors"
)

// ErrKeyExists возвращается хранилищем, если ключ уже был сохранён другим процессом
var ErrKeyExists = errors.New("signing key already stored")

//go:generate mockgen -source=storage.go -destination=../../mocks/key_storage_mock.go -package=mocks

// KeyStorage - слот для зашифрованного PEM приватного ключа
type KeyStorage interface {
	Load(ctx context.Context) (pemKey string, found bool, err error)
	Save(ctx context.Context, pemKey string) error
	Name() string
}
