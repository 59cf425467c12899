package model

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// KeyPair - ключевая пара для подписи сертификатов.
// Публичный ключ всегда выводится из приватного.
type KeyPair struct {
	PrivateKey *rsa.PrivateKey
	PublicKey  *rsa.PublicKey
}

func NewKeyPair(priv *rsa.PrivateKey) *KeyPair {
	return &KeyPair{
		PrivateKey: priv,
		PublicKey:  &priv.PublicKey,
	}
}

// PublicKeyPEM кодирует публичный ключ в PEM (SubjectPublicKeyInfo)
func (kp *KeyPair) PublicKeyPEM() ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(kp.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}
