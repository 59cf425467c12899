package crypto

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"github.com/youmark/pkcs8"
)

const (
	encryptedPrivateKeyType = "ENCRYPTED PRIVATE KEY"
	publicKeyType           = "PUBLIC KEY"
	rsaPublicKeyType        = "RSA PUBLIC KEY"
)

var ErrNotRSA = errors.New("key is not RSA")

// EncryptPrivateKey кодирует ключ в зашифрованный PKCS#8 PEM.
// Параметры шифрования по умолчанию у pkcs8: AES-256-CBC + PBKDF2-HMAC-SHA256.
func EncryptPrivateKey(key *rsa.PrivateKey, password []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, fmt.Errorf("empty password for private key encryption")
	}

	der, err := pkcs8.MarshalPrivateKey(key, password, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal encrypted PKCS#8 key: %w", err)
	}

	return pem.EncodeToMemory(&pem.Block{Type: encryptedPrivateKeyType, Bytes: der}), nil
}

// DecryptPrivateKey разбирает зашифрованный PKCS#8 PEM
func DecryptPrivateKey(data []byte, password []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		preview := string(data)
		if len(preview) > 32 {
			preview = preview[:32] + "..."
		}
		return nil, fmt.Errorf("failed to decode PEM block. Data preview: %q", preview)
	}

	if block.Type != encryptedPrivateKeyType {
		return nil, fmt.Errorf("unsupported private key type %q (expected %q)", block.Type, encryptedPrivateKeyType)
	}

	parsed, _, err := pkcs8.ParsePrivateKey(block.Bytes, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt PKCS#8 private key: %w", err)
	}

	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w (got %T)", ErrNotRSA, parsed)
	}

	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("invalid RSA private key: %w", err)
	}

	return key, nil
}

// ParsePublicKey разбирает публичный ключ из PEM (поддерживает PKCS#1 и PKIX)
func ParsePublicKey(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM block (is it a valid PEM file?)")
	}

	switch block.Type {
	case rsaPublicKeyType:
		pubKey, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PKCS#1 public key: %w", err)
		}
		return pubKey, nil
	case publicKeyType:
		parsedKey, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PKIX public key: %w", err)
		}
		pubKey, ok := parsedKey.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w (got %T)", ErrNotRSA, parsedKey)
		}
		return pubKey, nil
	default:
		return nil, fmt.Errorf("unsupported public key type %q (expected %q or %q)",
			block.Type, rsaPublicKeyType, publicKeyType)
	}
}

// LoadPublicKey загружает публичный ключ из PEM-файла
func LoadPublicKey(path string) (*rsa.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key file %q: %w", path, err)
	}

	pubKey, err := ParsePublicKey(data)
	if err != nil {
		return nil, fmt.Errorf("public key %q: %w", path, err)
	}
	return pubKey, nil
}
