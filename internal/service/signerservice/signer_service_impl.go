package signerservice

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
	"hash"
	"io"

	"github.com/kazakovdmitriy/go-cert-signer/internal/model"
	"github.com/kazakovdmitriy/go-cert-signer/pkg/objpool"
	"go.uber.org/zap"
)

// RSA-PSS, SHA-256 для дайджеста и MGF1, максимальная длина соли.
// При проверке PSSSaltLengthAuto определяет соль автоматически.
var pssOptions = &rsa.PSSOptions{
	SaltLength: rsa.PSSSaltLengthAuto,
	Hash:       crypto.SHA256,
}

var sha256Pool = objpool.New(func() hash.Hash { return sha256.New() })

func digest(payload []byte) []byte {
	return objpool.With(sha256Pool, func(h hash.Hash) []byte {
		h.Write(payload)
		return h.Sum(nil)
	})
}

type KeyProvider interface {
	GetOrCreateKey(ctx context.Context) (*model.KeyPair, error)
}

// PSSSigner дописывает к полезной нагрузке подпись и трейлер с её длиной
type PSSSigner struct {
	keys   KeyProvider
	random io.Reader
	log    *zap.Logger
}

func NewPSSSigner(keys KeyProvider, log *zap.Logger) *PSSSigner {
	if log == nil {
		log = zap.NewNop()
	}
	return &PSSSigner{keys: keys, random: rand.Reader, log: log}
}

func (s *PSSSigner) Sign(ctx context.Context, payload []byte) ([]byte, error) {
	kp, err := s.keys.GetOrCreateKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("signing key unavailable: %w", err)
	}

	signature, err := rsa.SignPSS(s.random, kp.PrivateKey, crypto.SHA256, digest(payload), pssOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to sign payload: %w", err)
	}

	s.log.Debug("payload signed",
		zap.Int("payload_size", len(payload)),
		zap.Int("signature_size", len(signature)),
	)

	return model.EncodeSignedBlob(payload, signature), nil
}
