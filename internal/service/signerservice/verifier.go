package signerservice

import (
	"context"
	"crypto"
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/kazakovdmitriy/go-cert-signer/internal/model"
	"go.uber.org/zap"
)

// VerifyReason - внутренняя причина результата проверки, только для диагностики
type VerifyReason int

const (
	ReasonOK VerifyReason = iota
	ReasonTooShort
	ReasonLengthOverflow
	ReasonBadSignature
	ReasonKeyUnavailable
	ReasonCryptoError
	ReasonPanic
)

func (r VerifyReason) String() string {
	switch r {
	case ReasonOK:
		return "ok"
	case ReasonTooShort:
		return "too_short"
	case ReasonLengthOverflow:
		return "length_overflow"
	case ReasonBadSignature:
		return "bad_signature"
	case ReasonKeyUnavailable:
		return "key_unavailable"
	case ReasonCryptoError:
		return "crypto_error"
	case ReasonPanic:
		return "panic"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

type PublicKeyProvider interface {
	PublicKey(ctx context.Context) (*rsa.PublicKey, error)
}

// StaticPublicKey - провайдер для проверяющих, у которых есть только публичный ключ
type StaticPublicKey struct {
	key *rsa.PublicKey
}

func NewStaticPublicKey(key *rsa.PublicKey) *StaticPublicKey {
	return &StaticPublicKey{key: key}
}

func (s *StaticPublicKey) PublicKey(context.Context) (*rsa.PublicKey, error) {
	return s.key, nil
}

// PSSVerifier проверяет блобы, созданные PSSSigner.
// Verify безопасен для недоверенных данных: не паникует и не возвращает ошибок.
type PSSVerifier struct {
	keys PublicKeyProvider
	log  *zap.Logger
}

func NewPSSVerifier(keys PublicKeyProvider, log *zap.Logger) *PSSVerifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &PSSVerifier{keys: keys, log: log}
}

func (v *PSSVerifier) Verify(ctx context.Context, blob []byte) bool {
	ok, _ := v.VerifyDetailed(ctx, blob)
	return ok
}

func (v *PSSVerifier) VerifyDetailed(ctx context.Context, blob []byte) (ok bool, reason VerifyReason) {
	defer func() {
		if r := recover(); r != nil {
			v.log.Error("signature verification panicked",
				zap.Any("panic", r),
				zap.Int("blob_size", len(blob)),
			)
			ok, reason = false, ReasonPanic
		}
	}()

	data, signature, err := model.SplitSignedBlob(blob)
	switch {
	case errors.Is(err, model.ErrBlobTooShort):
		v.log.Debug("signed blob rejected: too short", zap.Int("blob_size", len(blob)))
		return false, ReasonTooShort
	case err != nil:
		v.log.Debug("signed blob rejected: inconsistent length trailer", zap.Int("blob_size", len(blob)))
		return false, ReasonLengthOverflow
	}

	pub, err := v.keys.PublicKey(ctx)
	if err != nil || pub == nil {
		v.log.Warn("signed blob rejected: public key unavailable", zap.Error(err))
		return false, ReasonKeyUnavailable
	}

	err = rsa.VerifyPSS(pub, crypto.SHA256, digest(data), signature, pssOptions)
	switch {
	case err == nil:
		return true, ReasonOK
	case errors.Is(err, rsa.ErrVerification):
		v.log.Info("signed blob rejected: signature mismatch",
			zap.Int("blob_size", len(blob)),
			zap.Int("signature_size", len(signature)),
		)
		return false, ReasonBadSignature
	default:
		v.log.Warn("signed blob rejected: crypto error", zap.Error(err))
		return false, ReasonCryptoError
	}
}
