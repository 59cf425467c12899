package model

import (
	"encoding/binary"
	"errors"
)

const (
	// TrailerSize - размер поля с длиной подписи в конце блоба
	TrailerSize = 4

	// DefaultSignatureSize - длина подписи для ключа RSA-2048.
	// При разборе блоба не используется: длина всегда читается из трейлера.
	DefaultSignatureSize = 256
)

var (
	ErrBlobTooShort            = errors.New("signed blob is shorter than the length trailer")
	ErrSignatureLengthOverflow = errors.New("signature length trailer does not fit into the blob")
)

// EncodeSignedBlob собирает блоб: payload || signature || uint32le(len(signature))
func EncodeSignedBlob(payload, signature []byte) []byte {
	blob := make([]byte, 0, len(payload)+len(signature)+TrailerSize)
	blob = append(blob, payload...)
	blob = append(blob, signature...)
	return binary.LittleEndian.AppendUint32(blob, uint32(len(signature)))
}

// SplitSignedBlob отделяет данные и подпись от трейлера.
// Возвращаемые срезы ссылаются на исходный блоб.
func SplitSignedBlob(blob []byte) (data, signature []byte, err error) {
	if len(blob) < TrailerSize {
		return nil, nil, ErrBlobTooShort
	}

	sigLen := uint64(binary.LittleEndian.Uint32(blob[len(blob)-TrailerSize:]))
	if uint64(len(blob)) <= sigLen+TrailerSize {
		return nil, nil, ErrSignatureLengthOverflow
	}

	dataEnd := len(blob) - int(sigLen) - TrailerSize
	return blob[:dataEnd], blob[dataEnd : len(blob)-TrailerSize], nil
}
