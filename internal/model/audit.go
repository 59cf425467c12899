package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

const (
	ActionSign   = "sign"
	ActionVerify = "verify"
)

// SigningEvent - запись журнала выдачи и проверки подписей
type SigningEvent struct {
	Timestamp time.Time `json:"-"`  // Внутреннее представление времени
	Ts        int64     `json:"ts"` // Unix timestamp в миллисекундах
	Action    string    `json:"action"`
	Digest    string    `json:"digest"`
	Size      int       `json:"size"`
	Valid     bool      `json:"valid"`
	Reason    string    `json:"reason,omitempty"`
}

// NewSigningEvent фиксирует SHA-256 от данных, сами данные в журнал не попадают
func NewSigningEvent(action string, data []byte, valid bool, reason string) SigningEvent {
	now := time.Now()
	sum := sha256.Sum256(data)
	return SigningEvent{
		Timestamp: now,
		Ts:        now.UnixMilli(),
		Action:    action,
		Digest:    hex.EncodeToString(sum[:]),
		Size:      len(data),
		Valid:     valid,
		Reason:    reason,
	}
}
