package observers

import (
	"github.com/kazakovdmitriy/go-cert-signer/internal/model"
	"go.uber.org/zap"
)

type EventLogger struct {
	logger *zap.Logger
}

func NewEventLogger(logger *zap.Logger) *EventLogger {
	return &EventLogger{
		logger: logger,
	}
}

func (e *EventLogger) OnSigningEvent(event model.SigningEvent) {
	e.logger.Info("audit event",
		zap.String("action", event.Action),
		zap.String("digest", event.Digest),
		zap.Int("size", event.Size),
		zap.Bool("valid", event.Valid),
		zap.String("reason", event.Reason),
	)
}
