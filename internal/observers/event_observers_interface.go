package observers

import (
	"github.com/kazakovdmitriy/go-cert-signer/internal/model"
)

// EventObserver - интерфейс для конкретных наблюдателей
type EventObserver interface {
	OnSigningEvent(event model.SigningEvent)
}
