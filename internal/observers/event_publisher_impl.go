package observers

import (
	"sync"

	"github.com/kazakovdmitriy/go-cert-signer/internal/model"
)

// EventPublisherImpl доставляет события синхронно, в порядке регистрации
type EventPublisherImpl struct {
	observers []EventObserver
	mu        sync.RWMutex
}

func NewEventPublisher() *EventPublisherImpl {
	return &EventPublisherImpl{
		observers: make([]EventObserver, 0),
	}
}

func (p *EventPublisherImpl) Publish(event model.SigningEvent) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, observer := range p.observers {
		observer.OnSigningEvent(event)
	}
}

func (p *EventPublisherImpl) Register(observer EventObserver) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

func (p *EventPublisherImpl) Unregister(observer EventObserver) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, o := range p.observers {
		if o == observer {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			return
		}
	}
}
