package observers

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/kazakovdmitriy/go-cert-signer/internal/model"
	"go.uber.org/zap"
)

// FileObserver дописывает события в файл журнала, по одному JSON на строку
type FileObserver struct {
	file     *os.File
	filePath string
	log      *zap.Logger
	mu       sync.Mutex
}

func NewFileObserver(filePath string, log *zap.Logger) (*FileObserver, error) {
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit file: %w", err)
	}

	return &FileObserver{
		file:     file,
		filePath: filePath,
		log:      log,
	}, nil
}

// Close закрывает файл при завершении работы
func (f *FileObserver) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return nil
	}

	if err := f.file.Sync(); err != nil {
		f.log.Warn("Sync failed on close", zap.Error(err))
	}

	if err := f.file.Close(); err != nil {
		return fmt.Errorf("close audit file: %w", err)
	}

	f.file = nil
	f.log.Debug("audit file closed", zap.String("path", f.filePath))
	return nil
}

func (f *FileObserver) OnSigningEvent(event model.SigningEvent) {
	jsonEvent, err := json.Marshal(event)
	if err != nil {
		f.log.Error("Error marshaling event", zap.Error(err))
		return
	}
	jsonEvent = append(jsonEvent, '\n')

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		f.log.Warn("audit event dropped, file is closed", zap.String("action", event.Action))
		return
	}

	if _, err := f.file.Write(jsonEvent); err != nil {
		f.log.Error("Error writing to audit file", zap.Error(err))
	}
}
