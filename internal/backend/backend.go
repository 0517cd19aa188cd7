// Package backend builds the storage and event publishing backends selected
// by configuration.
package backend

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/splitsmart/internal/auth"
	"github.com/mmynk/splitsmart/internal/config"
	"github.com/mmynk/splitsmart/internal/events"
	"github.com/mmynk/splitsmart/internal/storage"
	"github.com/mmynk/splitsmart/internal/storage/memory"
	"github.com/mmynk/splitsmart/internal/storage/sqlite"
)

// Result holds the constructed backends. Cleanup releases both and is
// never nil.
type Result struct {
	Store     storage.Store
	Publisher events.Publisher
	Cleanup   func() error
}

// Factory creates backends from configuration.
type Factory struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewFactory creates a new backend factory.
func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger, now: time.Now}
}

// Create opens the configured store and publisher.
func (f *Factory) Create(cfg *config.Config) (*Result, error) {
	store, err := f.createStore(cfg)
	if err != nil {
		return nil, err
	}
	publisher := f.createPublisher(cfg.Events)

	return &Result{
		Store:     store,
		Publisher: publisher,
		Cleanup: func() error {
			return errors.Join(publisher.Close(), store.Close())
		},
	}, nil
}

func (f *Factory) createStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		store, err := sqlite.New(cfg.Storage.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", cfg.Storage.DBPath)
		return store, nil

	case config.BackendMemory:
		hash, err := auth.HashPassword(cfg.Storage.DemoPassword, cfg.Auth.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash demo password: %w", err)
		}
		f.logger.Info("Initialized memory backend with demo data")
		return memory.NewDemo(f.now(), hash), nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Storage.Backend)
	}
}

// createPublisher falls back to a no-op publisher when AMQP is not
// configured or unreachable.
func (f *Factory) createPublisher(cfg config.EventsConfig) events.Publisher {
	if cfg.AMQPURL == "" {
		return events.Noop{}
	}
	publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP publisher, continuing without events", "error", err)
		return events.Noop{}
	}
	f.logger.Info("Initialized AMQP publisher", "exchange", cfg.AMQPExchange)
	return publisher
}
