package backend

import (
	"fmt"
	"log/slog"

	"expensetracker/internal/storage"
)

// Factory opens storage backends based on configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// Open creates the store selected by the config.
func (f *Factory) Open(cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case SQLiteBackend:
		return f.openSQLite(cfg)
	case MemoryBackend:
		return f.openMemory()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

func (f *Factory) openSQLite(cfg Config) (*Result, error) {
	store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)

	return &Result{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}

func (f *Factory) openMemory() (*Result, error) {
	f.logger.Info("Initialized memory backend")

	return &Result{
		Store:   storage.NewMemoryStore(),
		Cleanup: nil,
	}, nil
}
