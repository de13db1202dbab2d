// Package infrastructure provides core service initialization for application
// startup. It assembles the dependencies shared by every module: lifecycle
// coordination, logging, database access, blob storage, and the classification
// backend client.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tc2044/ma-classifier-demo/internal/backend"
	"github.com/tc2044/ma-classifier-demo/internal/config"
	"github.com/tc2044/ma-classifier-demo/pkg/database"
	"github.com/tc2044/ma-classifier-demo/pkg/lifecycle"
	"github.com/tc2044/ma-classifier-demo/pkg/storage"
)

// Infrastructure holds the core systems required by all modules. The backend
// client is constructed once here from configuration and injected everywhere
// it is needed; nothing resolves the endpoint ad hoc.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Backend   backend.Classifier
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Backend:   backend.New(&cfg.Backend, logger),
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}
