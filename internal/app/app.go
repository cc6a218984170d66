package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/boazmichaely/JobHuntAI/internal/config"
	"github.com/boazmichaely/JobHuntAI/internal/filesync"
	"github.com/boazmichaely/JobHuntAI/internal/store"
)

// App is the dependency container for the CLI application
type App struct {
	Store  *store.Store
	Sync   *filesync.Engine
	Config *config.Config
}

// NewApp initializes and returns a new App instance
func NewApp(ctx context.Context) (*App, error) {
	// Initialize config
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	st, err := store.Open(filepath.Join(config.DataDir(), "jobhuntai.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	engine := filesync.New(st, filesync.Options{})

	// Resume a previously connected sync file. Reconciliation only runs
	// on explicit file selection, not at startup.
	if config.AppConfig.SyncFile != "" {
		engine.Resume(config.AppConfig.SyncFile, config.AppConfig.SyncLive)
	}

	return &App{
		Store:  st,
		Sync:   engine,
		Config: config.AppConfig,
	}, nil
}

// Close flushes any pending sync write and releases all resources
func (a *App) Close() error {
	if a.Sync != nil {
		if err := a.Sync.Close(); err != nil {
			fmt.Printf("Warning: sync write failed: %v\n", err)
		}
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
