// Package app wires configuration into a ready-to-use fridge controller.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/skinfridge/fridge/config"
	"github.com/skinfridge/fridge/internal/domain"
	"github.com/skinfridge/fridge/internal/infrastructure/catalog"
	"github.com/skinfridge/fridge/internal/infrastructure/preferences"
	"github.com/skinfridge/fridge/internal/usecase"
)

// App holds the wired dependencies of a fridge session
type App struct {
	Config  *config.Config
	Catalog *catalog.Client
	Store   domain.PreferencesStore
	Fridge  *usecase.FridgeController
	Logger  *zap.Logger
}

// New builds the catalog client, preferences store and controller
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := catalog.NewClient(catalog.Config{
		BaseURL:           cfg.Catalog.BaseURL,
		Timeout:           cfg.Catalog.Timeout,
		RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
		Burst:             cfg.Catalog.Burst,
		SessionCookieName: cfg.Catalog.SessionCookieName,
		SessionCookie:     cfg.Catalog.SessionCookie,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog client: %w", err)
	}
	if cfg.Catalog.Debug {
		client.SetDebug(true)
	}

	var store domain.PreferencesStore
	if cfg.Session.PreferencesPath != "" {
		store = preferences.NewFileStore(cfg.Session.PreferencesPath, logger)
	} else {
		store = preferences.NewMemoryStore()
	}

	fridge := usecase.NewFridgeController(client, store, logger, usecase.FridgeControllerConfig{
		BootstrapDelay:      cfg.Session.BootstrapDelay,
		DefaultDisplayName:  cfg.Session.DisplayName,
		SearchLimit:         cfg.Catalog.SearchLimit,
		EnableFuzzyMatching: cfg.Catalog.FuzzyMatching,
		DisableReconcile:    cfg.Session.DisableReconcile,
	})

	return &App{
		Config:  cfg,
		Catalog: client,
		Store:   store,
		Fridge:  fridge,
		Logger:  logger,
	}, nil
}

// Start loads the stored preferences and bootstraps the controller with
// them. An unreadable store falls back to defaults.
func (a *App) Start(ctx context.Context, displayName string) domain.FridgeState {
	prefs, err := a.Store.Load(ctx)
	if err != nil {
		a.Logger.Warn("using default preferences", zap.Error(err))
		prefs = domain.DefaultPreferences()
	}
	return a.Fridge.Bootstrap(ctx, prefs, displayName)
}
