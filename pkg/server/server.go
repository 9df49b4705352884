// Package server provides the public entry point for initializing the
// formdesk portal server: config, telemetry, catalog store, reasoning
// gateway, assistant core, and the HTTP router, wired in one place so
// alternate deployments can compose the same handler.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/formdesk/formdesk/internal/api"
	"github.com/formdesk/formdesk/internal/api/handlers"
	"github.com/formdesk/formdesk/internal/assistant"
	"github.com/formdesk/formdesk/internal/catalog"
	"github.com/formdesk/formdesk/internal/config"
	"github.com/formdesk/formdesk/internal/gateway"
	"github.com/formdesk/formdesk/internal/telemetry"

	"github.com/rs/zerolog/log"
)

// Server holds the initialized portal.
type Server struct {
	// Handler is the HTTP handler with all routes and middleware.
	Handler http.Handler

	// Port is the port the server should listen on.
	Port int

	// ShutdownFunc should be called on graceful shutdown to flush telemetry.
	ShutdownFunc func(context.Context) error
}

// New initializes all portal components from the environment and returns a
// ready Server.
func New(ctx context.Context) (*Server, error) {
	return NewWithConfig(ctx, config.Load())
}

// NewWithConfig initializes the portal with an explicit configuration.
func NewWithConfig(ctx context.Context, cfg *config.Config) (*Server, error) {
	shutdown, err := telemetry.Init(cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	cat := catalog.NewStore(cfg.Catalog.Path)
	// Warm the cache so a corrupt document shows up at startup, not on the
	// first request. Requests retry the load, so this is advisory.
	if _, err := cat.Load(); err != nil {
		log.Warn().Err(err).Msg("Catalog not loadable at startup; requests will fail until it is fixed")
	}

	gw := gateway.New(gateway.Config{
		APIKey:   cfg.Engine.APIKey,
		Model:    cfg.Engine.Model,
		Endpoint: cfg.Engine.Endpoint,
	})

	svc := assistant.New(cat, gw)
	h := handlers.New(svc, cfg.Version)
	router := api.NewRouter(h)

	log.Info().
		Str("model", cfg.Engine.Model).
		Bool("engine_available", gw.Available()).
		Msg("Portal initialized")

	return &Server{
		Handler:      router,
		Port:         cfg.Port,
		ShutdownFunc: shutdown,
	}, nil
}
