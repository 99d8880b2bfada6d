package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	dashboardhandlers "github.com/isaacmartinez23/portafolio-web-analytics/pkg/handlers/dashboard"
	reporthandlers "github.com/isaacmartinez23/portafolio-web-analytics/pkg/handlers/reports"
	dashboardmiddleware "github.com/isaacmartinez23/portafolio-web-analytics/pkg/server/middleware"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/cache"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/config"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/dashboard"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

// Cache is what the handlers need from the report cache.
type Cache interface {
	dashboard.Source
	Clear()
	Stats() cache.Stats
}

type Dependencies struct {
	Cache     Cache
	Dashboard *dashboard.Service
	Logger    zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Page            config.PageSettings
	Dependencies    Dependencies
}

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

func ConfigureRouter(cfg Config) (*chi.Mux, error) {
	deps := cfg.Dependencies

	pageHandler, err := dashboardhandlers.NewHandler(deps.Dashboard, deps.Cache, cfg.Page)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard templates: %w", err)
	}
	reportHandler := reporthandlers.NewHandler(deps.Cache, deps.Dashboard)
	cacheHandler := reporthandlers.NewCacheHandler(deps.Cache)

	router := chi.NewRouter()

	router.Use(dashboardmiddleware.Logger(&deps.Logger))
	router.Use(middleware.Recoverer)

	router.Get("/", pageHandler.Index)
	router.Get("/dashboard/{tab}", pageHandler.ShowTab)
	router.Post("/refresh", pageHandler.Refresh)
	router.Handle("/static/*", http.StripPrefix("/static/", pageHandler.Static()))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/kinds", reportHandler.ListKinds)
		r.Get("/reports/{kind}", reportHandler.GetReport)
		r.Get("/cache", cacheHandler.GetStats)
	})

	return router, nil
}

func NewWebAPI(cfg Config) (*WebAPI, error) {
	router, err := ConfigureRouter(cfg)
	if err != nil {
		return nil, err
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	logger := cfg.Dependencies.Logger
	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: timeout,
	}, nil
}

func (w *WebAPI) Handler() http.Handler {
	return w.router
}

// Start serves until the listener fails or the process is interrupted, then
// drains outstanding requests.
func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
