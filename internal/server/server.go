// Package server builds the rendering service from configuration and runs it.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/JakeFAU/dealsite-ssr/internal/api"
	"github.com/JakeFAU/dealsite-ssr/internal/assets"
	"github.com/JakeFAU/dealsite-ssr/internal/backend"
	"github.com/JakeFAU/dealsite-ssr/internal/backend/cache"
	"github.com/JakeFAU/dealsite-ssr/internal/backend/memory"
	"github.com/JakeFAU/dealsite-ssr/internal/backend/postgres"
	"github.com/JakeFAU/dealsite-ssr/internal/catalog"
	"github.com/JakeFAU/dealsite-ssr/internal/clock"
	"github.com/JakeFAU/dealsite-ssr/internal/compose"
	"github.com/JakeFAU/dealsite-ssr/internal/config"
	"github.com/JakeFAU/dealsite-ssr/internal/render"
	"github.com/JakeFAU/dealsite-ssr/internal/seo"
	"github.com/JakeFAU/dealsite-ssr/internal/ssr"
)

// App contains the application's dependencies.
type App struct {
	cfg       config.Config
	logger    *zap.Logger
	apiServer *api.Server
	pg        *postgres.Store
	redis     *redis.Client
}

// Build wires the data store, pipeline and HTTP server described by cfg.
func Build(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := &App{cfg: cfg, logger: logger}

	store, err := app.setupBackend(ctx)
	if err != nil {
		app.closeInfrastructure()
		return nil, err
	}

	pipeline, err := app.setupPipeline(store)
	if err != nil {
		app.closeInfrastructure()
		return nil, err
	}

	files, err := assets.New(cfg.Assets.Root)
	if err != nil {
		app.closeInfrastructure()
		return nil, fmt.Errorf("assets: %w", err)
	}

	app.apiServer = api.NewServer(pipeline, files, api.Config{
		StaticFiles:    cfg.Assets.StaticFiles,
		RequestTimeout: cfg.Server.RequestTimeout,
		MetricsEnabled: cfg.Metrics.Enabled,
		Ready:          app.ready,
	}, logger.Named("api"))

	logger.Info("application built",
		zap.Int("port", cfg.Server.Port),
		zap.String("backend", cfg.Backend.Driver),
		zap.Bool("cache", cfg.Cache.Enabled),
		zap.String("default_lang", cfg.Site.DefaultLang),
	)
	return app, nil
}

func (a *App) setupBackend(ctx context.Context) (backend.Backend, error) {
	var store backend.Backend
	switch a.cfg.Backend.Driver {
	case "postgres":
		tables := make(map[backend.Kind]string, len(a.cfg.Backend.Tables))
		for kind, table := range a.cfg.Backend.Tables {
			tables[backend.Kind(kind)] = table
		}
		pg, err := postgres.New(ctx, postgres.Config{
			DSN:             a.cfg.Backend.DSN,
			Tables:          tables,
			MaxConns:        a.cfg.Backend.MaxConns,
			MinConns:        a.cfg.Backend.MinConns,
			MaxConnLifetime: a.cfg.Backend.MaxConnLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("postgres backend: %w", err)
		}
		a.pg = pg
		store = pg
	case "memory", "":
		mem, err := a.memoryBackend()
		if err != nil {
			return nil, err
		}
		store = mem
	default:
		return nil, fmt.Errorf("unknown backend driver %q", a.cfg.Backend.Driver)
	}

	if !a.cfg.Cache.Enabled {
		return store, nil
	}
	client, err := cache.Dial(ctx, a.cfg.Cache.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	a.redis = client
	return cache.New(store, client, a.cfg.Cache.TTL, a.logger.Named("cache")), nil
}

func (a *App) memoryBackend() (*memory.Store, error) {
	if a.cfg.Backend.Fixtures == "" {
		a.logger.Warn("memory backend has no fixtures; every slice renders empty")
		return memory.New(nil)
	}
	mem, err := memory.Load(a.cfg.Backend.Fixtures)
	if err != nil {
		return nil, fmt.Errorf("memory backend: %w", err)
	}
	return mem, nil
}

func (a *App) setupPipeline(store backend.Backend) (*ssr.Pipeline, error) {
	site := a.cfg.Site
	composer := compose.New(store, compose.Options{
		PageSize:       a.cfg.Compose.PageSize,
		ScanLimit:      a.cfg.Compose.StoreScanLimit,
		ReadTimeout:    a.cfg.Backend.ReadTimeout,
		DefaultLang:    catalog.ParseLang(site.DefaultLang, catalog.LangArabic),
		DefaultCountry: site.DefaultCountry,
	}, a.logger.Named("compose"))

	synth := seo.New(seo.Site{
		Name:       site.Name,
		BaseURL:    site.BaseURL,
		Author:     site.Author,
		ThemeColor: site.ThemeColor,
		Twitter:    site.Twitter,
		Image:      site.OGImage,
	}, clock.System{})

	pages, err := render.NewPages(site.Name)
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}
	assembler, err := render.NewAssembler(pages, render.Options{
		ClientScript: site.ClientScript,
		ClientStyle:  site.ClientStyle,
	})
	if err != nil {
		return nil, fmt.Errorf("document template: %w", err)
	}

	return ssr.New(composer, synth, assembler, a.logger.Named("ssr")), nil
}

// ready reports whether the configured data store and cache are reachable.
func (a *App) ready(ctx context.Context) error {
	if a.pg != nil {
		if err := a.pg.Ping(ctx); err != nil {
			return err
		}
	}
	if a.redis != nil {
		if err := a.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
	}
	return nil
}

// Handler exposes the HTTP handler, primarily for tests.
func (a *App) Handler() http.Handler {
	return a.apiServer.Handler()
}

// Run starts the HTTP server and blocks until the context is canceled or a signal arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           a.apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server started", zap.Int("port", a.cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			stop()
		}
	}()

	<-ctx.Done()
	a.logger.Info("shutdown initiated")

	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("server shutdown error", zap.Error(err))
	}
	a.Close()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	default:
		return nil
	}
}

// Close releases the data store and cache connections.
func (a *App) Close() {
	a.closeInfrastructure()
	a.logger.Info("shutdown complete")
}

func (a *App) closeInfrastructure() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("redis client close failed", zap.Error(err))
		}
		a.redis = nil
	}
	if a.pg != nil {
		a.pg.Close()
		a.pg = nil
	}
}
