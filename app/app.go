/*
Package app wires configuration into a running HTTP service.

STARTUP SEQUENCE:
  1. Open the store (SQLite, or memory for ":memory:" callers who want it)
  2. Select the result cache (memory, redis, none)
  3. Select the event publisher (kafka when brokers are configured)
  4. Build the API handler and router
  5. Serve until the context is cancelled, then shut down gracefully

Used by cmd/server and by `cashflow serve`.
*/
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/warp/cashflow-engine/api"
	"github.com/warp/cashflow-engine/cache"
	"github.com/warp/cashflow-engine/config"
	"github.com/warp/cashflow-engine/events/kafka"
	"github.com/warp/cashflow-engine/store"
	"github.com/warp/cashflow-engine/store/sqlite"
)

// shutdownTimeout bounds how long in-flight requests may take on exit.
const shutdownTimeout = 30 * time.Second

// App is a configured but not yet serving service.
type App struct {
	Config  config.Config
	Store   store.Store
	Handler *api.Handler
	Server  *http.Server

	closers []io.Closer
}

// New builds the service described by cfg.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	st, err := sqlite.New(cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	a := &App{Config: cfg, Store: st, closers: []io.Closer{st}}

	h := api.NewHandler(st)
	h.DefaultStart = cfg.Simulation.Start
	h.CacheTTL = cfg.Cache.TTL()
	h.Cache = a.openCache(ctx, cfg.Cache)

	if len(cfg.Events.KafkaBrokers) > 0 {
		pub := kafka.NewPublisher(cfg.Events.KafkaBrokers)
		a.closers = append(a.closers, pub)
		h.Events = pub
		log.Printf("Publishing run events to %v (topic %s)", cfg.Events.KafkaBrokers, cfg.Events.Topic)
	}
	if cfg.Events.Topic != "" {
		h.Topic = cfg.Events.Topic
	}
	a.Handler = h

	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api.NewRouter(h, cfg.Server.CORSOrigins...),
		ReadTimeout:  cfg.Server.ReadTimeout(),
		WriteTimeout: cfg.Server.WriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}
	return a, nil
}

func (a *App) openCache(ctx context.Context, cfg config.CacheConfig) cache.Cache {
	switch cfg.Backend {
	case config.CacheNone:
		return cache.Nop{}
	case config.CacheRedis:
		rc := cache.NewRedis(cfg.RedisAddr)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := rc.Ping(pingCtx); err != nil {
			log.Printf("Warning: redis unavailable at %s, using in-process cache: %v", cfg.RedisAddr, err)
			rc.Close()
			return cache.NewMemory()
		}
		a.closers = append(a.closers, rc)
		return rc
	default:
		return cache.NewMemory()
	}
}

// Run serves until ctx is cancelled, then drains requests and closes
// every dependency.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	errc := make(chan error, 1)
	go func() {
		log.Printf("Server starting on http://localhost%s", a.Server.Addr)
		log.Printf("API available at http://localhost%s/api", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Close releases dependencies in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
