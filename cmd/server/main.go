/*
main.go - Application entry point

PURPOSE:
  Starts the cash-flow projection API server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load config (file, .env, CASHFLOW_* environment)
  2. Apply command-line flags
  3. Build store, cache, event publisher and router (package app)
  4. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  TOML config file (default: cashflow.toml, optional)
  -port    HTTP server port (overrides config)
  -db      SQLite database path (overrides config)
           Use ":memory:" for in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close cache, publisher and database connections
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/cashflow.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run on different port
  ./server -port=3000

ENVIRONMENT:
  CASHFLOW_PORT, CASHFLOW_DB, CASHFLOW_START, CASHFLOW_CACHE,
  CASHFLOW_REDIS_ADDR, CASHFLOW_KAFKA_BROKERS

SEE ALSO:
  - app/app.go: Service wiring
  - api/server.go: Router configuration
  - config/config.go: Settings
*/
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/warp/cashflow-engine/app"
	"github.com/warp/cashflow-engine/config"
)

func main() {
	// Flags
	configPath := flag.String("config", "cashflow.toml", "TOML config file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Storage.DBPath = *dbPath
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	if err := a.Run(ctx); err != nil {
		log.Fatal(err)
	}
}
