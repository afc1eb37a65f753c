package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/sescandon/nevexp/internal/actions"
	"github.com/sescandon/nevexp/internal/agent"
	"github.com/sescandon/nevexp/internal/api"
	"github.com/sescandon/nevexp/internal/backend"
	"github.com/sescandon/nevexp/internal/config"
	"github.com/sescandon/nevexp/internal/db"
	"github.com/sescandon/nevexp/internal/kafka"
	"github.com/sescandon/nevexp/internal/logging"
	"github.com/sescandon/nevexp/internal/payload"
	"github.com/sescandon/nevexp/internal/policy"
	"github.com/sescandon/nevexp/internal/presenter"
	"github.com/sescandon/nevexp/internal/providers"
	"github.com/sescandon/nevexp/internal/windows"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := logging.New(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Close()

	// Delivery record store is optional; without a DSN the agent runs
	// stateless and records nothing.
	var store *db.DB
	if cfg.DB.DSN != "" {
		store, err = db.New(cfg.DB.DSN, logger)
		if err != nil {
			logger.Errorf("Failed to connect to database: %v", err)
			log.Fatalf("Database connection failed: %v", err)
		}
		defer store.Close()
	} else {
		logger.Infof("No DB_DSN configured, delivery records disabled")
	}

	// Window hub doubles as notification surface and window registry
	hub := windows.NewHub(logger)

	// Wire the push pipeline
	pol := policy.New(cfg)
	pres := presenter.New(payload.New(), pol, hub, store, logger, cfg)
	if mirror := providers.NewTelegram(cfg, logger); mirror != nil {
		pres.SetMirror(mirror)
		logger.Infof("Telegram mirror enabled for critical notifications")
	}
	router := actions.New(hub, backend.New(cfg.Backend.BaseURL), logger, cfg)

	// Start the agent; install and activate run before any push is handled
	a := agent.New(pres, router, hub, hub, store, logger, cfg)
	hub.SetSink(a.Dispatch)
	var wg sync.WaitGroup
	a.Start(&wg)

	// Start Kafka consumer
	ctx, cancel := context.WithCancel(context.Background())
	consumer := kafka.NewConsumer(cfg, a, logger)
	consumer.Start(ctx, &wg)

	// Start API server
	r := api.NewRouter(api.NewHandler(a, hub, store, logger), logger, cfg)
	go func() {
		logger.Infof("API started on %s", cfg.API.Port)
		if err := r.Run(cfg.API.Port); err != nil {
			logger.Errorf("API run failed: %v", err)
		}
	}()

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	logger.Infof("Shutting down...")
	cancel()
	consumer.Close()
	a.Stop()
	wg.Wait()
	logger.Infof("Agent stopped")
}
