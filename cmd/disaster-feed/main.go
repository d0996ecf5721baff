package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/mr1hm/go-disaster-feed/internal/aggregate"
	"github.com/mr1hm/go-disaster-feed/internal/api"
	"github.com/mr1hm/go-disaster-feed/internal/config"
	"github.com/mr1hm/go-disaster-feed/internal/geo"
	"github.com/mr1hm/go-disaster-feed/internal/ingestion"
	"github.com/mr1hm/go-disaster-feed/internal/logging"
	"github.com/mr1hm/go-disaster-feed/internal/observability"
	"github.com/mr1hm/go-disaster-feed/internal/provider"
	"github.com/mr1hm/go-disaster-feed/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	tagger := geo.NewTagger(geo.DefaultTables())
	sources := ingestion.NewSources(cfg.Sources, ingestion.Options{
		Client: &http.Client{Timeout: cfg.Refresh.HTTPTimeout},
		Tagger: tagger,
	})

	opts := provider.Options{
		Interval: cfg.Refresh.Interval,
		Workers:  cfg.Refresh.Workers,
		Metrics:  observability.NewMetrics(),
	}
	if cfg.Store.Path != "" {
		store, err := repository.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			logging.Fatalf("Failed to initialize snapshot store: %v", err)
		}
		defer store.Close()
		opts.Store = store
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := provider.New(sources, aggregate.New(tagger), opts)
	if err := p.Start(ctx); err != nil {
		logging.Fatalf("Failed to start provider: %v", err)
	}

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(cfg.Server.RateLimitRPS))

	handler := api.NewHandler(p)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	cancel()
	p.Stop()

	slog.Info("shutdown complete")
}
