package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mr1hm/go-disaster-feed/internal/aggregate"
	"github.com/mr1hm/go-disaster-feed/internal/config"
	"github.com/mr1hm/go-disaster-feed/internal/geo"
	"github.com/mr1hm/go-disaster-feed/internal/ingestion"
	"github.com/mr1hm/go-disaster-feed/internal/logging"
	"github.com/mr1hm/go-disaster-feed/internal/models"
	"github.com/mr1hm/go-disaster-feed/internal/observability"
	"github.com/mr1hm/go-disaster-feed/internal/provider"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("Earthquake feed starting", "interval", cfg.Refresh.QuakeInterval)

	tagger := geo.NewTagger(geo.DefaultTables())
	sources := ingestion.NewQuakeSources(cfg.Sources, ingestion.Options{
		Client: &http.Client{Timeout: cfg.Refresh.HTTPTimeout},
		Tagger: tagger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := provider.New(sources, aggregate.New(tagger), provider.Options{
		Interval:   cfg.Refresh.QuakeInterval,
		Metrics:    observability.NewUnregistered(),
		OnSnapshot: logSnapshot,
	})
	if err := p.Start(ctx); err != nil {
		logging.Fatalf("Failed to start provider: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")
	cancel()
	p.Stop()
	slog.Info("shutdown complete")
}

func logSnapshot(s models.Snapshot) {
	quakes := s.RecordsByKind[models.KindEarthquake]
	slog.Info("earthquake snapshot",
		"state", s.State,
		"count", len(quakes),
		"high", s.Severity.ByKind[models.KindEarthquake].High,
		"india", len(s.India.RecordsByKind[models.KindEarthquake]),
		"last_updated", s.LastUpdated,
	)
	for _, q := range quakes {
		if q.Severity != models.SeverityHigh {
			continue
		}
		slog.Info("strong earthquake", "id", q.ID, "location", q.Location, "country", q.Country, "magnitude", q.Magnitude)
	}
}
