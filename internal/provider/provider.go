// Package provider keeps the latest disaster snapshot in memory and
// refreshes it on a timer or on demand.
package provider

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mr1hm/go-disaster-feed/internal/aggregate"
	"github.com/mr1hm/go-disaster-feed/internal/ingestion"
	"github.com/mr1hm/go-disaster-feed/internal/models"
	"github.com/mr1hm/go-disaster-feed/internal/observability"
	"github.com/mr1hm/go-disaster-feed/internal/repository"
	"github.com/mr1hm/go-disaster-feed/internal/worker"
)

const (
	DefaultInterval      = 60 * time.Second
	DefaultQuakeInterval = 10 * time.Minute

	triggerTimer  = "timer"
	triggerManual = "manual"
)

var (
	ErrAlreadyStarted = errors.New("provider already started")
	ErrStopped        = errors.New("provider stopped")
)

type Options struct {
	Interval time.Duration
	// Workers bounds concurrent source fetches. Zero means one per source.
	Workers int
	Clock   clockwork.Clock
	// Store is optional. When set, every cycle's snapshot is saved and the
	// last one is served while the first cycle runs.
	Store   repository.SnapshotStore
	Metrics *observability.Metrics
	// OnSnapshot, when set, is called after every completed cycle.
	OnSnapshot func(models.Snapshot)
}

type Provider struct {
	sources    []ingestion.Source
	aggregator *aggregate.Aggregator
	interval   time.Duration
	workers    int
	clock      clockwork.Clock
	store      repository.SnapshotStore
	metrics    *observability.Metrics
	onSnapshot func(models.Snapshot)

	mu   sync.RWMutex
	snap models.Snapshot

	// cycleMu serializes cycles so snapshot writes never interleave.
	cycleMu sync.Mutex

	ready   atomic.Bool
	started atomic.Bool
	cancel  context.CancelFunc

	// lifeMu orders wg.Add against Stop so nothing is added once stopped.
	lifeMu  sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

func New(sources []ingestion.Source, aggregator *aggregate.Aggregator, opts Options) *Provider {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Workers <= 0 {
		opts.Workers = len(sources)
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.NewUnregistered()
	}

	return &Provider{
		sources:    sources,
		aggregator: aggregator,
		interval:   opts.Interval,
		workers:    opts.Workers,
		clock:      opts.Clock,
		store:      opts.Store,
		metrics:    opts.Metrics,
		onSnapshot: opts.OnSnapshot,
		snap:       emptySnapshot(models.StateIdle),
	}
}

// Start runs one cycle immediately and then one per interval until Stop is
// called or ctx is cancelled. It returns once the timer is armed.
func (p *Provider) Start(ctx context.Context) error {
	if !p.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	if !p.begin() {
		return ErrStopped
	}

	p.restore(ctx)

	ctx, p.cancel = context.WithCancel(ctx)
	ticker := p.clock.NewTicker(p.interval)
	p.metrics.ProviderRunning.Set(1)

	go p.run(ctx, ticker)

	slog.Info("provider started", "sources", len(p.sources), "interval", p.interval)
	return nil
}

func (p *Provider) run(ctx context.Context, ticker clockwork.Ticker) {
	defer p.wg.Done()
	defer ticker.Stop()

	// Initial cycle
	p.cycle(ctx, triggerTimer)

	for {
		select {
		case <-ctx.Done():
			slog.Info("provider loop shutting down")
			return
		case <-ticker.Chan():
			// A tick can race with Stop; never start a cycle once stopped.
			if ctx.Err() != nil {
				return
			}
			p.cycle(ctx, triggerTimer)
		}
	}
}

// Stop cancels the timer and waits for the loop and any refreshes already
// under way. Once Stop is called no new cycle starts.
func (p *Provider) Stop() {
	p.lifeMu.Lock()
	p.stopped = true
	p.lifeMu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	p.metrics.ProviderRunning.Set(0)
	slog.Info("provider stopped")
}

// Refresh runs one cycle outside the timer schedule and returns the
// snapshot it produced. The timer is not reset. After Stop it returns the
// current snapshot without fetching.
func (p *Provider) Refresh(ctx context.Context) models.Snapshot {
	if !p.begin() {
		return p.Snapshot()
	}
	defer p.wg.Done()
	return p.cycle(ctx, triggerManual)
}

// TriggerRefresh starts Refresh in the background. Stop waits for it; after
// Stop it does nothing.
func (p *Provider) TriggerRefresh() {
	if !p.begin() {
		slog.Debug("refresh ignored, provider stopped")
		return
	}
	go func() {
		defer p.wg.Done()
		p.cycle(context.Background(), triggerManual)
	}()
}

// Snapshot returns the current snapshot. Callers must treat it as read-only.
func (p *Provider) Snapshot() models.Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}

// begin registers one unit of work with Stop. It reports false once the
// provider has been stopped.
func (p *Provider) begin() bool {
	p.lifeMu.Lock()
	defer p.lifeMu.Unlock()
	if p.stopped {
		return false
	}
	p.wg.Add(1)
	return true
}

// CheckReadiness returns nil once a snapshot is available, either from a
// completed cycle or from the store.
func (p *Provider) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no snapshot available yet")
	}
	return nil
}

// restore serves the stored snapshot as stale until the first cycle lands.
func (p *Provider) restore(ctx context.Context) {
	if p.store == nil {
		p.setLoading(true)
		return
	}

	snap, found, err := p.store.Load(ctx)
	if err != nil {
		slog.Warn("failed to load stored snapshot", "error", err)
	}
	if !found || err != nil {
		p.setLoading(true)
		return
	}

	snap.State = models.StateStaleReady
	snap.Loading = true
	p.replace(snap)
	p.ready.Store(true)
	slog.Info("restored stored snapshot", "total", snap.Total, "last_updated", snap.LastUpdated)
}

func (p *Provider) cycle(ctx context.Context, trigger string) models.Snapshot {
	p.cycleMu.Lock()
	defer p.cycleMu.Unlock()

	// A started cycle always completes.
	ctx = context.WithoutCancel(ctx)
	start := p.clock.Now()
	p.setLoading(true)

	results := p.collectAll(ctx)
	snap := p.build(results)
	snap.LastUpdated = p.clock.Now()

	p.replace(snap)
	p.ready.Store(true)

	if p.store != nil {
		if err := p.store.Save(ctx, snap); err != nil {
			slog.Warn("failed to save snapshot", "error", err)
		}
	}

	p.record(trigger, snap, results, p.clock.Since(start))
	slog.Info("refresh cycle complete",
		"trigger", trigger,
		"state", snap.State,
		"count", snap.Total,
		"duration", p.clock.Since(start),
	)

	if p.onSnapshot != nil {
		p.onSnapshot(snap)
	}
	return snap
}

// collectAll fans out one job per source and waits for all of them.
func (p *Provider) collectAll(ctx context.Context) []ingestion.Result {
	results := make([]ingestion.Result, len(p.sources))
	if len(p.sources) == 0 {
		return results
	}

	pool := worker.NewPool(p.workers, len(p.sources), func(ctx context.Context, i int) error {
		results[i] = ingestion.Collect(ctx, p.sources[i])
		return results[i].Err
	})
	pool.Start(ctx)
	for i := range p.sources {
		pool.Submit(i)
	}
	pool.Stop()

	return results
}

// build merges source results in source order and aggregates them. When
// every source fell back the result is the default snapshot, marked stale.
func (p *Provider) build(results []ingestion.Result) models.Snapshot {
	var (
		records  []models.DisasterRecord
		statuses = make([]models.SourceStatus, 0, len(results))
		seen     = make(map[string]struct{})
		failed   = 0
	)

	for i, res := range results {
		status := models.SourceStatus{
			Name:         res.Source,
			Kinds:        p.sources[i].Kinds(),
			UsedFallback: res.UsedFallback,
			DurationMs:   res.Duration.Milliseconds(),
		}
		if res.Err != nil {
			failed++
			status.Error = res.Err.Error()
			status.Stage = string(res.Stage())
		}

		for _, r := range res.Records {
			if _, ok := seen[r.ID]; ok {
				continue
			}
			seen[r.ID] = struct{}{}
			records = append(records, r)
			status.Records++
		}
		statuses = append(statuses, status)
	}

	snap := p.aggregator.Aggregate(records)
	snap.Sources = statuses
	snap.State = models.StateReady
	if len(results) > 0 && failed == len(results) {
		snap.State = models.StateStaleReady
		slog.Warn("all sources failed, serving default snapshot", "sources", len(results))
	}
	return snap
}

func (p *Provider) record(trigger string, snap models.Snapshot, results []ingestion.Result, elapsed time.Duration) {
	outcome := "ready"
	if snap.State == models.StateStaleReady {
		outcome = "stale"
	}
	p.metrics.CyclesTotal.WithLabelValues(trigger, outcome).Inc()
	p.metrics.CycleDuration.Observe(elapsed.Seconds())
	p.metrics.LastCycleUnix.Set(float64(snap.LastUpdated.Unix()))

	for i, res := range results {
		fetch := "success"
		if res.UsedFallback {
			fetch = "fallback"
		}
		p.metrics.SourceFetches.WithLabelValues(res.Source, fetch).Inc()
		p.metrics.SourceDuration.WithLabelValues(res.Source).Observe(res.Duration.Seconds())
		p.metrics.SourceRecords.WithLabelValues(res.Source).Set(float64(snap.Sources[i].Records))
	}
	for _, k := range models.AllKinds {
		p.metrics.SnapshotRecords.WithLabelValues(string(k)).Set(float64(len(snap.RecordsByKind[k])))
	}
}

func (p *Provider) setLoading(loading bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.Loading = loading
	if loading && p.snap.State == models.StateIdle {
		p.snap.State = models.StateLoading
	}
}

func (p *Provider) replace(snap models.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap = snap
}

func emptySnapshot(state models.ProviderState) models.Snapshot {
	return models.Snapshot{
		RecordsByKind:  aggregate.PartitionByKind(nil),
		CountryStats:   []models.CountryStat{},
		ContinentStats: []models.ContinentStat{},
		India:          aggregate.ComputeIndiaData(nil, nil),
		TypeStats:      aggregate.ComputeTypeStats(nil),
		Severity:       aggregate.AnalyzeSeverity(nil),
		Sources:        []models.SourceStatus{},
		State:          state,
	}
}
