// Package ingestion holds one adapter per upstream disaster feed. Adapters
// map source-specific responses onto models.DisasterRecord; Collect decides
// when a failed fetch is replaced by the adapter's fallback list.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mr1hm/go-disaster-feed/internal/geo"
	"github.com/mr1hm/go-disaster-feed/internal/models"
)

type Source interface {
	Name() string
	Kinds() []models.Kind
	// Fetch performs a single request. It does not retry and does not fall back.
	Fetch(ctx context.Context) ([]models.DisasterRecord, error)
	// Fallback returns the hand-authored records served when Fetch fails.
	Fallback() []models.DisasterRecord
}

type Stage string

const (
	StageTransport Stage = "transport"
	StageStatus    Stage = "status"
	StageDecode    Stage = "decode"
	// StageEmpty marks a successful response that produced no records.
	StageEmpty Stage = "empty"
)

var ErrNoRecords = errors.New("no records")

type FetchError struct {
	Source     string
	Stage      Stage
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Stage == StageStatus {
		return fmt.Sprintf("%s: unexpected status code %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Stage, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Result is the outcome of collecting one source for one cycle.
type Result struct {
	Source       string
	Records      []models.DisasterRecord
	Err          error
	UsedFallback bool
	Duration     time.Duration
}

// Stage reports the failing stage of Err, or "" when the fetch succeeded.
func (r Result) Stage() Stage {
	var fe *FetchError
	if errors.As(r.Err, &fe) {
		return fe.Stage
	}
	if r.Err != nil {
		return StageTransport
	}
	return ""
}

// Collect fetches src once and substitutes its fallback list on any error
// or when the source returned nothing. It drops
// records whose id was already seen in this result.
func Collect(ctx context.Context, src Source) Result {
	start := time.Now()
	res := Result{Source: src.Name()}

	records, err := src.Fetch(ctx)
	if err == nil && len(records) == 0 {
		err = &FetchError{Source: src.Name(), Stage: StageEmpty, Err: ErrNoRecords}
	}
	if err != nil {
		slog.Warn("source fetch failed, serving fallback", "source", src.Name(), "error", err)
		res.Err = err
		res.UsedFallback = true
		records = src.Fallback()
	}

	res.Records = normalize(dedupe(records))
	res.Duration = time.Since(start)
	return res
}

func dedupe(records []models.DisasterRecord) []models.DisasterRecord {
	seen := make(map[string]struct{}, len(records))
	out := records[:0:0]
	for _, r := range records {
		if _, ok := seen[r.ID]; ok {
			slog.Debug("dropping duplicate record", "id", r.ID, "source", r.SourceName)
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// normalize enforces the record invariants adapters are expected to uphold
// already: a valid severity and a state only for Indian records.
func normalize(records []models.DisasterRecord) []models.DisasterRecord {
	for i := range records {
		if !records[i].Severity.Valid() {
			records[i].Severity = models.SeverityMedium
		}
		if records[i].Country != geo.India {
			records[i].State = ""
		}
		if records[i].Country == "" {
			records[i].Country = geo.Unknown
		}
	}
	return records
}
