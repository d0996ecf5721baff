package models

import "time"

type ProviderState string

const (
	StateIdle       ProviderState = "idle"
	StateLoading    ProviderState = "loading"
	StateReady      ProviderState = "ready"
	StateStaleReady ProviderState = "stale_ready"
)

// SourceStatus records how one source fared in the cycle that produced a
// snapshot.
type SourceStatus struct {
	Name         string `json:"name"`
	Kinds        []Kind `json:"kinds"`
	Records      int    `json:"records"`
	UsedFallback bool   `json:"usedFallback"`
	Error        string `json:"error,omitempty"`
	Stage        string `json:"stage,omitempty"`
	DurationMs   int64  `json:"durationMs"`
}

// Snapshot is the complete, read-only view produced by one refresh cycle.
// It is replaced wholesale, never patched.
type Snapshot struct {
	RecordsByKind  map[Kind][]DisasterRecord `json:"recordsByKind"`
	Total          int                       `json:"total"`
	CountryStats   []CountryStat             `json:"countryStats"`
	ContinentStats []ContinentStat           `json:"continentStats"`
	India          IndiaData                 `json:"india"`
	TypeStats      []TypeStat                `json:"typeStats"`
	Severity       SeverityAnalysis          `json:"severity"`

	Sources     []SourceStatus `json:"sources"`
	Loading     bool           `json:"loading"`
	LastUpdated time.Time      `json:"lastUpdated"`
	State       ProviderState  `json:"state"`
}

// Records flattens RecordsByKind in AllKinds order.
func (s Snapshot) Records() []DisasterRecord {
	out := make([]DisasterRecord, 0, s.Total)
	for _, k := range AllKinds {
		out = append(out, s.RecordsByKind[k]...)
	}
	return out
}
