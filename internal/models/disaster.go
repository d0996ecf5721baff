package models

import "time"

type Kind string

const (
	KindEarthquake   Kind = "earthquake"
	KindWeatherAlert Kind = "weather"
	KindWildfire     Kind = "wildfire"
	KindTsunami      Kind = "tsunami"
	KindVolcano      Kind = "volcano"
	KindFlood        Kind = "flood"
	KindCyclone      Kind = "cyclone"
	KindDrought      Kind = "drought"
	KindLandslide    Kind = "landslide"
)

// AllKinds lists every kind in display order. Stats and snapshots iterate it
// so output order never depends on map iteration.
var AllKinds = []Kind{
	KindEarthquake,
	KindWeatherAlert,
	KindWildfire,
	KindTsunami,
	KindVolcano,
	KindFlood,
	KindCyclone,
	KindDrought,
	KindLandslide,
}

func (k Kind) Valid() bool {
	for _, known := range AllKinds {
		if k == known {
			return true
		}
	}
	return false
}

func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	switch s {
	case "earthquakes":
		k = KindEarthquake
	case "weatheralert", "weather_alert", "weatherAlerts":
		k = KindWeatherAlert
	}
	return k, k.Valid()
}

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func (s Severity) Valid() bool {
	return s == SeverityLow || s == SeverityMedium || s == SeverityHigh
}

// Rank orders severities so the highest one seen can be tracked.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DisasterRecord is the unified shape every source adapter produces.
type DisasterRecord struct {
	ID          string       `json:"id"`
	Kind        Kind         `json:"kind"`
	Location    string       `json:"location"`
	Country     string       `json:"country"`
	State       string       `json:"state,omitempty"` // only set when Country == "India"
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Severity    Severity     `json:"severity"`
	Description string       `json:"description,omitempty"`
	ObservedAt  time.Time    `json:"observedAt"`
	SourceName  string       `json:"sourceName"`
	URL         string       `json:"url,omitempty"`

	// Kind-specific measurements.
	Magnitude  *float64 `json:"magnitude,omitempty"`  // earthquake, tsunami
	Depth      *float64 `json:"depth,omitempty"`      // earthquake, km
	Confidence *float64 `json:"confidence,omitempty"` // wildfire, percent
	Brightness *float64 `json:"brightness,omitempty"` // wildfire, kelvin
	WindSpeed  *float64 `json:"windSpeed,omitempty"`  // cyclone, km/h
	Category   *int     `json:"category,omitempty"`   // cyclone
	WaveHeight *float64 `json:"waveHeight,omitempty"` // tsunami, metres
	AlertLevel *int     `json:"alertLevel,omitempty"` // volcano
}

func Float(v float64) *float64 { return &v }

func Int(v int) *int { return &v }
