package ingestion

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/mr1hm/go-disaster-feed/internal/models"
)

const NOAADefaultURL = "https://api.weather.gov/alerts/active"

const noaaLimit = 10

type noaaResponse struct {
	Features []noaaFeature `json:"features"`
}

type noaaFeature struct {
	ID         string         `json:"id"`
	Properties noaaProperties `json:"properties"`
}

type noaaProperties struct {
	ID       string `json:"id"`
	AreaDesc string `json:"areaDesc"`
	Severity string `json:"severity"` // Extreme, Severe, Moderate, Minor, Unknown
	Event    string `json:"event"`
	Headline string `json:"headline"`
	Sent     string `json:"sent"`
}

// NOAA reads active US weather alerts. The feed only covers the United
// States, so every record is tagged "USA" without consulting the tagger.
type NOAA struct {
	base
}

func NewNOAA(opts Options) *NOAA {
	return &NOAA{base: newBase("noaa", NOAADefaultURL, opts)}
}

func (s *NOAA) Kinds() []models.Kind { return []models.Kind{models.KindWeatherAlert} }

func (s *NOAA) Fetch(ctx context.Context) ([]models.DisasterRecord, error) {
	body, err := s.get(ctx, s.url, "application/geo+json")
	if err != nil {
		return nil, err
	}
	var data noaaResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, s.decodeErr(err)
	}

	features := data.Features
	if len(features) > noaaLimit {
		features = features[:noaaLimit]
	}

	records := make([]models.DisasterRecord, 0, len(features))
	for _, f := range features {
		id := f.Properties.ID
		if id == "" {
			id = f.ID
		}
		location := f.Properties.AreaDesc
		if location == "" {
			location = "Unknown Location"
		}
		description := f.Properties.Headline
		if description == "" {
			description = f.Properties.Event
		}
		observed, err := time.Parse(time.RFC3339, f.Properties.Sent)
		if err != nil {
			observed = time.Now().UTC()
		}

		records = append(records, models.DisasterRecord{
			ID:          "noaa_" + id,
			Kind:        models.KindWeatherAlert,
			Location:    location,
			Country:     "USA",
			Severity:    noaaSeverity(f.Properties.Severity),
			Description: description,
			ObservedAt:  observed,
			SourceName:  "NOAA",
			URL:         f.ID,
		})
	}

	return records, nil
}

func (s *NOAA) Fallback() []models.DisasterRecord {
	return s.build(fallbackUSWeatherAlerts(time.Now()))
}

func noaaSeverity(s string) models.Severity {
	switch strings.ToLower(s) {
	case "extreme", "severe":
		return models.SeverityHigh
	case "minor":
		return models.SeverityLow
	default:
		return models.SeverityMedium
	}
}
