package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mr1hm/go-disaster-feed/internal/models"
)

const TsunamiDefaultURL = "https://www.tsunami.gov/events/json/PAAQ/PAAQ.json"

const tsunamiLimit = 5

type tsunamiEvent struct {
	EventID    flexString `json:"eventId"`
	Location   string     `json:"location"`
	Magnitude  flexFloat  `json:"magnitude"`
	Time       string     `json:"time"`
	WaveHeight flexFloat  `json:"waveHeight"`
	Latitude   flexFloat  `json:"latitude"`
	Longitude  flexFloat  `json:"longitude"`
}

// Tsunami reads the Pacific/Alaska warning center event list.
type Tsunami struct {
	base
	newID func() string
}

func NewTsunami(opts Options) *Tsunami {
	return &Tsunami{
		base:  newBase("tsunami", TsunamiDefaultURL, opts),
		newID: uuid.NewString,
	}
}

func (s *Tsunami) Kinds() []models.Kind { return []models.Kind{models.KindTsunami} }

func (s *Tsunami) Fetch(ctx context.Context) ([]models.DisasterRecord, error) {
	var events []tsunamiEvent
	if err := s.getJSON(ctx, s.url, &events); err != nil {
		return nil, err
	}
	if len(events) > tsunamiLimit {
		events = events[:tsunamiLimit]
	}

	records := make([]models.DisasterRecord, 0, len(events))
	for _, e := range events {
		id := string(e.EventID)
		if id == "" {
			id = s.newID()
		}
		location := e.Location
		if location == "" {
			location = "Pacific Ocean"
		}

		r := models.DisasterRecord{
			ID:          "tsunami_" + id,
			Kind:        models.KindTsunami,
			Location:    location,
			Severity:    tsunamiSeverity(e.Magnitude.Value),
			Description: "Tsunami warning",
			ObservedAt:  parseTimeOrNow(e.Time),
			SourceName:  "NOAA Tsunami Warning Center",
			Magnitude:   e.Magnitude.ptr(),
			WaveHeight:  e.WaveHeight.ptr(),
		}
		if e.Magnitude.Valid {
			r.Description = fmt.Sprintf("Tsunami warning - Magnitude %.1f", e.Magnitude.Value)
		}
		if e.Latitude.Valid && e.Longitude.Valid {
			r.Coordinates = &models.Coordinates{Latitude: e.Latitude.Value, Longitude: e.Longitude.Value}
		}
		s.tag(&r)
		records = append(records, r)
	}

	return records, nil
}

func (s *Tsunami) Fallback() []models.DisasterRecord {
	return s.build(fallbackTsunamis(time.Now()))
}

func tsunamiSeverity(mag float64) models.Severity {
	if mag > 7.5 {
		return models.SeverityHigh
	}
	return models.SeverityMedium
}

// parseTimeOrNow accepts RFC 3339 with or without a zone, and falls back
// to the current time.
func parseTimeOrNow(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}
