package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/mr1hm/go-disaster-feed/internal/models"
)

const EONETDefaultURL = "https://eonet.gsfc.nasa.gov/api/v3/events"

type eonetResponse struct {
	Events []eonetEvent `json:"events"`
}

type eonetEvent struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Link        string          `json:"link"`
	Geometry    []eonetGeometry `json:"geometry"`
}

type eonetGeometry struct {
	Date        string          `json:"date"`
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"` // [lon, lat] for Point, nested rings for Polygon
}

// point returns the geometry's position, using the first vertex of a polygon.
func (g eonetGeometry) point() (*models.Coordinates, bool) {
	var pt []float64
	switch g.Type {
	case "Point":
		if err := json.Unmarshal(g.Coordinates, &pt); err != nil {
			return nil, false
		}
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil || len(rings) == 0 || len(rings[0]) == 0 {
			return nil, false
		}
		pt = rings[0][0]
	default:
		return nil, false
	}
	if len(pt) < 2 {
		return nil, false
	}
	return &models.Coordinates{Longitude: pt[0], Latitude: pt[1]}, true
}

// EONET reads one category of open natural events from NASA EONET.
type EONET struct {
	base
	category string
	limit    int
	kind     models.Kind
	decorate func(*models.DisasterRecord)
}

// NewEONETVolcanoes tracks open volcano events; every one is high severity.
func NewEONETVolcanoes(opts Options) *EONET {
	return &EONET{
		base:     newBase("eonet-volcanoes", EONETDefaultURL, opts),
		category: "volcanoes",
		limit:    10,
		kind:     models.KindVolcano,
		decorate: func(r *models.DisasterRecord) {
			r.Severity = models.SeverityHigh
			r.AlertLevel = models.Int(3)
			if r.Description == "" {
				r.Description = "Volcanic activity detected"
			}
		},
	}
}

// NewEONETStorms tracks open storm systems. EONET carries no intensity, so
// records get a nominal category 2 at 120 km/h.
func NewEONETStorms(opts Options) *EONET {
	return &EONET{
		base:     newBase("eonet-storms", EONETDefaultURL, opts),
		category: "storms",
		limit:    8,
		kind:     models.KindCyclone,
		decorate: func(r *models.DisasterRecord) {
			r.Severity = models.SeverityHigh
			r.Category = models.Int(2)
			r.WindSpeed = models.Float(120)
			if r.Description == "" {
				r.Description = "Storm system detected"
			}
		},
	}
}

func (s *EONET) Kinds() []models.Kind { return []models.Kind{s.kind} }

func (s *EONET) endpoint() (string, error) {
	u, err := url.Parse(s.url)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("category", s.category)
	q.Set("status", "open")
	q.Set("limit", strconv.Itoa(s.limit))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *EONET) Fetch(ctx context.Context) ([]models.DisasterRecord, error) {
	endpoint, err := s.endpoint()
	if err != nil {
		return nil, &FetchError{Source: s.name, Stage: StageTransport, Err: fmt.Errorf("invalid url: %w", err)}
	}

	var data eonetResponse
	if err := s.getJSON(ctx, endpoint, &data); err != nil {
		return nil, err
	}

	events := data.Events
	if len(events) > s.limit {
		events = events[:s.limit]
	}

	records := make([]models.DisasterRecord, 0, len(events))
	for _, e := range events {
		r := models.DisasterRecord{
			ID:          "eonet_" + e.ID,
			Kind:        s.kind,
			Location:    e.Title,
			Description: e.Description,
			SourceName:  "NASA EONET",
			URL:         e.Link,
		}

		// Geometry is chronological; the last entry is the current position.
		observed := ""
		if n := len(e.Geometry); n > 0 {
			latest := e.Geometry[n-1]
			observed = latest.Date
			if c, ok := latest.point(); ok {
				r.Coordinates = c
			}
		}
		r.ObservedAt = parseTimeOrNow(observed)

		s.decorate(&r)
		s.tagPoint(&r)
		records = append(records, r)
	}

	return records, nil
}

func (s *EONET) Fallback() []models.DisasterRecord {
	now := time.Now()
	if s.kind == models.KindVolcano {
		return s.build(fallbackVolcanoes(now))
	}
	return s.build(fallbackCyclones(now))
}
