package ingestion

import (
	"context"
	"time"

	"github.com/mr1hm/go-disaster-feed/internal/models"
)

const USGSDefaultURL = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_day.geojson"

// Quakes at or below this magnitude are dropped.
const usgsMinMagnitude = 2.5

type usgsResponse struct {
	Features []usgsFeature `json:"features"`
}

type usgsFeature struct {
	ID         string         `json:"id"`
	Properties usgsProperties `json:"properties"`
	Geometry   *usgsGeometry  `json:"geometry"`
}

type usgsProperties struct {
	Mag   *float64 `json:"mag"`
	Place string   `json:"place"`
	Time  int64    `json:"time"` // unix millis
	Title string   `json:"title"`
	URL   string   `json:"url"`
}

type usgsGeometry struct {
	Coordinates []float64 `json:"coordinates"` // [lon, lat, depth]
}

type USGS struct {
	base
}

func NewUSGS(opts Options) *USGS {
	return &USGS{base: newBase("usgs", USGSDefaultURL, opts)}
}

func (s *USGS) Kinds() []models.Kind { return []models.Kind{models.KindEarthquake} }

func (s *USGS) Fetch(ctx context.Context) ([]models.DisasterRecord, error) {
	var data usgsResponse
	if err := s.getJSON(ctx, s.url, &data); err != nil {
		return nil, err
	}

	records := make([]models.DisasterRecord, 0, len(data.Features))
	for _, f := range data.Features {
		if f.Properties.Mag == nil || *f.Properties.Mag <= usgsMinMagnitude {
			continue
		}
		mag := *f.Properties.Mag

		r := models.DisasterRecord{
			ID:          "usgs_" + f.ID,
			Kind:        models.KindEarthquake,
			Location:    f.Properties.Place,
			Severity:    quakeSeverity(mag),
			Description: f.Properties.Title,
			ObservedAt:  time.UnixMilli(f.Properties.Time).UTC(),
			SourceName:  "USGS",
			URL:         f.Properties.URL,
			Magnitude:   models.Float(mag),
		}
		if f.Geometry != nil && len(f.Geometry.Coordinates) >= 2 {
			r.Coordinates = &models.Coordinates{
				Longitude: f.Geometry.Coordinates[0],
				Latitude:  f.Geometry.Coordinates[1],
			}
			if len(f.Geometry.Coordinates) >= 3 {
				r.Depth = models.Float(f.Geometry.Coordinates[2])
			}
		}
		s.tag(&r)
		records = append(records, r)
	}

	return records, nil
}

func (s *USGS) Fallback() []models.DisasterRecord {
	return s.build(fallbackEarthquakes(time.Now()))
}

func quakeSeverity(mag float64) models.Severity {
	switch {
	case mag > 6:
		return models.SeverityHigh
	case mag > 4:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}
