package api

import (
	"github.com/mr1hm/go-disaster-feed/internal/models"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// toGeoJSON skips records without coordinates.
func toGeoJSON(records []models.DisasterRecord) FeatureCollection {
	features := make([]Feature, 0, len(records))

	for _, r := range records {
		if r.Coordinates == nil {
			continue
		}
		props := map[string]any{
			"id":          r.ID,
			"kind":        r.Kind,
			"location":    r.Location,
			"country":     r.Country,
			"severity":    r.Severity,
			"description": r.Description,
			"source":      r.SourceName,
			"observedAt":  r.ObservedAt,
		}
		if r.State != "" {
			props["state"] = r.State
		}
		if r.URL != "" {
			props["url"] = r.URL
		}
		if r.Magnitude != nil {
			props["magnitude"] = *r.Magnitude
		}

		features = append(features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{r.Coordinates.Longitude, r.Coordinates.Latitude},
			},
			Properties: props,
		})
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
