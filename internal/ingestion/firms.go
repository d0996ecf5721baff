package ingestion

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mr1hm/go-disaster-feed/internal/models"
)

const (
	FIRMSDefaultURL = "https://firms.modaps.eosdis.nasa.gov/data/active_fire/modis-c6.1/csv/MODIS_C6_1_Global_24h.csv"
	// FIRMSAreaURL is the keyed area API; the MAP key fills the placeholder.
	FIRMSAreaURL = "https://firms.modaps.eosdis.nasa.gov/api/area/csv/%s/MODIS_NRT/world/1"
)

// The global file carries tens of thousands of detections; only the most
// confident ones are kept.
const (
	firmsLimit         = 50
	firmsMinConfidence = 50
)

var errFIRMSHeader = errors.New("missing latitude/longitude/confidence columns")

// FIRMS reads NASA active fire detections from the MODIS CSV product.
type FIRMS struct {
	base
	limit int
}

// NewFIRMS builds the adapter. When mapKey is set and opts.URL is empty the
// keyed area API is used instead of the public 24h file.
func NewFIRMS(opts Options, mapKey string) *FIRMS {
	if opts.URL == "" && mapKey != "" {
		opts.URL = fmt.Sprintf(FIRMSAreaURL, mapKey)
	}
	return &FIRMS{base: newBase("firms", FIRMSDefaultURL, opts), limit: firmsLimit}
}

func (s *FIRMS) Kinds() []models.Kind { return []models.Kind{models.KindWildfire} }

func (s *FIRMS) Fetch(ctx context.Context) ([]models.DisasterRecord, error) {
	body, err := s.get(ctx, s.url, "text/csv")
	if err != nil {
		return nil, err
	}

	records, err := s.parse(bytes.NewReader(body))
	if err != nil {
		return nil, s.decodeErr(err)
	}
	return records, nil
}

func (s *FIRMS) parse(r io.Reader) ([]models.DisasterRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"latitude", "longitude", "confidence"} {
		if _, ok := col[required]; !ok {
			return nil, errFIRMSHeader
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []models.DisasterRecord
	for len(records) < s.limit {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading row: %w", err)
		}

		lat, errLat := strconv.ParseFloat(field(row, "latitude"), 64)
		lon, errLon := strconv.ParseFloat(field(row, "longitude"), 64)
		if errLat != nil || errLon != nil {
			continue
		}
		confidence, ok := firmsConfidence(field(row, "confidence"))
		if !ok || confidence < firmsMinConfidence {
			continue
		}

		date, clock := field(row, "acq_date"), field(row, "acq_time")
		observed := firmsTime(date, clock)

		rec := models.DisasterRecord{
			ID:          fmt.Sprintf("firms_%.4f_%.4f_%s_%s", lat, lon, date, clock),
			Kind:        models.KindWildfire,
			Location:    fmt.Sprintf("%.3f, %.3f", lat, lon),
			Coordinates: &models.Coordinates{Latitude: lat, Longitude: lon},
			Severity:    fireSeverity(confidence),
			Description: "Active fire detected by " + orDefault(field(row, "satellite"), "MODIS"),
			ObservedAt:  observed,
			SourceName:  "NASA FIRMS",
			Confidence:  models.Float(confidence),
		}
		if b, err := strconv.ParseFloat(field(row, "brightness"), 64); err == nil {
			rec.Brightness = models.Float(b)
		}
		s.tagPoint(&rec)
		records = append(records, rec)
	}

	return records, nil
}

func (s *FIRMS) Fallback() []models.DisasterRecord {
	return s.build(fallbackWildfires(time.Now()))
}

// firmsConfidence reads MODIS percentages and the VIIRS l/n/h classes.
func firmsConfidence(v string) (float64, bool) {
	switch strings.ToLower(v) {
	case "l", "low":
		return 30, true
	case "n", "nominal":
		return 60, true
	case "h", "high":
		return 90, true
	}
	f, err := strconv.ParseFloat(v, 64)
	return f, err == nil
}

func firmsTime(date, clock string) time.Time {
	for len(clock) < 4 {
		clock = "0" + clock
	}
	t, err := time.Parse("2006-01-02 1504", date+" "+clock)
	if err != nil {
		return time.Now().UTC()
	}
	return t
}

func fireSeverity(confidence float64) models.Severity {
	switch {
	case confidence >= 80:
		return models.SeverityHigh
	case confidence >= 50:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
