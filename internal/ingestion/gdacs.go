package ingestion

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"

	"github.com/mr1hm/go-disaster-feed/internal/geo"
	"github.com/mr1hm/go-disaster-feed/internal/models"
)

const GDACSDefaultURL = "https://www.gdacs.org/xml/rss.xml"

// GDACS reads the GDACS alert RSS feed. Earthquakes are skipped since USGS
// already covers them; other event types map onto their kinds.
type GDACS struct {
	base
	parser *gofeed.Parser
}

func NewGDACS(opts Options) *GDACS {
	return &GDACS{
		base:   newBase("gdacs", GDACSDefaultURL, opts),
		parser: gofeed.NewParser(),
	}
}

func (s *GDACS) Kinds() []models.Kind {
	return []models.Kind{models.KindCyclone, models.KindFlood, models.KindDrought, models.KindVolcano}
}

func (s *GDACS) Fetch(ctx context.Context) ([]models.DisasterRecord, error) {
	body, err := s.get(ctx, s.url, "application/rss+xml")
	if err != nil {
		return nil, err
	}

	feed, err := s.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, s.decodeErr(err)
	}

	records := make([]models.DisasterRecord, 0, len(feed.Items))
	for _, item := range feed.Items {
		kind, ok := gdacsKind(gdacsValue(item, "eventtype"))
		if !ok {
			continue
		}

		id := gdacsValue(item, "eventid")
		if id == "" {
			id = item.GUID
		}
		if id == "" {
			continue
		}

		r := models.DisasterRecord{
			ID:          "gdacs_" + strings.ToLower(gdacsValue(item, "eventtype")) + "_" + id,
			Kind:        kind,
			Location:    item.Title,
			Severity:    gdacsSeverity(gdacsValue(item, "alertlevel")),
			Description: item.Description,
			SourceName:  "GDACS",
			URL:         item.Link,
			ObservedAt:  time.Now().UTC(),
		}
		if item.PublishedParsed != nil {
			r.ObservedAt = item.PublishedParsed.UTC()
		}
		if lat, lon, ok := gdacsPoint(item); ok {
			r.Coordinates = &models.Coordinates{Latitude: lat, Longitude: lon}
		}

		if country := gdacsValue(item, "country"); country != "" {
			r.Country = s.tagger.CanonicalCountry(firstCountry(country))
			if r.Country == geo.India {
				r.State = s.tagger.ResolveIndianState(item.Title)
				if r.State == geo.Unknown {
					r.State = geo.Other
				}
				if r.State == geo.Other && r.Coordinates != nil {
					if st := s.tagger.ResolveIndianStateAt(r.Coordinates.Latitude, r.Coordinates.Longitude); st != geo.Other {
						r.State = st
					}
				}
			}
		} else {
			s.tagPoint(&r)
		}
		records = append(records, r)
	}

	return records, nil
}

func (s *GDACS) Fallback() []models.DisasterRecord {
	return s.build(fallbackGDACS(time.Now()))
}

func gdacsKind(eventType string) (models.Kind, bool) {
	switch strings.ToUpper(eventType) {
	case "TC":
		return models.KindCyclone, true
	case "FL":
		return models.KindFlood, true
	case "DR":
		return models.KindDrought, true
	case "VO":
		return models.KindVolcano, true
	default:
		return "", false
	}
}

func gdacsSeverity(level string) models.Severity {
	switch strings.ToLower(level) {
	case "red":
		return models.SeverityHigh
	case "orange":
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

func gdacsValue(item *gofeed.Item, name string) string {
	return extValue(item.Extensions, "gdacs", name)
}

func extValue(e ext.Extensions, prefix, name string) string {
	if e == nil {
		return ""
	}
	vals := e[prefix][name]
	if len(vals) == 0 {
		return ""
	}
	return strings.TrimSpace(vals[0].Value)
}

// gdacsPoint reads <geo:Point><geo:lat/><geo:long/></geo:Point>, then
// <georss:point>lat lon</georss:point>.
func gdacsPoint(item *gofeed.Item) (float64, float64, bool) {
	if pts := item.Extensions["geo"]["Point"]; len(pts) > 0 {
		lat, errLat := strconv.ParseFloat(childValue(pts[0], "lat"), 64)
		lon, errLon := strconv.ParseFloat(childValue(pts[0], "long"), 64)
		if errLat == nil && errLon == nil {
			return lat, lon, true
		}
	}
	if fields := strings.Fields(extValue(item.Extensions, "georss", "point")); len(fields) == 2 {
		lat, errLat := strconv.ParseFloat(fields[0], 64)
		lon, errLon := strconv.ParseFloat(fields[1], 64)
		if errLat == nil && errLon == nil {
			return lat, lon, true
		}
	}
	return 0, 0, false
}

func childValue(e ext.Extension, name string) string {
	if c := e.Children[name]; len(c) > 0 {
		return strings.TrimSpace(c[0].Value)
	}
	return ""
}

// GDACS lists every affected country comma separated.
func firstCountry(s string) string {
	if i := strings.IndexByte(s, ','); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
