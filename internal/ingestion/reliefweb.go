package ingestion

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/mr1hm/go-disaster-feed/internal/geo"
	"github.com/mr1hm/go-disaster-feed/internal/models"
)

const ReliefWebDefaultURL = "https://api.reliefweb.int/v1/disasters?appname=terraAlert&profile=list&preset=latest&slim=1"

type reliefWebResponse struct {
	Data []reliefWebDisaster `json:"data"`
}

type reliefWebDisaster struct {
	ID     flexString      `json:"id"`
	Fields reliefWebFields `json:"fields"`
}

type reliefWebFields struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Country []struct {
		Name string `json:"name"`
	} `json:"country"`
	Date struct {
		Created string `json:"created"`
	} `json:"date"`
}

// ReliefWeb reads recent disasters of a single ReliefWeb type.
type ReliefWeb struct {
	base
	typeName string
	limit    int
	kind     models.Kind
	severity models.Severity
	fallback func(time.Time) []models.DisasterRecord
}

func NewReliefWebFloods(opts Options) *ReliefWeb {
	return &ReliefWeb{
		base:     newBase("reliefweb-floods", ReliefWebDefaultURL, opts),
		typeName: "Flood",
		limit:    8,
		kind:     models.KindFlood,
		severity: models.SeverityMedium,
		fallback: fallbackFloods,
	}
}

func NewReliefWebDroughts(opts Options) *ReliefWeb {
	return &ReliefWeb{
		base:     newBase("reliefweb-droughts", ReliefWebDefaultURL, opts),
		typeName: "Drought",
		limit:    5,
		kind:     models.KindDrought,
		severity: models.SeverityMedium,
		fallback: fallbackDroughts,
	}
}

func NewReliefWebLandslides(opts Options) *ReliefWeb {
	return &ReliefWeb{
		base:     newBase("reliefweb-landslides", ReliefWebDefaultURL, opts),
		typeName: "Landslide",
		limit:    5,
		kind:     models.KindLandslide,
		severity: models.SeverityHigh,
		fallback: fallbackLandslides,
	}
}

func (s *ReliefWeb) Kinds() []models.Kind { return []models.Kind{s.kind} }

func (s *ReliefWeb) endpoint() (string, error) {
	u, err := url.Parse(s.url)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("filter[field]", "type.name")
	q.Set("filter[value]", s.typeName)
	q.Set("limit", strconv.Itoa(s.limit))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *ReliefWeb) Fetch(ctx context.Context) ([]models.DisasterRecord, error) {
	endpoint, err := s.endpoint()
	if err != nil {
		return nil, &FetchError{Source: s.name, Stage: StageTransport, Err: fmt.Errorf("invalid url: %w", err)}
	}

	var data reliefWebResponse
	if err := s.getJSON(ctx, endpoint, &data); err != nil {
		return nil, err
	}

	items := data.Data
	if len(items) > s.limit {
		items = items[:s.limit]
	}

	records := make([]models.DisasterRecord, 0, len(items))
	for _, d := range items {
		location, country := "Unknown Location", geo.Unknown
		if len(d.Fields.Country) > 0 && d.Fields.Country[0].Name != "" {
			location = d.Fields.Country[0].Name
			country = s.tagger.CanonicalCountry(location)
		}
		description := d.Fields.Name
		if description == "" {
			description = s.typeName + " event"
		}

		r := models.DisasterRecord{
			ID:          "reliefweb_" + string(d.ID),
			Kind:        s.kind,
			Location:    location,
			Country:     country,
			Severity:    s.severity,
			Description: description,
			ObservedAt:  parseTimeOrNow(d.Fields.Date.Created),
			SourceName:  "ReliefWeb",
			URL:         d.Fields.URL,
		}
		if country == geo.India {
			r.State = s.indianState(description)
		}
		records = append(records, r)
	}

	return records, nil
}

// ReliefWeb names events like "India: Floods - Jul 2024 (Assam)", so the
// state is read from the name.
func (s *ReliefWeb) indianState(name string) string {
	st := s.tagger.ResolveIndianState(name)
	if st == geo.Unknown {
		return geo.Other
	}
	return st
}

func (s *ReliefWeb) Fallback() []models.DisasterRecord {
	return s.build(s.fallback(time.Now()))
}
