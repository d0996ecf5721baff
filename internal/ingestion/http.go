package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mr1hm/go-disaster-feed/internal/geo"
	"github.com/mr1hm/go-disaster-feed/internal/models"
)

const (
	userAgent    = "go-disaster-feed/1.0 (github.com/mr1hm/go-disaster-feed)"
	maxBodyBytes = 64 << 20
)

// Options are shared by every adapter constructor.
type Options struct {
	URL    string
	Client *http.Client
	Tagger *geo.Tagger
}

// base carries the request plumbing common to all adapters.
type base struct {
	name   string
	url    string
	client *http.Client
	tagger *geo.Tagger
}

func newBase(name, defaultURL string, opts Options) base {
	b := base{
		name:   name,
		url:    opts.URL,
		client: opts.Client,
		tagger: opts.Tagger,
	}
	if b.url == "" {
		b.url = defaultURL
	}
	if b.client == nil {
		b.client = &http.Client{Timeout: 15 * time.Second}
	}
	if b.tagger == nil {
		b.tagger = geo.NewTagger(geo.DefaultTables())
	}
	return b
}

func (b base) Name() string { return b.name }

// get issues one GET against url and returns the body of a 2xx response.
func (b base) get(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Source: b.name, Stage: StageTransport, Err: fmt.Errorf("error creating request: %w", err)}
	}
	req.Header.Set("User-Agent", userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, &FetchError{Source: b.name, Stage: StageTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &FetchError{
			Source:     b.name,
			Stage:      StageStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("status: %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{Source: b.name, Stage: StageTransport, Err: fmt.Errorf("error reading body: %w", err)}
	}
	return body, nil
}

func (b base) getJSON(ctx context.Context, url string, v any) error {
	body, err := b.get(ctx, url, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return b.decodeErr(err)
	}
	return nil
}

func (b base) decodeErr(err error) error {
	return &FetchError{Source: b.name, Stage: StageDecode, Err: err}
}

// tag fills Country and State from the record's location text, falling
// back to its coordinates.
func (b base) tag(r *models.DisasterRecord) {
	if r.Coordinates != nil {
		lat, lon := r.Coordinates.Latitude, r.Coordinates.Longitude
		r.Country, r.State = b.tagger.Tag(r.Location, &lat, &lon)
		return
	}
	r.Country, r.State = b.tagger.Tag(r.Location, nil, nil)
}

// tagPoint is tag with coordinates taking precedence over the text.
func (b base) tagPoint(r *models.DisasterRecord) {
	if r.Coordinates == nil {
		b.tag(r)
		return
	}
	r.Country, r.State = b.tagger.TagPoint(r.Coordinates.Latitude, r.Coordinates.Longitude, r.Location)
}

// flexFloat accepts a JSON number, a numeric string, or anything else as
// absent. Several feeds mix the three for the same field.
type flexFloat struct {
	Value float64
	Valid bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return nil
	}
	v, err := n.Float64()
	if err != nil {
		return nil
	}
	f.Value, f.Valid = v, true
	return nil
}

func (f flexFloat) ptr() *float64 {
	if !f.Valid {
		return nil
	}
	return models.Float(f.Value)
}

// flexString accepts either a JSON string or a JSON number.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}
