package ingestion

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/mr1hm/go-disaster-feed/internal/models"
)

const OpenWeatherDefaultURL = "https://api.openweathermap.org/data/2.5/weather"

const (
	delhiLat = 28.6139
	delhiLon = 77.2090

	kelvinOffset = 273.15
)

type openWeatherResponse struct {
	ID      flexString `json:"id"`
	Name    string     `json:"name"`
	Dt      int64      `json:"dt"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main *struct {
		Temp float64 `json:"temp"` // kelvin
	} `json:"main"`
}

// OpenWeather reports current conditions in Delhi as a weather alert when
// they are extreme. It needs an API key; calm weather yields no record.
type OpenWeather struct {
	base
	apiKey string
}

func NewOpenWeather(opts Options, apiKey string) *OpenWeather {
	return &OpenWeather{base: newBase("openweather", OpenWeatherDefaultURL, opts), apiKey: apiKey}
}

func (s *OpenWeather) Kinds() []models.Kind { return []models.Kind{models.KindWeatherAlert} }

func (s *OpenWeather) Fetch(ctx context.Context) ([]models.DisasterRecord, error) {
	if s.apiKey == "" {
		return nil, &FetchError{Source: s.name, Stage: StageTransport, Err: fmt.Errorf("missing API key")}
	}

	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.4f", delhiLat))
	q.Set("lon", fmt.Sprintf("%.4f", delhiLon))
	q.Set("appid", s.apiKey)

	var data openWeatherResponse
	if err := s.getJSON(ctx, s.url+"?"+q.Encode(), &data); err != nil {
		return nil, err
	}
	if data.Main == nil || len(data.Weather) == 0 {
		return nil, nil
	}

	temp := data.Main.Temp - kelvinOffset
	cond := data.Weather[0]
	if !extremeWeather(temp, cond.Main) {
		return nil, nil
	}

	observed := time.Now().UTC()
	if data.Dt > 0 {
		observed = time.Unix(data.Dt, 0).UTC()
	}
	id := string(data.ID)
	if id == "" {
		id = "current"
	}

	return []models.DisasterRecord{{
		ID:          "openweather_" + id,
		Kind:        models.KindWeatherAlert,
		Location:    "Delhi, India",
		Country:     "India",
		State:       "Delhi",
		Coordinates: at(delhiLat, delhiLon),
		Severity:    weatherSeverity(temp),
		Description: fmt.Sprintf("%s - %d°C", cond.Description, int(math.Round(temp))),
		ObservedAt:  observed,
		SourceName:  "OpenWeatherMap",
	}}, nil
}

func (s *OpenWeather) Fallback() []models.DisasterRecord {
	return s.build(fallbackWeatherAlerts(time.Now()))
}

// extremeWeather holds for heat above 40°C, cold below 5°C, thunderstorms and snow.
func extremeWeather(celsius float64, condition string) bool {
	switch strings.ToLower(condition) {
	case "thunderstorm", "snow":
		return true
	}
	return celsius > 40 || celsius < 5
}

func weatherSeverity(celsius float64) models.Severity {
	if celsius > 45 || celsius < 0 {
		return models.SeverityHigh
	}
	return models.SeverityMedium
}
