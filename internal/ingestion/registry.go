package ingestion

import (
	"github.com/mr1hm/go-disaster-feed/internal/config"
)

// NewSources builds the enabled adapters in the order their records are
// merged. opts.URL is ignored; each source takes its URL from cfg.
func NewSources(cfg config.SourcesConfig, opts Options) []Source {
	with := func(url string) Options {
		o := opts
		o.URL = url
		return o
	}

	var sources []Source
	if cfg.USGS.Enabled {
		sources = append(sources, NewUSGS(with(cfg.USGS.URL)))
	}
	if cfg.NOAA.Enabled {
		sources = append(sources, NewNOAA(with(cfg.NOAA.URL)))
	}
	if cfg.OpenWeather.Enabled && cfg.OpenWeatherAPIKey != "" {
		sources = append(sources, NewOpenWeather(with(cfg.OpenWeather.URL), cfg.OpenWeatherAPIKey))
	}
	if cfg.FIRMS.Enabled {
		sources = append(sources, NewFIRMS(with(cfg.FIRMS.URL), cfg.FIRMSMapKey))
	}
	if cfg.Tsunami.Enabled {
		sources = append(sources, NewTsunami(with(cfg.Tsunami.URL)))
	}
	if cfg.EONET.Enabled {
		sources = append(sources,
			NewEONETVolcanoes(with(cfg.EONET.URL)),
			NewEONETStorms(with(cfg.EONET.URL)),
		)
	}
	if cfg.ReliefWeb.Enabled {
		sources = append(sources,
			NewReliefWebFloods(with(cfg.ReliefWeb.URL)),
			NewReliefWebDroughts(with(cfg.ReliefWeb.URL)),
			NewReliefWebLandslides(with(cfg.ReliefWeb.URL)),
		)
	}
	if cfg.GDACS.Enabled {
		sources = append(sources, NewGDACS(with(cfg.GDACS.URL)))
	}
	return sources
}

// NewQuakeSources builds the earthquake-only source set.
func NewQuakeSources(cfg config.SourcesConfig, opts Options) []Source {
	opts.URL = cfg.USGS.URL
	return []Source{NewUSGS(opts)}
}
