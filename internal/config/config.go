package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	Refresh RefreshConfig
	Sources SourcesConfig
	Store   StoreConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	RateLimitRPS    int
	ShutdownTimeout time.Duration
}

type RefreshConfig struct {
	Interval      time.Duration
	QuakeInterval time.Duration
	HTTPTimeout   time.Duration
	// Workers bounds concurrent source fetches; 0 means one per source.
	Workers int
}

// SourceConfig toggles one upstream feed. An empty URL keeps the adapter's
// built-in endpoint.
type SourceConfig struct {
	Enabled bool
	URL     string
}

type SourcesConfig struct {
	USGS        SourceConfig
	NOAA        SourceConfig
	OpenWeather SourceConfig
	// OpenWeatherAPIKey is required; the source is skipped without it.
	OpenWeatherAPIKey string
	FIRMS             SourceConfig
	FIRMSMapKey       string
	Tsunami           SourceConfig
	EONET             SourceConfig
	ReliefWeb         SourceConfig
	GDACS             SourceConfig
}

type StoreConfig struct {
	// Path of the SQLite last-good snapshot store. Empty disables it.
	Path string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "localhost"),
			Port:            getEnvInt("SERVER_PORT", 8080),
			RateLimitRPS:    getEnvInt("RATE_LIMIT_RPS", 10),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Refresh: RefreshConfig{
			Interval:      getEnvDuration("REFRESH_INTERVAL", 60*time.Second),
			QuakeInterval: getEnvDuration("QUAKE_REFRESH_INTERVAL", 10*time.Minute),
			HTTPTimeout:   getEnvDuration("HTTP_TIMEOUT", 15*time.Second),
			Workers:       getEnvInt("FETCH_WORKERS", 0),
		},
		Sources: SourcesConfig{
			USGS:              getSource("USGS"),
			NOAA:              getSource("NOAA"),
			OpenWeather:       getSource("OPENWEATHER"),
			OpenWeatherAPIKey: getEnv("OPENWEATHER_API_KEY", ""),
			FIRMS:             getSource("FIRMS"),
			FIRMSMapKey:       getEnv("FIRMS_MAP_KEY", ""),
			Tsunami:           getSource("TSUNAMI"),
			EONET:             getSource("EONET"),
			ReliefWeb:         getSource("RELIEFWEB"),
			GDACS:             getSource("GDACS"),
		},
		Store: StoreConfig{
			Path: getEnv("SNAPSHOT_DB_PATH", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RateLimitRPS < 0 {
		return fmt.Errorf("invalid rate limit: %d", c.Server.RateLimitRPS)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.Refresh.Interval < 10*time.Second {
		return fmt.Errorf("refresh interval must be at least 10 seconds")
	}
	if c.Refresh.QuakeInterval < time.Minute {
		return fmt.Errorf("earthquake refresh interval must be at least 1 minute")
	}
	if c.Refresh.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP timeout must be positive")
	}
	if c.Refresh.Workers < 0 {
		return fmt.Errorf("invalid fetch worker count: %d", c.Refresh.Workers)
	}

	return nil
}

// getSource reads <PREFIX>_ENABLED (default true) and <PREFIX>_URL.
func getSource(prefix string) SourceConfig {
	return SourceConfig{
		Enabled: getEnvBool(prefix+"_ENABLED", true),
		URL:     getEnv(prefix+"_URL", ""),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
