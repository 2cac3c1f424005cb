package config

import (
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"
)

var configValue atomic.Value

func GetConfig() *Config {
	cfg, _ := configValue.Load().(*Config)
	if cfg == nil {
		return NewDefaultConfig()
	}
	return cfg
}

func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

type Config struct {
	Version     string          `mapstructure:"version"`
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Forecast    ForecastConfig  `mapstructure:"forecast"`
	Geocode     GeocodeConfig   `mapstructure:"geocode"`
	Display     DisplayConfig   `mapstructure:"display"`
	Debug       DebugConfig     `mapstructure:"debug"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	Host         string `mapstructure:"host"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	IdleTimeout  int    `mapstructure:"idle_timeout"`
}

// ForecastConfig points at the SMHI open data host. Timeout is in seconds.
type ForecastConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"`
	Events  int    `mapstructure:"events"`
}

// GeocodeConfig points at a Google-compatible geocoding host. APIKey wins over
// the GEOCODE_API_KEY entry of SecretsFile.
type GeocodeConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	APIKey      string `mapstructure:"api_key"`
	SecretsFile string `mapstructure:"secrets_file"`
	Timeout     int    `mapstructure:"timeout"`
}

// DisplayConfig.Timezone is "Local", "auto" (zone of the queried point) or an
// IANA name.
type DisplayConfig struct {
	Timezone string `mapstructure:"timezone"`
}

type DebugConfig struct {
	DumpPath string `mapstructure:"dump_path"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "0.4.0",
		Environment: "development",
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
		},
		Forecast: ForecastConfig{
			BaseURL: "https://opendata-download-metfcst.smhi.se",
			Timeout: 10,
			Events:  1,
		},
		Geocode: GeocodeConfig{
			BaseURL:     "https://maps.googleapis.com",
			APIKey:      "",
			SecretsFile: ".secrets",
			Timeout:     10,
		},
		Display: DisplayConfig{
			Timezone: "Local",
		},
		Debug: DebugConfig{
			DumpPath: "",
		},
		Logging: LoggingConfig{
			Level:      "warn",
			Format:     "console",
			OutputPath: "stderr",
		},
		Telemetry: TelemetryConfig{
			Enabled:  false,
			Endpoint: "tempo:4317",
		},
	}
}

func (c ForecastConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func (c GeocodeConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func (c *Config) Validate() error {
	var errs []error

	if err := validateBaseURL("forecast.base_url", c.Forecast.BaseURL); err != nil {
		errs = append(errs, err)
	}
	if err := validateBaseURL("geocode.base_url", c.Geocode.BaseURL); err != nil {
		errs = append(errs, err)
	}
	if c.Forecast.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("forecast.timeout must be positive, got %d", c.Forecast.Timeout))
	}
	if c.Geocode.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("geocode.timeout must be positive, got %d", c.Geocode.Timeout))
	}
	if c.Forecast.Events < 1 {
		errs = append(errs, fmt.Errorf("forecast.events must be at least 1, got %d", c.Forecast.Events))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

func validateBaseURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", key, raw)
	}
	return nil
}
