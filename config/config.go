package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath           = "config/config.yaml"
	DefaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5/weather"
)

type Config struct {
	AppName     string            `envconfig:"APP_NAME" yaml:"app_name"`
	AppVersion  string            `envconfig:"APP_VERSION" yaml:"app_version"`
	AppEnv      string            `envconfig:"APP_ENV" yaml:"app_env"`
	Port        string            `envconfig:"PORT" yaml:"port"`
	LogLevel    string            `envconfig:"LOG_LEVEL" yaml:"log_level"`
	SentryDSN   string            `envconfig:"SENTRY_DSN" yaml:"sentry_dsn"`
	OpenWeather OpenWeatherConfig `envconfig:"OPENWEATHER" yaml:"openweather"`
}

type OpenWeatherConfig struct {
	APIKey  string `envconfig:"API_KEY" yaml:"api_key"`
	BaseURL string `envconfig:"BASE_URL" yaml:"base_url"`
	// Timeout is in seconds. Zero keeps the transport default (no timeout).
	Timeout int `envconfig:"TIMEOUT" yaml:"timeout"`
	// ClassifyRateLimit reports HTTP 429 as a rate limit instead of "city not found".
	ClassifyRateLimit bool `envconfig:"CLASSIFY_RATE_LIMIT" yaml:"classify_rate_limit"`
}

func (o OpenWeatherConfig) TimeoutDuration() time.Duration {
	return time.Duration(o.Timeout) * time.Second
}

func defaults() Config {
	return Config{
		AppName:    "city-weather",
		AppVersion: "1.0.0",
		AppEnv:     "development",
		Port:       "8080",
		LogLevel:   "info",
		OpenWeather: OpenWeatherConfig{
			BaseURL: DefaultOpenWeatherURL,
		},
	}
}

// NewConfig loads defaults, then the YAML file at path (if it exists), then
// environment variables, and validates the result.
func NewConfig(path string) (*Config, error) {
	cnf := defaults()

	if err := loadFromFile(path, &cnf); err != nil {
		return nil, err
	}

	if err := envconfig.Process("", &cnf); err != nil {
		return nil, fmt.Errorf("error environment variable parsing: %w", err)
	}

	if err := cnf.Validate(); err != nil {
		return nil, err
	}

	return &cnf, nil
}

func loadFromFile(path string, cnf *Config) error {
	yamlData, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(yamlData, cnf); err != nil {
		return fmt.Errorf("failed to parse YAML config %s: %w", path, err)
	}

	return nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.AppName == "" {
		errs = append(errs, errors.New("app_name is required"))
	}
	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("port %q is invalid", c.Port))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level %q is invalid", c.LogLevel))
	}
	if c.OpenWeather.APIKey == "" {
		errs = append(errs, errors.New("openweather.api_key is required"))
	}
	if c.OpenWeather.BaseURL == "" {
		errs = append(errs, errors.New("openweather.base_url is required"))
	}
	if c.OpenWeather.Timeout < 0 {
		errs = append(errs, errors.New("openweather.timeout must not be negative"))
	}

	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
