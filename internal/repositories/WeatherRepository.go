package repositories

import (
	"context"
	"net/http"

	"city-weather/config"
	"city-weather/internal/models"
	"city-weather/pkg/logger"
)

// HTTPClient is satisfied by *http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// WeatherRepository fetches current weather for a city. Failures are returned
// inside the result, never as a separate error.
type WeatherRepository interface {
	Name() string
	FetchCurrent(ctx context.Context, query models.WeatherQuery) models.WeatherResult
}

func InitWeatherRepository(cfg *config.Config, l *logger.Logger) (WeatherRepository, error) {
	httpClient := &http.Client{
		Timeout: cfg.OpenWeather.TimeoutDuration(),
	}

	return NewOpenWeatherMapRepository(cfg.OpenWeather, l, httpClient)
}
