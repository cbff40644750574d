package weather

import (
	"context"
	"strconv"

	"city-weather/internal/models"
	"city-weather/internal/repositories"
	"city-weather/pkg/logger"
)

// Recorder receives the search counters. *metrics.Recorder implements it.
type Recorder interface {
	IncRequests()
	IncInvalidCity()
	IncRateLimited()
	IncCitySearch(city string)
	IncUnitSelection(unit string)
	SetCityTemperature(city, unit string, value float64)
}

// WeatherService represents the weather service.
type WeatherService struct {
	repo    repositories.WeatherRepository
	metrics Recorder
	l       *logger.Logger
}

func NewWeatherService(repo repositories.WeatherRepository, metrics Recorder, l *logger.Logger) *WeatherService {
	return &WeatherService{
		repo:    repo,
		metrics: metrics,
		l:       l,
	}
}

// Placeholder is the record shown before anything was searched. It touches no counters.
func (s *WeatherService) Placeholder() models.DisplayRecord {
	return models.Placeholder(models.UnitMetric, "")
}

// Search fetches the weather for query and always returns a renderable record.
func (s *WeatherService) Search(ctx context.Context, query models.WeatherQuery) models.DisplayRecord {
	s.metrics.IncRequests()

	result := s.repo.FetchCurrent(ctx, query)
	if !result.OK() {
		switch result.Err.Kind {
		case models.ErrCityNotFound:
			s.metrics.IncInvalidCity()
		case models.ErrRateLimited:
			s.metrics.IncRateLimited()
		}

		s.l.Info("weather search failed", map[string]any{
			"repo": s.repo.Name(),
			"city": query.City,
			"unit": query.Unit.String(),
			"kind": result.Err.Kind.String(),
		})

		return models.Placeholder(query.Unit, result.Err.Kind.Message())
	}

	record := models.NewDisplayRecord(result.Weather, query.Unit)

	s.metrics.IncUnitSelection(query.Unit.String())
	s.metrics.IncCitySearch(query.City)

	// Best effort: a temperature the provider sent as text is not recorded.
	if temp, err := strconv.ParseFloat(record.Temperature, 64); err == nil {
		s.metrics.SetCityTemperature(query.City, query.Unit.String(), temp)
	}

	s.l.Info("weather search succeeded", map[string]any{
		"repo":        s.repo.Name(),
		"city":        query.City,
		"unit":        query.Unit.String(),
		"temperature": record.Temperature,
	})

	return record
}
