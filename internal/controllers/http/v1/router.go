package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "city-weather/docs"
	"city-weather/internal/services/weather"
	"city-weather/pkg/logger"
)

type routes struct {
	service *weather.WeatherService
	l       *logger.Logger
	now     func() time.Time
}

type Option func(*routes)

// WithClock overrides the clock used for the page date.
func WithClock(now func() time.Time) Option {
	return func(r *routes) {
		r.now = now
	}
}

func NewRouter(
	app *fiber.App,
	weatherService *weather.WeatherService,
	gatherer prometheus.Gatherer,
	l *logger.Logger,
	opts ...Option,
) {
	r := &routes{
		service: weatherService,
		l:       l,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	// Swagger documentation
	app.Get("/swagger/*", swagger.New(swagger.Config{
		URL:         "/swagger/doc.json",
		DeepLinking: true,
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	app.Get("/", r.handleIndex)
	app.Post("/", r.handleSearch)
}
