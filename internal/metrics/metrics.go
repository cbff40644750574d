// Package metrics holds the Prometheus collectors of the application. A
// Recorder is created once per process and injected where counters change.
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// unmatchedPath labels requests that reached no route, so stray paths such as
// /favicon.ico share one series.
const unmatchedPath = "unmatched"

type Recorder struct {
	requests        prometheus.Counter
	invalidCity     prometheus.Counter
	rateLimited     prometheus.Counter
	citySearches    *prometheus.CounterVec
	unitSelections  *prometheus.CounterVec
	cityTemperature *prometheus.GaugeVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewRegistry returns a registry preloaded with the Go and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// NewRecorder registers all collectors on reg. It panics if they are already
// registered there.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		requests: factory.NewCounter(prometheus.CounterOpts{
			Name: "weather_requests_total",
			Help: "Total number of weather searches submitted.",
		}),
		invalidCity: factory.NewCounter(prometheus.CounterOpts{
			Name: "weather_invalid_city_total",
			Help: "Searches the provider answered with city not found.",
		}),
		rateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "weather_rate_limit_exceeded_total",
			Help: "Searches rejected because the provider rate limit was reached.",
		}),
		citySearches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_city_searches_total",
			Help: "Successful searches by lower-cased city name.",
		}, []string{"city"}),
		unitSelections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_unit_selections_total",
			Help: "Successful searches by unit system.",
		}, []string{"unit"}),
		cityTemperature: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "weather_city_temperature",
			Help: "Latest temperature seen per city and unit system.",
		}, []string{"city", "unit"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by path, method and code.",
		}, []string{"path", "method", "code"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by path and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
	}
}

func (r *Recorder) IncRequests() {
	r.requests.Inc()
}

func (r *Recorder) IncInvalidCity() {
	r.invalidCity.Inc()
}

func (r *Recorder) IncRateLimited() {
	r.rateLimited.Inc()
}

func (r *Recorder) IncCitySearch(city string) {
	r.citySearches.WithLabelValues(strings.ToLower(city)).Inc()
}

func (r *Recorder) IncUnitSelection(unit string) {
	r.unitSelections.WithLabelValues(unit).Inc()
}

func (r *Recorder) SetCityTemperature(city, unit string, value float64) {
	r.cityTemperature.WithLabelValues(strings.ToLower(city), unit).Set(value)
}

// HTTPMiddleware counts every request once the handler chain has finished.
func (r *Recorder) HTTPMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		code := c.Response().StatusCode()
		if err != nil {
			code = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
			}
		}

		route := c.Route()
		path := route.Path
		// No handler matched: Route() still points at the last Use middleware.
		if code == fiber.StatusNotFound && !isHandlerRoute(c.App(), route) {
			path = unmatchedPath
		}
		method := c.Method()
		r.httpRequests.WithLabelValues(path, method, strconv.Itoa(code)).Inc()
		r.httpDuration.WithLabelValues(path, method).Observe(time.Since(start).Seconds())

		return err
	}
}

// isHandlerRoute reports whether route was registered with a method (Get, Post,
// ...) rather than Use. GetRoutes returns copies that share the Handlers
// backing array, so the first handler's address identifies the route.
func isHandlerRoute(app *fiber.App, route *fiber.Route) bool {
	if len(route.Handlers) == 0 {
		return false
	}

	for _, r := range app.GetRoutes(true) {
		if r.Method == route.Method && r.Path == route.Path && len(r.Handlers) > 0 && &r.Handlers[0] == &route.Handlers[0] {
			return true
		}
	}
	return false
}
