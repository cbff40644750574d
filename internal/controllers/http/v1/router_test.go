package http_test

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "city-weather/internal/controllers/http/v1"
	"city-weather/internal/metrics"
	"city-weather/internal/models"
	"city-weather/internal/services/weather"
	"city-weather/pkg/httpserver"
	"city-weather/pkg/logger"
)

type stubRepository struct {
	result models.WeatherResult
	calls  int
}

func (s *stubRepository) Name() string { return "stub" }

func (s *stubRepository) FetchCurrent(ctx context.Context, query models.WeatherQuery) models.WeatherResult {
	s.calls++
	return s.result
}

func newTestApp(t *testing.T, result models.WeatherResult) (*fiber.App, *prometheus.Registry, *stubRepository) {
	t.Helper()

	reg := prometheus.NewRegistry()
	rec := metrics.NewRecorder(reg)
	l := logger.NewZapLogger("test-app", io.Discard)
	repo := &stubRepository{result: result}

	app := httpserver.InitFiberServer("test-app", httpserver.NewViews(), rec.HTTPMiddleware())
	v1.NewRouter(app, weather.NewWeatherService(repo, rec, l), reg, l, v1.WithClock(func() time.Time {
		return time.Date(2026, time.October, 18, 9, 30, 0, 0, time.UTC)
	}))

	return app, reg, repo
}

func doRequest(t *testing.T, app *fiber.App, method, target string, form url.Values) (int, string) {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

const zeroSearchCounters = `
# HELP weather_invalid_city_total Searches the provider answered with city not found.
# TYPE weather_invalid_city_total counter
weather_invalid_city_total 0
# HELP weather_rate_limit_exceeded_total Searches rejected because the provider rate limit was reached.
# TYPE weather_rate_limit_exceeded_total counter
weather_rate_limit_exceeded_total 0
# HELP weather_requests_total Total number of weather searches submitted.
# TYPE weather_requests_total counter
weather_requests_total 0
`

var searchMetricNames = []string{
	"weather_requests_total",
	"weather_invalid_city_total",
	"weather_rate_limit_exceeded_total",
	"weather_city_searches_total",
	"weather_unit_selections_total",
	"weather_city_temperature",
}

func TestIndex_RendersPlaceholdersWithoutCounting(t *testing.T) {
	app, reg, repo := newTestApp(t, models.Success(models.CurrentWeather{}))

	status, first := doRequest(t, app, fiber.MethodGet, "/", nil)
	_, second := doRequest(t, app, fiber.MethodGet, "/", nil)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "18.10.2026")
	assert.Contains(t, first, `<dd class="temperature">--- °C</dd>`)
	assert.Contains(t, first, `value="metric" checked`)
	assert.NotContains(t, first, `class="error"`)
	assert.NotContains(t, first, `class="icon"`)
	assert.Zero(t, repo.calls)

	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(zeroSearchCounters), searchMetricNames...))
}

func TestSearch_Success(t *testing.T) {
	app, reg, repo := newTestApp(t, models.Success(models.CurrentWeather{
		City:        "London",
		Country:     "GB",
		Temperature: "15.7",
		Humidity:    "72",
		Sky:         "Overcast Clouds",
		Wind:        "3.5",
		Icon:        "04d",
		LocalTime:   "23:13",
		Sunrise:     "08:10",
		Sunset:      "17:30",
	}))

	status, body := doRequest(t, app, fiber.MethodPost, "/", url.Values{"city": {"  London "}, "units": {"metric"}})

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 1, repo.calls)
	assert.Contains(t, body, `<dd class="temperature">15.7 °C</dd>`)
	assert.Contains(t, body, `<dd class="sky">Overcast Clouds</dd>`)
	assert.Contains(t, body, `https://openweathermap.org/img/wn/04d@2x.png`)
	assert.Contains(t, body, `<dd class="wind">3.5 m/s</dd>`)

	expected := `
# HELP weather_city_searches_total Successful searches by lower-cased city name.
# TYPE weather_city_searches_total counter
weather_city_searches_total{city="london"} 1
# HELP weather_city_temperature Latest temperature seen per city and unit system.
# TYPE weather_city_temperature gauge
weather_city_temperature{city="london",unit="metric"} 15.7
# HELP weather_requests_total Total number of weather searches submitted.
# TYPE weather_requests_total counter
weather_requests_total 1
# HELP weather_unit_selections_total Successful searches by unit system.
# TYPE weather_unit_selections_total counter
weather_unit_selections_total{unit="metric"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"weather_city_searches_total", "weather_city_temperature", "weather_requests_total", "weather_unit_selections_total"))
}

func TestSearch_ImperialDefaultsAndEcho(t *testing.T) {
	app, reg, _ := newTestApp(t, models.Success(models.CurrentWeather{City: "Austin", Temperature: "91.4"}))

	_, body := doRequest(t, app, fiber.MethodPost, "/", url.Values{"city": {"Austin"}, "units": {"imperial"}})

	assert.Contains(t, body, `value="imperial" checked`)
	assert.Contains(t, body, `91.4 °F`)
	count, err := testutil.GatherAndCount(reg, "weather_unit_selections_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	expected := `
# HELP weather_unit_selections_total Successful searches by unit system.
# TYPE weather_unit_selections_total counter
weather_unit_selections_total{unit="imperial"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "weather_unit_selections_total"))
}

func TestSearch_CityNotFound(t *testing.T) {
	app, reg, _ := newTestApp(t, models.Failure(models.ErrCityNotFound, errors.New("cod 404")))

	status, body := doRequest(t, app, fiber.MethodPost, "/", url.Values{"city": {"Zzzznotacity"}})

	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `<p class="error">City not found!</p>`)
	assert.Contains(t, body, `<dd class="temperature">--- °C</dd>`)

	expected := `
# HELP weather_invalid_city_total Searches the provider answered with city not found.
# TYPE weather_invalid_city_total counter
weather_invalid_city_total 1
# HELP weather_rate_limit_exceeded_total Searches rejected because the provider rate limit was reached.
# TYPE weather_rate_limit_exceeded_total counter
weather_rate_limit_exceeded_total 0
# HELP weather_requests_total Total number of weather searches submitted.
# TYPE weather_requests_total counter
weather_requests_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), searchMetricNames...))
}

func TestMetricsEndpoint(t *testing.T) {
	app, _, _ := newTestApp(t, models.Failure(models.ErrRateLimited, errors.New("status 429")))

	_, body := doRequest(t, app, fiber.MethodPost, "/", url.Values{"city": {"London"}})
	assert.Contains(t, body, "API limit reached. Please wait and try again later.")

	status, exposition := doRequest(t, app, fiber.MethodGet, "/metrics", nil)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, exposition, "weather_requests_total 1")
	assert.Contains(t, exposition, "weather_rate_limit_exceeded_total 1")
	assert.Contains(t, exposition, `http_requests_total{code="200",method="POST",path="/"} 1`)
}

func TestUnknownPathIsNotCountedAsIndex(t *testing.T) {
	app, reg, repo := newTestApp(t, models.Success(models.CurrentWeather{}))

	status, _ := doRequest(t, app, fiber.MethodGet, "/favicon.ico", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	doRequest(t, app, fiber.MethodGet, "/", nil)

	expected := `
# HELP http_requests_total Total number of HTTP requests by path, method and code.
# TYPE http_requests_total counter
http_requests_total{code="200",method="GET",path="/"} 1
http_requests_total{code="404",method="GET",path="unmatched"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "http_requests_total"))
	assert.Zero(t, repo.calls)
}

func TestHealthAndSwagger(t *testing.T) {
	app, _, _ := newTestApp(t, models.Success(models.CurrentWeather{}))

	status, _ := doRequest(t, app, fiber.MethodGet, "/manage/health", nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, doc := doRequest(t, app, fiber.MethodGet, "/swagger/doc.json", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, doc, "Search current weather")
}
