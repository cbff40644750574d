package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"city-weather/config"
	"city-weather/internal/models"
	"city-weather/pkg/logger"
)

const clockLayout = "15:04"

type OpenWeatherMapRepository struct {
	APIKey            string
	BaseURL           string
	ClassifyRateLimit bool
	httpClient        HTTPClient
	l                 *logger.Logger
}

func NewOpenWeatherMapRepository(cfg config.OpenWeatherConfig, l *logger.Logger, httpClient HTTPClient) (*OpenWeatherMapRepository, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("API key cannot be empty")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultOpenWeatherURL
	}

	return &OpenWeatherMapRepository{
		APIKey:            cfg.APIKey,
		BaseURL:           baseURL,
		ClassifyRateLimit: cfg.ClassifyRateLimit,
		httpClient:        httpClient,
		l:                 l,
	}, nil
}

func (o *OpenWeatherMapRepository) Name() string {
	return "openweathermap"
}

// OpenWeatherMapResponse is the /data/2.5/weather payload. cod is a number on
// success and a string on most errors, so it is kept raw.
type OpenWeatherMapResponse struct {
	Cod      json.RawMessage `json:"cod"`
	Message  json.RawMessage `json:"message"`
	Name     string          `json:"name"`
	Timezone int64           `json:"timezone"`
	Dt       int64           `json:"dt"`
	Sys      struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Main struct {
		Temp     json.RawMessage `json:"temp"`
		Humidity json.Number     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed json.Number `json:"speed"`
	} `json:"wind"`
}

func (r *OpenWeatherMapResponse) success() bool {
	return string(bytes.TrimSpace(r.Cod)) == "200"
}

func (o *OpenWeatherMapRepository) FetchCurrent(ctx context.Context, query models.WeatherQuery) models.WeatherResult {
	params := map[string]any{
		"repository": o.Name(),
		"city":       query.City,
		"unit":       query.Unit.String(),
	}

	reqURL, err := o.requestURL(query)
	if err != nil {
		return o.fail(models.ErrOther, fmt.Errorf("failed to build request url: %w", err), params)
	}

	o.l.Info("making openweathermap API request", params)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return o.fail(models.ErrOther, fmt.Errorf("failed to create request: %w", err), params)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return o.fail(models.ErrOther, fmt.Errorf("failed to do request: %w", err), params)
	}
	defer resp.Body.Close()

	o.l.Info("received openweathermap API response", map[string]any{
		"repository": o.Name(),
		"status":     resp.StatusCode,
		"statusText": resp.Status,
	})

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return o.fail(models.ErrOther, fmt.Errorf("failed to read response body: %w", err), params)
	}

	if o.ClassifyRateLimit && resp.StatusCode == http.StatusTooManyRequests {
		return o.fail(models.ErrRateLimited, fmt.Errorf("HTTP error (status %d): %s", resp.StatusCode, resp.Status), params)
	}

	// Any other non-200, 429 included when ClassifyRateLimit is off, is a
	// missing city whatever the body holds.
	if resp.StatusCode != http.StatusOK {
		return o.fail(models.ErrCityNotFound, fmt.Errorf("HTTP error (status %d): %s", resp.StatusCode, bodySnippet(body)), params)
	}

	var response OpenWeatherMapResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return o.fail(models.ErrOther, fmt.Errorf("failed to parse JSON response: %w", err), params)
	}

	if !response.success() {
		return o.fail(models.ErrCityNotFound, fmt.Errorf("provider error (cod %s): %s", response.Cod, response.Message), params)
	}

	weather, err := currentWeather(response)
	if err != nil {
		return o.fail(models.ErrOther, fmt.Errorf("failed to build current weather: %w", err), params)
	}

	o.l.Debug("parsed openweathermap response", map[string]any{
		"repository": o.Name(),
		"weather":    weather,
	})

	return models.Success(weather)
}

func (o *OpenWeatherMapRepository) requestURL(query models.WeatherQuery) (string, error) {
	u, err := url.Parse(o.BaseURL)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("q", query.City)
	q.Set("appid", o.APIKey)
	q.Set("units", query.Unit.String())
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (o *OpenWeatherMapRepository) fail(kind models.ErrorKind, cause error, params map[string]any) models.WeatherResult {
	fields := make(map[string]any, len(params)+1)
	for k, v := range params {
		fields[k] = v
	}
	fields["kind"] = kind.String()

	if kind == models.ErrOther {
		o.l.Error(cause, fields)
	} else {
		fields["err"] = cause.Error()
		o.l.Warning("openweathermap request failed", fields)
	}

	return models.Failure(kind, cause)
}

// currentWeather converts a successful payload into display values.
func currentWeather(r OpenWeatherMapResponse) (models.CurrentWeather, error) {
	if len(r.Weather) == 0 {
		return models.CurrentWeather{}, errors.New("no weather conditions in response")
	}

	temperature, err := formatTemperature(r.Main.Temp)
	if err != nil {
		return models.CurrentWeather{}, err
	}

	return models.CurrentWeather{
		City:        r.Name,
		Country:     r.Sys.Country,
		Temperature: temperature,
		Humidity:    numberOrPlaceholder(r.Main.Humidity),
		Sky:         cases.Title(language.English).String(r.Weather[0].Description),
		Wind:        numberOrPlaceholder(r.Wind.Speed),
		Icon:        r.Weather[0].Icon,
		LocalTime:   localClock(r.Dt, r.Timezone),
		Sunrise:     localClock(r.Sys.Sunrise, r.Timezone),
		Sunset:      localClock(r.Sys.Sunset, r.Timezone),
	}, nil
}

// localClock shifts a unix timestamp by the provider's UTC offset in seconds
// and formats it as HH:MM.
func localClock(ts, offset int64) string {
	return time.Unix(ts+offset, 0).UTC().Format(clockLayout)
}

// formatTemperature rounds numeric temperatures to one decimal place. A
// non-numeric string is passed through unchanged.
func formatTemperature(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return "", errors.New("main.temp is missing")
	}

	var value float64
	if err := json.Unmarshal(raw, &value); err == nil {
		return strconv.FormatFloat(value, 'f', 1, 64), nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", fmt.Errorf("main.temp has unsupported value %s", raw)
	}

	text = strings.TrimSpace(text)
	if value, err := strconv.ParseFloat(text, 64); err == nil {
		return strconv.FormatFloat(value, 'f', 1, 64), nil
	}
	if text == "" {
		return "", errors.New("main.temp is empty")
	}

	return text, nil
}

const maxBodySnippet = 200

func bodySnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxBodySnippet {
		return s[:maxBodySnippet] + "..."
	}
	return s
}

func numberOrPlaceholder(n json.Number) string {
	if n == "" {
		return "---"
	}
	return n.String()
}
