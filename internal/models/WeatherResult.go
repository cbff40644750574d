package models

type ErrorKind int

const (
	ErrOther ErrorKind = iota
	ErrCityNotFound
	ErrRateLimited
)

func (k ErrorKind) String() string {
	switch k {
	case ErrCityNotFound:
		return "city_not_found"
	case ErrRateLimited:
		return "rate_limited"
	default:
		return "other"
	}
}

// Message is the text shown to the user in place of the weather data.
func (k ErrorKind) Message() string {
	switch k {
	case ErrCityNotFound:
		return "City not found!"
	case ErrRateLimited:
		return "API limit reached. Please wait and try again later."
	default:
		return "Weather service is unavailable. Please try again later."
	}
}

// FetchError is a classified provider failure. Cause is kept for logging only.
type FetchError struct {
	Kind  ErrorKind
	Cause error
}

func (e *FetchError) Error() string {
	if e.Cause == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Cause.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// CurrentWeather holds display-ready values extracted from a provider payload.
type CurrentWeather struct {
	City        string `json:"city" example:"London"`
	Country     string `json:"country" example:"GB"`
	Temperature string `json:"temperature" example:"15.7"`
	Humidity    string `json:"humidity" example:"72"`
	Sky         string `json:"sky" example:"Overcast Clouds"`
	Wind        string `json:"wind" example:"3.5"`
	Icon        string `json:"icon" example:"04d"`
	LocalTime   string `json:"local_time" example:"14:05"`
	Sunrise     string `json:"sunrise" example:"06:12"`
	Sunset      string `json:"sunset" example:"19:48"`
}

// WeatherResult is either a CurrentWeather (Err == nil) or a classified failure.
type WeatherResult struct {
	Weather CurrentWeather
	Err     *FetchError
}

func Success(w CurrentWeather) WeatherResult {
	return WeatherResult{Weather: w}
}

func Failure(kind ErrorKind, cause error) WeatherResult {
	return WeatherResult{Err: &FetchError{Kind: kind, Cause: cause}}
}

func (r WeatherResult) OK() bool {
	return r.Err == nil
}
