package models

import "strings"

type Unit string

const (
	UnitMetric   Unit = "metric"
	UnitImperial Unit = "imperial"
)

// ParseUnit maps a form value to a Unit. Anything that is not "imperial" falls back to metric.
func ParseUnit(s string) Unit {
	if Unit(strings.ToLower(strings.TrimSpace(s))) == UnitImperial {
		return UnitImperial
	}
	return UnitMetric
}

func (u Unit) String() string {
	return string(u)
}

// WeatherQuery is a single form submission.
type WeatherQuery struct {
	City string `json:"city" example:"London"`
	Unit Unit   `json:"unit" example:"metric"`
}

func NewWeatherQuery(city, unit string) WeatherQuery {
	return WeatherQuery{
		City: strings.TrimSpace(city),
		Unit: ParseUnit(unit),
	}
}
