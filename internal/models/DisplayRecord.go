package models

const placeholder = "---"

// DisplayRecord is what the index template renders. Every field is always set,
// either with provider data or with a placeholder.
type DisplayRecord struct {
	City        string `json:"city"`
	Country     string `json:"country"`
	Temperature string `json:"temperature"`
	Humidity    string `json:"humidity"`
	Sky         string `json:"sky"`
	Wind        string `json:"wind"`
	Icon        string `json:"icon"`
	LocalTime   string `json:"local_time"`
	Sunrise     string `json:"sunrise"`
	Sunset      string `json:"sunset"`
	Error       string `json:"error"`
	Unit        Unit   `json:"unit"`
}

// Placeholder returns a record with no weather data. An empty errMsg means no error is shown.
func Placeholder(unit Unit, errMsg string) DisplayRecord {
	return DisplayRecord{
		City:        "",
		Country:     placeholder,
		Temperature: placeholder,
		Humidity:    placeholder,
		Sky:         placeholder,
		Wind:        placeholder,
		Icon:        "",
		LocalTime:   placeholder,
		Sunrise:     placeholder,
		Sunset:      placeholder,
		Error:       errMsg,
		Unit:        unit,
	}
}

func NewDisplayRecord(w CurrentWeather, unit Unit) DisplayRecord {
	return DisplayRecord{
		City:        w.City,
		Country:     w.Country,
		Temperature: w.Temperature,
		Humidity:    w.Humidity,
		Sky:         w.Sky,
		Wind:        w.Wind,
		Icon:        w.Icon,
		LocalTime:   w.LocalTime,
		Sunrise:     w.Sunrise,
		Sunset:      w.Sunset,
		Unit:        unit,
	}
}

func (d DisplayRecord) TemperatureSymbol() string {
	if d.Unit == UnitImperial {
		return "°F"
	}
	return "°C"
}

func (d DisplayRecord) WindUnit() string {
	if d.Unit == UnitImperial {
		return "mph"
	}
	return "m/s"
}
