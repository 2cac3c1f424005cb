package report

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidCode = errors.New("invalid weather symbol code")

type Severity int

const (
	SeverityNone Severity = iota
	Light
	Moderate
	Heavy
)

func (s Severity) String() string {
	switch s {
	case Light:
		return "Light"
	case Moderate:
		return "Moderate"
	case Heavy:
		return "Heavy"
	default:
		return ""
	}
}

type Phenomenon int

const (
	ClearSky Phenomenon = iota
	NearlyClearSky
	VariableCloudiness
	HalfclearSky
	CloudySky
	OvercastSky
	Fog
	RainShowers
	Thunderstorm
	SleetShowers
	SnowShowers
	Rain
	Thunder
	Sleet
	Snowfall
)

var phenomenonNames = map[Phenomenon]string{
	ClearSky:           "Clear sky",
	NearlyClearSky:     "Nearly clear sky",
	VariableCloudiness: "Variable cloudiness",
	HalfclearSky:       "Halfclear sky",
	CloudySky:          "Cloudy sky",
	OvercastSky:        "Overcast sky",
	Fog:                "Fog",
	RainShowers:        "Rain showers",
	Thunderstorm:       "Thunderstorm",
	SleetShowers:       "Sleet showers",
	SnowShowers:        "Snow showers",
	Rain:               "Rain",
	Thunder:            "Thunder",
	Sleet:              "Sleet",
	Snowfall:           "Snowfall",
}

func (p Phenomenon) String() string {
	return phenomenonNames[p]
}

// WeatherCondition is a Wsymb2 weather symbol. Precipitation phenomena carry a
// severity, the others have SeverityNone.
type WeatherCondition struct {
	Phenomenon Phenomenon
	Severity   Severity
}

// conditions is indexed by code-1.
var conditions = [...]WeatherCondition{
	{ClearSky, SeverityNone},
	{NearlyClearSky, SeverityNone},
	{VariableCloudiness, SeverityNone},
	{HalfclearSky, SeverityNone},
	{CloudySky, SeverityNone},
	{OvercastSky, SeverityNone},
	{Fog, SeverityNone},
	{RainShowers, Light},
	{RainShowers, Moderate},
	{RainShowers, Heavy},
	{Thunderstorm, SeverityNone},
	{SleetShowers, Light},
	{SleetShowers, Moderate},
	{SleetShowers, Heavy},
	{SnowShowers, Light},
	{SnowShowers, Moderate},
	{SnowShowers, Heavy},
	{Rain, Light},
	{Rain, Moderate},
	{Rain, Heavy},
	{Thunder, SeverityNone},
	{Sleet, Light},
	{Sleet, Moderate},
	{Sleet, Heavy},
	{Snowfall, Light},
	{Snowfall, Moderate},
	{Snowfall, Heavy},
}

var codes = func() map[WeatherCondition]int {
	m := make(map[WeatherCondition]int, len(conditions))
	for i, c := range conditions {
		m[c] = i + 1
	}
	return m
}()

// Describe maps a 1-based weather symbol code to its condition.
func Describe(code int) (WeatherCondition, error) {
	if code < 1 || code > len(conditions) {
		return WeatherCondition{}, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidCode, code, len(conditions))
	}
	return conditions[code-1], nil
}

// Code returns the 1-based symbol code, or 0 for a combination outside the table.
func (c WeatherCondition) Code() int {
	return codes[c]
}

// String returns the display description, e.g. "Moderate sleet showers".
func (c WeatherCondition) String() string {
	if c.Severity == SeverityNone {
		return c.Phenomenon.String()
	}
	return c.Severity.String() + " " + strings.ToLower(c.Phenomenon.String())
}
