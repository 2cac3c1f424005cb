package report

import (
	"errors"
	"fmt"
	"math"
)

var ErrMissingParameter = errors.New("missing parameter")

const (
	// WeatherSymbolParameter carries the Wsymb2 code.
	WeatherSymbolParameter = "Wsymb2"
	// weatherSymbolIndex is where pmp3g has historically put Wsymb2; used only
	// when no parameter carries the name.
	weatherSymbolIndex = 18
)

// Measurement is a single rendered value.
type Measurement struct {
	Symbol string
	Label  string
	Value  float64
	Unit   string
}

type measurementDef struct {
	parameter string
	symbol    string
	label     string
	unit      string
}

var (
	temperatureDef   = measurementDef{"t", "🌡️", "Temperature", "C"}
	windSpeedDef     = measurementDef{"ws", "💨", "Wind speed", "m/s"}
	windDirectionDef = measurementDef{"wd", "🧭", "Wind direction", "°"}
	humidityDef      = measurementDef{"r", "💧", "Humidity", "%"}
	precipitationDef = measurementDef{"pmean", "🌧️", "Precipitation", "mm/h"}
	gustSpeedDef     = measurementDef{"gust", "🌪️", "Gust speed", "m/s"}
)

// FindParameter returns the first datapoint named name.
func (e Event) FindParameter(name string) (*Datapoint, bool) {
	for i := range e.Parameters {
		if e.Parameters[i].Name == name {
			return &e.Parameters[i], true
		}
	}
	return nil, false
}

// Scalar returns the first value of the datapoint named name.
func (e Event) Scalar(name string) (float64, error) {
	dp, ok := e.FindParameter(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q at %s", ErrMissingParameter, name, e.ValidAt.Format("2006-01-02T15:04:05Z07:00"))
	}
	if len(dp.Values) == 0 {
		return 0, fmt.Errorf("%w: %q has no values", ErrMissingParameter, name)
	}
	return dp.Values[0], nil
}

func (e Event) measure(def measurementDef) (Measurement, error) {
	v, err := e.Scalar(def.parameter)
	if err != nil {
		return Measurement{}, err
	}
	return Measurement{Symbol: def.symbol, Label: def.label, Value: v, Unit: def.unit}, nil
}

func (e Event) Temperature() (Measurement, error)   { return e.measure(temperatureDef) }
func (e Event) WindSpeed() (Measurement, error)     { return e.measure(windSpeedDef) }
func (e Event) Humidity() (Measurement, error)      { return e.measure(humidityDef) }
func (e Event) Precipitation() (Measurement, error) { return e.measure(precipitationDef) }
func (e Event) GustSpeed() (Measurement, error)     { return e.measure(gustSpeedDef) }

// WindDirection is in degrees, measured the way the forecast service reports it.
func (e Event) WindDirection() (Measurement, error) { return e.measure(windDirectionDef) }

// WeatherCode returns the Wsymb2 code of the event. It looks the parameter up
// by name and falls back to the fixed position when the name is absent.
func (e Event) WeatherCode() (int, error) {
	v, err := e.Scalar(WeatherSymbolParameter)
	if errors.Is(err, ErrMissingParameter) {
		if len(e.Parameters) <= weatherSymbolIndex || len(e.Parameters[weatherSymbolIndex].Values) == 0 {
			return 0, fmt.Errorf("%w: %q (event has %d parameters)", ErrMissingParameter, WeatherSymbolParameter, len(e.Parameters))
		}
		v = e.Parameters[weatherSymbolIndex].Values[0]
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, fmt.Errorf("%w: %v is not an integer", ErrInvalidCode, v)
	}
	return int(v), nil
}

func (e Event) WeatherCondition() (WeatherCondition, error) {
	code, err := e.WeatherCode()
	if err != nil {
		return WeatherCondition{}, err
	}
	return Describe(code)
}
