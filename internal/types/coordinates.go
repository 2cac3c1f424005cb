package types

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vzahanych/weather-report/internal/validation"
)

// coordinatePrecision is the number of decimals the forecast endpoint accepts.
const coordinatePrecision = 4

var ErrInvalidCoordinates = errors.New("invalid coordinates")

type Coordinates struct {
	Latitude  float64 `json:"lat" validate:"latitude"`
	Longitude float64 `json:"lon" validate:"longitude"`
}

func NewCoords(latitude, longitude float64) Coordinates {
	return Coordinates{
		Latitude:  latitude,
		Longitude: longitude,
	}
}

// RoundCoordinate rounds x to four decimals, halves away from zero.
func RoundCoordinate(x float64) float64 {
	scale := math.Pow10(coordinatePrecision)
	return math.Round(x*scale) / scale
}

func (c Coordinates) Rounded() Coordinates {
	return NewCoords(RoundCoordinate(c.Latitude), RoundCoordinate(c.Longitude))
}

func (c Coordinates) Validate() error {
	if errs := validation.ValidateStruct(c); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCoordinates, errs[0].Message)
	}
	return nil
}

// String formats the pair as "<lat>,<lon>" using the shortest decimal form.
func (c Coordinates) String() string {
	return FormatCoordinate(c.Latitude) + "," + FormatCoordinate(c.Longitude)
}

func FormatCoordinate(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// ParseCoordinates accepts "<lat>,<lon>" with optional surrounding whitespace.
func ParseCoordinates(s string) (Coordinates, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Coordinates{}, fmt.Errorf("%w: %q, expected \"<lat>,<lon>\"", ErrInvalidCoordinates, s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: latitude %q is not a number", ErrInvalidCoordinates, parts[0])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: longitude %q is not a number", ErrInvalidCoordinates, parts[1])
	}
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return Coordinates{}, fmt.Errorf("%w: %q", ErrInvalidCoordinates, s)
	}

	c := NewCoords(lat, lon)
	if err := c.Validate(); err != nil {
		return Coordinates{}, err
	}
	return c, nil
}
