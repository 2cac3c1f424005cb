// Package location turns user input into forecast coordinates.
package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/vzahanych/weather-report/internal/types"
)

var (
	ErrMissingField  = errors.New("geocoding response is missing a field")
	ErrDecode        = errors.New("geocoding response is not valid JSON")
	ErrInvalidFormat = errors.New("invalid location")
	ErrTransport     = errors.New("geocoding request failed")
)

// Query holds exactly one of a free-text description or a "<lat>,<lon>" pair.
type Query struct {
	Description string
	Coordinates string
}

// Geocoder returns the raw JSON answer of a geocoding lookup.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (string, error)
}

type Resolver struct {
	geocoder Geocoder
	logger   *zap.Logger
}

// NewResolver creates a resolver. geocoder may be nil when only coordinate
// queries are expected.
func NewResolver(geocoder Geocoder, logger *zap.Logger) *Resolver {
	return &Resolver{
		geocoder: geocoder,
		logger:   logger,
	}
}

func (r *Resolver) Resolve(ctx context.Context, q Query) (types.Coordinates, error) {
	description := strings.TrimSpace(q.Description)
	coordinates := strings.TrimSpace(q.Coordinates)

	switch {
	case description != "" && coordinates != "":
		return types.Coordinates{}, fmt.Errorf("%w: give a description or coordinates, not both", ErrInvalidFormat)
	case coordinates != "":
		c, err := types.ParseCoordinates(coordinates)
		if err != nil {
			return types.Coordinates{}, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
		}
		return c, nil
	case description != "":
		return r.geocode(ctx, description)
	default:
		return types.Coordinates{}, fmt.Errorf("%w: a description or coordinates is required", ErrInvalidFormat)
	}
}

func (r *Resolver) geocode(ctx context.Context, description string) (types.Coordinates, error) {
	if r.geocoder == nil {
		return types.Coordinates{}, fmt.Errorf("%w: no geocoder configured", ErrTransport)
	}

	body, err := r.geocoder.Geocode(ctx, description)
	if err != nil {
		return types.Coordinates{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	result, err := ParseGeocodeResponse(body)
	if err != nil {
		r.logger.Warn("Could not resolve description",
			zap.String("description", description),
			zap.Error(err))
		return types.Coordinates{}, err
	}

	r.logger.Info("Resolved description",
		zap.String("description", description),
		zap.String("formatted_address", result.FormattedAddress),
		zap.Float64("lat", result.Coordinates.Latitude),
		zap.Float64("lon", result.Coordinates.Longitude))

	return result.Coordinates, nil
}

// GeocodeResult is the first match of a geocoding answer.
type GeocodeResult struct {
	Coordinates      types.Coordinates
	FormattedAddress string
}

type geocodeResponse struct {
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message"`
	Results      []geocodeResult `json:"results"`
}

type geocodeResult struct {
	FormattedAddress string           `json:"formatted_address"`
	Geometry         *geocodeGeometry `json:"geometry"`
}

type geocodeGeometry struct {
	Location *geocodeLocation `json:"location"`
}

type geocodeLocation struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// ParseGeocodeResponse extracts results[0].geometry.location.{lat,lng}.
func ParseGeocodeResponse(body string) (GeocodeResult, error) {
	var resp geocodeResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return GeocodeResult{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if len(resp.Results) == 0 {
		return GeocodeResult{}, fmt.Errorf("%w: results[0]%s", ErrMissingField, describeStatus(resp))
	}
	first := resp.Results[0]
	switch {
	case first.Geometry == nil:
		return GeocodeResult{}, fmt.Errorf("%w: results[0].geometry", ErrMissingField)
	case first.Geometry.Location == nil:
		return GeocodeResult{}, fmt.Errorf("%w: results[0].geometry.location", ErrMissingField)
	case first.Geometry.Location.Lat == nil:
		return GeocodeResult{}, fmt.Errorf("%w: results[0].geometry.location.lat", ErrMissingField)
	case first.Geometry.Location.Lng == nil:
		return GeocodeResult{}, fmt.Errorf("%w: results[0].geometry.location.lng", ErrMissingField)
	}

	c := types.NewCoords(*first.Geometry.Location.Lat, *first.Geometry.Location.Lng)
	if err := c.Validate(); err != nil {
		return GeocodeResult{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return GeocodeResult{Coordinates: c, FormattedAddress: first.FormattedAddress}, nil
}

func describeStatus(resp geocodeResponse) string {
	switch {
	case resp.Status != "" && resp.ErrorMessage != "":
		return fmt.Sprintf(" (status %s: %s)", resp.Status, resp.ErrorMessage)
	case resp.Status != "":
		return fmt.Sprintf(" (status %s)", resp.Status)
	default:
		return ""
	}
}
