package service

import (
	"context"
	"fmt"

	"github.com/vzahanych/weather-report/internal/types"
)

// ForecastService fetches the raw forecast document for a point.
type ForecastService interface {
	FetchPoint(ctx context.Context, coords types.Coordinates) (string, error)
	Name() string
}

// GeocodeService looks up free text and returns the raw JSON answer.
type GeocodeService interface {
	Geocode(ctx context.Context, address string) (string, error)
	Name() string
}

// TransportError is a network, DNS or TLS failure talking to a provider.
type TransportError struct {
	Service string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
