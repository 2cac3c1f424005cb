package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vzahanych/weather-report/internal/validation"
)

// OutOfBoundsMessage is what the forecast service answers for points outside
// its grid.
const OutOfBoundsMessage = "Requested point is out of bounds"

// DecodeError reports why a forecast body could not be turned into a Report.
type DecodeError struct {
	Path   string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return "decode forecast: " + e.Reason
	}
	return fmt.Sprintf("decode forecast: %s: %s", e.Path, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsOutOfBounds reports whether body is the service's out-of-coverage answer
// rather than a forecast document.
func IsOutOfBounds(body string) bool {
	return strings.Contains(body, OutOfBoundsMessage)
}

type wireReport struct {
	ApprovedTime  *string       `json:"approvedTime" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	ReferenceTime *string       `json:"referenceTime" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Geometry      *wireGeometry `json:"geometry" validate:"required"`
	TimeSeries    []wireEvent   `json:"timeSeries" validate:"required,dive"`
}

type wireGeometry struct {
	Type        *string     `json:"type" validate:"required"`
	Coordinates [][]float64 `json:"coordinates" validate:"required,dive,len=2"`
}

type wireEvent struct {
	ValidTime  *string         `json:"validTime" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Parameters []wireDatapoint `json:"parameters" validate:"required,dive"`
}

type wireDatapoint struct {
	Name      *string   `json:"name" validate:"required"`
	LevelType *string   `json:"levelType" validate:"required"`
	Level     *int      `json:"level" validate:"required"`
	Unit      *string   `json:"unit" validate:"required"`
	Values    []float64 `json:"values" validate:"required,min=1"`
}

// Decode parses a pmp3g point forecast. Every field must be present with the
// expected shape; extra fields are ignored.
func Decode(body string) (*Report, error) {
	var w wireReport
	dec := json.NewDecoder(strings.NewReader(body))
	if err := dec.Decode(&w); err != nil {
		return nil, jsonDecodeError(err)
	}
	if dec.More() {
		return nil, &DecodeError{Reason: "unexpected data after the JSON document"}
	}

	if errs := validation.ValidateStruct(w); len(errs) > 0 {
		return nil, &DecodeError{Path: errs[0].Path, Reason: errs[0].Message}
	}

	approved, err := parseTimestamp("approvedTime", *w.ApprovedTime)
	if err != nil {
		return nil, err
	}
	reference, err := parseTimestamp("referenceTime", *w.ReferenceTime)
	if err != nil {
		return nil, err
	}

	geometry := Geometry{Kind: *w.Geometry.Type, Coordinates: make([][2]float64, len(w.Geometry.Coordinates))}
	for i, c := range w.Geometry.Coordinates {
		geometry.Coordinates[i] = [2]float64{c[0], c[1]}
	}

	events := make([]Event, len(w.TimeSeries))
	for i, we := range w.TimeSeries {
		validAt, err := parseTimestamp(fmt.Sprintf("timeSeries[%d].validTime", i), *we.ValidTime)
		if err != nil {
			return nil, err
		}
		params := make([]Datapoint, len(we.Parameters))
		for j, p := range we.Parameters {
			params[j] = Datapoint{
				Name:      *p.Name,
				LevelType: *p.LevelType,
				Level:     *p.Level,
				Unit:      *p.Unit,
				Values:    p.Values,
			}
		}
		events[i] = Event{ValidAt: validAt, Parameters: params}
	}

	return NewReport(approved, reference, geometry, events), nil
}

// MarshalJSON encodes the report in the same shape Decode accepts.
func (r *Report) MarshalJSON() ([]byte, error) {
	approved := formatTimestamp(r.approvedAt)
	reference := formatTimestamp(r.referenceAt)
	kind := r.geometry.Kind

	w := wireReport{
		ApprovedTime:  &approved,
		ReferenceTime: &reference,
		Geometry:      &wireGeometry{Type: &kind, Coordinates: make([][]float64, len(r.geometry.Coordinates))},
		TimeSeries:    make([]wireEvent, len(r.events)),
	}
	for i, c := range r.geometry.Coordinates {
		w.Geometry.Coordinates[i] = []float64{c[0], c[1]}
	}
	for i, e := range r.events {
		validTime := formatTimestamp(e.ValidAt)
		we := wireEvent{ValidTime: &validTime, Parameters: make([]wireDatapoint, len(e.Parameters))}
		for j := range e.Parameters {
			p := e.Parameters[j]
			we.Parameters[j] = wireDatapoint{
				Name:      &p.Name,
				LevelType: &p.LevelType,
				Level:     &p.Level,
				Unit:      &p.Unit,
				Values:    p.Values,
			}
		}
		w.TimeSeries[i] = we
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(w); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func parseTimestamp(path, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, &DecodeError{Path: path, Reason: "malformed timestamp " + value, Err: err}
	}
	return t.UTC(), nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func jsonDecodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &DecodeError{
			Path:   typeErr.Field,
			Reason: fmt.Sprintf("expected %s, got JSON %s", typeErr.Type, typeErr.Value),
			Err:    err,
		}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &DecodeError{
			Reason: fmt.Sprintf("malformed JSON at offset %d: %s", syntaxErr.Offset, syntaxErr.Error()),
			Err:    err,
		}
	}

	return &DecodeError{Reason: err.Error(), Err: err}
}
