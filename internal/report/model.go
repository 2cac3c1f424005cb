// Package report decodes SMHI point forecasts and renders them for the terminal.
package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/paulmach/orb"
)

var ErrIndexOutOfRange = errors.New("event index out of range")

// Report is a decoded forecast document for a single queried point. It is
// read-only after Decode and safe to share between renderers.
type Report struct {
	approvedAt  time.Time
	referenceAt time.Time
	geometry    Geometry
	events      []Event
}

// Geometry is the grid shape the forecast service snapped the query to.
// Coordinate pairs are [lon, lat].
type Geometry struct {
	Kind        string
	Coordinates [][2]float64
}

// Event is one forecast time step.
type Event struct {
	ValidAt    time.Time
	Parameters []Datapoint
}

type Datapoint struct {
	Name      string
	LevelType string
	Level     int
	Unit      string
	Values    []float64
}

func NewReport(approvedAt, referenceAt time.Time, geometry Geometry, events []Event) *Report {
	return &Report{
		approvedAt:  approvedAt,
		referenceAt: referenceAt,
		geometry:    geometry.clone(),
		events:      cloneEvents(events),
	}
}

func (r *Report) ApprovedAt() time.Time  { return r.approvedAt }
func (r *Report) ReferenceAt() time.Time { return r.referenceAt }
func (r *Report) Geometry() Geometry     { return r.geometry.clone() }

// Events returns a copy of the time series in the order the service emitted it.
func (r *Report) Events() []Event {
	return cloneEvents(r.events)
}

func (r *Report) Len() int {
	return len(r.events)
}

func (r *Report) EventAt(index int) (Event, error) {
	if index < 0 || index >= len(r.events) {
		return Event{}, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(r.events))
	}
	return r.events[index].clone(), nil
}

func (r *Report) Summary() string {
	return fmt.Sprintf("Report from %s, approved at %s", r.referenceAt, r.approvedAt)
}

// Point returns the first coordinate of the geometry.
func (g Geometry) Point() (orb.Point, bool) {
	if len(g.Coordinates) == 0 {
		return orb.Point{}, false
	}
	return orb.Point(g.Coordinates[0]), true
}

func (g Geometry) Bound() orb.Bound {
	mp := make(orb.MultiPoint, 0, len(g.Coordinates))
	for _, c := range g.Coordinates {
		mp = append(mp, orb.Point(c))
	}
	return mp.Bound()
}

func (g Geometry) clone() Geometry {
	coords := make([][2]float64, len(g.Coordinates))
	copy(coords, g.Coordinates)
	return Geometry{Kind: g.Kind, Coordinates: coords}
}

func (e Event) clone() Event {
	params := make([]Datapoint, len(e.Parameters))
	for i, p := range e.Parameters {
		p.Values = append([]float64(nil), p.Values...)
		params[i] = p
	}
	return Event{ValidAt: e.ValidAt, Parameters: params}
}

func cloneEvents(events []Event) []Event {
	out := make([]Event, len(events))
	for i, e := range events {
		out[i] = e.clone()
	}
	return out
}
