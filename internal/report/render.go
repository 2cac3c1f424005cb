package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const labelColumnWidth = 30

// Renderer formats events for the terminal. Location is the zone the time
// line is shown in; nil means time.Local.
type Renderer struct {
	Location *time.Location
}

func NewRenderer(loc *time.Location) *Renderer {
	return &Renderer{Location: loc}
}

func (r *Renderer) location() *time.Location {
	if r == nil || r.Location == nil {
		return time.Local
	}
	return r.Location
}

// RenderEvent formats one event as a time line, the condition description and
// one line per measurement. now is the reference instant for the day buckets.
func (r *Renderer) RenderEvent(e Event, now time.Time) (string, error) {
	condition, err := e.WeatherCondition()
	if err != nil {
		return "", err
	}

	measurements := make([]Measurement, 0, 6)
	for _, accessor := range []func() (Measurement, error){
		e.Temperature,
		e.WindSpeed,
		e.WindDirection,
		e.Humidity,
		e.Precipitation,
		e.GustSpeed,
	} {
		m, err := accessor()
		if err != nil {
			return "", err
		}
		measurements = append(measurements, m)
	}

	var b strings.Builder
	b.WriteString(r.TimeLabel(e.ValidAt, now))
	b.WriteByte('\n')
	b.WriteString(condition.String())
	for _, m := range measurements {
		b.WriteByte('\n')
		b.WriteString(FormatMeasurement(m))
	}
	return b.String(), nil
}

// TimeLabel buckets validAt relative to now by whole hours: 0-24 is "Today",
// 25-48 is "Tomorrow", anything else, past events included, gets the full date.
func (r *Renderer) TimeLabel(validAt, now time.Time) string {
	loc := r.location()
	local := validAt.In(loc)
	hours := int(local.Sub(now.In(loc)) / time.Hour)
	clock := local.Format("15:04")

	switch {
	case hours >= 0 && hours <= 24:
		return "🕐 Today " + clock
	case hours >= 25 && hours <= 48:
		return "🕐 Tomorrow " + clock
	default:
		return "🕐 " + local.Format("Monday, January 2") + " " + clock
	}
}

// FormatMeasurement renders "symbol label: value unit" with the value right
// aligned so units line up across labels of different length.
func FormatMeasurement(m Measurement) string {
	width := labelColumnWidth - len(m.Label)
	if width < 0 {
		width = 0
	}
	return fmt.Sprintf("%s %s: %*s%s", m.Symbol, m.Label, width, strconv.FormatFloat(m.Value, 'f', -1, 64), m.Unit)
}

// RenderReport renders the summary line followed by the first n events.
func (r *Renderer) RenderReport(rep *Report, n int, now time.Time) (string, error) {
	if n > rep.Len() {
		n = rep.Len()
	}

	blocks := make([]string, 0, n+1)
	blocks = append(blocks, rep.Summary())
	for i := 0; i < n; i++ {
		e, err := rep.EventAt(i)
		if err != nil {
			return "", err
		}
		block, err := r.RenderEvent(e, now)
		if err != nil {
			return "", fmt.Errorf("event %d: %w", i, err)
		}
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n\n") + "\n", nil
}
