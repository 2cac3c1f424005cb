package report

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func loadSample(t *testing.T) string {
	t.Helper()
	body, err := os.ReadFile("testdata/forecast.json")
	require.NoError(t, err)
	return string(body)
}

func datapoint(name string, value float64) Datapoint {
	return Datapoint{Name: name, LevelType: "hl", Level: 2, Unit: "x", Values: []float64{value}}
}

func sampleEvent(validAt time.Time, code float64) Event {
	return Event{
		ValidAt: validAt,
		Parameters: []Datapoint{
			datapoint("t", -2.5),
			datapoint("ws", 3.4),
			datapoint("wd", 245),
			datapoint("r", 81),
			datapoint("pmean", 0),
			datapoint("gust", 7.9),
			datapoint(WeatherSymbolParameter, code),
		},
	}
}
