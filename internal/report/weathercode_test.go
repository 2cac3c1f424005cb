package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe_TableIsTotalAndInjective(t *testing.T) {
	seen := make(map[WeatherCondition]int)
	descriptions := make(map[string]int)

	for code := 1; code <= 27; code++ {
		c, err := Describe(code)
		require.NoError(t, err, "code %d", code)
		assert.NotEmpty(t, c.String(), "code %d", code)
		assert.Equal(t, code, c.Code())

		_, dup := seen[c]
		assert.False(t, dup, "code %d duplicates code %d", code, seen[c])
		seen[c] = code

		_, dup = descriptions[c.String()]
		assert.False(t, dup, "description %q repeated", c.String())
		descriptions[c.String()] = code
	}
}

func TestDescribe_OutOfRange(t *testing.T) {
	for _, code := range []int{0, 28, -1, 100} {
		_, err := Describe(code)
		assert.ErrorIs(t, err, ErrInvalidCode, "code %d", code)
	}
}

func TestDescribe_Descriptions(t *testing.T) {
	want := []string{
		"Clear sky",
		"Nearly clear sky",
		"Variable cloudiness",
		"Halfclear sky",
		"Cloudy sky",
		"Overcast sky",
		"Fog",
		"Light rain showers",
		"Moderate rain showers",
		"Heavy rain showers",
		"Thunderstorm",
		"Light sleet showers",
		"Moderate sleet showers",
		"Heavy sleet showers",
		"Light snow showers",
		"Moderate snow showers",
		"Heavy snow showers",
		"Light rain",
		"Moderate rain",
		"Heavy rain",
		"Thunder",
		"Light sleet",
		"Moderate sleet",
		"Heavy sleet",
		"Light snowfall",
		"Moderate snowfall",
		"Heavy snowfall",
	}

	for i, description := range want {
		c, err := Describe(i + 1)
		require.NoError(t, err)
		assert.Equal(t, description, c.String())
	}
}

func TestWeatherCondition_Severity(t *testing.T) {
	c, err := Describe(13)
	require.NoError(t, err)
	assert.Equal(t, WeatherCondition{Phenomenon: SleetShowers, Severity: Moderate}, c)

	c, err = Describe(11)
	require.NoError(t, err)
	assert.Equal(t, SeverityNone, c.Severity)

	assert.Equal(t, 0, WeatherCondition{Phenomenon: Fog, Severity: Heavy}.Code())
}
