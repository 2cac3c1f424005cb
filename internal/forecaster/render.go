package forecaster

import (
	"fmt"
	"time"

	"github.com/vzahanych/weather-report/internal/report"
	"github.com/vzahanych/weather-report/internal/timezone"
)

// Render formats the summary and the first n events, with times shown in the
// zone selected by tzSetting ("Local", "auto" or an IANA name).
func (r *Result) Render(tzSetting string, n int, now time.Time) (string, error) {
	if n < 1 {
		return "", fmt.Errorf("number of events must be at least 1, got %d", n)
	}

	loc, err := timezone.Lookup(tzSetting, r.Coordinates.Latitude, r.Coordinates.Longitude)
	if err != nil {
		return "", err
	}

	return report.NewRenderer(loc).RenderReport(r.Report, n, now)
}
