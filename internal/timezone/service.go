package timezone

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ringsaturn/tzf"
)

const (
	// Auto selects the zone of the queried point.
	Auto  = "auto"
	Local = "Local"
)

// Finder maps coordinates to an IANA zone name.
type Finder interface {
	GetTimezoneName(lng float64, lat float64) string
}

var (
	defaultFinder Finder
	finderErr     error
	once          sync.Once
)

// DefaultFinder loads the tzf dataset on first use.
func DefaultFinder() (Finder, error) {
	once.Do(func() {
		f, err := tzf.NewDefaultFinder()
		if err != nil {
			finderErr = fmt.Errorf("failed to initialize timezone finder: %w", err)
			return
		}
		defaultFinder = f
	})
	return defaultFinder, finderErr
}

// Resolve returns the display location for setting. finder is only consulted
// for Auto and may be nil otherwise.
func Resolve(setting string, latitude, longitude float64, finder Finder) (*time.Location, error) {
	switch {
	case setting == "" || strings.EqualFold(setting, Local):
		return time.Local, nil
	case strings.EqualFold(setting, Auto):
		if finder == nil {
			return nil, fmt.Errorf("timezone finder is not available")
		}
		name := finder.GetTimezoneName(longitude, latitude)
		if name == "" {
			return nil, fmt.Errorf("could not determine timezone for coordinates lat=%f, lon=%f", latitude, longitude)
		}
		return time.LoadLocation(name)
	default:
		loc, err := time.LoadLocation(setting)
		if err != nil {
			return nil, fmt.Errorf("unknown timezone %q: %w", setting, err)
		}
		return loc, nil
	}
}

// Lookup resolves setting, loading the default finder only for Auto.
func Lookup(setting string, latitude, longitude float64) (*time.Location, error) {
	var finder Finder
	if strings.EqualFold(setting, Auto) {
		f, err := DefaultFinder()
		if err != nil {
			return nil, err
		}
		finder = f
	}
	return Resolve(setting, latitude, longitude, finder)
}
