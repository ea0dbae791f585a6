package sunset

import (
	"math"
	"time"

	"github.com/spencer-p/tidesensor/pkg/timetricks"

	"github.com/keep94/sunrise"
)

// maxDaySkew bounds the search for the first sunrise on the start day.
const maxDaySkew = 3

// GetSunEvents returns a list of ordered sun events from the starting time to
// the end time in the given place. The first result will always be a sunrise.
// Days without a sunrise or sunset, as in polar summer or winter, are left
// out.
func GetSunEvents(start time.Time, duration time.Duration, place Place) SunEvents {
	start = start.In(place.Location)

	var s sunrise.Sunrise
	s.Around(place.Lat, place.Long, start)

	// The sunrise package is not very clean with its dates, so step until
	// it agrees with start.
	for i := 0; i < maxDaySkew && !timetricks.SameDay(start, s.Sunrise().In(place.Location)); i++ {
		if s.Sunrise().Before(start) {
			s.AddDays(1)
		} else {
			s.AddDays(-1)
		}
	}

	numDays := int(math.Ceil(duration.Hours() / 24))
	ret := make(SunEvents, 0, numDays*2)
	for i := 0; i < numDays; i++ {
		rise, set := s.Sunrise(), s.Sunset()
		s.AddDays(1)
		if rise.IsZero() || set.IsZero() {
			continue
		}
		ret = append(ret,
			SunEvent{rise.In(place.Location), Sunrise},
			SunEvent{set.In(place.Location), Sunset})
	}
	return ret
}
