package calendar

import (
	"strings"
	"time"
)

// ResolveLocation returns the IANA location named by tz. Empty, unknown and
// process-relative ("Local") identifiers resolve to UTC so that scheduling never
// fails, and never depends on the host, because of a bad timezone string.
func ResolveLocation(tz string) *time.Location {
	tz = strings.TrimSpace(tz)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LocalHour returns the wall-clock hour [0,23] of instant in tz.
func LocalHour(instant time.Time, tz string) int {
	return instant.In(ResolveLocation(tz)).Hour()
}

// LocalWeekday returns the weekday [0,6] of instant in tz, 0 being Sunday.
func LocalWeekday(instant time.Time, tz string) int {
	return int(instant.In(ResolveLocation(tz)).Weekday())
}
