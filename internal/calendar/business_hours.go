package calendar

import (
	"time"

	"github.com/profyt7/carelinkai-sub009/internal/domain"
)

// BusinessHours is the default bookable window: local hours [StartHour, EndHour) on
// every day that is not a weekend day.
type BusinessHours struct {
	StartHour int
	EndHour   int
	Weekend   []time.Weekday
}

func DefaultBusinessHours() BusinessHours {
	return BusinessHours{
		StartHour: 9,
		EndHour:   17,
		Weekend:   []time.Weekday{time.Saturday, time.Sunday},
	}
}

func (b BusinessHours) isZero() bool {
	return b.StartHour == 0 && b.EndHour == 0 && len(b.Weekend) == 0
}

func (b BusinessHours) IsWeekend(wd time.Weekday) bool {
	for _, w := range b.Weekend {
		if w == wd {
			return true
		}
	}
	return false
}

// IsBusinessWindow reports whether w starts on a working day and both of its local
// endpoints fall within business hours. A window ending exactly on EndHour is inside.
func (b BusinessHours) IsBusinessWindow(w TimeWindow, tz string) bool {
	if b.IsWeekend(time.Weekday(LocalWeekday(w.Start, tz))) {
		return false
	}

	startHour := LocalHour(w.Start, tz)
	if startHour < b.StartHour || startHour >= b.EndHour {
		return false
	}

	loc := ResolveLocation(tz)
	start := w.Start.In(loc)
	end := w.End.In(loc)
	endHour := end.Hour()
	onTheHour := end.Minute() == 0 && end.Second() == 0 && end.Nanosecond() == 0
	if onTheHour && endHour == 0 && domain.DateOf(end).After(domain.DateOf(start)) {
		endHour = 24
	}
	if onTheHour && endHour == b.EndHour {
		return true
	}
	return endHour >= b.StartHour && endHour < b.EndHour
}

// Day returns the business-hours window of d in loc.
func (b BusinessHours) Day(d domain.Date, loc *time.Location) TimeWindow {
	return TimeWindow{
		Start: time.Date(d.Year, d.Month, d.Day, b.StartHour, 0, 0, 0, loc),
		End:   time.Date(d.Year, d.Month, d.Day, b.EndHour, 0, 0, 0, loc),
	}
}
