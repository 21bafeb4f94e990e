package calendar

import (
	"errors"
	"time"
)

var ErrInvalidWindow = errors.New("window end must be after start")

// TimeWindow is the half-open interval [Start, End).
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	if !end.After(start) {
		return TimeWindow{}, ErrInvalidWindow
	}
	return TimeWindow{Start: start, End: end}, nil
}

// Overlaps reports whether w and o share at least one instant. Windows that only
// touch (w.End == o.Start) do not overlap.
func (w TimeWindow) Overlaps(o TimeWindow) bool {
	return Overlaps(w.Start, w.End, o.Start, o.End)
}

func (w TimeWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Overlaps reports whether [aStart,aEnd) and [bStart,bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
