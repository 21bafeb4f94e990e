package calendar

import (
	"sort"

	"github.com/profyt7/carelinkai-sub009/internal/domain"
)

// FindConflicts returns the appointments of ownerID that occupy part of window,
// ordered by start time. Cancelled appointments never conflict.
func FindConflicts(ownerID string, window TimeWindow, appts []domain.Appointment) []domain.Appointment {
	var out []domain.Appointment
	for _, a := range appts {
		if a.OwnerID != ownerID || !a.Status.Occupies() {
			continue
		}
		if Overlaps(a.StartTime, a.EndTime, window.Start, window.End) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

// occupied keeps the appointments of ownerID that hold their window, sorted by start.
func occupied(ownerID string, appts []domain.Appointment) []TimeWindow {
	out := make([]TimeWindow, 0, len(appts))
	for _, a := range appts {
		if a.OwnerID != ownerID || !a.Status.Occupies() {
			continue
		}
		out = append(out, TimeWindow{Start: a.StartTime, End: a.EndTime})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func overlapsAny(w TimeWindow, busy []TimeWindow) bool {
	for _, b := range busy {
		if !b.Start.Before(w.End) {
			// busy is sorted by start; nothing later can overlap.
			return false
		}
		if w.Overlaps(b) {
			return true
		}
	}
	return false
}
