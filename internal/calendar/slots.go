package calendar

import (
	"sort"
	"time"

	"github.com/profyt7/carelinkai-sub009/internal/domain"
)

type SlotRequest struct {
	OwnerID           string
	RangeStart        domain.Date
	RangeEnd          domain.Date
	ActivityType      domain.ActivityType
	Duration          time.Duration
	ExcludeWeekends   bool
	BusinessHoursOnly bool
	TimeZone          string

	// NotBefore drops slots starting earlier than it. Zero keeps everything.
	NotBefore time.Time

	Appointments []domain.Appointment
	Availability []domain.AvailabilitySlot
}

// ProposedSlot is a bookable window found by GenerateSlots. LocalDate is the calendar
// day of Start in the request timezone.
type ProposedSlot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	LocalDate string    `json:"local_date"`
}

type SlotResult struct {
	AvailableSlots []ProposedSlot
	SlotsByDay     map[string][]ProposedSlot
}

func emptySlotResult() SlotResult {
	return SlotResult{
		AvailableSlots: []ProposedSlot{},
		SlotsByDay:     map[string][]ProposedSlot{},
	}
}

// GenerateSlots enumerates every free window of the requested duration across the
// inclusive day range. Candidate windows are tiled back to back from their start; a
// tile survives when no occupying appointment of the owner overlaps it. Tiles end no
// later than midnight after RangeEnd in the request timezone, so an availability slot
// running past that midnight is cut there and every SlotsByDay key lies in the range.
func (e Engine) GenerateSlots(req SlotRequest) SlotResult {
	out := emptySlotResult()
	if req.Duration <= 0 || req.RangeStart.After(req.RangeEnd) {
		return out
	}

	hours := e.hours()
	loc := ResolveLocation(req.TimeZone)
	busy := occupied(req.OwnerID, req.Appointments)
	rangeEnd := req.RangeEnd.AddDays(1).In(loc)

	for d := req.RangeStart; !d.After(req.RangeEnd); d = d.AddDays(1) {
		dayStart := d.In(loc)
		if req.ExcludeWeekends && hours.IsWeekend(time.Weekday(LocalWeekday(dayStart, req.TimeZone))) {
			continue
		}

		for _, candidate := range e.candidates(req, d, loc, hours) {
			for t := candidate.Start; !t.Add(req.Duration).After(candidate.End); t = t.Add(req.Duration) {
				slot := TimeWindow{Start: t, End: t.Add(req.Duration)}
				if slot.End.After(rangeEnd) {
					break
				}
				if !req.NotBefore.IsZero() && slot.Start.Before(req.NotBefore) {
					continue
				}
				if overlapsAny(slot, busy) {
					continue
				}
				if e.HonorBlocks && IsBlocked(req.OwnerID, slot, req.ActivityType, req.Availability) {
					continue
				}

				key := slot.Start.In(loc).Format(domain.DateLayout)
				p := ProposedSlot{Start: slot.Start, End: slot.End, LocalDate: key}
				out.AvailableSlots = append(out.AvailableSlots, p)
				out.SlotsByDay[key] = append(out.SlotsByDay[key], p)
			}
		}
	}

	return out
}

// GenerateSlots runs GenerateSlots with the default policy.
func GenerateSlots(req SlotRequest) SlotResult {
	return NewEngine().GenerateSlots(req)
}

func (e Engine) candidates(req SlotRequest, d domain.Date, loc *time.Location, hours BusinessHours) []TimeWindow {
	if req.BusinessHoursOnly {
		return []TimeWindow{hours.Day(d, loc)}
	}

	var open []TimeWindow
	for _, s := range req.Availability {
		if s.OwnerID != req.OwnerID || !s.IsAvailable || !s.Accepts(req.ActivityType) {
			continue
		}
		if !s.EndTime.After(s.StartTime) {
			continue
		}
		if domain.DateOf(s.StartTime.In(loc)) != d {
			continue
		}
		open = append(open, TimeWindow{Start: s.StartTime, End: s.EndTime})
	}

	if len(open) == 0 {
		if e.EmptyDay == EmptyDayFullDay {
			return []TimeWindow{{Start: d.In(loc), End: d.AddDays(1).In(loc)}}
		}
		return nil
	}
	return mergeWindows(open)
}

// mergeWindows returns the union of ws as sorted, disjoint windows. Touching windows
// are joined.
func mergeWindows(ws []TimeWindow) []TimeWindow {
	sort.Slice(ws, func(i, j int) bool { return ws[i].Start.Before(ws[j].Start) })

	out := make([]TimeWindow, 0, len(ws))
	for _, w := range ws {
		if n := len(out); n > 0 && !w.Start.After(out[n-1].End) {
			if w.End.After(out[n-1].End) {
				out[n-1].End = w.End
			}
			continue
		}
		out = append(out, w)
	}
	return out
}
