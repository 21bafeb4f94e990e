package calendar

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/profyt7/carelinkai-sub009/internal/domain"
)

var (
	ErrUnsupportedFrequency = errors.New("unsupported recurrence frequency")
	ErrInvalidPattern       = errors.New("invalid recurrence pattern")
	ErrUnboundedRecurrence  = errors.New("recurrence needs a horizon, end date or occurrence count")
)

const defaultMaxIterations = 100_000

// Template is a single appointment window plus the pattern it repeats with. TimeZone
// is the zone whose wall clock the occurrences keep.
type Template struct {
	Window   TimeWindow
	Pattern  domain.RecurrencePattern
	TimeZone string
}

// RuleInterpreter expands CUSTOM patterns. Implementations live outside the engine.
type RuleInterpreter interface {
	Expand(tmpl Template, horizonEnd domain.Date) ([]TimeWindow, error)
}

type Expander struct {
	Custom        RuleInterpreter
	MaxIterations int
}

// Expand materializes tmpl with a default Expander.
func Expand(tmpl Template, horizonEnd domain.Date) ([]TimeWindow, error) {
	return Expander{}.Expand(tmpl, horizonEnd)
}

// Expand returns the occurrence windows of tmpl in chronological order. The template's
// own window is the first occurrence only when the pattern selects its date: a
// DaysOfWeek, DayOfMonth or MonthOfYear that excludes it starts the series at the next
// matching date instead, and nothing earlier than the template is emitted. Expansion
// stops at the pattern's occurrence count, its end date or horizonEnd, whichever comes
// first. Excluded dates are skipped and not counted.
func (e Expander) Expand(tmpl Template, horizonEnd domain.Date) ([]TimeWindow, error) {
	p := tmpl.Pattern
	if err := ValidatePattern(p); err != nil {
		return nil, err
	}
	if !tmpl.Window.End.After(tmpl.Window.Start) {
		return nil, ErrInvalidWindow
	}
	if horizonEnd.IsZero() && p.EndDate == nil && p.Occurrences == 0 {
		return nil, ErrUnboundedRecurrence
	}

	loc := ResolveLocation(tmpl.TimeZone)

	if p.Frequency == domain.FrequencyCustom {
		if e.Custom == nil {
			return nil, ErrUnsupportedFrequency
		}
		windows, err := e.Custom.Expand(tmpl, horizonEnd)
		if err != nil {
			return nil, err
		}
		return boundWindows(windows, p, horizonEnd, loc), nil
	}

	first := tmpl.Window.Start.In(loc)
	duration := tmpl.Window.Duration()
	next := sequence(p, first)

	limit := e.MaxIterations
	if limit <= 0 {
		limit = defaultMaxIterations
	}

	out := make([]TimeWindow, 0, 16)
	for i := 0; i < limit; i++ {
		start := next()
		if start.Before(first) {
			continue
		}
		day := domain.DateOf(start)
		if p.EndDate != nil && day.After(*p.EndDate) {
			break
		}
		if !horizonEnd.IsZero() && day.After(horizonEnd) {
			break
		}
		if p.Excludes(day) {
			continue
		}
		out = append(out, TimeWindow{Start: start.UTC(), End: start.Add(duration).UTC()})
		if p.Occurrences > 0 && len(out) >= p.Occurrences {
			break
		}
	}
	return out, nil
}

func ValidatePattern(p domain.RecurrencePattern) error {
	switch p.Frequency {
	case domain.FrequencyDaily, domain.FrequencyWeekly, domain.FrequencyBiWeekly,
		domain.FrequencyMonthly, domain.FrequencyYearly, domain.FrequencyCustom:
	default:
		return ErrUnsupportedFrequency
	}
	for _, wd := range p.DaysOfWeek {
		if wd < time.Sunday || wd > time.Saturday {
			return fmt.Errorf("%w: weekday %d out of range", ErrInvalidPattern, wd)
		}
	}
	if p.DayOfMonth < 0 || p.DayOfMonth > 31 {
		return fmt.Errorf("%w: day_of_month %d out of range", ErrInvalidPattern, p.DayOfMonth)
	}
	if p.MonthOfYear < 0 || p.MonthOfYear > time.December {
		return fmt.Errorf("%w: month_of_year %d out of range", ErrInvalidPattern, p.MonthOfYear)
	}
	if p.Occurrences < 0 {
		return fmt.Errorf("%w: occurrences must not be negative", ErrInvalidPattern)
	}
	return nil
}

// sequence yields candidate occurrence starts in ascending order. Every candidate
// keeps the wall-clock time of first in first's location; some may precede first.
func sequence(p domain.RecurrencePattern, first time.Time) func() time.Time {
	loc := first.Location()
	hour, minute, sec := first.Clock()
	nsec := first.Nanosecond()
	at := func(d domain.Date) time.Time {
		return time.Date(d.Year, d.Month, d.Day, hour, minute, sec, nsec, loc)
	}
	origin := domain.DateOf(first)

	switch p.Frequency {
	case domain.FrequencyWeekly, domain.FrequencyBiWeekly:
		step := 1
		if p.Frequency == domain.FrequencyBiWeekly {
			step = 2
		}
		days := normalizeWeekdays(p.DaysOfWeek, first.Weekday())
		monday := origin.AddDays(-daysFromMonday(first.Weekday()))
		week, idx := 0, 0
		return func() time.Time {
			d := monday.AddDays(week*step*7 + daysFromMonday(days[idx]))
			idx++
			if idx == len(days) {
				idx = 0
				week++
			}
			return at(d)
		}

	case domain.FrequencyMonthly:
		dom := p.DayOfMonth
		if dom == 0 {
			dom = origin.Day
		}
		k := 0
		return func() time.Time {
			m := domain.NewDate(origin.Year, origin.Month+time.Month(k), 1)
			k++
			return at(clampDay(m.Year, m.Month, dom))
		}

	case domain.FrequencyYearly:
		month := p.MonthOfYear
		if month == 0 {
			month = origin.Month
		}
		dom := p.DayOfMonth
		if dom == 0 {
			dom = origin.Day
		}
		k := 0
		return func() time.Time {
			y := origin.Year + k
			k++
			return at(clampDay(y, month, dom))
		}

	default:
		k := 0
		return func() time.Time {
			d := origin.AddDays(k)
			k++
			return at(d)
		}
	}
}

func clampDay(year int, month time.Month, day int) domain.Date {
	if last := domain.DaysIn(year, month); day > last {
		day = last
	}
	return domain.Date{Year: year, Month: month, Day: day}
}

// normalizeWeekdays dedups days and orders them Monday first. An empty set means the
// template's own weekday.
func normalizeWeekdays(days []time.Weekday, fallback time.Weekday) []time.Weekday {
	if len(days) == 0 {
		return []time.Weekday{fallback}
	}
	seen := make(map[time.Weekday]struct{}, len(days))
	out := make([]time.Weekday, 0, len(days))
	for _, wd := range days {
		if _, ok := seen[wd]; ok {
			continue
		}
		seen[wd] = struct{}{}
		out = append(out, wd)
	}
	sort.Slice(out, func(i, j int) bool { return daysFromMonday(out[i]) < daysFromMonday(out[j]) })
	return out
}

func daysFromMonday(wd time.Weekday) int {
	if wd == time.Sunday {
		return 6
	}
	return int(wd) - 1
}

func boundWindows(windows []TimeWindow, p domain.RecurrencePattern, horizonEnd domain.Date, loc *time.Location) []TimeWindow {
	sort.Slice(windows, func(i, j int) bool { return windows[i].Start.Before(windows[j].Start) })

	out := make([]TimeWindow, 0, len(windows))
	for _, w := range windows {
		if !w.End.After(w.Start) {
			continue
		}
		day := domain.DateOf(w.Start.In(loc))
		if p.EndDate != nil && day.After(*p.EndDate) {
			break
		}
		if !horizonEnd.IsZero() && day.After(horizonEnd) {
			break
		}
		if p.Excludes(day) {
			continue
		}
		out = append(out, w)
		if p.Occurrences > 0 && len(out) >= p.Occurrences {
			break
		}
	}
	return out
}
