package calendar

import (
	"testing"
	"time"

	"github.com/profyt7/carelinkai-sub009/internal/domain"
)

func TestIsBusinessWindow_DefaultPolicy(t *testing.T) {
	wed := func(h, m int) time.Time { return time.Date(2025, 10, 15, h, m, 0, 0, time.UTC) }
	sat := func(h, m int) time.Time { return time.Date(2025, 10, 18, h, m, 0, 0, time.UTC) }

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		tz    string
		want  bool
	}{
		{name: "mid morning", start: wed(10, 0), end: wed(11, 0), tz: "UTC", want: true},
		{name: "opens at nine", start: wed(9, 0), end: wed(10, 0), tz: "UTC", want: true},
		{name: "ends exactly at five", start: wed(16, 0), end: wed(17, 0), tz: "UTC", want: true},
		{name: "runs past five", start: wed(16, 30), end: wed(17, 30), tz: "UTC", want: false},
		{name: "starts before nine", start: wed(8, 30), end: wed(9, 30), tz: "UTC", want: false},
		{name: "starts at five", start: wed(17, 0), end: wed(17, 30), tz: "UTC", want: false},
		{name: "saturday", start: sat(10, 0), end: sat(11, 0), tz: "UTC", want: false},
		{name: "new york morning", start: wed(14, 0), end: wed(15, 0), tz: "America/New_York", want: true},
		{name: "new york late afternoon", start: wed(20, 0), end: wed(21, 0), tz: "America/New_York", want: true},
		{name: "utc evening", start: wed(20, 0), end: wed(21, 0), tz: "UTC", want: false},
		{name: "invalid zone uses utc", start: wed(10, 0), end: wed(11, 0), tz: "not/a/zone", want: true},
		{name: "tokyo saturday morning", start: time.Date(2025, 10, 18, 1, 0, 0, 0, time.UTC), end: time.Date(2025, 10, 18, 2, 0, 0, 0, time.UTC), tz: "Asia/Tokyo", want: false},
	}

	policy := DefaultBusinessHours()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.IsBusinessWindow(TimeWindow{Start: tt.start, End: tt.end}, tt.tz)
			if got != tt.want {
				t.Fatalf("IsBusinessWindow = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsBusinessWindow_AroundTheClock(t *testing.T) {
	policy := BusinessHours{StartHour: 0, EndHour: 24}
	start := time.Date(2025, 10, 18, 23, 0, 0, 0, time.UTC)

	if !policy.IsBusinessWindow(TimeWindow{Start: start, End: start.Add(time.Hour)}, "UTC") {
		t.Fatalf("window ending at midnight should be inside a 0-24 policy")
	}
}

func TestBusinessHoursDay_UsesLocalClock(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("LoadLocation error: %v", err)
	}

	w := DefaultBusinessHours().Day(domain.NewDate(2025, 10, 15), loc)
	if got := w.Start.UTC(); !got.Equal(time.Date(2025, 10, 15, 7, 0, 0, 0, time.UTC)) {
		t.Fatalf("start = %v, want 07:00 UTC", got)
	}
	if w.Duration() != 8*time.Hour {
		t.Fatalf("duration = %v, want 8h", w.Duration())
	}
}
