package calendar

import (
	"errors"
	"testing"
	"time"
)

func TestNewTimeWindow_RejectsEmptyAndInverted(t *testing.T) {
	start := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)

	if _, err := NewTimeWindow(start, start); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("zero-length err = %v, want %v", err, ErrInvalidWindow)
	}
	if _, err := NewTimeWindow(start, start.Add(-time.Minute)); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("inverted err = %v, want %v", err, ErrInvalidWindow)
	}
	w, err := NewTimeWindow(start, start.Add(time.Hour))
	if err != nil {
		t.Fatalf("NewTimeWindow error: %v", err)
	}
	if w.Duration() != time.Hour {
		t.Fatalf("duration = %v, want 1h", w.Duration())
	}
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	at := func(min int) time.Time { return base.Add(time.Duration(min) * time.Minute) }
	win := func(a, b int) TimeWindow { return TimeWindow{Start: at(a), End: at(b)} }

	tests := []struct {
		name string
		a, b TimeWindow
		want bool
	}{
		{name: "touching", a: win(0, 60), b: win(60, 120), want: false},
		{name: "disjoint", a: win(0, 30), b: win(60, 120), want: false},
		{name: "partial", a: win(0, 90), b: win(60, 120), want: true},
		{name: "contained", a: win(0, 120), b: win(30, 60), want: true},
		{name: "identical", a: win(10, 20), b: win(10, 20), want: true},
		{name: "one minute shared", a: win(0, 61), b: win(60, 120), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Fatalf("a.Overlaps(b) = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Fatalf("b.Overlaps(a) = %v, want %v (not symmetric)", got, tt.want)
			}
		})
	}
}
