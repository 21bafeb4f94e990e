package calendar

import (
	"testing"
	"time"

	"github.com/profyt7/carelinkai-sub009/internal/domain"
)

func slot(owner string, start, end time.Time, available bool, kinds ...domain.ActivityType) domain.AvailabilitySlot {
	return domain.AvailabilitySlot{
		OwnerID:      owner,
		StartTime:    start,
		EndTime:      end,
		IsAvailable:  available,
		AvailableFor: kinds,
	}
}

func TestIsCoveredByAvailability(t *testing.T) {
	start := time.Date(2025, 10, 18, 19, 0, 0, 0, time.UTC)
	window := TimeWindow{Start: start, End: start.Add(time.Hour)}

	tests := []struct {
		name  string
		slots []domain.AvailabilitySlot
		want  bool
	}{
		{
			name:  "no slots",
			slots: nil,
			want:  false,
		},
		{
			name:  "any activity",
			slots: []domain.AvailabilitySlot{slot("u1", start, start.Add(time.Hour), true)},
			want:  true,
		},
		{
			name:  "partial overlap counts",
			slots: []domain.AvailabilitySlot{slot("u1", start.Add(30*time.Minute), start.Add(3*time.Hour), true)},
			want:  true,
		},
		{
			name:  "touching does not count",
			slots: []domain.AvailabilitySlot{slot("u1", start.Add(time.Hour), start.Add(2*time.Hour), true)},
			want:  false,
		},
		{
			name:  "matching activity",
			slots: []domain.AvailabilitySlot{slot("u1", start, start.Add(time.Hour), true, domain.ActivityTypeMedical, domain.ActivityTypeTour)},
			want:  true,
		},
		{
			name:  "other activity",
			slots: []domain.AvailabilitySlot{slot("u1", start, start.Add(time.Hour), true, domain.ActivityTypeMedical)},
			want:  false,
		},
		{
			name:  "other owner",
			slots: []domain.AvailabilitySlot{slot("u2", start, start.Add(time.Hour), true)},
			want:  false,
		},
		{
			name:  "block is not coverage",
			slots: []domain.AvailabilitySlot{slot("u1", start, start.Add(time.Hour), false)},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCoveredByAvailability("u1", window, domain.ActivityTypeTour, tt.slots); got != tt.want {
				t.Fatalf("IsCoveredByAvailability = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsBlocked(t *testing.T) {
	start := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	window := TimeWindow{Start: start, End: start.Add(time.Hour)}
	slots := []domain.AvailabilitySlot{
		slot("u1", start.Add(-time.Hour), start.Add(30*time.Minute), false, domain.ActivityTypeFamilyVisit),
	}

	if !IsBlocked("u1", window, domain.ActivityTypeFamilyVisit, slots) {
		t.Fatalf("expected window to be blocked for family visits")
	}
	if IsBlocked("u1", window, domain.ActivityTypeTour, slots) {
		t.Fatalf("block restricted to family visits must not block tours")
	}
}
