package calendar

import (
	"testing"
	"time"

	"github.com/profyt7/carelinkai-sub009/internal/domain"
)

func TestCheck_IdenticalAppointmentConflicts(t *testing.T) {
	start := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	res := CheckAvailability(CheckRequest{
		OwnerID:      "u1",
		Window:       TimeWindow{Start: start, End: end},
		ActivityType: domain.ActivityTypeTour,
		TimeZone:     "UTC",
		Appointments: []domain.Appointment{appt("u1", start, end, domain.AppointmentStatusConfirmed)},
	})
	if res.IsAvailable {
		t.Fatalf("expected unavailable")
	}
	if len(res.Conflicts) != 1 {
		t.Fatalf("len(conflicts) = %d, want 1", len(res.Conflicts))
	}
	if res.Reason != ReasonConflict {
		t.Fatalf("reason = %q, want %q", res.Reason, ReasonConflict)
	}
}

func TestCheck_EmptyCalendarDuringBusinessHours(t *testing.T) {
	start := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)

	res := CheckAvailability(CheckRequest{
		OwnerID:      "u1",
		Window:       TimeWindow{Start: start, End: start.Add(time.Hour)},
		ActivityType: domain.ActivityTypeTour,
		TimeZone:     "UTC",
	})
	if !res.IsAvailable {
		t.Fatalf("expected available")
	}
	if len(res.Conflicts) != 0 {
		t.Fatalf("len(conflicts) = %d, want 0", len(res.Conflicts))
	}
	if res.Reason != ReasonBusinessHours {
		t.Fatalf("reason = %q, want %q", res.Reason, ReasonBusinessHours)
	}
}

func TestCheck_ConflictVetoesAvailability(t *testing.T) {
	start := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	res := CheckAvailability(CheckRequest{
		OwnerID:      "u1",
		Window:       TimeWindow{Start: start, End: end},
		ActivityType: domain.ActivityTypeTour,
		TimeZone:     "UTC",
		Appointments: []domain.Appointment{appt("u1", start.Add(30*time.Minute), end.Add(time.Hour), domain.AppointmentStatusPending)},
		Availability: []domain.AvailabilitySlot{slot("u1", start.Add(-time.Hour), end.Add(time.Hour), true)},
	})
	if res.IsAvailable {
		t.Fatalf("conflict must veto explicit availability")
	}
}

func TestCheck_AvailabilityOverridesBusinessHours(t *testing.T) {
	// Saturday evening.
	start := time.Date(2025, 10, 18, 19, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	res := CheckAvailability(CheckRequest{
		OwnerID:      "u1",
		Window:       TimeWindow{Start: start, End: end},
		ActivityType: domain.ActivityTypeFamilyVisit,
		TimeZone:     "UTC",
		Availability: []domain.AvailabilitySlot{slot("u1", start, end, true, domain.ActivityTypeFamilyVisit)},
	})
	if !res.IsAvailable {
		t.Fatalf("expected explicit availability to admit a weekend evening")
	}
	if res.Reason != ReasonAvailability {
		t.Fatalf("reason = %q, want %q", res.Reason, ReasonAvailability)
	}
}

func TestCheck_CancelledAppointmentDoesNotConflict(t *testing.T) {
	start := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	res := CheckAvailability(CheckRequest{
		OwnerID:      "u1",
		Window:       TimeWindow{Start: start, End: end},
		ActivityType: domain.ActivityTypeTour,
		TimeZone:     "UTC",
		Appointments: []domain.Appointment{appt("u1", start, end, domain.AppointmentStatusCancelled)},
	})
	if !res.IsAvailable {
		t.Fatalf("cancelled appointment must not block the window")
	}
}

func TestCheck_BusinessHoursFallbackMatchesPolicy(t *testing.T) {
	policy := DefaultBusinessHours()
	base := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

	for h := 0; h < 24*7; h += 3 {
		start := base.Add(time.Duration(h) * time.Hour)
		w := TimeWindow{Start: start, End: start.Add(90 * time.Minute)}
		for _, tz := range []string{"UTC", "America/Chicago", "Asia/Kolkata"} {
			res := CheckAvailability(CheckRequest{OwnerID: "u1", Window: w, ActivityType: domain.ActivityTypeAdmin, TimeZone: tz})
			if want := policy.IsBusinessWindow(w, tz); res.IsAvailable != want {
				t.Fatalf("%s %v: IsAvailable = %v, want %v", tz, start, res.IsAvailable, want)
			}
		}
	}
}

func TestCheck_HonorBlocks(t *testing.T) {
	start := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	req := CheckRequest{
		OwnerID:      "u1",
		Window:       TimeWindow{Start: start, End: end},
		ActivityType: domain.ActivityTypeTour,
		TimeZone:     "UTC",
		Availability: []domain.AvailabilitySlot{slot("u1", start, end, false)},
	}

	if res := NewEngine().Check(req); !res.IsAvailable {
		t.Fatalf("blocks are ignored unless the engine honors them")
	}

	engine := NewEngine()
	engine.HonorBlocks = true
	res := engine.Check(req)
	if res.IsAvailable || res.Reason != ReasonBlocked {
		t.Fatalf("result = %+v, want blocked", res)
	}

	req.Availability = append(req.Availability, slot("u1", start, end, true))
	if res := engine.Check(req); !res.IsAvailable {
		t.Fatalf("explicit availability must still win over a block")
	}
}
