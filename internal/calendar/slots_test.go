package calendar

import (
	"testing"
	"time"

	"github.com/profyt7/carelinkai-sub009/internal/domain"
)

func TestGenerateSlots_WeekendOnlyRangeExcluded(t *testing.T) {
	res := GenerateSlots(SlotRequest{
		OwnerID:           "u1",
		RangeStart:        domain.NewDate(2025, 10, 18),
		RangeEnd:          domain.NewDate(2025, 10, 19),
		ActivityType:      domain.ActivityTypeTour,
		Duration:          30 * time.Minute,
		ExcludeWeekends:   true,
		BusinessHoursOnly: true,
		TimeZone:          "UTC",
	})
	if len(res.AvailableSlots) != 0 {
		t.Fatalf("len(available_slots) = %d, want 0", len(res.AvailableSlots))
	}
	if res.SlotsByDay == nil || len(res.SlotsByDay) != 0 {
		t.Fatalf("slots_by_day = %v, want empty map", res.SlotsByDay)
	}
}

func TestGenerateSlots_BusinessHoursTiling(t *testing.T) {
	res := GenerateSlots(SlotRequest{
		OwnerID:           "u1",
		RangeStart:        domain.NewDate(2025, 10, 15),
		RangeEnd:          domain.NewDate(2025, 10, 15),
		ActivityType:      domain.ActivityTypeTour,
		Duration:          time.Hour,
		BusinessHoursOnly: true,
		TimeZone:          "UTC",
	})
	if len(res.AvailableSlots) != 8 {
		t.Fatalf("len(available_slots) = %d, want 8", len(res.AvailableSlots))
	}
	first := res.AvailableSlots[0]
	if !first.Start.Equal(time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("first slot start = %v, want 09:00", first.Start)
	}
	for i := 1; i < len(res.AvailableSlots); i++ {
		if !res.AvailableSlots[i-1].End.Equal(res.AvailableSlots[i].Start) {
			t.Fatalf("slots %d and %d are not contiguous", i-1, i)
		}
	}
	if got := len(res.SlotsByDay["2025-10-15"]); got != 8 {
		t.Fatalf("len(slots_by_day[2025-10-15]) = %d, want 8", got)
	}
}

func TestGenerateSlots_DropsConflictingTiles(t *testing.T) {
	day := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	res := GenerateSlots(SlotRequest{
		OwnerID:           "u1",
		RangeStart:        domain.NewDate(2025, 10, 15),
		RangeEnd:          domain.NewDate(2025, 10, 15),
		ActivityType:      domain.ActivityTypeTour,
		Duration:          time.Hour,
		BusinessHoursOnly: true,
		TimeZone:          "UTC",
		Appointments: []domain.Appointment{
			appt("u1", day.Add(10*time.Hour+30*time.Minute), day.Add(11*time.Hour+30*time.Minute), domain.AppointmentStatusConfirmed),
			appt("u1", day.Add(14*time.Hour), day.Add(15*time.Hour), domain.AppointmentStatusCancelled),
			appt("u2", day.Add(9*time.Hour), day.Add(17*time.Hour), domain.AppointmentStatusConfirmed),
		},
	})
	if len(res.AvailableSlots) != 6 {
		t.Fatalf("len(available_slots) = %d, want 6", len(res.AvailableSlots))
	}
	for _, s := range res.AvailableSlots {
		if s.Start.Hour() == 10 || s.Start.Hour() == 11 {
			t.Fatalf("slot %v overlaps the 10:30 appointment", s.Start)
		}
	}
}

func TestGenerateSlots_ExplicitAvailabilityOnly(t *testing.T) {
	day := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	res := GenerateSlots(SlotRequest{
		OwnerID:           "u1",
		RangeStart:        domain.NewDate(2025, 10, 15),
		RangeEnd:          domain.NewDate(2025, 10, 17),
		ActivityType:      domain.ActivityTypeMedical,
		Duration:          45 * time.Minute,
		BusinessHoursOnly: false,
		TimeZone:          "UTC",
		Availability: []domain.AvailabilitySlot{
			slot("u1", day.Add(13*time.Hour), day.Add(15*time.Hour), true),
			slot("u1", day.Add(14*time.Hour+30*time.Minute), day.Add(16*time.Hour), true, domain.ActivityTypeMedical),
			slot("u1", day.Add(18*time.Hour), day.Add(20*time.Hour), true, domain.ActivityTypeTour),
			slot("u1", day.Add(20*time.Hour), day.Add(22*time.Hour), false),
			slot("u2", day.Add(8*time.Hour), day.Add(12*time.Hour), true),
		},
	})

	if len(res.AvailableSlots) != 4 {
		t.Fatalf("len(available_slots) = %d, want 4", len(res.AvailableSlots))
	}
	if got := res.AvailableSlots[3].End; !got.Equal(day.Add(16 * time.Hour)) {
		t.Fatalf("last slot end = %v, want 16:00", got)
	}
	if len(res.SlotsByDay) != 1 {
		t.Fatalf("slots_by_day has %d days, want 1", len(res.SlotsByDay))
	}
	if _, ok := res.SlotsByDay["2025-10-16"]; ok {
		t.Fatalf("day without availability must be absent from slots_by_day")
	}
}

func TestGenerateSlots_StopsAtRangeEnd(t *testing.T) {
	late := time.Date(2025, 10, 15, 23, 0, 0, 0, time.UTC)
	req := SlotRequest{
		OwnerID:           "u1",
		RangeStart:        domain.NewDate(2025, 10, 15),
		RangeEnd:          domain.NewDate(2025, 10, 15),
		ActivityType:      domain.ActivityTypeTour,
		Duration:          time.Hour,
		BusinessHoursOnly: false,
		TimeZone:          "UTC",
		Availability: []domain.AvailabilitySlot{
			slot("u1", late, late.Add(3*time.Hour), true),
		},
	}

	res := GenerateSlots(req)
	if len(res.AvailableSlots) != 1 || !res.AvailableSlots[0].Start.Equal(late) {
		t.Fatalf("available_slots = %v, want only the 23:00 slot", res.AvailableSlots)
	}
	if got := keys(res.SlotsByDay); len(got) != 1 || got[0] != "2025-10-15" {
		t.Fatalf("slots_by_day keys = %v, want [2025-10-15]", got)
	}

	// A window crossing midnight inside the range keeps its tiles on the next day.
	req.RangeEnd = domain.NewDate(2025, 10, 16)
	res = GenerateSlots(req)
	if len(res.AvailableSlots) != 3 {
		t.Fatalf("len(available_slots) = %d, want 3", len(res.AvailableSlots))
	}
	if n := len(res.SlotsByDay["2025-10-16"]); n != 2 {
		t.Fatalf("slots on 2025-10-16 = %d, want 2", n)
	}
}

func TestGenerateSlots_EmptyDayPolicy(t *testing.T) {
	req := SlotRequest{
		OwnerID:      "u1",
		RangeStart:   domain.NewDate(2025, 10, 15),
		RangeEnd:     domain.NewDate(2025, 10, 15),
		ActivityType: domain.ActivityTypeAdmin,
		Duration:     2 * time.Hour,
		TimeZone:     "UTC",
	}

	if res := NewEngine().GenerateSlots(req); len(res.AvailableSlots) != 0 {
		t.Fatalf("len(available_slots) = %d, want 0 under NO_CANDIDATES", len(res.AvailableSlots))
	}

	engine := NewEngine()
	engine.EmptyDay = EmptyDayFullDay
	if res := engine.GenerateSlots(req); len(res.AvailableSlots) != 12 {
		t.Fatalf("len(available_slots) = %d, want 12 under FULL_DAY", len(res.AvailableSlots))
	}
}

func TestGenerateSlots_FallBackDayHasTwentyFiveHours(t *testing.T) {
	engine := NewEngine()
	engine.EmptyDay = EmptyDayFullDay

	res := engine.GenerateSlots(SlotRequest{
		OwnerID:      "u1",
		RangeStart:   domain.NewDate(2025, 11, 2),
		RangeEnd:     domain.NewDate(2025, 11, 2),
		ActivityType: domain.ActivityTypeCaregiverShift,
		Duration:     time.Hour,
		TimeZone:     "America/New_York",
	})
	if len(res.AvailableSlots) != 25 {
		t.Fatalf("len(available_slots) = %d, want 25", len(res.AvailableSlots))
	}
	if len(res.SlotsByDay["2025-11-02"]) != 25 {
		t.Fatalf("all slots should bucket into 2025-11-02, got %v", keys(res.SlotsByDay))
	}
}

func TestGenerateSlots_BucketsByLocalDate(t *testing.T) {
	res := GenerateSlots(SlotRequest{
		OwnerID:           "u1",
		RangeStart:        domain.NewDate(2025, 10, 15),
		RangeEnd:          domain.NewDate(2025, 10, 16),
		ActivityType:      domain.ActivityTypeTour,
		Duration:          8 * time.Hour,
		BusinessHoursOnly: true,
		TimeZone:          "Pacific/Auckland",
	})
	if len(res.AvailableSlots) != 2 {
		t.Fatalf("len(available_slots) = %d, want 2", len(res.AvailableSlots))
	}
	// 09:00 in Auckland is the previous evening in UTC.
	if got := res.AvailableSlots[0].Start.UTC().Day(); got != 14 {
		t.Fatalf("first slot utc day = %d, want 14", got)
	}
	if res.AvailableSlots[0].LocalDate != "2025-10-15" || res.AvailableSlots[1].LocalDate != "2025-10-16" {
		t.Fatalf("local dates = %q, %q", res.AvailableSlots[0].LocalDate, res.AvailableSlots[1].LocalDate)
	}
}

func TestGenerateSlots_DegenerateInputs(t *testing.T) {
	base := SlotRequest{
		OwnerID:           "u1",
		RangeStart:        domain.NewDate(2025, 10, 15),
		RangeEnd:          domain.NewDate(2025, 10, 15),
		ActivityType:      domain.ActivityTypeTour,
		Duration:          time.Hour,
		BusinessHoursOnly: true,
	}

	inverted := base
	inverted.RangeStart, inverted.RangeEnd = base.RangeEnd.AddDays(1), base.RangeStart
	if res := GenerateSlots(inverted); len(res.AvailableSlots) != 0 || len(res.SlotsByDay) != 0 {
		t.Fatalf("inverted range should produce nothing")
	}

	zero := base
	zero.Duration = 0
	if res := GenerateSlots(zero); len(res.AvailableSlots) != 0 {
		t.Fatalf("zero duration should produce nothing")
	}

	tooLong := base
	tooLong.Duration = 9 * time.Hour
	if res := GenerateSlots(tooLong); len(res.AvailableSlots) != 0 {
		t.Fatalf("duration longer than the candidate window should produce nothing")
	}
}

func TestGenerateSlots_NotBeforeAndBlocks(t *testing.T) {
	day := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	engine := NewEngine()
	engine.HonorBlocks = true

	res := engine.GenerateSlots(SlotRequest{
		OwnerID:           "u1",
		RangeStart:        domain.NewDate(2025, 10, 15),
		RangeEnd:          domain.NewDate(2025, 10, 15),
		ActivityType:      domain.ActivityTypeTour,
		Duration:          time.Hour,
		BusinessHoursOnly: true,
		TimeZone:          "UTC",
		NotBefore:         day.Add(11*time.Hour + 15*time.Minute),
		Availability: []domain.AvailabilitySlot{
			slot("u1", day.Add(15*time.Hour), day.Add(16*time.Hour), false),
		},
	})
	// 12,13,14,16 survive.
	if len(res.AvailableSlots) != 4 {
		t.Fatalf("len(available_slots) = %d, want 4", len(res.AvailableSlots))
	}
}

func keys(m map[string][]ProposedSlot) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
