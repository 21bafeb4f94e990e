package calendar

import "github.com/profyt7/carelinkai-sub009/internal/domain"

type EmptyDayPolicy string

const (
	// EmptyDayNoCandidates: a day without matching availability yields no slots when
	// business-hours-only generation is off.
	EmptyDayNoCandidates EmptyDayPolicy = "NO_CANDIDATES"
	// EmptyDayFullDay: such a day is treated as open from local midnight to midnight.
	EmptyDayFullDay EmptyDayPolicy = "FULL_DAY"
)

// Engine holds the scheduling policy. It carries no per-call state and is safe for
// concurrent use; every call works on the snapshot it is handed.
type Engine struct {
	BusinessHours BusinessHours
	EmptyDay      EmptyDayPolicy

	// HonorBlocks lets IsAvailable=false slots veto the business-hours fallback and
	// remove generated slots they overlap.
	HonorBlocks bool
}

func NewEngine() Engine {
	return Engine{
		BusinessHours: DefaultBusinessHours(),
		EmptyDay:      EmptyDayNoCandidates,
	}
}

func (e Engine) hours() BusinessHours {
	if e.BusinessHours.isZero() {
		return DefaultBusinessHours()
	}
	return e.BusinessHours
}

// Reason names the rule that decided a check.
type Reason string

const (
	ReasonConflict             Reason = "conflict"
	ReasonAvailability         Reason = "availability"
	ReasonBlocked              Reason = "blocked"
	ReasonBusinessHours        Reason = "business_hours"
	ReasonOutsideBusinessHours Reason = "outside_business_hours"
)

type CheckRequest struct {
	OwnerID      string
	Window       TimeWindow
	ActivityType domain.ActivityType
	TimeZone     string
	Appointments []domain.Appointment
	Availability []domain.AvailabilitySlot
}

type CheckResult struct {
	IsAvailable bool
	Reason      Reason
	Conflicts   []domain.Appointment
}

// Check decides whether a single window is free. Precedence: any conflicting
// appointment vetoes; otherwise a matching availability declaration admits; otherwise
// business hours decide.
func (e Engine) Check(req CheckRequest) CheckResult {
	if conflicts := FindConflicts(req.OwnerID, req.Window, req.Appointments); len(conflicts) > 0 {
		return CheckResult{IsAvailable: false, Reason: ReasonConflict, Conflicts: conflicts}
	}

	if IsCoveredByAvailability(req.OwnerID, req.Window, req.ActivityType, req.Availability) {
		return CheckResult{IsAvailable: true, Reason: ReasonAvailability}
	}

	if e.HonorBlocks && IsBlocked(req.OwnerID, req.Window, req.ActivityType, req.Availability) {
		return CheckResult{IsAvailable: false, Reason: ReasonBlocked}
	}

	if e.hours().IsBusinessWindow(req.Window, req.TimeZone) {
		return CheckResult{IsAvailable: true, Reason: ReasonBusinessHours}
	}
	return CheckResult{IsAvailable: false, Reason: ReasonOutsideBusinessHours}
}

// CheckAvailability runs Check with the default policy.
func CheckAvailability(req CheckRequest) CheckResult {
	return NewEngine().Check(req)
}
