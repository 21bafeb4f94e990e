package grpc

import (
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/profyt7/carelinkai-sub009/internal/calendar"
	"github.com/profyt7/carelinkai-sub009/internal/domain"
	"github.com/profyt7/carelinkai-sub009/internal/service/scheduling"
)

// The types below are the Go side of the messages in scheduling.proto; wire.go moves
// them in and out of their protobuf encoding.

type CheckAvailabilityRequest struct {
	OwnerID      string
	StartTime    *timestamppb.Timestamp
	EndTime      *timestamppb.Timestamp
	ActivityType domain.ActivityType
	TimeZone     string
}

type CheckAvailabilityResponse struct {
	IsAvailable bool
	Reason      calendar.Reason
	Conflicts   []domain.Appointment
}

// GenerateSlotsRequest carries local calendar dates as YYYY-MM-DD. A missing
// BusinessHoursOnly means true.
type GenerateSlotsRequest struct {
	OwnerID           string
	RangeStart        string
	RangeEnd          string
	ActivityType      domain.ActivityType
	DurationMinutes   int
	ExcludeWeekends   bool
	BusinessHoursOnly *bool
	TimeZone          string
}

type GenerateSlotsResponse struct {
	AvailableSlots []calendar.ProposedSlot
	SlotsByDay     map[string][]calendar.ProposedSlot
}

type BookAppointmentRequest struct {
	OwnerID      string
	Title        string
	ActivityType domain.ActivityType
	StartTime    *timestamppb.Timestamp
	EndTime      *timestamppb.Timestamp
	TimeZone     string
}

type BookAppointmentResponse struct {
	Appointment domain.Appointment
}

type BookRecurringRequest struct {
	OwnerID      string
	Title        string
	ActivityType domain.ActivityType
	StartTime    *timestamppb.Timestamp
	EndTime      *timestamppb.Timestamp
	TimeZone     string
	Pattern      *domain.RecurrencePattern
	HorizonEnd   string
}

type BookRecurringResponse struct {
	SeriesID string
	Created  []domain.Appointment
	Skipped  []scheduling.SkippedOccurrence
}
