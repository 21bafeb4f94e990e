package store

import (
	"context"

	"github.com/profyt7/carelinkai-sub009/internal/calendar"
	"github.com/profyt7/carelinkai-sub009/internal/domain"
)

// Calendar serializes writers per owner so that a check followed by an insert
// cannot interleave with another booking for the same owner.
type Calendar interface {
	InOwnerTransaction(ctx context.Context, ownerID string, fn func(ctx context.Context, tx CalendarTx) error) error
}

type CalendarTx interface {
	ListAppointments(ctx context.Context, ownerID string, window calendar.TimeWindow) ([]domain.Appointment, error)
	ListAvailability(ctx context.Context, ownerID string, window calendar.TimeWindow) ([]domain.AvailabilitySlot, error)
	CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
}
