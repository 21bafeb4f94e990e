package store

import (
	"context"

	"github.com/profyt7/carelinkai-sub009/internal/calendar"
	"github.com/profyt7/carelinkai-sub009/internal/domain"
)

// AppointmentStore returns every appointment of ownerID whose window overlaps window,
// cancelled ones included; the engine decides what occupies a slot.
type AppointmentStore interface {
	FindOverlapping(ctx context.Context, ownerID string, window calendar.TimeWindow) ([]domain.Appointment, error)
}

// AvailabilityStore returns the availability declarations of ownerID overlapping window.
type AvailabilityStore interface {
	FindOverlapping(ctx context.Context, ownerID string, window calendar.TimeWindow) ([]domain.AvailabilitySlot, error)
}
