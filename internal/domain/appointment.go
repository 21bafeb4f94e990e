package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AppointmentStatus string

const (
	AppointmentStatusPending     AppointmentStatus = "PENDING"
	AppointmentStatusConfirmed   AppointmentStatus = "CONFIRMED"
	AppointmentStatusCancelled   AppointmentStatus = "CANCELLED"
	AppointmentStatusCompleted   AppointmentStatus = "COMPLETED"
	AppointmentStatusNoShow      AppointmentStatus = "NO_SHOW"
	AppointmentStatusRescheduled AppointmentStatus = "RESCHEDULED"
)

// Occupies reports whether an appointment in this status blocks its time window.
// Only cancelled appointments release their window.
func (s AppointmentStatus) Occupies() bool {
	return s != AppointmentStatusCancelled
}

type ActivityType string

const (
	ActivityTypeTour           ActivityType = "TOUR"
	ActivityTypeCaregiverShift ActivityType = "CAREGIVER_SHIFT"
	ActivityTypeFamilyVisit    ActivityType = "FAMILY_VISIT"
	ActivityTypeMedical        ActivityType = "MEDICAL"
	ActivityTypeAdmin          ActivityType = "ADMIN"
	ActivityTypeConsultation   ActivityType = "CONSULTATION"
	ActivityTypeOther          ActivityType = "OTHER"
)

func (a ActivityType) Valid() bool {
	switch a {
	case ActivityTypeTour, ActivityTypeCaregiverShift, ActivityTypeFamilyVisit, ActivityTypeMedical,
		ActivityTypeAdmin, ActivityTypeConsultation, ActivityTypeOther:
		return true
	}
	return false
}

type Appointment struct {
	bun.BaseModel `bun:"table:appointments"`

	ID         uuid.UUID          `bun:"id,pk,type:uuid" json:"id"`
	OwnerID    string             `bun:"owner_id,notnull" json:"owner_id"`
	Title      string             `bun:"title,notnull" json:"title"`
	Type       ActivityType       `bun:"type,notnull" json:"type"`
	Status     AppointmentStatus  `bun:"status,notnull" json:"status"`
	StartTime  time.Time          `bun:"start_time,notnull" json:"start_time"`
	EndTime    time.Time          `bun:"end_time,notnull" json:"end_time"`
	SeriesID   *uuid.UUID         `bun:"series_id,type:uuid" json:"series_id,omitempty"`
	Recurrence *RecurrencePattern `bun:"recurrence,type:jsonb" json:"recurrence,omitempty"`
	CreatedAt  time.Time          `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt  time.Time          `bun:"updated_at,notnull" json:"updated_at"`
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if a.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			a.ID = id
		}
		if a.Status == "" {
			a.Status = AppointmentStatusPending
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		a.UpdatedAt = now
	}
	return nil
}

// AvailabilitySlot is an explicit declaration by an owner. IsAvailable=true offers the
// window; IsAvailable=false blocks it. An empty AvailableFor matches every activity type.
type AvailabilitySlot struct {
	bun.BaseModel `bun:"table:availability_slots"`

	ID           uuid.UUID      `bun:"id,pk,type:uuid" json:"id"`
	OwnerID      string         `bun:"owner_id,notnull" json:"owner_id"`
	StartTime    time.Time      `bun:"start_time,notnull" json:"start_time"`
	EndTime      time.Time      `bun:"end_time,notnull" json:"end_time"`
	IsAvailable  bool           `bun:"is_available,notnull" json:"is_available"`
	AvailableFor []ActivityType `bun:"available_for,array" json:"available_for,omitempty"`
	CreatedAt    time.Time      `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt    time.Time      `bun:"updated_at,notnull" json:"updated_at"`
}

func (s *AvailabilitySlot) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if s.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			s.ID = id
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		if s.UpdatedAt.IsZero() {
			s.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		s.UpdatedAt = now
	}
	return nil
}

// Accepts reports whether the slot applies to the given activity type.
func (s AvailabilitySlot) Accepts(activity ActivityType) bool {
	if len(s.AvailableFor) == 0 {
		return true
	}
	for _, a := range s.AvailableFor {
		if a == activity {
			return true
		}
	}
	return false
}
