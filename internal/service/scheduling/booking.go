package scheduling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/profyt7/carelinkai-sub009/internal/calendar"
	"github.com/profyt7/carelinkai-sub009/internal/domain"
	"github.com/profyt7/carelinkai-sub009/internal/store"
)

const maxIdempotencyKeyLen = 256

// idempotencyNamespace scopes the deterministic ids derived from client keys.
var idempotencyNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("carelink:scheduling"))

type BookInput struct {
	OwnerID        string
	Title          string
	ActivityType   domain.ActivityType
	StartTime      time.Time
	EndTime        time.Time
	TimeZone       string
	IdempotencyKey string
}

// Book checks the window and inserts the appointment under the owner's lock. With an
// idempotency key, repeating the same booking returns the stored appointment.
func (s *Service) Book(ctx context.Context, in BookInput) (appt domain.Appointment, err error) {
	ctx, span := s.startSpan(ctx, "scheduling.Book", in.OwnerID)
	defer func() { endSpan(span, err) }()

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Appointment{}, validationError("title is required")
	}
	ownerID, window, err := s.validateWindow(in.OwnerID, in.StartTime, in.EndTime, in.ActivityType)
	if err != nil {
		return domain.Appointment{}, err
	}
	key, err := idempotencyKey(in.IdempotencyKey)
	if err != nil {
		return domain.Appointment{}, err
	}

	candidate := domain.Appointment{
		OwnerID:   ownerID,
		Title:     title,
		Type:      in.ActivityType,
		StartTime: window.Start,
		EndTime:   window.End,
	}
	if key != "" {
		candidate.ID = uuid.NewSHA1(idempotencyNamespace, []byte("appointment:"+ownerID+":"+key))
	}
	tz := s.timeZone(in.TimeZone)

	err = s.calendar.InOwnerTransaction(ctx, ownerID, func(ctx context.Context, tx store.CalendarTx) error {
		appts, err := tx.ListAppointments(ctx, ownerID, window)
		if err != nil {
			return err
		}
		slots, err := tx.ListAvailability(ctx, ownerID, window)
		if err != nil {
			return err
		}

		res := s.engine.Check(calendar.CheckRequest{
			OwnerID:      ownerID,
			Window:       window,
			ActivityType: in.ActivityType,
			TimeZone:     tz,
			Appointments: without(appts, candidate.ID),
			Availability: slots,
		})
		if len(res.Conflicts) > 0 {
			return store.ErrConflict
		}
		if !res.IsAvailable {
			return fmt.Errorf("%w: %s", ErrSlotUnavailable, res.Reason)
		}

		appt, err = tx.CreateAppointment(ctx, candidate)
		return err
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	span.SetAttributes(attribute.String("scheduling.appointment_id", appt.ID.String()))
	return appt, nil
}

type BookRecurringInput struct {
	OwnerID        string
	Title          string
	ActivityType   domain.ActivityType
	StartTime      time.Time
	EndTime        time.Time
	TimeZone       string
	Pattern        domain.RecurrencePattern
	HorizonEnd     domain.Date
	IdempotencyKey string
}

// SkippedOccurrence is an occurrence BookRecurring did not persist.
type SkippedOccurrence struct {
	Start     time.Time            `json:"start"`
	End       time.Time            `json:"end"`
	Reason    calendar.Reason      `json:"reason"`
	Conflicts []domain.Appointment `json:"conflicts,omitempty"`
}

type SeriesResult struct {
	SeriesID uuid.UUID
	Created  []domain.Appointment
	Skipped  []SkippedOccurrence
}

// BookRecurring expands the template and books every occurrence that is free. Busy
// occurrences are reported as skipped; they never fail the series.
func (s *Service) BookRecurring(ctx context.Context, in BookRecurringInput) (res SeriesResult, err error) {
	ctx, span := s.startSpan(ctx, "scheduling.BookRecurring", in.OwnerID)
	defer func() { endSpan(span, err) }()

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return SeriesResult{}, validationError("title is required")
	}
	ownerID, first, err := s.validateWindow(in.OwnerID, in.StartTime, in.EndTime, in.ActivityType)
	if err != nil {
		return SeriesResult{}, err
	}
	key, err := idempotencyKey(in.IdempotencyKey)
	if err != nil {
		return SeriesResult{}, err
	}

	tz := s.timeZone(in.TimeZone)
	loc := calendar.ResolveLocation(tz)
	maxHorizon := domain.DateOf(first.Start.In(loc)).AddDays(s.opts.RecurrenceHorizonDays)
	horizon := in.HorizonEnd
	if horizon.IsZero() || horizon.After(maxHorizon) {
		horizon = maxHorizon
	}

	pattern := in.Pattern
	windows, err := s.expander.Expand(calendar.Template{Window: first, Pattern: pattern, TimeZone: tz}, horizon)
	switch {
	case errors.Is(err, calendar.ErrUnsupportedFrequency):
		return SeriesResult{}, validationError("unsupported frequency")
	case errors.Is(err, calendar.ErrInvalidPattern):
		return SeriesResult{}, validationError(err.Error())
	case err != nil:
		return SeriesResult{}, err
	}
	if len(windows) == 0 {
		return SeriesResult{}, validationError("recurrence pattern produces no occurrences")
	}
	if len(windows) > s.opts.MaxOccurrences {
		return SeriesResult{}, validationError(fmt.Sprintf("recurrence pattern produces more than %d occurrences", s.opts.MaxOccurrences))
	}

	seriesID := uuid.New()
	if key != "" {
		seriesID = uuid.NewSHA1(idempotencyNamespace, []byte("series:"+ownerID+":"+key))
	}
	span.SetAttributes(attribute.String("scheduling.series_id", seriesID.String()), attribute.Int("scheduling.occurrences", len(windows)))

	extent := calendar.TimeWindow{Start: windows[0].Start, End: windows[len(windows)-1].End}
	for _, w := range windows {
		if w.End.After(extent.End) {
			extent.End = w.End
		}
	}

	err = s.calendar.InOwnerTransaction(ctx, ownerID, func(ctx context.Context, tx store.CalendarTx) error {
		res = SeriesResult{SeriesID: seriesID, Created: []domain.Appointment{}, Skipped: []SkippedOccurrence{}}

		appts, err := tx.ListAppointments(ctx, ownerID, extent)
		if err != nil {
			return err
		}
		slots, err := tx.ListAvailability(ctx, ownerID, extent)
		if err != nil {
			return err
		}
		appts = withoutSeries(appts, seriesID)

		for _, w := range windows {
			check := s.engine.Check(calendar.CheckRequest{
				OwnerID:      ownerID,
				Window:       w,
				ActivityType: in.ActivityType,
				TimeZone:     tz,
				Appointments: appts,
				Availability: slots,
			})
			if !check.IsAvailable {
				res.Skipped = append(res.Skipped, SkippedOccurrence{Start: w.Start, End: w.End, Reason: check.Reason, Conflicts: check.Conflicts})
				continue
			}

			sid := seriesID
			rec := pattern
			created, err := tx.CreateAppointment(ctx, domain.Appointment{
				ID:         uuid.NewSHA1(seriesID, []byte(w.Start.UTC().Format(time.RFC3339))),
				OwnerID:    ownerID,
				Title:      title,
				Type:       in.ActivityType,
				StartTime:  w.Start,
				EndTime:    w.End,
				SeriesID:   &sid,
				Recurrence: &rec,
			})
			if err != nil {
				return err
			}
			res.Created = append(res.Created, created)
			appts = append(appts, created)
		}
		return nil
	})
	if err != nil {
		return SeriesResult{}, err
	}

	s.log.DebugContext(ctx, "recurring series booked",
		slog.String("owner_id", ownerID),
		slog.String("series_id", seriesID.String()),
		slog.Int("created", len(res.Created)),
		slog.Int("skipped", len(res.Skipped)),
	)
	return res, nil
}

func idempotencyKey(raw string) (string, error) {
	key := strings.TrimSpace(raw)
	if len(key) > maxIdempotencyKeyLen {
		return "", validationError("idempotency_key too long")
	}
	return key, nil
}

// without drops the appointment with the given id, so that replaying a booking does
// not conflict with its own earlier insert.
func without(appts []domain.Appointment, id uuid.UUID) []domain.Appointment {
	if id == uuid.Nil {
		return appts
	}
	out := make([]domain.Appointment, 0, len(appts))
	for _, a := range appts {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

func withoutSeries(appts []domain.Appointment, seriesID uuid.UUID) []domain.Appointment {
	out := make([]domain.Appointment, 0, len(appts))
	for _, a := range appts {
		if a.SeriesID != nil && *a.SeriesID == seriesID {
			continue
		}
		out = append(out, a)
	}
	return out
}
