package scheduling

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/profyt7/carelinkai-sub009/internal/calendar"
	"github.com/profyt7/carelinkai-sub009/internal/domain"
	"github.com/profyt7/carelinkai-sub009/internal/store"
)

// ErrSlotUnavailable is returned by Book when the window has no conflicts but the
// owner's availability or business hours do not admit it.
var ErrSlotUnavailable = errors.New("slot unavailable")

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

type Options struct {
	DefaultTimeZone       string
	MaxRangeDays          int
	MaxSlotDuration       time.Duration
	MaxOccurrences        int
	RecurrenceHorizonDays int
	HidePastSlots         bool
}

func DefaultOptions() Options {
	return Options{
		DefaultTimeZone:       "UTC",
		MaxRangeDays:          93,
		MaxSlotDuration:       24 * time.Hour,
		MaxOccurrences:        366,
		RecurrenceHorizonDays: 366,
	}
}

type Service struct {
	appointments store.AppointmentStore
	availability store.AvailabilityStore
	calendar     store.Calendar
	engine       calendar.Engine
	expander     calendar.Expander
	opts         Options

	now    func() time.Time
	log    *slog.Logger
	tracer trace.Tracer
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithRuleInterpreter enables CUSTOM recurrence patterns.
func WithRuleInterpreter(r calendar.RuleInterpreter) Option {
	return func(s *Service) { s.expander.Custom = r }
}

func NewService(
	appointments store.AppointmentStore,
	availability store.AvailabilityStore,
	cal store.Calendar,
	engine calendar.Engine,
	opts Options,
	options ...Option,
) *Service {
	d := DefaultOptions()
	if opts.DefaultTimeZone == "" {
		opts.DefaultTimeZone = d.DefaultTimeZone
	}
	if opts.MaxRangeDays <= 0 {
		opts.MaxRangeDays = d.MaxRangeDays
	}
	if opts.MaxSlotDuration <= 0 {
		opts.MaxSlotDuration = d.MaxSlotDuration
	}
	if opts.MaxOccurrences <= 0 {
		opts.MaxOccurrences = d.MaxOccurrences
	}
	if opts.RecurrenceHorizonDays <= 0 {
		opts.RecurrenceHorizonDays = d.RecurrenceHorizonDays
	}

	s := &Service{
		appointments: appointments,
		availability: availability,
		calendar:     cal,
		engine:       engine,
		opts:         opts,
		now:          time.Now,
		log:          slog.Default(),
		tracer:       otel.Tracer("scheduling"),
	}
	for _, o := range options {
		o(s)
	}
	return s
}

func (s *Service) timeZone(tz string) string {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return s.opts.DefaultTimeZone
	}
	return tz
}

type CheckInput struct {
	OwnerID      string
	StartTime    time.Time
	EndTime      time.Time
	ActivityType domain.ActivityType
	TimeZone     string
}

func (s *Service) Check(ctx context.Context, in CheckInput) (res calendar.CheckResult, err error) {
	ctx, span := s.startSpan(ctx, "scheduling.Check", in.OwnerID)
	defer func() { endSpan(span, err) }()

	ownerID, window, err := s.validateWindow(in.OwnerID, in.StartTime, in.EndTime, in.ActivityType)
	if err != nil {
		return calendar.CheckResult{}, err
	}

	appts, slots, err := s.snapshot(ctx, ownerID, window)
	if err != nil {
		return calendar.CheckResult{}, err
	}

	res = s.engine.Check(calendar.CheckRequest{
		OwnerID:      ownerID,
		Window:       window,
		ActivityType: in.ActivityType,
		TimeZone:     s.timeZone(in.TimeZone),
		Appointments: appts,
		Availability: slots,
	})
	span.SetAttributes(attribute.Bool("scheduling.available", res.IsAvailable), attribute.String("scheduling.reason", string(res.Reason)))
	return res, nil
}

type GenerateInput struct {
	OwnerID           string
	RangeStart        domain.Date
	RangeEnd          domain.Date
	ActivityType      domain.ActivityType
	DurationMinutes   int
	ExcludeWeekends   bool
	BusinessHoursOnly bool
	TimeZone          string
}

// Generate lists the free slots of in.DurationMinutes across the inclusive local date
// range. An inverted range is not an error and yields an empty result.
func (s *Service) Generate(ctx context.Context, in GenerateInput) (res calendar.SlotResult, err error) {
	ctx, span := s.startSpan(ctx, "scheduling.Generate", in.OwnerID)
	defer func() { endSpan(span, err) }()

	ownerID := strings.TrimSpace(in.OwnerID)
	if ownerID == "" {
		return calendar.SlotResult{}, validationError("owner_id is required")
	}
	if !in.ActivityType.Valid() {
		return calendar.SlotResult{}, validationError("activity_type is invalid")
	}
	if in.RangeStart.IsZero() || in.RangeEnd.IsZero() {
		return calendar.SlotResult{}, validationError("range_start and range_end are required")
	}
	duration := time.Duration(in.DurationMinutes) * time.Minute
	if duration <= 0 {
		return calendar.SlotResult{}, validationError("duration_minutes must be positive")
	}
	if duration > s.opts.MaxSlotDuration {
		return calendar.SlotResult{}, validationError("duration too long")
	}
	if in.RangeStart.AddDays(s.opts.MaxRangeDays - 1).Before(in.RangeEnd) {
		return calendar.SlotResult{}, validationError("date range too long")
	}

	req := calendar.SlotRequest{
		OwnerID:           ownerID,
		RangeStart:        in.RangeStart,
		RangeEnd:          in.RangeEnd,
		ActivityType:      in.ActivityType,
		Duration:          duration,
		ExcludeWeekends:   in.ExcludeWeekends,
		BusinessHoursOnly: in.BusinessHoursOnly,
		TimeZone:          s.timeZone(in.TimeZone),
	}
	if s.opts.HidePastSlots {
		req.NotBefore = s.now()
	}

	if !in.RangeStart.After(in.RangeEnd) {
		loc := calendar.ResolveLocation(req.TimeZone)
		window := calendar.TimeWindow{
			Start: in.RangeStart.In(loc).UTC(),
			End:   in.RangeEnd.AddDays(1).In(loc).UTC(),
		}
		req.Appointments, req.Availability, err = s.snapshot(ctx, ownerID, window)
		if err != nil {
			return calendar.SlotResult{}, err
		}
	}

	res = s.engine.GenerateSlots(req)
	span.SetAttributes(attribute.Int("scheduling.slots", len(res.AvailableSlots)))
	return res, nil
}

func (s *Service) validateWindow(ownerID string, start, end time.Time, activity domain.ActivityType) (string, calendar.TimeWindow, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return "", calendar.TimeWindow{}, validationError("owner_id is required")
	}
	if !activity.Valid() {
		return "", calendar.TimeWindow{}, validationError("activity_type is invalid")
	}
	if start.IsZero() || end.IsZero() {
		return "", calendar.TimeWindow{}, validationError("start_time and end_time are required")
	}
	window, err := calendar.NewTimeWindow(start.UTC(), end.UTC())
	if err != nil {
		return "", calendar.TimeWindow{}, validationError("end_time must be after start_time")
	}
	if window.Duration() > s.opts.MaxSlotDuration {
		return "", calendar.TimeWindow{}, validationError("duration too long")
	}
	return ownerID, window, nil
}

// snapshot loads the owner's appointments and availability overlapping window.
func (s *Service) snapshot(ctx context.Context, ownerID string, window calendar.TimeWindow) ([]domain.Appointment, []domain.AvailabilitySlot, error) {
	var (
		appts []domain.Appointment
		slots []domain.AvailabilitySlot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		appts, err = s.appointments.FindOverlapping(gctx, ownerID, window)
		return err
	})
	g.Go(func() error {
		var err error
		slots, err = s.availability.FindOverlapping(gctx, ownerID, window)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return appts, slots, nil
}

func (s *Service) startSpan(ctx context.Context, name, ownerID string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("scheduling.owner_id", ownerID)))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}
