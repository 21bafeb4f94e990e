package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/profyt7/carelinkai-sub009/internal/calendar"
	"github.com/profyt7/carelinkai-sub009/internal/domain"
	"github.com/profyt7/carelinkai-sub009/internal/service/scheduling"
	"github.com/profyt7/carelinkai-sub009/internal/store"
)

type SchedulingService struct {
	svc schedulingService
	log *slog.Logger
}

type schedulingService interface {
	Check(ctx context.Context, in scheduling.CheckInput) (calendar.CheckResult, error)
	Generate(ctx context.Context, in scheduling.GenerateInput) (calendar.SlotResult, error)
	Book(ctx context.Context, in scheduling.BookInput) (domain.Appointment, error)
	BookRecurring(ctx context.Context, in scheduling.BookRecurringInput) (scheduling.SeriesResult, error)
}

var _ SchedulingServer = (*SchedulingService)(nil)

func NewSchedulingService(svc schedulingService, log *slog.Logger) *SchedulingService {
	if log == nil {
		log = slog.Default()
	}
	return &SchedulingService{
		svc: svc,
		log: log.With(slog.String("component", "grpc.scheduling")),
	}
}

func (s *SchedulingService) CheckAvailability(ctx context.Context, req *CheckAvailabilityRequest) (*CheckAvailabilityResponse, error) {
	log := s.log.With(slog.String("rpc", "CheckAvailability"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.StartTime == nil || req.EndTime == nil {
		log.Warn("invalid request", slog.String("reason", "missing_times"), slog.String("owner_id", req.OwnerID))
		return nil, status.Error(codes.InvalidArgument, "start_time and end_time are required")
	}

	res, err := s.svc.Check(ctx, scheduling.CheckInput{
		OwnerID:      req.OwnerID,
		StartTime:    req.StartTime.AsTime(),
		EndTime:      req.EndTime.AsTime(),
		ActivityType: req.ActivityType,
		TimeZone:     req.TimeZone,
	})
	if err != nil {
		return nil, s.failure(log, "availability check failed", err, slog.String("owner_id", req.OwnerID))
	}

	log.Debug(
		"availability checked",
		slog.String("owner_id", req.OwnerID),
		slog.Bool("is_available", res.IsAvailable),
		slog.String("reason", string(res.Reason)),
		slog.Int("conflicts", len(res.Conflicts)),
	)

	conflicts := res.Conflicts
	if conflicts == nil {
		conflicts = []domain.Appointment{}
	}
	return &CheckAvailabilityResponse{IsAvailable: res.IsAvailable, Reason: res.Reason, Conflicts: conflicts}, nil
}

func (s *SchedulingService) GenerateSlots(ctx context.Context, req *GenerateSlotsRequest) (*GenerateSlotsResponse, error) {
	log := s.log.With(slog.String("rpc", "GenerateSlots"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	rangeStart, err := domain.ParseDate(req.RangeStart)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_range_start"), slog.String("owner_id", req.OwnerID))
		return nil, status.Error(codes.InvalidArgument, "range_start must be YYYY-MM-DD")
	}
	rangeEnd, err := domain.ParseDate(req.RangeEnd)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_range_end"), slog.String("owner_id", req.OwnerID))
		return nil, status.Error(codes.InvalidArgument, "range_end must be YYYY-MM-DD")
	}
	businessHoursOnly := true
	if req.BusinessHoursOnly != nil {
		businessHoursOnly = *req.BusinessHoursOnly
	}

	res, err := s.svc.Generate(ctx, scheduling.GenerateInput{
		OwnerID:           req.OwnerID,
		RangeStart:        rangeStart,
		RangeEnd:          rangeEnd,
		ActivityType:      req.ActivityType,
		DurationMinutes:   req.DurationMinutes,
		ExcludeWeekends:   req.ExcludeWeekends,
		BusinessHoursOnly: businessHoursOnly,
		TimeZone:          req.TimeZone,
	})
	if err != nil {
		return nil, s.failure(log, "slot generation failed", err, slog.String("owner_id", req.OwnerID))
	}

	log.Debug(
		"slots generated",
		slog.String("owner_id", req.OwnerID),
		slog.Int("count", len(res.AvailableSlots)),
		slog.Int("days", len(res.SlotsByDay)),
	)

	out := &GenerateSlotsResponse{AvailableSlots: res.AvailableSlots, SlotsByDay: res.SlotsByDay}
	if out.AvailableSlots == nil {
		out.AvailableSlots = []calendar.ProposedSlot{}
	}
	if out.SlotsByDay == nil {
		out.SlotsByDay = map[string][]calendar.ProposedSlot{}
	}
	return out, nil
}

func (s *SchedulingService) BookAppointment(ctx context.Context, req *BookAppointmentRequest) (*BookAppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "BookAppointment"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.StartTime == nil || req.EndTime == nil {
		log.Warn("invalid request", slog.String("reason", "missing_times"), slog.String("owner_id", req.OwnerID))
		return nil, status.Error(codes.InvalidArgument, "start_time and end_time are required")
	}

	appt, err := s.svc.Book(ctx, scheduling.BookInput{
		OwnerID:        req.OwnerID,
		Title:          req.Title,
		ActivityType:   req.ActivityType,
		StartTime:      req.StartTime.AsTime(),
		EndTime:        req.EndTime.AsTime(),
		TimeZone:       req.TimeZone,
		IdempotencyKey: idempotencyKey(ctx),
	})
	if err != nil {
		return nil, s.failure(log, "appointment booking failed", err,
			slog.String("owner_id", req.OwnerID),
			slog.Time("start_time", req.StartTime.AsTime()),
			slog.Time("end_time", req.EndTime.AsTime()),
		)
	}

	log.Info(
		"appointment booked",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("owner_id", appt.OwnerID),
		slog.Time("start_time", appt.StartTime),
		slog.Time("end_time", appt.EndTime),
	)

	return &BookAppointmentResponse{Appointment: appt}, nil
}

func (s *SchedulingService) BookRecurring(ctx context.Context, req *BookRecurringRequest) (*BookRecurringResponse, error) {
	log := s.log.With(slog.String("rpc", "BookRecurring"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.StartTime == nil || req.EndTime == nil {
		log.Warn("invalid request", slog.String("reason", "missing_times"), slog.String("owner_id", req.OwnerID))
		return nil, status.Error(codes.InvalidArgument, "start_time and end_time are required")
	}
	if req.Pattern == nil {
		log.Warn("invalid request", slog.String("reason", "missing_pattern"), slog.String("owner_id", req.OwnerID))
		return nil, status.Error(codes.InvalidArgument, "pattern is required")
	}
	var horizon domain.Date
	if strings.TrimSpace(req.HorizonEnd) != "" {
		h, err := domain.ParseDate(req.HorizonEnd)
		if err != nil {
			log.Warn("invalid request", slog.String("reason", "invalid_horizon_end"), slog.String("owner_id", req.OwnerID))
			return nil, status.Error(codes.InvalidArgument, "horizon_end must be YYYY-MM-DD")
		}
		horizon = h
	}

	res, err := s.svc.BookRecurring(ctx, scheduling.BookRecurringInput{
		OwnerID:        req.OwnerID,
		Title:          req.Title,
		ActivityType:   req.ActivityType,
		StartTime:      req.StartTime.AsTime(),
		EndTime:        req.EndTime.AsTime(),
		TimeZone:       req.TimeZone,
		Pattern:        *req.Pattern,
		HorizonEnd:     horizon,
		IdempotencyKey: idempotencyKey(ctx),
	})
	if err != nil {
		return nil, s.failure(log, "recurring booking failed", err, slog.String("owner_id", req.OwnerID))
	}

	log.Info(
		"recurring series booked",
		slog.String("series_id", res.SeriesID.String()),
		slog.String("owner_id", req.OwnerID),
		slog.Int("created", len(res.Created)),
		slog.Int("skipped", len(res.Skipped)),
	)

	out := &BookRecurringResponse{
		SeriesID: res.SeriesID.String(),
		Created:  res.Created,
		Skipped:  res.Skipped,
	}
	if out.Created == nil {
		out.Created = []domain.Appointment{}
	}
	if out.Skipped == nil {
		out.Skipped = []scheduling.SkippedOccurrence{}
	}
	return out, nil
}

// failure logs err at the level its kind deserves and maps it to a gRPC status.
func (s *SchedulingService) failure(log *slog.Logger, msg string, err error, attrs ...any) error {
	args := append([]any{slog.Any("err", err)}, attrs...)

	var vErr *scheduling.ValidationError
	switch {
	case errors.As(err, &vErr):
		log.Warn("invalid request", args...)
		return status.Error(codes.InvalidArgument, vErr.Error())
	case errors.Is(err, store.ErrConflict):
		log.Info("booking conflict", args...)
		return status.Error(codes.FailedPrecondition, "The owner already has an appointment during that time. Pick a different slot.")
	case errors.Is(err, scheduling.ErrSlotUnavailable):
		log.Info("slot unavailable", args...)
		return status.Error(codes.FailedPrecondition, "That time is outside the owner's availability. Pick a different slot.")
	case errors.Is(err, store.ErrIdempotencyConflict):
		log.Info("idempotency conflict", args...)
		return status.Error(codes.FailedPrecondition, "This request key was already used for a different appointment. Try again.")
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn(msg, args...)
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	case errors.Is(err, context.Canceled):
		log.Info(msg, args...)
		return status.Error(codes.Canceled, "request canceled")
	}
	log.Error(msg, args...)
	return status.Error(codes.Internal, "internal error")
}

func idempotencyKey(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get("idempotency-key")
	if len(values) == 0 {
		values = md.Get("x-idempotency-key")
	}
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}
