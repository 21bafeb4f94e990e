package grpc

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/profyt7/carelinkai-sub009/internal/calendar"
	"github.com/profyt7/carelinkai-sub009/internal/domain"
	"github.com/profyt7/carelinkai-sub009/internal/service/scheduling"
)

// field looks a field up by its proto name. A miss means schema.go and this file
// disagree, which no request can cause.
func field(m protoreflect.Message, name protoreflect.Name) protoreflect.FieldDescriptor {
	fd := m.Descriptor().Fields().ByName(name)
	if fd == nil {
		panic(fmt.Sprintf("%s has no field %s", m.Descriptor().FullName(), name))
	}
	return fd
}

func setString(m protoreflect.Message, name protoreflect.Name, v string) {
	if v != "" {
		m.Set(field(m, name), protoreflect.ValueOfString(v))
	}
}

func getString(m protoreflect.Message, name protoreflect.Name) string {
	return m.Get(field(m, name)).String()
}

func setInt32(m protoreflect.Message, name protoreflect.Name, v int) {
	if v != 0 {
		m.Set(field(m, name), protoreflect.ValueOfInt32(int32(v)))
	}
}

func getInt32(m protoreflect.Message, name protoreflect.Name) int {
	return int(m.Get(field(m, name)).Int())
}

func setBool(m protoreflect.Message, name protoreflect.Name, v bool) {
	if v {
		m.Set(field(m, name), protoreflect.ValueOfBool(v))
	}
}

func getBool(m protoreflect.Message, name protoreflect.Name) bool {
	return m.Get(field(m, name)).Bool()
}

// setTimestamp copies ts into a google.protobuf.Timestamp field. Nil leaves it unset.
func setTimestamp(m protoreflect.Message, name protoreflect.Name, ts *timestamppb.Timestamp) {
	if ts == nil {
		return
	}
	dst := m.Mutable(field(m, name)).Message()
	dst.Set(field(dst, "seconds"), protoreflect.ValueOfInt64(ts.GetSeconds()))
	dst.Set(field(dst, "nanos"), protoreflect.ValueOfInt32(ts.GetNanos()))
}

func setTime(m protoreflect.Message, name protoreflect.Name, t time.Time) {
	if !t.IsZero() {
		setTimestamp(m, name, timestamppb.New(t))
	}
}

// getTimestamp returns nil for an unset field.
func getTimestamp(m protoreflect.Message, name protoreflect.Name) (*timestamppb.Timestamp, error) {
	fd := field(m, name)
	if !m.Has(fd) {
		return nil, nil
	}
	src := m.Get(fd).Message()
	ts := &timestamppb.Timestamp{
		Seconds: src.Get(field(src, "seconds")).Int(),
		Nanos:   int32(src.Get(field(src, "nanos")).Int()),
	}
	if err := ts.CheckValid(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return ts, nil
}

func getTime(m protoreflect.Message, name protoreflect.Name) (time.Time, error) {
	ts, err := getTimestamp(m, name)
	if err != nil || ts == nil {
		return time.Time{}, err
	}
	return ts.AsTime(), nil
}

func appendMessage(m protoreflect.Message, name protoreflect.Name, fill func(protoreflect.Message)) {
	list := m.Mutable(field(m, name)).List()
	v := list.NewElement()
	fill(v.Message())
	list.Append(v)
}

func eachMessage(m protoreflect.Message, name protoreflect.Name, fn func(protoreflect.Message) error) error {
	list := m.Get(field(m, name)).List()
	for i := 0; i < list.Len(); i++ {
		if err := fn(list.Get(i).Message()); err != nil {
			return err
		}
	}
	return nil
}

func putAppointment(m protoreflect.Message, a domain.Appointment) {
	if a.ID != uuid.Nil {
		setString(m, "id", a.ID.String())
	}
	setString(m, "owner_id", a.OwnerID)
	setString(m, "title", a.Title)
	setString(m, "activity_type", string(a.Type))
	setString(m, "status", string(a.Status))
	setTime(m, "start_time", a.StartTime)
	setTime(m, "end_time", a.EndTime)
	if a.SeriesID != nil {
		setString(m, "series_id", a.SeriesID.String())
	}
	setTime(m, "created_at", a.CreatedAt)
	setTime(m, "updated_at", a.UpdatedAt)
}

func readAppointment(m protoreflect.Message) (domain.Appointment, error) {
	a := domain.Appointment{
		OwnerID: getString(m, "owner_id"),
		Title:   getString(m, "title"),
		Type:    domain.ActivityType(getString(m, "activity_type")),
		Status:  domain.AppointmentStatus(getString(m, "status")),
	}
	if s := getString(m, "id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return domain.Appointment{}, fmt.Errorf("appointment id: %w", err)
		}
		a.ID = id
	}
	if s := getString(m, "series_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return domain.Appointment{}, fmt.Errorf("appointment series_id: %w", err)
		}
		a.SeriesID = &id
	}
	var err error
	if a.StartTime, err = getTime(m, "start_time"); err != nil {
		return domain.Appointment{}, err
	}
	if a.EndTime, err = getTime(m, "end_time"); err != nil {
		return domain.Appointment{}, err
	}
	if a.CreatedAt, err = getTime(m, "created_at"); err != nil {
		return domain.Appointment{}, err
	}
	if a.UpdatedAt, err = getTime(m, "updated_at"); err != nil {
		return domain.Appointment{}, err
	}
	return a, nil
}

func putAppointments(m protoreflect.Message, name protoreflect.Name, appts []domain.Appointment) {
	for _, a := range appts {
		appendMessage(m, name, func(dst protoreflect.Message) { putAppointment(dst, a) })
	}
}

func readAppointments(m protoreflect.Message, name protoreflect.Name) ([]domain.Appointment, error) {
	out := []domain.Appointment{}
	err := eachMessage(m, name, func(src protoreflect.Message) error {
		a, err := readAppointment(src)
		if err != nil {
			return err
		}
		out = append(out, a)
		return nil
	})
	return out, err
}

func putPattern(m protoreflect.Message, p domain.RecurrencePattern) {
	setString(m, "frequency", string(p.Frequency))
	if len(p.DaysOfWeek) > 0 {
		days := m.Mutable(field(m, "days_of_week")).List()
		for _, wd := range p.DaysOfWeek {
			days.Append(protoreflect.ValueOfInt32(int32(wd)))
		}
	}
	setInt32(m, "day_of_month", p.DayOfMonth)
	setInt32(m, "month_of_year", int(p.MonthOfYear))
	if p.EndDate != nil {
		setString(m, "end_date", p.EndDate.String())
	}
	setInt32(m, "occurrences", p.Occurrences)
	if len(p.ExcludeDates) > 0 {
		excluded := m.Mutable(field(m, "exclude_dates")).List()
		for _, d := range p.ExcludeDates {
			excluded.Append(protoreflect.ValueOfString(d.String()))
		}
	}
	setString(m, "custom_rule", p.CustomRule)
}

func readPattern(m protoreflect.Message) (domain.RecurrencePattern, error) {
	p := domain.RecurrencePattern{
		Frequency:   domain.Frequency(getString(m, "frequency")),
		DayOfMonth:  getInt32(m, "day_of_month"),
		MonthOfYear: time.Month(getInt32(m, "month_of_year")),
		Occurrences: getInt32(m, "occurrences"),
		CustomRule:  getString(m, "custom_rule"),
	}
	days := m.Get(field(m, "days_of_week")).List()
	for i := 0; i < days.Len(); i++ {
		p.DaysOfWeek = append(p.DaysOfWeek, time.Weekday(days.Get(i).Int()))
	}
	if s := getString(m, "end_date"); s != "" {
		d, err := domain.ParseDate(s)
		if err != nil {
			return domain.RecurrencePattern{}, fmt.Errorf("pattern end_date: %w", err)
		}
		p.EndDate = &d
	}
	excluded := m.Get(field(m, "exclude_dates")).List()
	for i := 0; i < excluded.Len(); i++ {
		d, err := domain.ParseDate(excluded.Get(i).String())
		if err != nil {
			return domain.RecurrencePattern{}, fmt.Errorf("pattern exclude_dates: %w", err)
		}
		p.ExcludeDates = append(p.ExcludeDates, d)
	}
	return p, nil
}

func putSlot(m protoreflect.Message, s calendar.ProposedSlot) {
	setTime(m, "start", s.Start)
	setTime(m, "end", s.End)
	setString(m, "local_date", s.LocalDate)
}

func readSlots(m protoreflect.Message, name protoreflect.Name) ([]calendar.ProposedSlot, error) {
	out := []calendar.ProposedSlot{}
	err := eachMessage(m, name, func(src protoreflect.Message) error {
		s := calendar.ProposedSlot{LocalDate: getString(src, "local_date")}
		var err error
		if s.Start, err = getTime(src, "start"); err != nil {
			return err
		}
		if s.End, err = getTime(src, "end"); err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	return out, err
}

func encodeCheckAvailabilityRequest(r *CheckAvailabilityRequest) *dynamicpb.Message {
	m := dynamicpb.NewMessage(checkAvailabilityRequestDesc)
	setString(m, "owner_id", r.OwnerID)
	setTimestamp(m, "start_time", r.StartTime)
	setTimestamp(m, "end_time", r.EndTime)
	setString(m, "activity_type", string(r.ActivityType))
	setString(m, "time_zone", r.TimeZone)
	return m
}

func decodeCheckAvailabilityRequest(m protoreflect.Message) (*CheckAvailabilityRequest, error) {
	r := &CheckAvailabilityRequest{
		OwnerID:      getString(m, "owner_id"),
		ActivityType: domain.ActivityType(getString(m, "activity_type")),
		TimeZone:     getString(m, "time_zone"),
	}
	var err error
	if r.StartTime, err = getTimestamp(m, "start_time"); err != nil {
		return nil, err
	}
	if r.EndTime, err = getTimestamp(m, "end_time"); err != nil {
		return nil, err
	}
	return r, nil
}

func encodeCheckAvailabilityResponse(r *CheckAvailabilityResponse) *dynamicpb.Message {
	m := dynamicpb.NewMessage(checkAvailabilityResponseDesc)
	setBool(m, "is_available", r.IsAvailable)
	setString(m, "reason", string(r.Reason))
	putAppointments(m, "conflicts", r.Conflicts)
	return m
}

func decodeCheckAvailabilityResponse(m protoreflect.Message) (*CheckAvailabilityResponse, error) {
	conflicts, err := readAppointments(m, "conflicts")
	if err != nil {
		return nil, err
	}
	return &CheckAvailabilityResponse{
		IsAvailable: getBool(m, "is_available"),
		Reason:      calendar.Reason(getString(m, "reason")),
		Conflicts:   conflicts,
	}, nil
}

func encodeGenerateSlotsRequest(r *GenerateSlotsRequest) *dynamicpb.Message {
	m := dynamicpb.NewMessage(generateSlotsRequestDesc)
	setString(m, "owner_id", r.OwnerID)
	setString(m, "range_start", r.RangeStart)
	setString(m, "range_end", r.RangeEnd)
	setString(m, "activity_type", string(r.ActivityType))
	setInt32(m, "duration_minutes", r.DurationMinutes)
	setBool(m, "exclude_weekends", r.ExcludeWeekends)
	if r.BusinessHoursOnly != nil {
		// Explicit presence: false must reach the server.
		m.Set(field(m, "business_hours_only"), protoreflect.ValueOfBool(*r.BusinessHoursOnly))
	}
	setString(m, "time_zone", r.TimeZone)
	return m
}

func decodeGenerateSlotsRequest(m protoreflect.Message) (*GenerateSlotsRequest, error) {
	r := &GenerateSlotsRequest{
		OwnerID:         getString(m, "owner_id"),
		RangeStart:      getString(m, "range_start"),
		RangeEnd:        getString(m, "range_end"),
		ActivityType:    domain.ActivityType(getString(m, "activity_type")),
		DurationMinutes: getInt32(m, "duration_minutes"),
		ExcludeWeekends: getBool(m, "exclude_weekends"),
		TimeZone:        getString(m, "time_zone"),
	}
	if fd := field(m, "business_hours_only"); m.Has(fd) {
		v := m.Get(fd).Bool()
		r.BusinessHoursOnly = &v
	}
	return r, nil
}

func encodeGenerateSlotsResponse(r *GenerateSlotsResponse) *dynamicpb.Message {
	m := dynamicpb.NewMessage(generateSlotsResponseDesc)
	for _, s := range r.AvailableSlots {
		appendMessage(m, "available_slots", func(dst protoreflect.Message) { putSlot(dst, s) })
	}

	days := make([]string, 0, len(r.SlotsByDay))
	for day := range r.SlotsByDay {
		days = append(days, day)
	}
	sort.Strings(days)
	if len(days) > 0 {
		byDay := m.Mutable(field(m, "slots_by_day")).Map()
		for _, day := range days {
			v := byDay.NewValue()
			for _, s := range r.SlotsByDay[day] {
				appendMessage(v.Message(), "slots", func(dst protoreflect.Message) { putSlot(dst, s) })
			}
			byDay.Set(protoreflect.ValueOfString(day).MapKey(), v)
		}
	}
	return m
}

func decodeGenerateSlotsResponse(m protoreflect.Message) (*GenerateSlotsResponse, error) {
	slots, err := readSlots(m, "available_slots")
	if err != nil {
		return nil, err
	}
	out := &GenerateSlotsResponse{
		AvailableSlots: slots,
		SlotsByDay:     map[string][]calendar.ProposedSlot{},
	}
	m.Get(field(m, "slots_by_day")).Map().Range(func(k protoreflect.MapKey, v protoreflect.Value) bool {
		var day []calendar.ProposedSlot
		day, err = readSlots(v.Message(), "slots")
		if err != nil {
			return false
		}
		out.SlotsByDay[k.String()] = day
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func encodeBookAppointmentRequest(r *BookAppointmentRequest) *dynamicpb.Message {
	m := dynamicpb.NewMessage(bookAppointmentRequestDesc)
	setString(m, "owner_id", r.OwnerID)
	setString(m, "title", r.Title)
	setString(m, "activity_type", string(r.ActivityType))
	setTimestamp(m, "start_time", r.StartTime)
	setTimestamp(m, "end_time", r.EndTime)
	setString(m, "time_zone", r.TimeZone)
	return m
}

func decodeBookAppointmentRequest(m protoreflect.Message) (*BookAppointmentRequest, error) {
	r := &BookAppointmentRequest{
		OwnerID:      getString(m, "owner_id"),
		Title:        getString(m, "title"),
		ActivityType: domain.ActivityType(getString(m, "activity_type")),
		TimeZone:     getString(m, "time_zone"),
	}
	var err error
	if r.StartTime, err = getTimestamp(m, "start_time"); err != nil {
		return nil, err
	}
	if r.EndTime, err = getTimestamp(m, "end_time"); err != nil {
		return nil, err
	}
	return r, nil
}

func encodeBookAppointmentResponse(r *BookAppointmentResponse) *dynamicpb.Message {
	m := dynamicpb.NewMessage(bookAppointmentResponseDesc)
	putAppointment(m.Mutable(field(m, "appointment")).Message(), r.Appointment)
	return m
}

func decodeBookAppointmentResponse(m protoreflect.Message) (*BookAppointmentResponse, error) {
	fd := field(m, "appointment")
	if !m.Has(fd) {
		return &BookAppointmentResponse{}, nil
	}
	a, err := readAppointment(m.Get(fd).Message())
	if err != nil {
		return nil, err
	}
	return &BookAppointmentResponse{Appointment: a}, nil
}

func encodeBookRecurringRequest(r *BookRecurringRequest) *dynamicpb.Message {
	m := dynamicpb.NewMessage(bookRecurringRequestDesc)
	setString(m, "owner_id", r.OwnerID)
	setString(m, "title", r.Title)
	setString(m, "activity_type", string(r.ActivityType))
	setTimestamp(m, "start_time", r.StartTime)
	setTimestamp(m, "end_time", r.EndTime)
	setString(m, "time_zone", r.TimeZone)
	if r.Pattern != nil {
		putPattern(m.Mutable(field(m, "pattern")).Message(), *r.Pattern)
	}
	setString(m, "horizon_end", r.HorizonEnd)
	return m
}

func decodeBookRecurringRequest(m protoreflect.Message) (*BookRecurringRequest, error) {
	r := &BookRecurringRequest{
		OwnerID:      getString(m, "owner_id"),
		Title:        getString(m, "title"),
		ActivityType: domain.ActivityType(getString(m, "activity_type")),
		TimeZone:     getString(m, "time_zone"),
		HorizonEnd:   getString(m, "horizon_end"),
	}
	var err error
	if r.StartTime, err = getTimestamp(m, "start_time"); err != nil {
		return nil, err
	}
	if r.EndTime, err = getTimestamp(m, "end_time"); err != nil {
		return nil, err
	}
	if fd := field(m, "pattern"); m.Has(fd) {
		p, err := readPattern(m.Get(fd).Message())
		if err != nil {
			return nil, err
		}
		r.Pattern = &p
	}
	return r, nil
}

func encodeBookRecurringResponse(r *BookRecurringResponse) *dynamicpb.Message {
	m := dynamicpb.NewMessage(bookRecurringResponseDesc)
	setString(m, "series_id", r.SeriesID)
	putAppointments(m, "created", r.Created)
	for _, s := range r.Skipped {
		appendMessage(m, "skipped", func(dst protoreflect.Message) {
			setTime(dst, "start", s.Start)
			setTime(dst, "end", s.End)
			setString(dst, "reason", string(s.Reason))
			putAppointments(dst, "conflicts", s.Conflicts)
		})
	}
	return m
}

func decodeBookRecurringResponse(m protoreflect.Message) (*BookRecurringResponse, error) {
	created, err := readAppointments(m, "created")
	if err != nil {
		return nil, err
	}
	out := &BookRecurringResponse{
		SeriesID: getString(m, "series_id"),
		Created:  created,
		Skipped:  []scheduling.SkippedOccurrence{},
	}
	err = eachMessage(m, "skipped", func(src protoreflect.Message) error {
		s := scheduling.SkippedOccurrence{Reason: calendar.Reason(getString(src, "reason"))}
		var err error
		if s.Start, err = getTime(src, "start"); err != nil {
			return err
		}
		if s.End, err = getTime(src, "end"); err != nil {
			return err
		}
		conflicts, err := readAppointments(src, "conflicts")
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			s.Conflicts = conflicts
		}
		out.Skipped = append(out.Skipped, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
