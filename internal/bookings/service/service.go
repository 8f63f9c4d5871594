// Package service implements booking creation, estimation, and the
// booking lifecycle state machine.
package service

import (
	"context"
	"fmt"
	"time"

	"aircon_booking_backend/internal/bookings/repository"
	"aircon_booking_backend/internal/bookings/transport"
	"aircon_booking_backend/internal/events"
	"aircon_booking_backend/platform/apperr"
	"aircon_booking_backend/platform/config"
	"aircon_booking_backend/platform/logger"

	"github.com/google/uuid"
)

// Store is the persistence surface the booking service needs.
type Store interface {
	Create(ctx context.Context, b *repository.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*repository.Booking, error)
	GetByNumber(ctx context.Context, number string) (*repository.Booking, error)
	List(ctx context.Context, params repository.ListParams) ([]repository.Booking, error)
	ApplyTransition(ctx context.Context, id uuid.UUID, expected, newStatus string, upd repository.TransitionUpdate) (*repository.Booking, error)
	UpdateEstimate(ctx context.Context, id uuid.UUID, serviceID, airconTypeID uuid.UUID, units int, totalCents int64, minutes, days int) (*repository.Booking, error)
	CreateGuest(ctx context.Context, g *repository.Guest) error
	GetGuest(ctx context.Context, id uuid.UUID) (*repository.Guest, error)
}

// TechnicianDirectory validates technician assignments.
type TechnicianDirectory interface {
	TechnicianExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// ReminderScheduler enqueues a customer reminder ahead of the booking's
// scheduled start.
type ReminderScheduler interface {
	ScheduleBookingReminder(ctx context.Context, bookingID uuid.UUID, startAt time.Time) error
}

// Service contains booking business logic.
type Service struct {
	store   Store
	catalog CatalogSource
	techs   TechnicianDirectory
	seq     Sequencer
	bus     events.Bus
	policy  config.BookingPolicyConfig
	log     *logger.Logger
	now     func() time.Time

	reminders ReminderScheduler
}

// SetReminderScheduler attaches the optional reminder scheduler. Without
// one, confirmations simply skip reminder enqueueing.
func (s *Service) SetReminderScheduler(r ReminderScheduler) {
	s.reminders = r
}

// New creates a new bookings service
func New(store Store, catalog CatalogSource, techs TechnicianDirectory, seq Sequencer, bus events.Bus, policy config.BookingPolicyConfig, log *logger.Logger) *Service {
	return &Service{
		store:   store,
		catalog: catalog,
		techs:   techs,
		seq:     seq,
		bus:     bus,
		policy:  policy,
		log:     log,
		now:     time.Now,
	}
}

// Estimate prices and sizes a prospective job without persisting anything.
func (s *Service) Estimate(ctx context.Context, serviceID, airconTypeID uuid.UUID, units int) (*transport.EstimateResponse, error) {
	if units < 1 {
		return nil, apperr.Validation("number of units must be at least 1")
	}

	basePrice, svc, err := resolveBasePrice(ctx, s.catalog, serviceID, airconTypeID)
	if err != nil {
		return nil, err
	}

	totalCents, err := PriceCents(basePrice, units)
	if err != nil {
		return nil, err
	}

	baseMinutes := svc.DurationMinutes
	if baseMinutes <= 0 {
		baseMinutes = defaultBaseMinutes
	}
	est, err := EstimateDuration(baseMinutes, units)
	if err != nil {
		return nil, err
	}

	return &transport.EstimateResponse{
		TotalCents:               totalCents,
		TotalAmount:              FormatAmount(totalCents),
		EstimatedDurationMinutes: est.TotalMinutes,
		EstimatedDays:            est.Days,
	}, nil
}

// CreateInput is the resolved input for booking creation.
type CreateInput struct {
	Customer     CustomerRef
	Contact      events.BookingContact
	ServiceID    uuid.UUID
	AirconTypeID uuid.UUID
	Units        int
	TechnicianID *uuid.UUID
	Date         time.Time
	TimeslotID   uuid.UUID
	Address      string
}

// Create issues a booking number, derives price and duration, and
// persists a new pending booking. The assigned technician's daily
// capacity is re-checked atomically with the insert.
func (s *Service) Create(ctx context.Context, in CreateInput) (*transport.BookingResponse, error) {
	if in.Units < 1 {
		return nil, apperr.Validation("number of units must be at least 1")
	}
	if in.Customer.Kind() == "" {
		return nil, apperr.Validation("customer reference is required")
	}

	basePrice, svc, err := resolveBasePrice(ctx, s.catalog, in.ServiceID, in.AirconTypeID)
	if err != nil {
		return nil, err
	}
	slot, err := s.catalog.GetTimeslot(ctx, in.TimeslotID)
	if err != nil {
		return nil, err
	}
	if in.TechnicianID != nil {
		ok, err := s.techs.TechnicianExists(ctx, *in.TechnicianID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperr.NotFound("technician not found")
		}
	}

	totalCents, err := PriceCents(basePrice, in.Units)
	if err != nil {
		return nil, err
	}
	baseMinutes := svc.DurationMinutes
	if baseMinutes <= 0 {
		baseMinutes = defaultBaseMinutes
	}
	est, err := EstimateDuration(baseMinutes, in.Units)
	if err != nil {
		return nil, err
	}

	seq, err := s.seq.Next(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	booking := &repository.Booking{
		ID:               uuid.New(),
		BookingNumber:    FormatBookingNumber(s.policy.GetBookingNumberPrefix(), seq),
		ServiceID:        in.ServiceID,
		AirconTypeID:     in.AirconTypeID,
		NumberOfUnits:    in.Units,
		TechnicianID:     in.TechnicianID,
		ScheduledDate:    in.Date,
		TimeslotID:       in.TimeslotID,
		Address:          in.Address,
		Status:           string(StatusPending),
		PaymentStatus:    string(PaymentPending),
		TotalCents:       totalCents,
		EstimatedMinutes: est.TotalMinutes,
		EstimatedDays:    est.Days,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	applyCustomerRef(booking, in.Customer)

	if err := s.store.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.BookingCreated{
		BaseEvent:     events.NewBaseEvent(),
		BookingID:     booking.ID,
		BookingNumber: booking.BookingNumber,
		Contact:       in.Contact,
		ServiceName:   svc.Name,
		ScheduledDate: booking.ScheduledDate,
		TimeslotLabel: slot.Label,
		TotalCents:    booking.TotalCents,
	})

	resp := mapBooking(booking)
	return &resp, nil
}

// TransitionInput carries the actor and payload of a lifecycle action.
type TransitionInput struct {
	Action         Action
	ActorID        *uuid.UUID
	ReasonCategory string
	ReasonDetails  string
	Contact        events.BookingContact
}

// Transition applies a lifecycle action to a booking. Disallowed
// transitions fail with a state error and leave the record untouched; a
// cancellation request inside the notice window fails with a policy
// violation.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, in TransitionInput) (*transport.BookingResponse, error) {
	booking, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := NextStatus(Status(booking.Status), in.Action)
	if err != nil {
		return nil, err
	}

	if in.Action == ActionRequestCancel {
		if err := s.checkCancellationNotice(ctx, booking); err != nil {
			return nil, err
		}
		if in.ReasonCategory == "" {
			return nil, apperr.Validation("cancellation reason category is required")
		}
	}

	upd := s.transitionUpdate(in)
	updated, err := s.store.ApplyTransition(ctx, id, booking.Status, string(next), upd)
	if err != nil {
		return nil, err
	}

	if in.Contact == (events.BookingContact{}) {
		in.Contact = s.resolveContact(ctx, updated)
	}
	s.publishTransition(ctx, updated, in)

	if in.Action == ActionConfirm && s.reminders != nil {
		if err := s.scheduleReminder(ctx, updated); err != nil {
			s.log.Warn("failed to schedule booking reminder", "booking_number", updated.BookingNumber, "error", err)
		}
	}

	resp := mapBooking(updated)
	return &resp, nil
}

func (s *Service) transitionUpdate(in TransitionInput) repository.TransitionUpdate {
	now := s.now()
	var upd repository.TransitionUpdate
	switch in.Action {
	case ActionConfirm:
		upd.ConfirmedAt = &now
		upd.ConfirmedBy = in.ActorID
	case ActionComplete:
		upd.CompletedAt = &now
	case ActionCancel, ActionAcceptCancellation:
		unpaid := string(PaymentUnpaid)
		upd.PaymentStatus = &unpaid
		upd.CancelProcessedAt = &now
		upd.CancelProcessedBy = in.ActorID
	case ActionRequestCancel:
		upd.CancelRequestedAt = &now
		upd.CancelReason = &in.ReasonCategory
		if in.ReasonDetails != "" {
			upd.CancelDetails = &in.ReasonDetails
		}
	case ActionRejectCancellation:
		upd.ClearCancellation = true
	}
	return upd
}

// checkCancellationNotice enforces the minimum notice before the
// scheduled start, measured against the timeslot's start time on the
// scheduled date.
func (s *Service) checkCancellationNotice(ctx context.Context, b *repository.Booking) error {
	slot, err := s.catalog.GetTimeslot(ctx, b.TimeslotID)
	if err != nil {
		return err
	}

	start := time.Date(
		b.ScheduledDate.Year(), b.ScheduledDate.Month(), b.ScheduledDate.Day(),
		0, slot.StartMinutes, 0, 0, b.ScheduledDate.Location(),
	)
	notice := s.policy.GetCancellationNotice()
	if start.Sub(s.now()) < notice {
		return apperr.PolicyViolation(fmt.Sprintf(
			"cancellation requires at least %d hours notice before the scheduled start",
			int(notice.Hours()),
		))
	}
	return nil
}

func (s *Service) scheduleReminder(ctx context.Context, b *repository.Booking) error {
	slot, err := s.catalog.GetTimeslot(ctx, b.TimeslotID)
	if err != nil {
		return err
	}
	startAt := time.Date(
		b.ScheduledDate.Year(), b.ScheduledDate.Month(), b.ScheduledDate.Day(),
		0, slot.StartMinutes, 0, 0, b.ScheduledDate.Location(),
	)
	return s.reminders.ScheduleBookingReminder(ctx, b.ID, startAt)
}

// resolveContact looks up the stored guest contact when the booking
// belongs to a guest. Registered users are notified through their
// account channel and legacy-name records have no reachable contact.
func (s *Service) resolveContact(ctx context.Context, b *repository.Booking) events.BookingContact {
	if b.GuestID == nil {
		if b.LegacyCustomerName != nil {
			return events.BookingContact{Name: *b.LegacyCustomerName}
		}
		return events.BookingContact{}
	}
	g, err := s.store.GetGuest(ctx, *b.GuestID)
	if err != nil {
		return events.BookingContact{}
	}
	contact := events.BookingContact{Name: g.FullName, Phone: g.Phone}
	if g.Email != nil {
		contact.Email = *g.Email
	}
	return contact
}

func (s *Service) publishTransition(ctx context.Context, b *repository.Booking, in TransitionInput) {
	base := events.NewBaseEvent()
	switch in.Action {
	case ActionConfirm:
		var by uuid.UUID
		if in.ActorID != nil {
			by = *in.ActorID
		}
		s.bus.Publish(ctx, events.BookingConfirmed{
			BaseEvent: base, BookingID: b.ID, BookingNumber: b.BookingNumber,
			Contact: in.Contact, ScheduledDate: b.ScheduledDate, ConfirmedBy: by,
		})
	case ActionCancel, ActionAcceptCancellation:
		s.bus.Publish(ctx, events.BookingCancelled{
			BaseEvent: base, BookingID: b.ID, BookingNumber: b.BookingNumber,
			Contact: in.Contact, ScheduledDate: b.ScheduledDate,
		})
	case ActionRequestCancel:
		s.bus.Publish(ctx, events.BookingCancellationRequested{
			BaseEvent: base, BookingID: b.ID, BookingNumber: b.BookingNumber,
			Contact: in.Contact, ReasonCategory: in.ReasonCategory,
		})
	case ActionRejectCancellation:
		s.bus.Publish(ctx, events.BookingCancellationRejected{
			BaseEvent: base, BookingID: b.ID, BookingNumber: b.BookingNumber,
			Contact: in.Contact,
		})
	case ActionComplete:
		s.bus.Publish(ctx, events.BookingCompleted{
			BaseEvent: base, BookingID: b.ID, BookingNumber: b.BookingNumber,
			Contact: in.Contact,
		})
	}
}

// Get returns a booking by internal ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*transport.BookingResponse, error) {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := mapBooking(b)
	return &resp, nil
}

// GetByNumber returns a booking by public booking number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*transport.BookingResponse, error) {
	b, err := s.store.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	resp := mapBooking(b)
	return &resp, nil
}

// List returns bookings matching the filter.
func (s *Service) List(ctx context.Context, params repository.ListParams) ([]transport.BookingResponse, error) {
	if params.Status != "" && !ValidStatus(Status(params.Status)) {
		return nil, apperr.Validation("unknown booking status")
	}
	items, err := s.store.List(ctx, params)
	if err != nil {
		return nil, err
	}
	out := make([]transport.BookingResponse, 0, len(items))
	for i := range items {
		out = append(out, mapBooking(&items[i]))
	}
	return out, nil
}

// UpdateDetails changes the pricing-affecting fields of a booking and
// re-derives total, duration, and days so they never go stale.
func (s *Service) UpdateDetails(ctx context.Context, id uuid.UUID, req transport.UpdateBookingDetailsRequest) (*transport.BookingResponse, error) {
	booking, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	serviceID := booking.ServiceID
	airconTypeID := booking.AirconTypeID
	units := booking.NumberOfUnits
	if req.ServiceID != nil {
		serviceID, err = uuid.Parse(*req.ServiceID)
		if err != nil {
			return nil, apperr.Validation("invalid service id")
		}
	}
	if req.AirconTypeID != nil {
		airconTypeID, err = uuid.Parse(*req.AirconTypeID)
		if err != nil {
			return nil, apperr.Validation("invalid aircon type id")
		}
	}
	if req.NumberOfUnits != nil {
		units = *req.NumberOfUnits
	}
	if units < 1 {
		return nil, apperr.Validation("number of units must be at least 1")
	}

	basePrice, svc, err := resolveBasePrice(ctx, s.catalog, serviceID, airconTypeID)
	if err != nil {
		return nil, err
	}
	totalCents, err := PriceCents(basePrice, units)
	if err != nil {
		return nil, err
	}
	baseMinutes := svc.DurationMinutes
	if baseMinutes <= 0 {
		baseMinutes = defaultBaseMinutes
	}
	est, err := EstimateDuration(baseMinutes, units)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateEstimate(ctx, id, serviceID, airconTypeID, units, totalCents, est.TotalMinutes, est.Days)
	if err != nil {
		return nil, err
	}
	resp := mapBooking(updated)
	return &resp, nil
}

// CreateGuest persists a guest contact record and returns its ID.
func (s *Service) CreateGuest(ctx context.Context, name, phone string, email *string) (uuid.UUID, error) {
	g := &repository.Guest{
		ID:        uuid.New(),
		FullName:  name,
		Phone:     phone,
		Email:     email,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateGuest(ctx, g); err != nil {
		return uuid.Nil, err
	}
	return g.ID, nil
}

func applyCustomerRef(b *repository.Booking, ref CustomerRef) {
	if id, ok := ref.UserID(); ok {
		b.UserID = &id
	}
	if id, ok := ref.GuestID(); ok {
		b.GuestID = &id
	}
	if name, ok := ref.LegacyName(); ok {
		b.LegacyCustomerName = &name
	}
}

// FormatAmount renders cents as a currency string with two decimals.
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func mapBooking(b *repository.Booking) transport.BookingResponse {
	resp := transport.BookingResponse{
		ID:                       b.ID.String(),
		BookingNumber:            b.BookingNumber,
		ServiceID:                b.ServiceID.String(),
		AirconTypeID:             b.AirconTypeID.String(),
		NumberOfUnits:            b.NumberOfUnits,
		ScheduledDate:            b.ScheduledDate.Format("2006-01-02"),
		TimeslotID:               b.TimeslotID.String(),
		Address:                  b.Address,
		Status:                   b.Status,
		PaymentStatus:            b.PaymentStatus,
		TotalCents:               b.TotalCents,
		TotalAmount:              FormatAmount(b.TotalCents),
		EstimatedDurationMinutes: b.EstimatedMinutes,
		EstimatedDays:            b.EstimatedDays,
		CreatedAt:                b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:                b.UpdatedAt.Format(time.RFC3339),
	}
	if b.UserID != nil {
		resp.Customer = transport.CustomerRefResponse{Kind: string(CustomerRegistered), UserID: b.UserID.String()}
	}
	if b.GuestID != nil {
		resp.Customer = transport.CustomerRefResponse{Kind: string(CustomerGuest), GuestID: b.GuestID.String()}
	}
	if b.LegacyCustomerName != nil {
		resp.Customer = transport.CustomerRefResponse{Kind: string(CustomerLegacyName), Name: *b.LegacyCustomerName}
	}
	if b.TechnicianID != nil {
		id := b.TechnicianID.String()
		resp.TechnicianID = &id
	}
	if b.ConfirmedAt != nil {
		t := b.ConfirmedAt.Format(time.RFC3339)
		resp.ConfirmedAt = &t
	}
	if b.CompletedAt != nil {
		t := b.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &t
	}
	if b.CancelRequestedAt != nil {
		resp.Cancellation = &transport.CancellationResponse{
			RequestedAt:    b.CancelRequestedAt.Format(time.RFC3339),
			ReasonCategory: derefString(b.CancelReason),
			ReasonDetails:  derefString(b.CancelDetails),
		}
		if b.CancelProcessedAt != nil {
			t := b.CancelProcessedAt.Format(time.RFC3339)
			resp.Cancellation.ProcessedAt = &t
		}
	}
	return resp
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
