// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"aircon_booking_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// BookingContact carries the customer contact details a notification
// needs, resolved once by the bookings module at publish time.
type BookingContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// =============================================================================
// Booking Domain Events
// =============================================================================

// BookingCreated is published when a new booking enters the pending state.
type BookingCreated struct {
	BaseEvent
	BookingID     uuid.UUID      `json:"bookingId"`
	BookingNumber string         `json:"bookingNumber"`
	Contact       BookingContact `json:"contact"`
	ServiceName   string         `json:"serviceName"`
	ScheduledDate time.Time      `json:"scheduledDate"`
	TimeslotLabel string         `json:"timeslotLabel"`
	TotalCents    int64          `json:"totalCents"`
}

func (e BookingCreated) EventName() string { return "bookings.created" }

// BookingConfirmed is published when an admin confirms a pending booking.
type BookingConfirmed struct {
	BaseEvent
	BookingID     uuid.UUID      `json:"bookingId"`
	BookingNumber string         `json:"bookingNumber"`
	Contact       BookingContact `json:"contact"`
	ScheduledDate time.Time      `json:"scheduledDate"`
	TimeslotLabel string         `json:"timeslotLabel"`
	ConfirmedBy   uuid.UUID      `json:"confirmedBy"`
}

func (e BookingConfirmed) EventName() string { return "bookings.confirmed" }

// BookingCancelled is published when a booking reaches the cancelled state,
// either directly by an admin or by accepting a customer request.
type BookingCancelled struct {
	BaseEvent
	BookingID     uuid.UUID      `json:"bookingId"`
	BookingNumber string         `json:"bookingNumber"`
	Contact       BookingContact `json:"contact"`
	ScheduledDate time.Time      `json:"scheduledDate"`
}

func (e BookingCancelled) EventName() string { return "bookings.cancelled" }

// BookingCancellationRequested is published when a customer asks to cancel.
type BookingCancellationRequested struct {
	BaseEvent
	BookingID      uuid.UUID      `json:"bookingId"`
	BookingNumber  string         `json:"bookingNumber"`
	Contact        BookingContact `json:"contact"`
	ReasonCategory string         `json:"reasonCategory"`
}

func (e BookingCancellationRequested) EventName() string { return "bookings.cancellation_requested" }

// BookingCancellationRejected is published when an admin rejects a
// cancellation request and the booking returns to pending.
type BookingCancellationRejected struct {
	BaseEvent
	BookingID     uuid.UUID      `json:"bookingId"`
	BookingNumber string         `json:"bookingNumber"`
	Contact       BookingContact `json:"contact"`
}

func (e BookingCancellationRejected) EventName() string { return "bookings.cancellation_rejected" }

// BookingReminderDue is published by the scheduler worker when a
// confirmed booking's reminder time arrives.
type BookingReminderDue struct {
	BaseEvent
	BookingID     uuid.UUID      `json:"bookingId"`
	BookingNumber string         `json:"bookingNumber"`
	Contact       BookingContact `json:"contact"`
	ScheduledDate time.Time      `json:"scheduledDate"`
	TimeslotLabel string         `json:"timeslotLabel"`
}

func (e BookingReminderDue) EventName() string { return "bookings.reminder_due" }

// BookingCompleted is published when a technician finishes a job.
type BookingCompleted struct {
	BaseEvent
	BookingID     uuid.UUID      `json:"bookingId"`
	BookingNumber string         `json:"bookingNumber"`
	Contact       BookingContact `json:"contact"`
}

func (e BookingCompleted) EventName() string { return "bookings.completed" }
