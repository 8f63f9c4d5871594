package service

import (
	"fmt"

	"aircon_booking_backend/platform/apperr"
)

// Status is a booking lifecycle state.
type Status string

// Booking lifecycle states.
const (
	StatusPending         Status = "pending"
	StatusConfirmed       Status = "confirmed"
	StatusInProgress      Status = "in_progress"
	StatusCompleted       Status = "completed"
	StatusCancelled       Status = "cancelled"
	StatusCancelRequested Status = "cancel_requested"
)

// PaymentStatus tracks the payment side of a booking.
type PaymentStatus string

// Payment states.
const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Action is a named lifecycle transition request.
type Action string

// Lifecycle actions.
const (
	ActionConfirm            Action = "confirm"
	ActionStart              Action = "start"
	ActionComplete           Action = "complete"
	ActionCancel             Action = "cancel"
	ActionRequestCancel      Action = "request_cancellation"
	ActionAcceptCancellation Action = "accept_cancellation"
	ActionRejectCancellation Action = "reject_cancellation"
)

// transitions maps each action to its allowed source states and the
// resulting state. Anything outside this table is a state error.
var transitions = map[Action]struct {
	from []Status
	to   Status
}{
	ActionConfirm:            {from: []Status{StatusPending}, to: StatusConfirmed},
	ActionStart:              {from: []Status{StatusConfirmed}, to: StatusInProgress},
	ActionComplete:           {from: []Status{StatusInProgress}, to: StatusCompleted},
	ActionCancel:             {from: []Status{StatusPending, StatusConfirmed}, to: StatusCancelled},
	ActionRequestCancel:      {from: []Status{StatusPending, StatusConfirmed}, to: StatusCancelRequested},
	ActionAcceptCancellation: {from: []Status{StatusCancelRequested}, to: StatusCancelled},
	ActionRejectCancellation: {from: []Status{StatusCancelRequested}, to: StatusPending},
}

// NextStatus validates that action is allowed from current and returns
// the resulting status.
func NextStatus(current Status, action Action) (Status, error) {
	rule, ok := transitions[action]
	if !ok {
		return "", apperr.Validation(fmt.Sprintf("unknown action: %s", action))
	}
	for _, from := range rule.from {
		if from == current {
			return rule.to, nil
		}
	}
	return "", apperr.State(fmt.Sprintf("cannot %s a booking in status %s", action, current))
}

// ValidStatus reports whether s is a known lifecycle state.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusCancelRequested:
		return true
	}
	return false
}
