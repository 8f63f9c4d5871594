package service

import (
	"testing"

	"aircon_booking_backend/platform/apperr"
)

func TestNextStatusAllowed(t *testing.T) {
	tests := []struct {
		current Status
		action  Action
		want    Status
	}{
		{StatusPending, ActionConfirm, StatusConfirmed},
		{StatusConfirmed, ActionStart, StatusInProgress},
		{StatusInProgress, ActionComplete, StatusCompleted},
		{StatusPending, ActionCancel, StatusCancelled},
		{StatusConfirmed, ActionCancel, StatusCancelled},
		{StatusPending, ActionRequestCancel, StatusCancelRequested},
		{StatusConfirmed, ActionRequestCancel, StatusCancelRequested},
		{StatusCancelRequested, ActionAcceptCancellation, StatusCancelled},
		{StatusCancelRequested, ActionRejectCancellation, StatusPending},
	}

	for _, tt := range tests {
		got, err := NextStatus(tt.current, tt.action)
		if err != nil {
			t.Fatalf("NextStatus(%s, %s) returned error: %v", tt.current, tt.action, err)
		}
		if got != tt.want {
			t.Errorf("NextStatus(%s, %s) = %s, want %s", tt.current, tt.action, got, tt.want)
		}
	}
}

func TestNextStatusDisallowed(t *testing.T) {
	tests := []struct {
		current Status
		action  Action
	}{
		{StatusPending, ActionStart},
		{StatusPending, ActionComplete},
		{StatusConfirmed, ActionConfirm},
		{StatusInProgress, ActionCancel},
		{StatusCompleted, ActionCancel},
		{StatusCancelled, ActionConfirm},
		{StatusCancelled, ActionCancel},
		{StatusCancelRequested, ActionStart},
		{StatusCompleted, ActionRequestCancel},
		{StatusPending, ActionAcceptCancellation},
		{StatusConfirmed, ActionRejectCancellation},
	}

	for _, tt := range tests {
		_, err := NextStatus(tt.current, tt.action)
		if apperr.GetKind(err) != apperr.KindState {
			t.Errorf("NextStatus(%s, %s): got %v, want state error", tt.current, tt.action, err)
		}
	}
}

func TestNextStatusUnknownAction(t *testing.T) {
	_, err := NextStatus(StatusPending, Action("teleport"))
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("unknown action: got %v, want validation error", err)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusCancelRequested} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%s) = false", s)
		}
	}
	if ValidStatus("archived") {
		t.Error("ValidStatus(archived) = true")
	}
}
