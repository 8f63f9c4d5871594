package service

import (
	"testing"

	"github.com/google/uuid"

	"aircon_booking_backend/platform/apperr"
)

func TestCustomerRefConstructors(t *testing.T) {
	userID := uuid.New()
	ref, err := RegisteredCustomer(userID)
	if err != nil {
		t.Fatalf("RegisteredCustomer: %v", err)
	}
	if ref.Kind() != CustomerRegistered {
		t.Errorf("kind = %s, want registered", ref.Kind())
	}
	if got, ok := ref.UserID(); !ok || got != userID {
		t.Errorf("UserID() = %v, %v", got, ok)
	}
	if _, ok := ref.GuestID(); ok {
		t.Error("GuestID() populated on registered ref")
	}
	if _, ok := ref.LegacyName(); ok {
		t.Error("LegacyName() populated on registered ref")
	}

	guestID := uuid.New()
	ref, err = GuestCustomer(guestID)
	if err != nil {
		t.Fatalf("GuestCustomer: %v", err)
	}
	if got, ok := ref.GuestID(); !ok || got != guestID {
		t.Errorf("GuestID() = %v, %v", got, ok)
	}
	if _, ok := ref.UserID(); ok {
		t.Error("UserID() populated on guest ref")
	}

	ref, err = LegacyNameCustomer("Tan Ah Kow")
	if err != nil {
		t.Fatalf("LegacyNameCustomer: %v", err)
	}
	if got, ok := ref.LegacyName(); !ok || got != "Tan Ah Kow" {
		t.Errorf("LegacyName() = %q, %v", got, ok)
	}
}

func TestCustomerRefRejectsEmpty(t *testing.T) {
	if _, err := RegisteredCustomer(uuid.Nil); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("nil user id: got %v, want validation error", err)
	}
	if _, err := GuestCustomer(uuid.Nil); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("nil guest id: got %v, want validation error", err)
	}
	if _, err := LegacyNameCustomer(""); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("empty name: got %v, want validation error", err)
	}
}
