package service

import (
	"aircon_booking_backend/platform/apperr"

	"github.com/google/uuid"
)

// CustomerKind discriminates the three customer reference shapes.
type CustomerKind string

// Customer reference kinds.
const (
	CustomerRegistered CustomerKind = "registered"
	CustomerGuest      CustomerKind = "guest"
	CustomerLegacyName CustomerKind = "legacy_name"
)

// CustomerRef identifies the customer behind a booking. Exactly one of
// the three shapes is populated; construct values only through the
// constructors below.
type CustomerRef struct {
	kind       CustomerKind
	userID     uuid.UUID
	guestID    uuid.UUID
	legacyName string
}

// RegisteredCustomer references an authenticated user account.
func RegisteredCustomer(userID uuid.UUID) (CustomerRef, error) {
	if userID == uuid.Nil {
		return CustomerRef{}, apperr.Validation("user id is required")
	}
	return CustomerRef{kind: CustomerRegistered, userID: userID}, nil
}

// GuestCustomer references a guest contact record.
func GuestCustomer(guestID uuid.UUID) (CustomerRef, error) {
	if guestID == uuid.Nil {
		return CustomerRef{}, apperr.Validation("guest id is required")
	}
	return CustomerRef{kind: CustomerGuest, guestID: guestID}, nil
}

// LegacyNameCustomer references a customer by free-text name only.
// Kept for records imported from the previous system.
func LegacyNameCustomer(name string) (CustomerRef, error) {
	if name == "" {
		return CustomerRef{}, apperr.Validation("customer name is required")
	}
	return CustomerRef{kind: CustomerLegacyName, legacyName: name}, nil
}

// Kind returns the populated shape.
func (c CustomerRef) Kind() CustomerKind { return c.kind }

// UserID returns the registered user ID when Kind is registered.
func (c CustomerRef) UserID() (uuid.UUID, bool) {
	return c.userID, c.kind == CustomerRegistered
}

// GuestID returns the guest record ID when Kind is guest.
func (c CustomerRef) GuestID() (uuid.UUID, bool) {
	return c.guestID, c.kind == CustomerGuest
}

// LegacyName returns the free-text name when Kind is legacy.
func (c CustomerRef) LegacyName() (string, bool) {
	return c.legacyName, c.kind == CustomerLegacyName
}
