package service

import (
	"testing"

	"aircon_booking_backend/platform/apperr"
	"aircon_booking_backend/platform/logger"
)

func TestNormalizePhone(t *testing.T) {
	s := New(nil, logger.New("test"), "SG")

	tests := []struct {
		raw  string
		want string
	}{
		{"91234567", "+6591234567"},
		{"+65 9123 4567", "+6591234567"},
		{"+31 6 12345678", "+31612345678"},
	}
	for _, tt := range tests {
		got, err := s.normalizePhone(tt.raw)
		if err != nil {
			t.Fatalf("normalizePhone(%q): %v", tt.raw, err)
		}
		if got != tt.want {
			t.Errorf("normalizePhone(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizePhoneRejectsInvalid(t *testing.T) {
	s := New(nil, logger.New("test"), "SG")

	for _, raw := range []string{"not a number", "12", "+65 1"} {
		if _, err := s.normalizePhone(raw); apperr.GetKind(err) != apperr.KindValidation {
			t.Errorf("normalizePhone(%q): got %v, want validation error", raw, err)
		}
	}
}
