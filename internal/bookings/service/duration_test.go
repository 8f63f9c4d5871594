package service

import (
	"testing"

	"aircon_booking_backend/platform/apperr"
)

func TestEstimateDuration(t *testing.T) {
	tests := []struct {
		base        int
		units       int
		wantMinutes int
		wantDays    int
	}{
		{base: 90, units: 1, wantMinutes: 90, wantDays: 1},
		{base: 90, units: 2, wantMinutes: 162, wantDays: 1},
		{base: 90, units: 5, wantMinutes: 378, wantDays: 1},
		{base: 90, units: 6, wantMinutes: 432, wantDays: 1},
		{base: 90, units: 7, wantMinutes: 486, wantDays: 2},
		{base: 90, units: 10, wantMinutes: 648, wantDays: 2},
		{base: 60, units: 1, wantMinutes: 60, wantDays: 1},
		{base: 60, units: 4, wantMinutes: 204, wantDays: 1},
	}

	for _, tt := range tests {
		got, err := EstimateDuration(tt.base, tt.units)
		if err != nil {
			t.Fatalf("EstimateDuration(%d, %d) returned error: %v", tt.base, tt.units, err)
		}
		if got.TotalMinutes != tt.wantMinutes {
			t.Errorf("EstimateDuration(%d, %d).TotalMinutes = %d, want %d", tt.base, tt.units, got.TotalMinutes, tt.wantMinutes)
		}
		if got.Days != tt.wantDays {
			t.Errorf("EstimateDuration(%d, %d).Days = %d, want %d", tt.base, tt.units, got.Days, tt.wantDays)
		}
	}
}

func TestEstimateDurationRejectsBadInput(t *testing.T) {
	if _, err := EstimateDuration(0, 1); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("base=0: got %v, want validation error", err)
	}
	if _, err := EstimateDuration(90, 0); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("units=0: got %v, want validation error", err)
	}
	if _, err := EstimateDuration(-30, 2); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("negative base: got %v, want validation error", err)
	}
}
