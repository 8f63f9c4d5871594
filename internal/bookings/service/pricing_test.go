package service

import (
	"testing"

	"aircon_booking_backend/platform/apperr"
)

func TestPriceCentsDiscountTiers(t *testing.T) {
	const base = 80000 // 800.00

	tests := []struct {
		units int
		want  int64
	}{
		{units: 1, want: 80000},
		{units: 2, want: 144000},
		{units: 3, want: 216000},
		{units: 4, want: 272000},
		{units: 5, want: 340000},
		{units: 6, want: 384000},
		{units: 10, want: 640000},
	}

	for _, tt := range tests {
		got, err := PriceCents(base, tt.units)
		if err != nil {
			t.Fatalf("PriceCents(%d, %d) returned error: %v", base, tt.units, err)
		}
		if got != tt.want {
			t.Errorf("PriceCents(%d, %d) = %d, want %d", base, tt.units, got, tt.want)
		}
	}
}

func TestPriceCentsRoundsHalfUp(t *testing.T) {
	// 99 cents * 2 units * 0.90 = 178.2 cents, rounds to 178
	got, err := PriceCents(99, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 178 {
		t.Errorf("PriceCents(99, 2) = %d, want 178", got)
	}

	// 25 cents * 2 * 0.90 = 45 exactly
	got, err = PriceCents(25, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 45 {
		t.Errorf("PriceCents(25, 2) = %d, want 45", got)
	}
}

func TestPriceCentsRejectsBadInput(t *testing.T) {
	if _, err := PriceCents(80000, 0); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("units=0: got %v, want validation error", err)
	}
	if _, err := PriceCents(80000, -3); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("units=-3: got %v, want validation error", err)
	}
	if _, err := PriceCents(-1, 2); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("negative base: got %v, want validation error", err)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{80000, "800.00"},
		{144000, "1440.00"},
		{5, "0.05"},
		{0, "0.00"},
		{-1250, "-12.50"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.cents); got != tt.want {
			t.Errorf("FormatAmount(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}
