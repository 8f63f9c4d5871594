package service

import (
	"context"

	"aircon_booking_backend/platform/apperr"

	"github.com/google/uuid"
)

// CatalogSource provides the service and pricing catalog lookups the
// booking engines need.
type CatalogSource interface {
	GetService(ctx context.Context, id uuid.UUID) (*CatalogService, error)
	GetAirconType(ctx context.Context, id uuid.UUID) (*CatalogAirconType, error)
	// ActivePriceCents returns the active override price for the pair,
	// or nil when no active override exists.
	ActivePriceCents(ctx context.Context, serviceID, airconTypeID uuid.UUID) (*int64, error)
	GetTimeslot(ctx context.Context, id uuid.UUID) (*CatalogTimeslot, error)
}

// CatalogService is the booking view of a catalog service.
type CatalogService struct {
	ID              uuid.UUID
	Name            string
	Category        string
	BasePriceCents  int64
	DurationMinutes int
}

// CatalogAirconType is the booking view of an aircon type.
type CatalogAirconType struct {
	ID   uuid.UUID
	Name string
}

// CatalogTimeslot is the booking view of a timeslot. Times are minutes
// since midnight.
type CatalogTimeslot struct {
	ID           uuid.UUID
	Label        string
	StartMinutes int
	EndMinutes   int
}

// Unit-count discount tiers in basis points of the base price. A lone
// unit pays full price; larger jobs pay a discounted per-unit rate.
// An alternative table (100/80/70 percent per successive unit) exists
// in older quotation flows and was deliberately not adopted here.
func discountBasisPoints(units int) int64 {
	switch {
	case units <= 1:
		return 10000
	case units <= 3:
		return int64(units) * 9000
	case units <= 5:
		return int64(units) * 8500
	default:
		return int64(units) * 8000
	}
}

// PriceCents computes the total for a unit count against a base price,
// rounding half-up to whole cents.
func PriceCents(basePriceCents int64, units int) (int64, error) {
	if basePriceCents < 0 {
		return 0, apperr.Validation("base price must not be negative")
	}
	if units < 1 {
		return 0, apperr.Validation("number of units must be at least 1")
	}
	bp := discountBasisPoints(units)
	return (basePriceCents*bp + 5000) / 10000, nil
}

// resolveBasePrice looks up the effective base price for a service and
// aircon type pair: the active pricing override when present, the
// service base price otherwise.
func resolveBasePrice(ctx context.Context, catalog CatalogSource, serviceID, airconTypeID uuid.UUID) (int64, *CatalogService, error) {
	svc, err := catalog.GetService(ctx, serviceID)
	if err != nil {
		return 0, nil, err
	}
	if _, err := catalog.GetAirconType(ctx, airconTypeID); err != nil {
		return 0, nil, err
	}

	override, err := catalog.ActivePriceCents(ctx, serviceID, airconTypeID)
	if err != nil {
		return 0, nil, err
	}
	if override != nil {
		return *override, svc, nil
	}
	return svc.BasePriceCents, svc, nil
}
