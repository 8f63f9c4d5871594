// Package adapters connects the domain repositories to the collaborator
// interfaces the booking and scheduling services consume, keeping those
// services free of direct storage dependencies.
package adapters

import (
	"context"
	"time"

	bookingrepo "aircon_booking_backend/internal/bookings/repository"
	bookingsvc "aircon_booking_backend/internal/bookings/service"
	catalogrepo "aircon_booking_backend/internal/catalog/repository"
	schedulesvc "aircon_booking_backend/internal/scheduling/service"
	techrepo "aircon_booking_backend/internal/technicians/repository"

	"github.com/google/uuid"
)

func minutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// CatalogAdapter adapts the catalog repository for the bookings service.
type CatalogAdapter struct {
	repo *catalogrepo.Repository
}

// NewCatalogAdapter creates a catalog adapter
func NewCatalogAdapter(repo *catalogrepo.Repository) *CatalogAdapter {
	return &CatalogAdapter{repo: repo}
}

// GetService returns the booking view of a catalog service.
func (a *CatalogAdapter) GetService(ctx context.Context, id uuid.UUID) (*bookingsvc.CatalogService, error) {
	s, err := a.repo.GetServiceByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &bookingsvc.CatalogService{
		ID:              s.ID,
		Name:            s.Name,
		Category:        s.Category,
		BasePriceCents:  s.BasePriceCents,
		DurationMinutes: s.DurationMinutes,
	}, nil
}

// GetAirconType returns the booking view of an aircon type.
func (a *CatalogAdapter) GetAirconType(ctx context.Context, id uuid.UUID) (*bookingsvc.CatalogAirconType, error) {
	t, err := a.repo.GetAirconTypeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &bookingsvc.CatalogAirconType{ID: t.ID, Name: t.Name}, nil
}

// ActivePriceCents returns the active pricing override, or nil.
func (a *CatalogAdapter) ActivePriceCents(ctx context.Context, serviceID, airconTypeID uuid.UUID) (*int64, error) {
	return a.repo.GetActivePricing(ctx, serviceID, airconTypeID)
}

// GetTimeslot returns the booking view of a timeslot.
func (a *CatalogAdapter) GetTimeslot(ctx context.Context, id uuid.UUID) (*bookingsvc.CatalogTimeslot, error) {
	t, err := a.repo.GetTimeslotByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &bookingsvc.CatalogTimeslot{
		ID:           t.ID,
		Label:        t.Label,
		StartMinutes: minutesOfDay(t.StartTime),
		EndMinutes:   minutesOfDay(t.EndTime),
	}, nil
}

// TimeslotAdapter adapts the catalog repository for the scheduling service.
type TimeslotAdapter struct {
	repo *catalogrepo.Repository
}

// NewTimeslotAdapter creates a timeslot adapter
func NewTimeslotAdapter(repo *catalogrepo.Repository) *TimeslotAdapter {
	return &TimeslotAdapter{repo: repo}
}

// GetTimeslot returns the scheduling view of a timeslot.
func (a *TimeslotAdapter) GetTimeslot(ctx context.Context, id uuid.UUID) (*schedulesvc.Timeslot, error) {
	t, err := a.repo.GetTimeslotByID(ctx, id)
	if err != nil {
		return nil, err
	}
	slot := mapTimeslot(t)
	return &slot, nil
}

// ListTimeslots returns all active timeslots.
func (a *TimeslotAdapter) ListTimeslots(ctx context.Context) ([]schedulesvc.Timeslot, error) {
	slots, err := a.repo.ListTimeslots(ctx, true)
	if err != nil {
		return nil, err
	}
	out := make([]schedulesvc.Timeslot, 0, len(slots))
	for i := range slots {
		out = append(out, mapTimeslot(&slots[i]))
	}
	return out, nil
}

func mapTimeslot(t *catalogrepo.Timeslot) schedulesvc.Timeslot {
	return schedulesvc.Timeslot{
		ID:           t.ID,
		Label:        t.Label,
		StartMinutes: minutesOfDay(t.StartTime),
		EndMinutes:   minutesOfDay(t.EndTime),
	}
}

// TechnicianAdapter adapts the technicians repository for the scheduling
// and bookings services.
type TechnicianAdapter struct {
	repo *techrepo.Repository
}

// NewTechnicianAdapter creates a technician adapter
func NewTechnicianAdapter(repo *techrepo.Repository) *TechnicianAdapter {
	return &TechnicianAdapter{repo: repo}
}

// ListActive returns the scheduling view of active technicians.
func (a *TechnicianAdapter) ListActive(ctx context.Context) ([]schedulesvc.Technician, error) {
	techs, err := a.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]schedulesvc.Technician, 0, len(techs))
	for _, t := range techs {
		out = append(out, schedulesvc.Technician{
			ID:            t.ID,
			FullName:      t.FullName,
			IsAvailable:   t.IsAvailable,
			MaxDailyJobs:  t.MaxDailyJobs,
			RatingAverage: t.RatingAverage,
		})
	}
	return out, nil
}

// Windows returns every technician's weekly windows.
func (a *TechnicianAdapter) Windows(ctx context.Context) (map[uuid.UUID][]schedulesvc.Window, error) {
	all, err := a.repo.ListAllAvailabilityWindows(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID][]schedulesvc.Window, len(all))
	for id, windows := range all {
		for _, w := range windows {
			out[id] = append(out[id], schedulesvc.Window{
				Weekday:      time.Weekday(w.Weekday),
				StartMinutes: minutesOfDay(w.StartTime),
				EndMinutes:   minutesOfDay(w.EndTime),
			})
		}
	}
	return out, nil
}

// ServiceRating returns the per-service review aggregate.
func (a *TechnicianAdapter) ServiceRating(ctx context.Context, technicianID, serviceID uuid.UUID) (*float64, int, error) {
	return a.repo.ServiceRating(ctx, technicianID, serviceID)
}

// TechnicianExists reports whether an active technician exists.
func (a *TechnicianAdapter) TechnicianExists(ctx context.Context, id uuid.UUID) (bool, error) {
	t, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return t.Active, nil
}

// BookingCountAdapter adapts the bookings repository for the scheduling
// service's capacity checks.
type BookingCountAdapter struct {
	repo *bookingrepo.Repository
}

// NewBookingCountAdapter creates a booking count adapter
func NewBookingCountAdapter(repo *bookingrepo.Repository) *BookingCountAdapter {
	return &BookingCountAdapter{repo: repo}
}

// ActiveCountsOnDate returns non-cancelled booking counts per technician.
func (a *BookingCountAdapter) ActiveCountsOnDate(ctx context.Context, date time.Time) (map[uuid.UUID]int, error) {
	return a.repo.ActiveCountsOnDate(ctx, date)
}

// Interface checks
var (
	_ bookingsvc.CatalogSource        = (*CatalogAdapter)(nil)
	_ bookingsvc.TechnicianDirectory  = (*TechnicianAdapter)(nil)
	_ schedulesvc.TimeslotSource      = (*TimeslotAdapter)(nil)
	_ schedulesvc.TechnicianSource    = (*TechnicianAdapter)(nil)
	_ schedulesvc.RatingSource        = (*TechnicianAdapter)(nil)
	_ schedulesvc.BookingCounter      = (*BookingCountAdapter)(nil)
)
