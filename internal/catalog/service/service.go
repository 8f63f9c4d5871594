package service

import (
	"context"
	"fmt"
	"time"

	"aircon_booking_backend/internal/catalog/repository"
	"aircon_booking_backend/internal/catalog/transport"
	"aircon_booking_backend/platform/apperr"

	"github.com/google/uuid"
)

const clockFormat = "15:04"

// defaultServiceDuration is the per-unit work estimate used when a service
// has no explicit duration configured.
const defaultServiceDuration = 90

// Service provides business logic for the service catalog.
type Service struct {
	repo *repository.Repository
}

// New creates a new catalog service.
func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// CreateService registers a new bookable service.
func (s *Service) CreateService(ctx context.Context, req transport.CreateServiceRequest) (*transport.ServiceResponse, error) {
	now := time.Now()
	duration := req.DurationMinutes
	if duration == 0 {
		duration = defaultServiceDuration
	}

	item := &repository.Service{
		ID:              uuid.New(),
		Name:            req.Name,
		Category:        req.Category,
		BasePriceCents:  req.BasePriceCents,
		DurationMinutes: duration,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.CreateService(ctx, item); err != nil {
		return nil, err
	}

	resp := mapService(item)
	return &resp, nil
}

// GetService retrieves a single service.
func (s *Service) GetService(ctx context.Context, id uuid.UUID) (*transport.ServiceResponse, error) {
	item, err := s.repo.GetServiceByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := mapService(item)
	return &resp, nil
}

// ListServices lists services; non-admin callers see active ones only.
func (s *Service) ListServices(ctx context.Context, activeOnly bool) ([]transport.ServiceResponse, error) {
	items, err := s.repo.ListServices(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	resp := make([]transport.ServiceResponse, len(items))
	for i := range items {
		resp[i] = mapService(&items[i])
	}
	return resp, nil
}

// UpdateService applies a partial update to a service.
func (s *Service) UpdateService(ctx context.Context, id uuid.UUID, req transport.UpdateServiceRequest) (*transport.ServiceResponse, error) {
	item, err := s.repo.GetServiceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.BasePriceCents != nil {
		item.BasePriceCents = *req.BasePriceCents
	}
	if req.DurationMinutes != nil {
		item.DurationMinutes = *req.DurationMinutes
	}
	if req.Active != nil {
		item.Active = *req.Active
	}
	item.UpdatedAt = time.Now()

	if err := s.repo.UpdateService(ctx, item); err != nil {
		return nil, err
	}

	resp := mapService(item)
	return &resp, nil
}

// CreateAirconType registers a new aircon type.
func (s *Service) CreateAirconType(ctx context.Context, req transport.CreateAirconTypeRequest) (*transport.AirconTypeResponse, error) {
	item := &repository.AirconType{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.CreateAirconType(ctx, item); err != nil {
		return nil, err
	}

	resp := mapAirconType(item)
	return &resp, nil
}

// ListAirconTypes lists aircon types.
func (s *Service) ListAirconTypes(ctx context.Context, activeOnly bool) ([]transport.AirconTypeResponse, error) {
	items, err := s.repo.ListAirconTypes(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	resp := make([]transport.AirconTypeResponse, len(items))
	for i := range items {
		resp[i] = mapAirconType(&items[i])
	}
	return resp, nil
}

// UpsertServicePricing creates or replaces a (service, aircon type) override.
func (s *Service) UpsertServicePricing(ctx context.Context, serviceID uuid.UUID, req transport.UpsertServicePricingRequest) (*transport.ServicePricingResponse, error) {
	if _, err := s.repo.GetServiceByID(ctx, serviceID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetAirconTypeByID(ctx, req.AirconTypeID); err != nil {
		return nil, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := time.Now()
	item := &repository.ServicePricing{
		ID:           uuid.New(),
		ServiceID:    serviceID,
		AirconTypeID: req.AirconTypeID,
		PriceCents:   *req.PriceCents,
		Active:       active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.UpsertServicePricing(ctx, item); err != nil {
		return nil, err
	}

	return &transport.ServicePricingResponse{
		ID:           item.ID,
		ServiceID:    item.ServiceID,
		AirconTypeID: item.AirconTypeID,
		PriceCents:   item.PriceCents,
		Active:       item.Active,
	}, nil
}

// ListServicePricing lists a service's overrides.
func (s *Service) ListServicePricing(ctx context.Context, serviceID uuid.UUID) ([]transport.ServicePricingResponse, error) {
	items, err := s.repo.ListServicePricing(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	resp := make([]transport.ServicePricingResponse, len(items))
	for i, p := range items {
		resp[i] = transport.ServicePricingResponse{
			ID:           p.ID,
			ServiceID:    p.ServiceID,
			AirconTypeID: p.AirconTypeID,
			PriceCents:   p.PriceCents,
			Active:       p.Active,
		}
	}
	return resp, nil
}

// CreateTimeslot registers a new bookable time-of-day window.
func (s *Service) CreateTimeslot(ctx context.Context, req transport.CreateTimeslotRequest) (*transport.TimeslotResponse, error) {
	start, err := time.Parse(clockFormat, req.StartTime)
	if err != nil {
		return nil, apperr.BadRequest("invalid startTime format")
	}
	end, err := time.Parse(clockFormat, req.EndTime)
	if err != nil {
		return nil, apperr.BadRequest("invalid endTime format")
	}
	if !end.After(start) {
		return nil, apperr.BadRequest("endTime must be after startTime")
	}

	label := req.Label
	if label == "" {
		label = fmt.Sprintf("%s - %s", start.Format(clockFormat), end.Format(clockFormat))
	}

	item := &repository.Timeslot{
		ID:        uuid.New(),
		StartTime: start,
		EndTime:   end,
		Label:     label,
		Active:    true,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateTimeslot(ctx, item); err != nil {
		return nil, err
	}

	resp := mapTimeslot(item)
	return &resp, nil
}

// ListTimeslots lists timeslots ordered by start time.
func (s *Service) ListTimeslots(ctx context.Context, activeOnly bool) ([]transport.TimeslotResponse, error) {
	items, err := s.repo.ListTimeslots(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	resp := make([]transport.TimeslotResponse, len(items))
	for i := range items {
		resp[i] = mapTimeslot(&items[i])
	}
	return resp, nil
}

func mapService(s *repository.Service) transport.ServiceResponse {
	return transport.ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Category:        s.Category,
		BasePriceCents:  s.BasePriceCents,
		DurationMinutes: s.DurationMinutes,
		Active:          s.Active,
		CreatedAt:       s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       s.UpdatedAt.Format(time.RFC3339),
	}
}

func mapAirconType(t *repository.AirconType) transport.AirconTypeResponse {
	return transport.AirconTypeResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Active:      t.Active,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
}

func mapTimeslot(t *repository.Timeslot) transport.TimeslotResponse {
	return transport.TimeslotResponse{
		ID:        t.ID,
		StartTime: t.StartTime.Format(clockFormat),
		EndTime:   t.EndTime.Format(clockFormat),
		Label:     t.Label,
		Active:    t.Active,
	}
}
