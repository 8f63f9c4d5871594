package service

import (
	"context"
	"fmt"
	"time"

	"aircon_booking_backend/internal/technicians/repository"
	"aircon_booking_backend/internal/technicians/transport"
	"aircon_booking_backend/platform/apperr"
	"aircon_booking_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
)

const clockFormat = "15:04"

// Service contains technician directory business logic.
type Service struct {
	repo          *repository.Repository
	log           *logger.Logger
	defaultRegion string
}

// New creates a new technicians service. defaultRegion is the ISO country
// code used to normalize phone numbers entered without a country prefix.
func New(repo *repository.Repository, log *logger.Logger, defaultRegion string) *Service {
	return &Service{repo: repo, log: log, defaultRegion: defaultRegion}
}

// Create registers a new technician.
func (s *Service) Create(ctx context.Context, req transport.CreateTechnicianRequest) (*transport.TechnicianResponse, error) {
	phone, err := s.normalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tech := &repository.Technician{
		ID:           uuid.New(),
		FullName:     req.FullName,
		Phone:        phone,
		IsAvailable:  true,
		MaxDailyJobs: req.MaxDailyJobs,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, tech); err != nil {
		return nil, err
	}

	resp := mapTechnician(tech)
	return &resp, nil
}

// Get returns a single technician.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*transport.TechnicianResponse, error) {
	tech, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := mapTechnician(tech)
	return &resp, nil
}

// List returns all active technicians.
func (s *Service) List(ctx context.Context) ([]transport.TechnicianResponse, error) {
	techs, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transport.TechnicianResponse, 0, len(techs))
	for i := range techs {
		out = append(out, mapTechnician(&techs[i]))
	}
	return out, nil
}

// Update applies partial changes to a technician record.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateTechnicianRequest) (*transport.TechnicianResponse, error) {
	tech, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		tech.FullName = *req.FullName
	}
	if req.Phone != nil {
		phone, err := s.normalizePhone(*req.Phone)
		if err != nil {
			return nil, err
		}
		tech.Phone = phone
	}
	if req.IsAvailable != nil {
		tech.IsAvailable = *req.IsAvailable
	}
	if req.MaxDailyJobs != nil {
		tech.MaxDailyJobs = *req.MaxDailyJobs
	}
	if req.Active != nil {
		tech.Active = *req.Active
	}
	tech.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, tech); err != nil {
		return nil, err
	}
	resp := mapTechnician(tech)
	return &resp, nil
}

// AddAvailabilityWindow adds a weekly working window for a technician.
func (s *Service) AddAvailabilityWindow(ctx context.Context, technicianID uuid.UUID, req transport.CreateAvailabilityWindowRequest) (*transport.AvailabilityWindowResponse, error) {
	if _, err := s.repo.GetByID(ctx, technicianID); err != nil {
		return nil, err
	}

	start, err := time.Parse(clockFormat, req.StartTime)
	if err != nil {
		return nil, apperr.BadRequest("invalid start time, expected HH:MM")
	}
	end, err := time.Parse(clockFormat, req.EndTime)
	if err != nil {
		return nil, apperr.BadRequest("invalid end time, expected HH:MM")
	}
	if !end.After(start) {
		return nil, apperr.Validation("end time must be after start time")
	}

	window := &repository.AvailabilityWindow{
		ID:           uuid.New(),
		TechnicianID: technicianID,
		Weekday:      req.Weekday,
		StartTime:    start,
		EndTime:      end,
		CreatedAt:    time.Now(),
	}
	if err := s.repo.CreateAvailabilityWindow(ctx, window); err != nil {
		return nil, err
	}
	resp := mapWindow(window)
	return &resp, nil
}

// ListAvailabilityWindows returns a technician's weekly windows.
func (s *Service) ListAvailabilityWindows(ctx context.Context, technicianID uuid.UUID) ([]transport.AvailabilityWindowResponse, error) {
	if _, err := s.repo.GetByID(ctx, technicianID); err != nil {
		return nil, err
	}
	windows, err := s.repo.ListAvailabilityWindows(ctx, technicianID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.AvailabilityWindowResponse, 0, len(windows))
	for i := range windows {
		out = append(out, mapWindow(&windows[i]))
	}
	return out, nil
}

// RemoveAvailabilityWindow deletes a weekly window.
func (s *Service) RemoveAvailabilityWindow(ctx context.Context, technicianID, windowID uuid.UUID) error {
	return s.repo.DeleteAvailabilityWindow(ctx, windowID, technicianID)
}

func (s *Service) normalizePhone(raw string) (string, error) {
	parsed, err := phonenumbers.Parse(raw, s.defaultRegion)
	if err != nil {
		return "", apperr.Validation(fmt.Sprintf("invalid phone number: %s", raw))
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", apperr.Validation(fmt.Sprintf("invalid phone number: %s", raw))
	}
	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}

func mapTechnician(t *repository.Technician) transport.TechnicianResponse {
	return transport.TechnicianResponse{
		ID:            t.ID.String(),
		FullName:      t.FullName,
		Phone:         t.Phone,
		IsAvailable:   t.IsAvailable,
		MaxDailyJobs:  t.MaxDailyJobs,
		RatingAverage: t.RatingAverage,
		Active:        t.Active,
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
	}
}

func mapWindow(w *repository.AvailabilityWindow) transport.AvailabilityWindowResponse {
	return transport.AvailabilityWindowResponse{
		ID:        w.ID.String(),
		Weekday:   w.Weekday,
		StartTime: w.StartTime.Format(clockFormat),
		EndTime:   w.EndTime.Format(clockFormat),
	}
}
