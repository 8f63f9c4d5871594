package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aircon_booking_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Service represents a bookable home service (cleaning, repair, install...).
type Service struct {
	ID              uuid.UUID `db:"id"`
	Name            string    `db:"name"`
	Category        string    `db:"category"`
	BasePriceCents  int64     `db:"base_price_cents"`
	DurationMinutes int       `db:"duration_minutes"`
	Active          bool      `db:"active"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// AirconType represents an air conditioner model class (wall, cassette, ...).
type AirconType struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	Active      bool      `db:"active"`
	CreatedAt   time.Time `db:"created_at"`
}

// ServicePricing overrides a service's base price for a specific aircon type.
type ServicePricing struct {
	ID           uuid.UUID `db:"id"`
	ServiceID    uuid.UUID `db:"service_id"`
	AirconTypeID uuid.UUID `db:"aircon_type_id"`
	PriceCents   int64     `db:"price_cents"`
	Active       bool      `db:"active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Timeslot is a fixed time-of-day window bookable independent of date.
type Timeslot struct {
	ID        uuid.UUID `db:"id"`
	StartTime time.Time `db:"start_time"`
	EndTime   time.Time `db:"end_time"`
	Label     string    `db:"label"`
	Active    bool      `db:"active"`
	CreatedAt time.Time `db:"created_at"`
}

// Repository provides database operations for the service catalog.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const serviceColumns = `id, name, category, base_price_cents, duration_minutes, active, created_at, updated_at`

func scanService(row pgx.Row) (*Service, error) {
	var s Service
	err := row.Scan(&s.ID, &s.Name, &s.Category, &s.BasePriceCents, &s.DurationMinutes, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateService inserts a new service.
func (r *Repository) CreateService(ctx context.Context, s *Service) error {
	query := `
		INSERT INTO services (id, name, category, base_price_cents, duration_minutes, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		s.ID, s.Name, s.Category, s.BasePriceCents, s.DurationMinutes, s.Active, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

// GetServiceByID retrieves a service by its ID.
func (r *Repository) GetServiceByID(ctx context.Context, id uuid.UUID) (*Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`
	s, err := scanService(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("service not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return s, nil
}

// ListServices returns all services, optionally only active ones.
func (r *Repository) ListServices(ctx context.Context, activeOnly bool) ([]Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	items := make([]Service, 0)
	for rows.Next() {
		var s Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.BasePriceCents, &s.DurationMinutes, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate services: %w", err)
	}
	return items, nil
}

// UpdateService updates an existing service.
func (r *Repository) UpdateService(ctx context.Context, s *Service) error {
	query := `
		UPDATE services SET
			name = $2, category = $3, base_price_cents = $4,
			duration_minutes = $5, active = $6, updated_at = $7
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, s.ID, s.Name, s.Category, s.BasePriceCents, s.DurationMinutes, s.Active, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("service not found")
	}
	return nil
}

// CreateAirconType inserts a new aircon type.
func (r *Repository) CreateAirconType(ctx context.Context, t *AirconType) error {
	query := `INSERT INTO aircon_types (id, name, description, active, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.pool.Exec(ctx, query, t.ID, t.Name, t.Description, t.Active, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create aircon type: %w", err)
	}
	return nil
}

// GetAirconTypeByID retrieves an aircon type by its ID.
func (r *Repository) GetAirconTypeByID(ctx context.Context, id uuid.UUID) (*AirconType, error) {
	query := `SELECT id, name, description, active, created_at FROM aircon_types WHERE id = $1`

	var t AirconType
	err := r.pool.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.Description, &t.Active, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("aircon type not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get aircon type: %w", err)
	}
	return &t, nil
}

// ListAirconTypes returns all aircon types, optionally only active ones.
func (r *Repository) ListAirconTypes(ctx context.Context, activeOnly bool) ([]AirconType, error) {
	query := `SELECT id, name, description, active, created_at FROM aircon_types`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list aircon types: %w", err)
	}
	defer rows.Close()

	items := make([]AirconType, 0)
	for rows.Next() {
		var t AirconType
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Active, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan aircon type: %w", err)
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate aircon types: %w", err)
	}
	return items, nil
}

// UpsertServicePricing creates or replaces the override price for a
// (service, aircon type) pair.
func (r *Repository) UpsertServicePricing(ctx context.Context, p *ServicePricing) error {
	query := `
		INSERT INTO service_pricing (id, service_id, aircon_type_id, price_cents, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (service_id, aircon_type_id) DO UPDATE SET
			price_cents = EXCLUDED.price_cents,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at`

	_, err := r.pool.Exec(ctx, query, p.ID, p.ServiceID, p.AirconTypeID, p.PriceCents, p.Active, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert service pricing: %w", err)
	}
	return nil
}

// GetActivePricing returns the active override price in cents for the pair,
// or nil when no active override exists.
func (r *Repository) GetActivePricing(ctx context.Context, serviceID, airconTypeID uuid.UUID) (*int64, error) {
	query := `SELECT price_cents FROM service_pricing
		WHERE service_id = $1 AND aircon_type_id = $2 AND active`

	var cents int64
	err := r.pool.QueryRow(ctx, query, serviceID, airconTypeID).Scan(&cents)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service pricing: %w", err)
	}
	return &cents, nil
}

// ListServicePricing returns all overrides for a service.
func (r *Repository) ListServicePricing(ctx context.Context, serviceID uuid.UUID) ([]ServicePricing, error) {
	query := `SELECT id, service_id, aircon_type_id, price_cents, active, created_at, updated_at
		FROM service_pricing WHERE service_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list service pricing: %w", err)
	}
	defer rows.Close()

	items := make([]ServicePricing, 0)
	for rows.Next() {
		var p ServicePricing
		if err := rows.Scan(&p.ID, &p.ServiceID, &p.AirconTypeID, &p.PriceCents, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan service pricing: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate service pricing: %w", err)
	}
	return items, nil
}

// CreateTimeslot inserts a new timeslot.
func (r *Repository) CreateTimeslot(ctx context.Context, t *Timeslot) error {
	query := `INSERT INTO timeslots (id, start_time, end_time, label, active, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(ctx, query, t.ID, t.StartTime, t.EndTime, t.Label, t.Active, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create timeslot: %w", err)
	}
	return nil
}

// GetTimeslotByID retrieves a timeslot by its ID.
func (r *Repository) GetTimeslotByID(ctx context.Context, id uuid.UUID) (*Timeslot, error) {
	query := `SELECT id, start_time, end_time, label, active, created_at FROM timeslots WHERE id = $1`

	var t Timeslot
	err := r.pool.QueryRow(ctx, query, id).Scan(&t.ID, &t.StartTime, &t.EndTime, &t.Label, &t.Active, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("timeslot not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get timeslot: %w", err)
	}
	return &t, nil
}

// ListTimeslots returns all timeslots ordered by start time.
func (r *Repository) ListTimeslots(ctx context.Context, activeOnly bool) ([]Timeslot, error) {
	query := `SELECT id, start_time, end_time, label, active, created_at FROM timeslots`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY start_time`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list timeslots: %w", err)
	}
	defer rows.Close()

	items := make([]Timeslot, 0)
	for rows.Next() {
		var t Timeslot
		if err := rows.Scan(&t.ID, &t.StartTime, &t.EndTime, &t.Label, &t.Active, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan timeslot: %w", err)
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate timeslots: %w", err)
	}
	return items, nil
}
