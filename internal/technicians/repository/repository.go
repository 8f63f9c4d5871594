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

// Technician represents a field technician in the directory.
type Technician struct {
	ID            uuid.UUID `db:"id"`
	FullName      string    `db:"full_name"`
	Phone         string    `db:"phone"`
	IsAvailable   bool      `db:"is_available"`
	MaxDailyJobs  int       `db:"max_daily_jobs"`
	RatingAverage *float64  `db:"rating_average"`
	Active        bool      `db:"active"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// AvailabilityWindow is a recurring weekly working window for a technician.
type AvailabilityWindow struct {
	ID           uuid.UUID `db:"id"`
	TechnicianID uuid.UUID `db:"technician_id"`
	Weekday      int       `db:"weekday"`
	StartTime    time.Time `db:"start_time"`
	EndTime      time.Time `db:"end_time"`
	CreatedAt    time.Time `db:"created_at"`
}

// Repository provides database operations for the technician directory.
type Repository struct {
	pool *pgxpool.Pool
}

const technicianNotFoundMsg = "technician not found"

// New creates a new technicians repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const technicianColumns = `id, full_name, phone, is_available, max_daily_jobs, rating_average, active, created_at, updated_at`

// Create inserts a new technician.
func (r *Repository) Create(ctx context.Context, t *Technician) error {
	query := `
		INSERT INTO technicians (id, full_name, phone, is_available, max_daily_jobs, rating_average, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		t.ID, t.FullName, t.Phone, t.IsAvailable, t.MaxDailyJobs, t.RatingAverage, t.Active, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create technician: %w", err)
	}
	return nil
}

// GetByID retrieves a technician by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians WHERE id = $1`

	var t Technician
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.FullName, &t.Phone, &t.IsAvailable, &t.MaxDailyJobs, &t.RatingAverage, &t.Active, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(technicianNotFoundMsg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get technician: %w", err)
	}
	return &t, nil
}

// ListActive returns all active technicians.
func (r *Repository) ListActive(ctx context.Context) ([]Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians WHERE active ORDER BY full_name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}
	defer rows.Close()

	items := make([]Technician, 0)
	for rows.Next() {
		var t Technician
		if err := rows.Scan(&t.ID, &t.FullName, &t.Phone, &t.IsAvailable, &t.MaxDailyJobs, &t.RatingAverage, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan technician: %w", err)
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate technicians: %w", err)
	}
	return items, nil
}

// Update persists technician directory changes.
func (r *Repository) Update(ctx context.Context, t *Technician) error {
	query := `
		UPDATE technicians SET
			full_name = $2, phone = $3, is_available = $4,
			max_daily_jobs = $5, active = $6, updated_at = $7
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, t.ID, t.FullName, t.Phone, t.IsAvailable, t.MaxDailyJobs, t.Active, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update technician: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(technicianNotFoundMsg)
	}
	return nil
}

// CreateAvailabilityWindow adds a weekly working window.
func (r *Repository) CreateAvailabilityWindow(ctx context.Context, w *AvailabilityWindow) error {
	query := `
		INSERT INTO technician_availability (id, technician_id, weekday, start_time, end_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query, w.ID, w.TechnicianID, w.Weekday, w.StartTime, w.EndTime, w.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create availability window: %w", err)
	}
	return nil
}

// ListAvailabilityWindows returns a technician's weekly windows.
func (r *Repository) ListAvailabilityWindows(ctx context.Context, technicianID uuid.UUID) ([]AvailabilityWindow, error) {
	query := `SELECT id, technician_id, weekday, start_time, end_time, created_at
		FROM technician_availability WHERE technician_id = $1 ORDER BY weekday, start_time`

	rows, err := r.pool.Query(ctx, query, technicianID)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability windows: %w", err)
	}
	defer rows.Close()

	items := make([]AvailabilityWindow, 0)
	for rows.Next() {
		var w AvailabilityWindow
		if err := rows.Scan(&w.ID, &w.TechnicianID, &w.Weekday, &w.StartTime, &w.EndTime, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan availability window: %w", err)
		}
		items = append(items, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate availability windows: %w", err)
	}
	return items, nil
}

// ListAllAvailabilityWindows returns every technician's windows keyed by
// technician ID, for batch eligibility checks.
func (r *Repository) ListAllAvailabilityWindows(ctx context.Context) (map[uuid.UUID][]AvailabilityWindow, error) {
	query := `SELECT id, technician_id, weekday, start_time, end_time, created_at
		FROM technician_availability ORDER BY weekday, start_time`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability windows: %w", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]AvailabilityWindow)
	for rows.Next() {
		var w AvailabilityWindow
		if err := rows.Scan(&w.ID, &w.TechnicianID, &w.Weekday, &w.StartTime, &w.EndTime, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan availability window: %w", err)
		}
		result[w.TechnicianID] = append(result[w.TechnicianID], w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate availability windows: %w", err)
	}
	return result, nil
}

// DeleteAvailabilityWindow removes a weekly window.
func (r *Repository) DeleteAvailabilityWindow(ctx context.Context, id uuid.UUID, technicianID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM technician_availability WHERE id = $1 AND technician_id = $2`, id, technicianID)
	if err != nil {
		return fmt.Errorf("failed to delete availability window: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("availability window not found")
	}
	return nil
}

// ServiceRating returns the technician's average review rating for a
// specific service, with the number of reviews backing it. Returns
// (nil, 0) when the technician has no reviews for that service.
func (r *Repository) ServiceRating(ctx context.Context, technicianID, serviceID uuid.UUID) (*float64, int, error) {
	query := `SELECT AVG(rating)::float8, COUNT(*) FROM technician_reviews
		WHERE technician_id = $1 AND service_id = $2`

	var avg *float64
	var count int
	err := r.pool.QueryRow(ctx, query, technicianID, serviceID).Scan(&avg, &count)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get service rating: %w", err)
	}
	return avg, count, nil
}
