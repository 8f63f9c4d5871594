package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"aircon_booking_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Booking is the persisted booking record.
type Booking struct {
	ID                 uuid.UUID  `db:"id"`
	BookingNumber      string     `db:"booking_number"`
	UserID             *uuid.UUID `db:"user_id"`
	GuestID            *uuid.UUID `db:"guest_id"`
	LegacyCustomerName *string    `db:"legacy_customer_name"`
	ServiceID          uuid.UUID  `db:"service_id"`
	AirconTypeID       uuid.UUID  `db:"aircon_type_id"`
	NumberOfUnits      int        `db:"number_of_units"`
	TechnicianID       *uuid.UUID `db:"technician_id"`
	ScheduledDate      time.Time  `db:"scheduled_date"`
	TimeslotID         uuid.UUID  `db:"timeslot_id"`
	Address            string     `db:"address"`
	Status             string     `db:"status"`
	PaymentStatus      string     `db:"payment_status"`
	TotalCents         int64      `db:"total_cents"`
	EstimatedMinutes   int        `db:"estimated_duration_minutes"`
	EstimatedDays      int        `db:"estimated_days"`
	ConfirmedAt        *time.Time `db:"confirmed_at"`
	ConfirmedBy        *uuid.UUID `db:"confirmed_by"`
	CompletedAt        *time.Time `db:"completed_at"`
	CancelRequestedAt  *time.Time `db:"cancellation_requested_at"`
	CancelReason       *string    `db:"cancellation_reason_category"`
	CancelDetails      *string    `db:"cancellation_reason_details"`
	CancelProcessedAt  *time.Time `db:"cancellation_processed_at"`
	CancelProcessedBy  *uuid.UUID `db:"cancellation_processed_by"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
}

// Guest is a contact record for an unauthenticated customer.
type Guest struct {
	ID        uuid.UUID `db:"id"`
	FullName  string    `db:"full_name"`
	Phone     string    `db:"phone"`
	Email     *string   `db:"email"`
	CreatedAt time.Time `db:"created_at"`
}

// ListParams filters and pages booking listings.
type ListParams struct {
	Status       string
	TechnicianID *uuid.UUID
	UserID       *uuid.UUID
	FromDate     *time.Time
	ToDate       *time.Time
	Limit        int
	Offset       int
}

// TransitionUpdate carries the side-effect fields of a lifecycle
// transition. Nil fields are left untouched; ClearCancellation resets
// all cancellation metadata.
type TransitionUpdate struct {
	PaymentStatus     *string
	ConfirmedAt       *time.Time
	ConfirmedBy       *uuid.UUID
	CompletedAt       *time.Time
	CancelRequestedAt *time.Time
	CancelReason      *string
	CancelDetails     *string
	CancelProcessedAt *time.Time
	CancelProcessedBy *uuid.UUID
	ClearCancellation bool
}

// Repository provides database operations for bookings.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new bookings repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const bookingColumns = `id, booking_number, user_id, guest_id, legacy_customer_name,
	service_id, aircon_type_id, number_of_units, technician_id,
	scheduled_date, timeslot_id, address, status, payment_status,
	total_cents, estimated_duration_minutes, estimated_days,
	confirmed_at, confirmed_by, completed_at,
	cancellation_requested_at, cancellation_reason_category, cancellation_reason_details,
	cancellation_processed_at, cancellation_processed_by,
	created_at, updated_at`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID, &b.BookingNumber, &b.UserID, &b.GuestID, &b.LegacyCustomerName,
		&b.ServiceID, &b.AirconTypeID, &b.NumberOfUnits, &b.TechnicianID,
		&b.ScheduledDate, &b.TimeslotID, &b.Address, &b.Status, &b.PaymentStatus,
		&b.TotalCents, &b.EstimatedMinutes, &b.EstimatedDays,
		&b.ConfirmedAt, &b.ConfirmedBy, &b.CompletedAt,
		&b.CancelRequestedAt, &b.CancelReason, &b.CancelDetails,
		&b.CancelProcessedAt, &b.CancelProcessedBy,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Sequence issues booking number values from a database sequence, so
// concurrent callers always see distinct, increasing values.
type Sequence struct {
	pool *pgxpool.Pool
}

// NewSequence creates a database-backed booking number sequence
func NewSequence(pool *pgxpool.Pool) *Sequence {
	return &Sequence{pool: pool}
}

// Next returns the next sequence value.
func (s *Sequence) Next(ctx context.Context) (int64, error) {
	var seq int64
	if err := s.pool.QueryRow(ctx, `SELECT nextval('booking_number_seq')`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to advance booking sequence: %w", err)
	}
	return seq, nil
}

// Create inserts a booking. When a technician is assigned, the insert
// runs under a per-(technician, date) advisory lock and re-checks the
// technician's daily capacity inside the same transaction, so two
// concurrent creations cannot both squeeze past the limit.
func (r *Repository) Create(ctx context.Context, b *Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if b.TechnicianID != nil {
		if err := lockAndCheckCapacity(ctx, tx, *b.TechnicianID, b.ScheduledDate); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)`

	_, err = tx.Exec(ctx, query,
		b.ID, b.BookingNumber, b.UserID, b.GuestID, b.LegacyCustomerName,
		b.ServiceID, b.AirconTypeID, b.NumberOfUnits, b.TechnicianID,
		b.ScheduledDate, b.TimeslotID, b.Address, b.Status, b.PaymentStatus,
		b.TotalCents, b.EstimatedMinutes, b.EstimatedDays,
		b.ConfirmedAt, b.ConfirmedBy, b.CompletedAt,
		b.CancelRequestedAt, b.CancelReason, b.CancelDetails,
		b.CancelProcessedAt, b.CancelProcessedBy,
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.Conflict("booking number already issued")
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return tx.Commit(ctx)
}

func lockAndCheckCapacity(ctx context.Context, tx pgx.Tx, technicianID uuid.UUID, date time.Time) error {
	lockKey := technicianID.String() + "|" + date.Format("2006-01-02")
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, lockKey); err != nil {
		return fmt.Errorf("failed to acquire capacity lock: %w", err)
	}

	var maxJobs, current int
	err := tx.QueryRow(ctx, `
		SELECT t.max_daily_jobs,
			(SELECT COUNT(*) FROM bookings b
			 WHERE b.technician_id = t.id AND b.scheduled_date = $2 AND b.status <> 'cancelled')
		FROM technicians t WHERE t.id = $1`, technicianID, date,
	).Scan(&maxJobs, &current)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("technician not found")
	}
	if err != nil {
		return fmt.Errorf("failed to check technician capacity: %w", err)
	}
	if current >= maxJobs {
		return apperr.Conflict("technician is fully booked on this date")
	}
	return nil
}

// GetByID retrieves a booking by internal ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("booking not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return b, nil
}

// GetByNumber retrieves a booking by public booking number.
func (r *Repository) GetByNumber(ctx context.Context, number string) (*Booking, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE booking_number = $1`, number)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("booking not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return b, nil
}

// List returns bookings matching the filter, newest first.
func (r *Repository) List(ctx context.Context, params ListParams) ([]Booking, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + bookingColumns + ` FROM bookings WHERE 1=1`)
	args := make([]any, 0, 6)

	if params.Status != "" {
		args = append(args, params.Status)
		fmt.Fprintf(&sb, " AND status = $%d", len(args))
	}
	if params.TechnicianID != nil {
		args = append(args, *params.TechnicianID)
		fmt.Fprintf(&sb, " AND technician_id = $%d", len(args))
	}
	if params.UserID != nil {
		args = append(args, *params.UserID)
		fmt.Fprintf(&sb, " AND user_id = $%d", len(args))
	}
	if params.FromDate != nil {
		args = append(args, *params.FromDate)
		fmt.Fprintf(&sb, " AND scheduled_date >= $%d", len(args))
	}
	if params.ToDate != nil {
		args = append(args, *params.ToDate)
		fmt.Fprintf(&sb, " AND scheduled_date <= $%d", len(args))
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	args = append(args, limit)
	fmt.Fprintf(&sb, " ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, params.Offset)
	fmt.Fprintf(&sb, " OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	items := make([]Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		items = append(items, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return items, nil
}

// ApplyTransition moves a booking from expected status to newStatus and
// applies the transition's side-effect fields in one guarded update. If
// the booking is no longer in the expected status the update matches
// zero rows and a conflict is returned; nothing is modified.
func (r *Repository) ApplyTransition(ctx context.Context, id uuid.UUID, expected, newStatus string, upd TransitionUpdate) (*Booking, error) {
	var sb strings.Builder
	args := []any{id, expected, newStatus, time.Now()}
	sb.WriteString(`UPDATE bookings SET status = $3, updated_at = $4`)

	set := func(column string, value any) {
		args = append(args, value)
		fmt.Fprintf(&sb, ", %s = $%d", column, len(args))
	}

	if upd.PaymentStatus != nil {
		set("payment_status", *upd.PaymentStatus)
	}
	if upd.ConfirmedAt != nil {
		set("confirmed_at", *upd.ConfirmedAt)
	}
	if upd.ConfirmedBy != nil {
		set("confirmed_by", *upd.ConfirmedBy)
	}
	if upd.CompletedAt != nil {
		set("completed_at", *upd.CompletedAt)
	}
	if upd.CancelRequestedAt != nil {
		set("cancellation_requested_at", *upd.CancelRequestedAt)
	}
	if upd.CancelReason != nil {
		set("cancellation_reason_category", *upd.CancelReason)
	}
	if upd.CancelDetails != nil {
		set("cancellation_reason_details", *upd.CancelDetails)
	}
	if upd.CancelProcessedAt != nil {
		set("cancellation_processed_at", *upd.CancelProcessedAt)
	}
	if upd.CancelProcessedBy != nil {
		set("cancellation_processed_by", *upd.CancelProcessedBy)
	}
	if upd.ClearCancellation {
		sb.WriteString(`, cancellation_requested_at = NULL, cancellation_reason_category = NULL,
			cancellation_reason_details = NULL, cancellation_processed_at = NULL, cancellation_processed_by = NULL`)
	}

	sb.WriteString(` WHERE id = $1 AND status = $2 RETURNING ` + bookingColumns)

	row := r.pool.QueryRow(ctx, sb.String(), args...)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the booking does not exist or its status moved under us.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, apperr.Conflict("booking status changed concurrently")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply transition: %w", err)
	}
	return b, nil
}

// UpdateEstimate persists re-derived pricing and duration fields after a
// pricing-affecting edit.
func (r *Repository) UpdateEstimate(ctx context.Context, id uuid.UUID, serviceID, airconTypeID uuid.UUID, units int, totalCents int64, minutes, days int) (*Booking, error) {
	query := `
		UPDATE bookings SET
			service_id = $2, aircon_type_id = $3, number_of_units = $4,
			total_cents = $5, estimated_duration_minutes = $6, estimated_days = $7,
			updated_at = $8
		WHERE id = $1
		RETURNING ` + bookingColumns

	row := r.pool.QueryRow(ctx, query, id, serviceID, airconTypeID, units, totalCents, minutes, days, time.Now())
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("booking not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update booking estimate: %w", err)
	}
	return b, nil
}

// ActiveCountsOnDate returns, per technician, how many non-cancelled
// bookings are scheduled on the date.
func (r *Repository) ActiveCountsOnDate(ctx context.Context, date time.Time) (map[uuid.UUID]int, error) {
	query := `SELECT technician_id, COUNT(*) FROM bookings
		WHERE technician_id IS NOT NULL AND scheduled_date = $1 AND status <> 'cancelled'
		GROUP BY technician_id`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var id uuid.UUID
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("failed to scan booking count: %w", err)
		}
		counts[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate booking counts: %w", err)
	}
	return counts, nil
}

// GetGuest retrieves a guest contact record.
func (r *Repository) GetGuest(ctx context.Context, id uuid.UUID) (*Guest, error) {
	var g Guest
	err := r.pool.QueryRow(ctx, `SELECT id, full_name, phone, email, created_at FROM guests WHERE id = $1`, id).
		Scan(&g.ID, &g.FullName, &g.Phone, &g.Email, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("guest not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guest: %w", err)
	}
	return &g, nil
}

// CreateGuest inserts a guest contact record.
func (r *Repository) CreateGuest(ctx context.Context, g *Guest) error {
	query := `INSERT INTO guests (id, full_name, phone, email, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.pool.Exec(ctx, query, g.ID, g.FullName, g.Phone, g.Email, g.CreatedAt); err != nil {
		return fmt.Errorf("failed to create guest: %w", err)
	}
	return nil
}
