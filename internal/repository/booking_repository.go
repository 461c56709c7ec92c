package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Freeeeeet/staff_scheduler/internal/apperr"
	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/repository/base"
)

const (
	bookingColumns = `b.id, b.staff_id, b.client_name, b.client_phone, b.start_time, b.end_time,
		b.address, b.instructions, b.created_at, b.updated_at`

	bookingStaffColumns = `s.id, s.name, s.email, s.is_active, s.created_at`

	overlapMessage = "This staff already has a booking during this time"
)

type BookingRepo struct {
	*base.Repository
}

func NewBookingRepository(db base.DBTX) *BookingRepo {
	return &BookingRepo{Repository: base.NewRepository(db)}
}

// Create inserts a booking. The bookings_no_overlap exclusion constraint is the
// last line of defence against concurrent overlapping inserts.
func (r *BookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (staff_id, client_name, client_phone, start_time, end_time, address, instructions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		booking.StaffID,
		booking.ClientName,
		booking.ClientPhone,
		booking.StartTime,
		booking.EndTime,
		booking.Address,
		booking.Instructions,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return translateBookingError("create booking", err)
	}

	return nil
}

func (r *BookingRepo) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `, ` + bookingStaffColumns + `
		FROM bookings b
		JOIN staff s ON s.id = b.staff_id
		WHERE b.id = $1
	`

	booking, err := scanBooking(r.QueryRow(ctx, query, id), true)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return booking, nil
}

// LockByID reads the booking row FOR UPDATE; the staff is not joined.
func (r *BookingRepo) LockByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1 FOR UPDATE`

	booking, err := scanBooking(r.QueryRow(ctx, query, id), false)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock booking: %w", err)
	}

	return booking, nil
}

func (r *BookingRepo) List(ctx context.Context, staffID int64) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `, ` + bookingStaffColumns + `
		FROM bookings b
		JOIN staff s ON s.id = b.staff_id
		WHERE ($1::bigint = 0 OR b.staff_id = $1::bigint)
		ORDER BY b.start_time ASC, b.id ASC
	`

	rows, err := r.Query(ctx, query, staffID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		booking, err := scanBooking(rows, true)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	return bookings, nil
}

// FindOverlapping returns one booking of staffID intersecting [start, end), or nil.
// excludeID 0 never matches a BIGSERIAL id, so it excludes nothing.
func (r *BookingRepo) FindOverlapping(ctx context.Context, staffID int64, start, end time.Time, excludeID int64) (*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		WHERE b.staff_id = $1
		  AND b.id <> $4
		  AND b.start_time < $3
		  AND b.end_time > $2
		ORDER BY b.start_time
		LIMIT 1
	`

	booking, err := scanBooking(r.QueryRow(ctx, query, staffID, start, end, excludeID), false)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find overlapping booking: %w", err)
	}

	return booking, nil
}

func (r *BookingRepo) CountByStaffID(ctx context.Context, staffID int64) (int, error) {
	var n int
	if err := r.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE staff_id = $1`, staffID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}

// Update writes every mutable column of the booking.
func (r *BookingRepo) Update(ctx context.Context, booking *model.Booking) error {
	query := `
		UPDATE bookings
		SET staff_id = $2,
			client_name = $3,
			client_phone = $4,
			start_time = $5,
			end_time = $6,
			address = $7,
			instructions = $8,
			updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.QueryRow(
		ctx, query,
		booking.ID,
		booking.StaffID,
		booking.ClientName,
		booking.ClientPhone,
		booking.StartTime,
		booking.EndTime,
		booking.Address,
		booking.Instructions,
	).Scan(&booking.UpdatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return apperr.NotFound("Booking not found")
		}
		return translateBookingError("update booking", err)
	}

	return nil
}

func (r *BookingRepo) Delete(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if affected == 0 {
		return apperr.NotFound("Booking not found")
	}

	return nil
}

func translateBookingError(op string, err error) error {
	switch {
	case base.IsExclusionViolation(err):
		return apperr.Conflict(overlapMessage)
	case base.IsForeignKeyViolation(err):
		return apperr.InvalidReference("staffId", "Invalid staffId")
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func scanBooking(row pgx.Row, withStaff bool) (*model.Booking, error) {
	var b model.Booking
	dest := []any{
		&b.ID,
		&b.StaffID,
		&b.ClientName,
		&b.ClientPhone,
		&b.StartTime,
		&b.EndTime,
		&b.Address,
		&b.Instructions,
		&b.CreatedAt,
		&b.UpdatedAt,
	}

	var s model.Staff
	if withStaff {
		dest = append(dest, &s.ID, &s.Name, &s.Email, &s.IsActive, &s.CreatedAt)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if withStaff {
		b.Staff = &s
	}

	return &b, nil
}
