package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/staff_scheduler/internal/apperr"
	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/repository/base"
)

const staffColumns = `id, name, email, is_active, created_at`

type StaffRepo struct {
	*base.Repository
}

func NewStaffRepository(db base.DBTX) *StaffRepo {
	return &StaffRepo{Repository: base.NewRepository(db)}
}

// Create inserts a staff row; a taken email becomes a Conflict.
func (r *StaffRepo) Create(ctx context.Context, staff *model.Staff) error {
	query := `
		INSERT INTO staff (name, email, is_active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query, staff.Name, staff.Email, staff.IsActive).
		Scan(&staff.ID, &staff.CreatedAt)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return apperr.Conflict("Email already exists")
		}
		return fmt.Errorf("create staff: %w", err)
	}

	return nil
}

func (r *StaffRepo) GetByID(ctx context.Context, id int64) (*model.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE id = $1`
	return r.getOne(ctx, "get staff by id", query, id)
}

func (r *StaffRepo) GetByEmail(ctx context.Context, email string) (*model.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE email = $1`
	return r.getOne(ctx, "get staff by email", query, email)
}

func (r *StaffRepo) LockByID(ctx context.Context, id int64) (*model.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, "lock staff", query, id)
}

func (r *StaffRepo) getOne(ctx context.Context, op, query string, arg any) (*model.Staff, error) {
	var staff model.Staff
	err := r.QueryRow(ctx, query, arg).Scan(
		&staff.ID,
		&staff.Name,
		&staff.Email,
		&staff.IsActive,
		&staff.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &staff, nil
}

// List returns one page of staff, newest first.
func (r *StaffRepo) List(ctx context.Context, limit, offset int) ([]*model.Staff, error) {
	query := `
		SELECT ` + staffColumns + `
		FROM staff
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	var staff []*model.Staff
	for rows.Next() {
		var s model.Staff
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan staff: %w", err)
		}
		staff = append(staff, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}

	return staff, nil
}

func (r *StaffRepo) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.QueryRow(ctx, `SELECT COUNT(*) FROM staff`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count staff: %w", err)
	}
	return total, nil
}

func (r *StaffRepo) Update(ctx context.Context, staff *model.Staff) error {
	query := `
		UPDATE staff
		SET name = $2, email = $3, is_active = $4
		WHERE id = $1
	`

	affected, err := r.ExecAffected(ctx, query, staff.ID, staff.Name, staff.Email, staff.IsActive)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return apperr.Conflict("Email already exists")
		}
		return fmt.Errorf("update staff: %w", err)
	}
	if affected == 0 {
		return apperr.NotFound("Staff not found")
	}

	return nil
}

// Delete removes the staff row only. Bookings and availability reference it without
// ON DELETE CASCADE, so callers clear availability first and refuse when bookings exist.
func (r *StaffRepo) Delete(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		if base.IsForeignKeyViolation(err) {
			return apperr.Conflict("Staff still has bookings")
		}
		return fmt.Errorf("delete staff: %w", err)
	}
	if affected == 0 {
		return apperr.NotFound("Staff not found")
	}

	return nil
}
