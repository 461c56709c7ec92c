package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/repository/base"
)

// AvailabilityRepo stores availability blocks together with their time ranges.
type AvailabilityRepo struct {
	*base.Repository
}

func NewAvailabilityRepository(db base.DBTX) *AvailabilityRepo {
	return &AvailabilityRepo{Repository: base.NewRepository(db)}
}

// Create writes the block row and then each range. Must run inside a transaction
// for the block to be all-or-nothing.
func (r *AvailabilityRepo) Create(ctx context.Context, block *model.AvailabilityBlock) error {
	err := r.QueryRow(ctx, `
		INSERT INTO availabilities (staff_id, day_of_week)
		VALUES ($1, $2::day_of_week)
		RETURNING id
	`, block.StaffID, string(block.DayOfWeek)).Scan(&block.ID)
	if err != nil {
		return fmt.Errorf("create availability: %w", err)
	}

	for i, tr := range block.TimeRanges {
		_, err := r.ExecAffected(ctx, `
			INSERT INTO time_ranges (availability_id, start_minute, end_minute, position)
			VALUES ($1, $2, $3, $4)
		`, block.ID, tr.StartMinute, tr.EndMinute, i)
		if err != nil {
			return fmt.Errorf("create time range: %w", err)
		}
	}

	return nil
}

func (r *AvailabilityRepo) ListByStaffID(ctx context.Context, staffID int64) (model.AvailabilitySet, error) {
	query := `
		SELECT a.id, a.staff_id, a.day_of_week::text, tr.start_minute, tr.end_minute
		FROM availabilities a
		LEFT JOIN time_ranges tr ON tr.availability_id = a.id
		WHERE a.staff_id = $1
		ORDER BY a.id, tr.position
	`

	rows, err := r.Query(ctx, query, staffID)
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	defer rows.Close()

	var set model.AvailabilitySet
	for rows.Next() {
		var (
			id      int64
			ownerID int64
			day     string
			start   *int
			end     *int
		)
		if err := rows.Scan(&id, &ownerID, &day, &start, &end); err != nil {
			return nil, fmt.Errorf("scan availability: %w", err)
		}

		if len(set) == 0 || set[len(set)-1].ID != id {
			set = append(set, model.AvailabilityBlock{
				ID:         id,
				StaffID:    ownerID,
				DayOfWeek:  model.DayOfWeek(day),
				TimeRanges: []model.TimeRange{},
			})
		}
		if start != nil && end != nil {
			last := &set[len(set)-1]
			last.TimeRanges = append(last.TimeRanges, model.TimeRange{StartMinute: *start, EndMinute: *end})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}

	return set, nil
}

// DeleteByStaffID removes every block of the staff member; ranges go with their block.
func (r *AvailabilityRepo) DeleteByStaffID(ctx context.Context, staffID int64) error {
	if _, err := r.ExecAffected(ctx, `DELETE FROM availabilities WHERE staff_id = $1`, staffID); err != nil {
		return fmt.Errorf("delete availability: %w", err)
	}
	return nil
}
