package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/apperr"
	"github.com/Freeeeeet/staff_scheduler/internal/model"
)

// NoExclusion is passed as excludeID when no booking should be skipped.
const NoExclusion int64 = 0

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Back-to-back intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// FindConflict scans bookings in memory and returns the first booking of staffID
// that overlaps [start, end), skipping excludeID.
func FindConflict(bookings []*model.Booking, staffID int64, start, end time.Time, excludeID int64) *model.Booking {
	for _, b := range bookings {
		if b.StaffID != staffID {
			continue
		}
		if excludeID != NoExclusion && b.ID == excludeID {
			continue
		}
		if Overlaps(b.StartTime, b.EndTime, start, end) {
			return b
		}
	}
	return nil
}

// OverlapFinder is the storage side of the check. Postgres evaluates the predicate
// in SQL, the memory store falls back to FindConflict.
type OverlapFinder interface {
	FindOverlapping(ctx context.Context, staffID int64, start, end time.Time, excludeID int64) (*model.Booking, error)
}

// Checker answers "is [start, end) free for this staff member".
type Checker struct {
	finder OverlapFinder
}

func NewChecker(finder OverlapFinder) *Checker {
	return &Checker{finder: finder}
}

// Check returns a Conflict error naming the clashing booking, or nil when the window is free.
func (c *Checker) Check(ctx context.Context, staffID int64, start, end time.Time, excludeID int64) error {
	existing, err := c.finder.FindOverlapping(ctx, staffID, start, end, excludeID)
	if err != nil {
		return fmt.Errorf("find overlapping bookings: %w", err)
	}
	if existing == nil {
		return nil
	}
	return ConflictWith(existing)
}

// ConflictWith builds the error reported when a window clashes with existing.
func ConflictWith(existing *model.Booking) error {
	return &apperr.Error{
		Kind: apperr.KindConflict,
		Message: fmt.Sprintf("This staff already has a booking during this time (booking %d, %s - %s)",
			existing.ID,
			existing.StartTime.UTC().Format(time.RFC3339),
			existing.EndTime.UTC().Format(time.RFC3339)),
	}
}
