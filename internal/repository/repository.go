package repository

import (
	"context"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
)

// Lookups return (nil, nil) when the row does not exist.

type StaffRepository interface {
	Create(ctx context.Context, staff *model.Staff) error
	GetByID(ctx context.Context, id int64) (*model.Staff, error)
	GetByEmail(ctx context.Context, email string) (*model.Staff, error)
	// LockByID reads the staff row and holds it until the transaction ends.
	LockByID(ctx context.Context, id int64) (*model.Staff, error)
	List(ctx context.Context, limit, offset int) ([]*model.Staff, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, staff *model.Staff) error
	Delete(ctx context.Context, id int64) error
}

type AvailabilityRepository interface {
	// Create inserts the block and its ranges and sets block.ID.
	Create(ctx context.Context, block *model.AvailabilityBlock) error
	ListByStaffID(ctx context.Context, staffID int64) (model.AvailabilitySet, error)
	DeleteByStaffID(ctx context.Context, staffID int64) error
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	// GetByID returns the booking joined with its staff.
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	LockByID(ctx context.Context, id int64) (*model.Booking, error)
	// List returns bookings ordered by start time; staffID 0 lists every staff.
	List(ctx context.Context, staffID int64) ([]*model.Booking, error)
	FindOverlapping(ctx context.Context, staffID int64, start, end time.Time, excludeID int64) (*model.Booking, error)
	CountByStaffID(ctx context.Context, staffID int64) (int, error)
	Update(ctx context.Context, booking *model.Booking) error
	Delete(ctx context.Context, id int64) error
}

// Repositories is the set of table repositories bound to one connection or transaction.
type Repositories struct {
	Staff        StaffRepository
	Availability AvailabilityRepository
	Bookings     BookingRepository
}

// Store is the persistence collaborator used by the services.
type Store interface {
	Repositories() Repositories
	// WithinTx runs fn in one transaction. Any error from fn rolls everything back.
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	Ping(ctx context.Context) error
}
