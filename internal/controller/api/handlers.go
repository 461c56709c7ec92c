package api

import (
	"context"

	"go.uber.org/zap"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/service"
)

type StaffService interface {
	CreateStaff(ctx context.Context, in service.CreateStaffInput) (*model.Staff, error)
	GetStaff(ctx context.Context, id int64, withAvailability bool) (*model.Staff, error)
	ListStaff(ctx context.Context, page, limit int) (*service.StaffPage, error)
	UpdateStaff(ctx context.Context, id int64, in service.UpdateStaffInput) (*model.Staff, error)
	ReplaceAvailability(ctx context.Context, id int64, in []service.DayAvailabilityInput) (model.AvailabilitySet, error)
	DeleteStaff(ctx context.Context, id int64) error
}

type BookingService interface {
	CreateBooking(ctx context.Context, in service.CreateBookingInput) (*model.Booking, error)
	UpdateBooking(ctx context.Context, id int64, patch service.UpdateBookingInput) (*model.Booking, error)
	GetBooking(ctx context.Context, id int64) (*model.Booking, error)
	ListBookings(ctx context.Context, staffID int64) ([]*model.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers serves the JSON API.
type Handlers struct {
	staff    StaffService
	bookings BookingService
	store    Pinger
	logger   *zap.Logger
}

func NewHandlers(staff StaffService, bookings BookingService, store Pinger, logger *zap.Logger) *Handlers {
	return &Handlers{
		staff:    staff,
		bookings: bookings,
		store:    store,
		logger:   logger,
	}
}
