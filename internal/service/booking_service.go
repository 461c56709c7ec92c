package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf16"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/Freeeeeet/staff_scheduler/internal/apperr"
	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/repository"
	"github.com/Freeeeeet/staff_scheduler/internal/schedule"
)

const minPhoneLength = 6

// CreateBookingInput holds a booking request. Nil means the field was not sent.
type CreateBookingInput struct {
	StaffID      *int64
	ClientName   *string
	ClientPhone  *string
	StartTime    *time.Time
	EndTime      *time.Time
	Address      *string
	Instructions *string
}

// UpdateBookingInput is a partial patch; nil fields keep their stored value.
type UpdateBookingInput struct {
	StaffID      *int64
	ClientName   *string
	ClientPhone  *string
	StartTime    *time.Time
	EndTime      *time.Time
	Address      *string
	Instructions *string
}

type BookingService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewBookingService(store repository.Store, logger *zap.Logger) *BookingService {
	return &BookingService{
		store:  store,
		logger: logger,
	}
}

// CreateBooking validates the request in a fixed order, first failure wins:
// required fields, client name, client phone, time order, staff reference, overlap.
// The staff row stays locked from the overlap check until the insert commits.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*model.Booking, error) {
	ctx, span := tracer.Start(ctx, "BookingService.CreateBooking")
	defer span.End()

	if in.StaffID == nil || *in.StaffID == 0 ||
		in.ClientName == nil || *in.ClientName == "" ||
		in.ClientPhone == nil || *in.ClientPhone == "" ||
		in.StartTime == nil || in.StartTime.IsZero() ||
		in.EndTime == nil || in.EndTime.IsZero() {
		return nil, apperr.MissingField("Missing required fields")
	}

	clientName, err := validateClientName(*in.ClientName)
	if err != nil {
		return nil, err
	}
	clientPhone, err := validateClientPhone(*in.ClientPhone)
	if err != nil {
		return nil, err
	}
	if err := validateTimeOrder(*in.StartTime, *in.EndTime); err != nil {
		return nil, err
	}

	staffID := *in.StaffID
	span.SetAttributes(attribute.Int64("staff.id", staffID))

	booking := &model.Booking{
		StaffID:      staffID,
		ClientName:   clientName,
		ClientPhone:  clientPhone,
		StartTime:    *in.StartTime,
		EndTime:      *in.EndTime,
		Address:      in.Address,
		Instructions: in.Instructions,
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		staff, err := repos.Staff.LockByID(ctx, staffID)
		if err != nil {
			return fmt.Errorf("lock staff: %w", err)
		}
		if staff == nil {
			return apperr.InvalidReference("staffId", "Invalid staffId")
		}

		checker := schedule.NewChecker(repos.Bookings)
		if err := checker.Check(ctx, staffID, booking.StartTime, booking.EndTime, schedule.NoExclusion); err != nil {
			return err
		}

		if err := repos.Bookings.Create(ctx, booking); err != nil {
			return err
		}
		booking.Staff = staff
		return nil
	})
	if err != nil {
		return nil, fail(s.logger, span, "create booking", err)
	}

	s.logger.Info("Booking created",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("staff_id", staffID),
		zap.Time("start_time", booking.StartTime),
		zap.Time("end_time", booking.EndTime),
	)

	return booking, nil
}

// UpdateBooking merges patch over the stored booking and re-validates the effective
// staff, time order and overlap (excluding the booking itself) before writing.
// Nothing is written when any check fails.
func (s *BookingService) UpdateBooking(ctx context.Context, id int64, patch UpdateBookingInput) (*model.Booking, error) {
	ctx, span := tracer.Start(ctx, "BookingService.UpdateBooking")
	defer span.End()
	span.SetAttributes(attribute.Int64("booking.id", id))

	var updated model.Booking
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		existing, err := repos.Bookings.LockByID(ctx, id)
		if err != nil {
			return fmt.Errorf("lock booking: %w", err)
		}
		if existing == nil {
			return apperr.NotFound("Booking not found")
		}
		updated = *existing

		if patch.StaffID != nil {
			updated.StaffID = *patch.StaffID
		}
		staff, err := repos.Staff.LockByID(ctx, updated.StaffID)
		if err != nil {
			return fmt.Errorf("lock staff: %w", err)
		}
		if staff == nil {
			return apperr.Validation("staffId", "Invalid staffId")
		}

		if patch.ClientName != nil {
			if updated.ClientName, err = validateClientName(*patch.ClientName); err != nil {
				return err
			}
		}
		if patch.ClientPhone != nil {
			if updated.ClientPhone, err = validateClientPhone(*patch.ClientPhone); err != nil {
				return err
			}
		}
		if patch.StartTime != nil && !patch.StartTime.IsZero() {
			updated.StartTime = *patch.StartTime
		}
		if patch.EndTime != nil && !patch.EndTime.IsZero() {
			updated.EndTime = *patch.EndTime
		}
		if patch.Address != nil {
			updated.Address = patch.Address
		}
		if patch.Instructions != nil {
			updated.Instructions = patch.Instructions
		}

		if err := validateTimeOrder(updated.StartTime, updated.EndTime); err != nil {
			return err
		}

		checker := schedule.NewChecker(repos.Bookings)
		if err := checker.Check(ctx, updated.StaffID, updated.StartTime, updated.EndTime, id); err != nil {
			return err
		}

		if err := repos.Bookings.Update(ctx, &updated); err != nil {
			return err
		}
		updated.Staff = staff
		return nil
	})
	if err != nil {
		return nil, fail(s.logger, span, "update booking", err)
	}

	s.logger.Info("Booking updated",
		zap.Int64("booking_id", id),
		zap.Int64("staff_id", updated.StaffID),
		zap.Time("start_time", updated.StartTime),
		zap.Time("end_time", updated.EndTime),
	)

	return &updated, nil
}

// GetBooking returns the booking joined with its staff.
func (s *BookingService) GetBooking(ctx context.Context, id int64) (*model.Booking, error) {
	ctx, span := tracer.Start(ctx, "BookingService.GetBooking")
	defer span.End()

	booking, err := s.store.Repositories().Bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fail(s.logger, span, "get booking", err)
	}
	if booking == nil {
		return nil, apperr.NotFound("Booking not found")
	}

	return booking, nil
}

// ListBookings returns bookings ordered by start time. staffID 0 lists all staff.
func (s *BookingService) ListBookings(ctx context.Context, staffID int64) ([]*model.Booking, error) {
	ctx, span := tracer.Start(ctx, "BookingService.ListBookings")
	defer span.End()

	bookings, err := s.store.Repositories().Bookings.List(ctx, staffID)
	if err != nil {
		return nil, fail(s.logger, span, "list bookings", err)
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}

	return bookings, nil
}

func (s *BookingService) DeleteBooking(ctx context.Context, id int64) error {
	ctx, span := tracer.Start(ctx, "BookingService.DeleteBooking")
	defer span.End()

	if err := s.store.Repositories().Bookings.Delete(ctx, id); err != nil {
		return fail(s.logger, span, "delete booking", err)
	}

	s.logger.Info("Booking deleted", zap.Int64("booking_id", id))
	return nil
}

func validateClientName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", apperr.Validation("clientName", "clientName cannot be empty")
	}
	return trimmed, nil
}

func validateClientPhone(phone string) (string, error) {
	trimmed := strings.TrimSpace(phone)
	// length in UTF-16 code units, so a non-BMP character counts twice
	if len(utf16.Encode([]rune(trimmed))) < minPhoneLength {
		return "", apperr.Validation("clientPhone", "Invalid client phone number")
	}
	return trimmed, nil
}

func validateTimeOrder(start, end time.Time) error {
	if !start.Before(end) {
		return apperr.Validation("endTime", "End time must be after start time")
	}
	return nil
}
