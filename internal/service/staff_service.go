package service

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/Freeeeeet/staff_scheduler/internal/apperr"
	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/repository"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// TimeRangeInput carries raw minute values; nil means the value was missing.
type TimeRangeInput struct {
	StartMinute *int
	EndMinute   *int
}

type DayAvailabilityInput struct {
	DayOfWeek  string
	TimeRanges []TimeRangeInput
}

type CreateStaffInput struct {
	Name         string
	Email        string
	Availability []DayAvailabilityInput
}

type UpdateStaffInput struct {
	Name     *string
	Email    *string
	IsActive *bool
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type StaffPage struct {
	Items      []*model.Staff `json:"items"`
	Pagination Pagination     `json:"pagination"`
}

type StaffService struct {
	store              repository.Store
	strictAvailability bool
	logger             *zap.Logger
}

// NewStaffService creates the service. With strictAvailability, duplicate days and
// overlapping ranges within a day are rejected.
func NewStaffService(store repository.Store, strictAvailability bool, logger *zap.Logger) *StaffService {
	return &StaffService{
		store:              store,
		strictAvailability: strictAvailability,
		logger:             logger,
	}
}

// CreateStaff creates the staff row, its availability blocks and their time ranges
// in one transaction. Email uniqueness is checked before the availability payload,
// and any invalid block aborts the whole operation.
func (s *StaffService) CreateStaff(ctx context.Context, in CreateStaffInput) (*model.Staff, error) {
	ctx, span := tracer.Start(ctx, "StaffService.CreateStaff")
	defer span.End()

	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" {
		return nil, apperr.MissingField("Name and email are required")
	}
	if !emailPattern.MatchString(email) {
		return nil, apperr.Validation("email", "Invalid email address")
	}

	staff := &model.Staff{
		Name:     name,
		Email:    email,
		IsActive: true,
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		existing, err := repos.Staff.GetByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("check existing staff: %w", err)
		}
		if existing != nil {
			return apperr.Conflict("Email already exists")
		}

		set, err := s.buildAvailability(in.Availability)
		if err != nil {
			return err
		}

		if err := repos.Staff.Create(ctx, staff); err != nil {
			return err
		}

		if err := createBlocks(ctx, repos, staff.ID, set); err != nil {
			return err
		}
		staff.Availabilities = set
		return nil
	})
	if err != nil {
		return nil, fail(s.logger, span, "create staff", err)
	}

	s.logger.Info("Staff created",
		zap.Int64("staff_id", staff.ID),
		zap.String("email", staff.Email),
		zap.Int("availability_blocks", len(staff.Availabilities)),
	)

	return staff, nil
}

// GetStaff loads a staff member, with availability when requested.
func (s *StaffService) GetStaff(ctx context.Context, id int64, withAvailability bool) (*model.Staff, error) {
	ctx, span := tracer.Start(ctx, "StaffService.GetStaff")
	defer span.End()
	span.SetAttributes(attribute.Int64("staff.id", id))

	repos := s.store.Repositories()
	staff, err := repos.Staff.GetByID(ctx, id)
	if err != nil {
		return nil, fail(s.logger, span, "get staff", err)
	}
	if staff == nil {
		return nil, apperr.NotFound("Staff not found")
	}

	if withAvailability {
		set, err := repos.Availability.ListByStaffID(ctx, id)
		if err != nil {
			return nil, fail(s.logger, span, "get staff availability", err)
		}
		if set == nil {
			set = model.AvailabilitySet{}
		}
		staff.Availabilities = set
	}

	return staff, nil
}

// ListStaff returns one page of staff, newest first.
func (s *StaffService) ListStaff(ctx context.Context, page, limit int) (*StaffPage, error) {
	ctx, span := tracer.Start(ctx, "StaffService.ListStaff")
	defer span.End()

	if page < 1 {
		page = 1
	}
	switch {
	case limit == 0:
		limit = defaultPageLimit
	case limit < 1:
		limit = 1
	case limit > maxPageLimit:
		limit = maxPageLimit
	}

	repos := s.store.Repositories()
	items, err := repos.Staff.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, fail(s.logger, span, "list staff", err)
	}
	total, err := repos.Staff.Count(ctx)
	if err != nil {
		return nil, fail(s.logger, span, "count staff", err)
	}
	if items == nil {
		items = []*model.Staff{}
	}

	return &StaffPage{
		Items: items,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

// UpdateStaff applies a direct field update to the staff row.
func (s *StaffService) UpdateStaff(ctx context.Context, id int64, in UpdateStaffInput) (*model.Staff, error) {
	ctx, span := tracer.Start(ctx, "StaffService.UpdateStaff")
	defer span.End()
	span.SetAttributes(attribute.Int64("staff.id", id))

	var staff *model.Staff
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		staff, err = repos.Staff.LockByID(ctx, id)
		if err != nil {
			return fmt.Errorf("lock staff: %w", err)
		}
		if staff == nil {
			return apperr.NotFound("Staff not found")
		}

		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return apperr.Validation("name", "Name cannot be empty")
			}
			staff.Name = name
		}
		if in.Email != nil {
			email := strings.TrimSpace(*in.Email)
			if !emailPattern.MatchString(email) {
				return apperr.Validation("email", "Invalid email address")
			}
			existing, err := repos.Staff.GetByEmail(ctx, email)
			if err != nil {
				return fmt.Errorf("check existing staff: %w", err)
			}
			if existing != nil && existing.ID != id {
				return apperr.Conflict("Email already exists")
			}
			staff.Email = email
		}
		if in.IsActive != nil {
			staff.IsActive = *in.IsActive
		}

		return repos.Staff.Update(ctx, staff)
	})
	if err != nil {
		return nil, fail(s.logger, span, "update staff", err)
	}

	s.logger.Info("Staff updated",
		zap.Int64("staff_id", id),
		zap.Bool("is_active", staff.IsActive),
	)

	return staff, nil
}

// ReplaceAvailability swaps the whole availability of a staff member atomically.
func (s *StaffService) ReplaceAvailability(ctx context.Context, id int64, availability []DayAvailabilityInput) (model.AvailabilitySet, error) {
	ctx, span := tracer.Start(ctx, "StaffService.ReplaceAvailability")
	defer span.End()
	span.SetAttributes(attribute.Int64("staff.id", id))

	set, err := s.buildAvailability(availability)
	if err != nil {
		return nil, err
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		staff, err := repos.Staff.LockByID(ctx, id)
		if err != nil {
			return fmt.Errorf("lock staff: %w", err)
		}
		if staff == nil {
			return apperr.NotFound("Staff not found")
		}

		if err := repos.Availability.DeleteByStaffID(ctx, id); err != nil {
			return err
		}
		return createBlocks(ctx, repos, id, set)
	})
	if err != nil {
		return nil, fail(s.logger, span, "replace availability", err)
	}

	s.logger.Info("Availability replaced",
		zap.Int64("staff_id", id),
		zap.Int("availability_blocks", len(set)),
	)

	return set, nil
}

// DeleteStaff refuses while bookings reference the staff member. Availability is
// removed explicitly in the same transaction; nothing cascades implicitly.
func (s *StaffService) DeleteStaff(ctx context.Context, id int64) error {
	ctx, span := tracer.Start(ctx, "StaffService.DeleteStaff")
	defer span.End()
	span.SetAttributes(attribute.Int64("staff.id", id))

	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		staff, err := repos.Staff.LockByID(ctx, id)
		if err != nil {
			return fmt.Errorf("lock staff: %w", err)
		}
		if staff == nil {
			return apperr.NotFound("Staff not found")
		}

		bookings, err := repos.Bookings.CountByStaffID(ctx, id)
		if err != nil {
			return err
		}
		if bookings > 0 {
			return apperr.Conflict(fmt.Sprintf("Staff has %d booking(s) and cannot be deleted", bookings))
		}

		if err := repos.Availability.DeleteByStaffID(ctx, id); err != nil {
			return err
		}
		return repos.Staff.Delete(ctx, id)
	})
	if err != nil {
		return fail(s.logger, span, "delete staff", err)
	}

	s.logger.Info("Staff deleted", zap.Int64("staff_id", id))
	return nil
}

// buildAvailability turns raw input into a validated AvailabilitySet.
func (s *StaffService) buildAvailability(in []DayAvailabilityInput) (model.AvailabilitySet, error) {
	set := make(model.AvailabilitySet, 0, len(in))
	for i, day := range in {
		dayOfWeek, err := model.ParseDayOfWeek(day.DayOfWeek)
		if err != nil {
			return nil, apperr.Validation(fmt.Sprintf("availability[%d].dayOfWeek", i), fmt.Sprintf("Invalid dayOfWeek: %q", day.DayOfWeek))
		}

		block := model.AvailabilityBlock{
			DayOfWeek:  dayOfWeek,
			TimeRanges: make([]model.TimeRange, 0, len(day.TimeRanges)),
		}
		for j, raw := range day.TimeRanges {
			field := fmt.Sprintf("availability[%d].timeRanges[%d]", i, j)
			if raw.StartMinute == nil || raw.EndMinute == nil {
				return nil, apperr.Validation(field, "startMinute and endMinute must be numbers")
			}
			tr, err := model.NewTimeRange(*raw.StartMinute, *raw.EndMinute)
			if err != nil {
				return nil, apperr.Validation(field, fmt.Sprintf("Invalid time range on %s: %s", dayOfWeek, err.Error()))
			}
			block.TimeRanges = append(block.TimeRanges, tr)
		}
		set = append(set, block)
	}

	if err := set.Validate(s.strictAvailability); err != nil {
		return nil, err
	}
	return set, nil
}

func createBlocks(ctx context.Context, repos repository.Repositories, staffID int64, set model.AvailabilitySet) error {
	for i := range set {
		set[i].StaffID = staffID
		if err := repos.Availability.Create(ctx, &set[i]); err != nil {
			return err
		}
	}
	return nil
}
