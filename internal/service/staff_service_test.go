package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/staff_scheduler/internal/apperr"
	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/repository/memory"
)

func window(start, end int) TimeRangeInput {
	return TimeRangeInput{StartMinute: ptr(start), EndMinute: ptr(end)}
}

func TestCreateStaffWithAvailability(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	staff, err := f.staff.CreateStaff(ctx, CreateStaffInput{
		Name:  " Ann Smith ",
		Email: "ann@example.com",
		Availability: []DayAvailabilityInput{
			{DayOfWeek: "MONDAY", TimeRanges: []TimeRangeInput{window(540, 720), window(780, 1020)}},
			{DayOfWeek: "SATURDAY", TimeRanges: []TimeRangeInput{window(600, 1440)}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ann Smith", staff.Name)
	assert.True(t, staff.IsActive)
	require.Len(t, staff.Availabilities, 2)

	loaded, err := f.staff.GetStaff(ctx, staff.ID, true)
	require.NoError(t, err)
	require.Len(t, loaded.Availabilities, 2)
	monday := loaded.Availabilities.ForDay(model.Monday)
	require.Len(t, monday, 2)
	assert.Equal(t, model.TimeRange{StartMinute: 540, EndMinute: 720}, monday[0])
	assert.Equal(t, model.TimeRange{StartMinute: 600, EndMinute: 1440}, loaded.Availabilities.ForDay(model.Saturday)[0])

	plain, err := f.staff.GetStaff(ctx, staff.ID, false)
	require.NoError(t, err)
	assert.Nil(t, plain.Availabilities)
}

func TestCreateStaffRejections(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		in       CreateStaffInput
		wantKind apperr.Kind
	}{
		{
			name:     "missing name",
			in:       CreateStaffInput{Name: "  ", Email: "x@example.com"},
			wantKind: apperr.KindMissingField,
		},
		{
			name:     "missing email",
			in:       CreateStaffInput{Name: "X"},
			wantKind: apperr.KindMissingField,
		},
		{
			name:     "bad email",
			in:       CreateStaffInput{Name: "X", Email: "not-an-email"},
			wantKind: apperr.KindValidation,
		},
		{
			name: "unknown day",
			in: CreateStaffInput{Name: "X", Email: "x@example.com", Availability: []DayAvailabilityInput{
				{DayOfWeek: "Funday", TimeRanges: []TimeRangeInput{window(540, 600)}},
			}},
			wantKind: apperr.KindValidation,
		},
		{
			name: "lowercase day",
			in: CreateStaffInput{Name: "X", Email: "x@example.com", Availability: []DayAvailabilityInput{
				{DayOfWeek: "monday"},
			}},
			wantKind: apperr.KindValidation,
		},
		{
			name: "start after end",
			in: CreateStaffInput{Name: "X", Email: "x@example.com", Availability: []DayAvailabilityInput{
				{DayOfWeek: "MONDAY", TimeRanges: []TimeRangeInput{window(540, 600)}},
				{DayOfWeek: "TUESDAY", TimeRanges: []TimeRangeInput{window(720, 600)}},
			}},
			wantKind: apperr.KindValidation,
		},
		{
			name: "missing minute",
			in: CreateStaffInput{Name: "X", Email: "x@example.com", Availability: []DayAvailabilityInput{
				{DayOfWeek: "MONDAY", TimeRanges: []TimeRangeInput{{StartMinute: ptr(540)}}},
			}},
			wantKind: apperr.KindValidation,
		},
		{
			name: "minute past midnight",
			in: CreateStaffInput{Name: "X", Email: "x@example.com", Availability: []DayAvailabilityInput{
				{DayOfWeek: "MONDAY", TimeRanges: []TimeRangeInput{window(1400, 1441)}},
			}},
			wantKind: apperr.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.staff.CreateStaff(ctx, tt.in)
			assert.Equal(t, tt.wantKind, apperr.KindOf(err), fmt.Sprint(err))

			page, err := f.staff.ListStaff(ctx, 1, 10)
			require.NoError(t, err)
			assert.Zero(t, page.Pagination.Total, "nothing is persisted on failure")
		})
	}
}

func TestCreateStaffInvalidRangePersistsNothing(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewStaffService(store, false, zap.NewNop())

	_, err := svc.CreateStaff(ctx, CreateStaffInput{
		Name:  "Ann",
		Email: "ann@example.com",
		Availability: []DayAvailabilityInput{
			{DayOfWeek: "MONDAY", TimeRanges: []TimeRangeInput{window(540, 600)}},
			{DayOfWeek: "FRIDAY", TimeRanges: []TimeRangeInput{window(600, 600)}},
		},
	})
	require.Error(t, err)

	found, err := store.Repositories().Staff.GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestCreateStaffDuplicateEmailCheckedFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createStaff(t, "ann@example.com")

	_, err := f.staff.CreateStaff(ctx, CreateStaffInput{
		Name:  "Another Ann",
		Email: "ann@example.com",
		Availability: []DayAvailabilityInput{
			{DayOfWeek: "NOPE", TimeRanges: []TimeRangeInput{window(900, 100)}},
		},
	})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestStrictAvailability(t *testing.T) {
	ctx := context.Background()
	overlapping := []DayAvailabilityInput{
		{DayOfWeek: "MONDAY", TimeRanges: []TimeRangeInput{window(540, 720), window(700, 800)}},
	}
	duplicated := []DayAvailabilityInput{
		{DayOfWeek: "MONDAY", TimeRanges: []TimeRangeInput{window(540, 600)}},
		{DayOfWeek: "MONDAY", TimeRanges: []TimeRangeInput{window(700, 800)}},
	}

	lenient := NewStaffService(memory.NewStore(), false, zap.NewNop())
	_, err := lenient.CreateStaff(ctx, CreateStaffInput{Name: "A", Email: "a@example.com", Availability: overlapping})
	require.NoError(t, err)
	_, err = lenient.CreateStaff(ctx, CreateStaffInput{Name: "B", Email: "b@example.com", Availability: duplicated})
	require.NoError(t, err)

	strict := NewStaffService(memory.NewStore(), true, zap.NewNop())
	_, err = strict.CreateStaff(ctx, CreateStaffInput{Name: "A", Email: "a@example.com", Availability: overlapping})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	_, err = strict.CreateStaff(ctx, CreateStaffInput{Name: "B", Email: "b@example.com", Availability: duplicated})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestListStaffPagination(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for i := 0; i < 12; i++ {
		f.createStaff(t, fmt.Sprintf("s%02d@example.com", i))
	}

	tests := []struct {
		name      string
		page      int
		limit     int
		wantItems int
		wantLimit int
		wantPage  int
		wantPages int
	}{
		{name: "defaults", page: 0, limit: 0, wantItems: 10, wantLimit: 10, wantPage: 1, wantPages: 2},
		{name: "second page", page: 2, limit: 10, wantItems: 2, wantLimit: 10, wantPage: 2, wantPages: 2},
		{name: "small limit", page: 3, limit: 5, wantItems: 2, wantLimit: 5, wantPage: 3, wantPages: 3},
		{name: "limit capped", page: 1, limit: 500, wantItems: 12, wantLimit: 100, wantPage: 1, wantPages: 1},
		{name: "negative limit", page: 1, limit: -3, wantItems: 1, wantLimit: 1, wantPage: 1, wantPages: 12},
		{name: "past the end", page: 9, limit: 10, wantItems: 0, wantLimit: 10, wantPage: 9, wantPages: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.staff.ListStaff(ctx, tt.page, tt.limit)
			require.NoError(t, err)
			assert.Len(t, page.Items, tt.wantItems)
			assert.NotNil(t, page.Items)
			assert.Equal(t, tt.wantLimit, page.Pagination.Limit)
			assert.Equal(t, tt.wantPage, page.Pagination.Page)
			assert.Equal(t, 12, page.Pagination.Total)
			assert.Equal(t, tt.wantPages, page.Pagination.TotalPages)
		})
	}
}

func TestUpdateStaff(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ann := f.createStaff(t, "ann@example.com")
	f.createStaff(t, "bob@example.com")

	updated, err := f.staff.UpdateStaff(ctx, ann.ID, UpdateStaffInput{Name: ptr("Ann B."), IsActive: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, "Ann B.", updated.Name)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "ann@example.com", updated.Email)

	_, err = f.staff.UpdateStaff(ctx, ann.ID, UpdateStaffInput{Email: ptr("bob@example.com")})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = f.staff.UpdateStaff(ctx, ann.ID, UpdateStaffInput{Email: ptr("ann@example.com")})
	require.NoError(t, err, "keeping the same email is fine")

	_, err = f.staff.UpdateStaff(ctx, ann.ID, UpdateStaffInput{Name: ptr(" ")})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.staff.UpdateStaff(ctx, 999, UpdateStaffInput{Name: ptr("Ghost")})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestReplaceAvailability(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	staff, err := f.staff.CreateStaff(ctx, CreateStaffInput{
		Name:  "Ann",
		Email: "ann@example.com",
		Availability: []DayAvailabilityInput{
			{DayOfWeek: "MONDAY", TimeRanges: []TimeRangeInput{window(540, 600)}},
		},
	})
	require.NoError(t, err)

	set, err := f.staff.ReplaceAvailability(ctx, staff.ID, []DayAvailabilityInput{
		{DayOfWeek: "WEDNESDAY", TimeRanges: []TimeRangeInput{window(600, 660)}},
	})
	require.NoError(t, err)
	require.Len(t, set, 1)

	loaded, err := f.staff.GetStaff(ctx, staff.ID, true)
	require.NoError(t, err)
	require.Len(t, loaded.Availabilities, 1)
	assert.Equal(t, model.Wednesday, loaded.Availabilities[0].DayOfWeek)

	_, err = f.staff.ReplaceAvailability(ctx, staff.ID, []DayAvailabilityInput{
		{DayOfWeek: "THURSDAY", TimeRanges: []TimeRangeInput{window(700, 600)}},
	})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	loaded, err = f.staff.GetStaff(ctx, staff.ID, true)
	require.NoError(t, err)
	assert.Equal(t, model.Wednesday, loaded.Availabilities[0].DayOfWeek, "invalid replacement keeps the old set")

	_, err = f.staff.ReplaceAvailability(ctx, 999, nil)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteStaff(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	staff, err := f.staff.CreateStaff(ctx, CreateStaffInput{
		Name:  "Ann",
		Email: "ann@example.com",
		Availability: []DayAvailabilityInput{
			{DayOfWeek: "MONDAY", TimeRanges: []TimeRangeInput{window(540, 600)}},
		},
	})
	require.NoError(t, err)

	booking, err := f.book(staff.ID, at(9, 0), at(10, 0))
	require.NoError(t, err)

	err = f.staff.DeleteStaff(ctx, staff.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	require.NoError(t, f.bookings.DeleteBooking(ctx, booking.ID))
	require.NoError(t, f.staff.DeleteStaff(ctx, staff.ID))

	_, err = f.staff.GetStaff(ctx, staff.ID, true)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(f.staff.DeleteStaff(ctx, staff.ID)))
}
