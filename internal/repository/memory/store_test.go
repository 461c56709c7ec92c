package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/staff_scheduler/internal/apperr"
	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/repository"
)

var base = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func newStaff(t *testing.T, store *Store, email string) *model.Staff {
	t.Helper()
	s := &model.Staff{Name: "Ann", Email: email, IsActive: true}
	require.NoError(t, store.Repositories().Staff.Create(context.Background(), s))
	return s
}

func TestWithinTxRollsBack(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	errStop := errors.New("stop")

	err := store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		s := &model.Staff{Name: "Bob", Email: "bob@example.com", IsActive: true}
		if err := repos.Staff.Create(ctx, s); err != nil {
			return err
		}
		block := &model.AvailabilityBlock{StaffID: s.ID, DayOfWeek: model.Monday, TimeRanges: []model.TimeRange{{StartMinute: 540, EndMinute: 600}}}
		if err := repos.Availability.Create(ctx, block); err != nil {
			return err
		}
		return errStop
	})
	require.ErrorIs(t, err, errStop)

	found, err := store.Repositories().Staff.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Nil(t, found)

	n, err := store.Repositories().Staff.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestWithinTxCommits(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	var id int64
	err := store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		s := &model.Staff{Name: "Bob", Email: "bob@example.com", IsActive: true}
		if err := repos.Staff.Create(ctx, s); err != nil {
			return err
		}
		id = s.ID
		return repos.Availability.Create(ctx, &model.AvailabilityBlock{StaffID: s.ID, DayOfWeek: model.Friday})
	})
	require.NoError(t, err)

	set, err := store.Repositories().Availability.ListByStaffID(ctx, id)
	require.NoError(t, err)
	require.Len(t, set, 1)
	assert.Equal(t, model.Friday, set[0].DayOfWeek)
}

func TestStaffEmailUnique(t *testing.T) {
	store := NewStore()
	newStaff(t, store, "ann@example.com")

	err := store.Repositories().Staff.Create(context.Background(), &model.Staff{Name: "Other", Email: "ann@example.com"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestBookingExclusionConstraint(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repos := store.Repositories()
	staff := newStaff(t, store, "ann@example.com")

	first := &model.Booking{StaffID: staff.ID, ClientName: "C", ClientPhone: "123456", StartTime: base, EndTime: base.Add(time.Hour)}
	require.NoError(t, repos.Bookings.Create(ctx, first))

	clash := &model.Booking{StaffID: staff.ID, ClientName: "D", ClientPhone: "123456", StartTime: base.Add(30 * time.Minute), EndTime: base.Add(90 * time.Minute)}
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(repos.Bookings.Create(ctx, clash)))

	next := &model.Booking{StaffID: staff.ID, ClientName: "E", ClientPhone: "123456", StartTime: base.Add(time.Hour), EndTime: base.Add(2 * time.Hour)}
	require.NoError(t, repos.Bookings.Create(ctx, next))

	unknown := &model.Booking{StaffID: 99, ClientName: "F", ClientPhone: "123456", StartTime: base, EndTime: base.Add(time.Hour)}
	err := repos.Bookings.Create(ctx, unknown)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.True(t, e.Reference())

	// moving the first booking onto itself is not a conflict
	first.EndTime = base.Add(45 * time.Minute)
	require.NoError(t, repos.Bookings.Update(ctx, first))

	list, err := repos.Bookings.List(ctx, staff.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, "Ann", list[0].Staff.Name)
}

func TestStaffDeleteRestrictedByBookings(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repos := store.Repositories()
	staff := newStaff(t, store, "ann@example.com")

	b := &model.Booking{StaffID: staff.ID, ClientName: "C", ClientPhone: "123456", StartTime: base, EndTime: base.Add(time.Hour)}
	require.NoError(t, repos.Bookings.Create(ctx, b))

	assert.Equal(t, apperr.KindConflict, apperr.KindOf(repos.Staff.Delete(ctx, staff.ID)))

	require.NoError(t, repos.Bookings.Delete(ctx, b.ID))
	require.NoError(t, repos.Staff.Delete(ctx, staff.ID))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(repos.Staff.Delete(ctx, staff.ID)))
}

func TestReturnedValuesAreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	staff := newStaff(t, store, "ann@example.com")

	got, err := store.Repositories().Staff.GetByID(ctx, staff.ID)
	require.NoError(t, err)
	got.Name = "Mutated"

	again, err := store.Repositories().Staff.GetByID(ctx, staff.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", again.Name)
}

func TestConcurrentTransactionsNeverOverlap(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	staff := newStaff(t, store, "ann@example.com")

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
				existing, err := repos.Bookings.FindOverlapping(ctx, staff.ID, base, base.Add(time.Hour), 0)
				if err != nil {
					return err
				}
				if existing != nil {
					return apperr.Conflict(overlapMessage)
				}
				return repos.Bookings.Create(ctx, &model.Booking{
					StaffID: staff.ID, ClientName: "C", ClientPhone: "123456",
					StartTime: base, EndTime: base.Add(time.Hour),
				})
			})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	n, err := store.Repositories().Bookings.CountByStaffID(ctx, staff.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
