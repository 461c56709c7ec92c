// Package memory keeps the whole dataset in process. It enforces the same
// constraints as the PostgreSQL schema (unique email, foreign keys, the booking
// exclusion constraint), so services behave identically on both stores.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/repository"
)

type dataset struct {
	staff    map[int64]*model.Staff
	blocks   []model.AvailabilityBlock
	bookings map[int64]*model.Booking

	nextStaffID   int64
	nextBlockID   int64
	nextBookingID int64
}

func newDataset() *dataset {
	return &dataset{
		staff:    make(map[int64]*model.Staff),
		bookings: make(map[int64]*model.Booking),
	}
}

func (d *dataset) clone() *dataset {
	c := &dataset{
		staff:         make(map[int64]*model.Staff, len(d.staff)),
		blocks:        make([]model.AvailabilityBlock, 0, len(d.blocks)),
		bookings:      make(map[int64]*model.Booking, len(d.bookings)),
		nextStaffID:   d.nextStaffID,
		nextBlockID:   d.nextBlockID,
		nextBookingID: d.nextBookingID,
	}
	for id, s := range d.staff {
		c.staff[id] = copyStaff(s)
	}
	for _, b := range d.blocks {
		c.blocks = append(c.blocks, copyBlock(b))
	}
	for id, b := range d.bookings {
		c.bookings[id] = copyBooking(b)
	}
	return c
}

// sortedBookings returns stored bookings ordered by start time, then id.
func (d *dataset) sortedBookings() []*model.Booking {
	list := make([]*model.Booking, 0, len(d.bookings))
	for _, b := range d.bookings {
		list = append(list, b)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].StartTime.Equal(list[j].StartTime) {
			return list[i].ID < list[j].ID
		}
		return list[i].StartTime.Before(list[j].StartTime)
	})
	return list
}

// Store is a repository.Store backed by memory. Transactions are serialized by a
// single mutex and applied copy-on-commit.
type Store struct {
	mu   sync.Mutex
	data *dataset
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{data: newDataset(), now: time.Now}
}

// session resolves the dataset a repository works on. Outside a transaction it
// locks the store per call; inside one the transaction already holds the lock.
type session struct {
	store *Store
	data  *dataset
	now   func() time.Time
}

func (s *session) do(fn func(d *dataset) error) error {
	if s.store == nil {
		return fn(s.data)
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return fn(s.store.data)
}

func bind(sess *session) repository.Repositories {
	return repository.Repositories{
		Staff:        &staffRepo{sess: sess},
		Availability: &availabilityRepo{sess: sess},
		Bookings:     &bookingRepo{sess: sess},
	}
}

func (s *Store) Repositories() repository.Repositories {
	return bind(&session{store: s, now: s.now})
}

// WithinTx runs fn against a private copy of the data and publishes it only when
// fn succeeds. fn must use the repositories it is given, not s.Repositories().
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.data.clone()
	if err := fn(ctx, bind(&session{data: work, now: s.now})); err != nil {
		return err
	}

	s.data = work
	return nil
}

func (s *Store) Ping(context.Context) error {
	return nil
}

func copyStaff(s *model.Staff) *model.Staff {
	c := *s
	c.Availabilities = nil
	return &c
}

func copyBlock(b model.AvailabilityBlock) model.AvailabilityBlock {
	c := b
	c.TimeRanges = append([]model.TimeRange{}, b.TimeRanges...)
	return c
}

func copyBooking(b *model.Booking) *model.Booking {
	c := *b
	c.Staff = nil
	return &c
}
