package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/apperr"
	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/schedule"
)

const overlapMessage = "This staff already has a booking during this time"

type staffRepo struct {
	sess *session
}

func (r *staffRepo) Create(_ context.Context, staff *model.Staff) error {
	return r.sess.do(func(d *dataset) error {
		for _, existing := range d.staff {
			if existing.Email == staff.Email {
				return apperr.Conflict("Email already exists")
			}
		}

		d.nextStaffID++
		staff.ID = d.nextStaffID
		staff.CreatedAt = r.sess.now().UTC()
		d.staff[staff.ID] = copyStaff(staff)
		return nil
	})
}

func (r *staffRepo) GetByID(_ context.Context, id int64) (*model.Staff, error) {
	var found *model.Staff
	err := r.sess.do(func(d *dataset) error {
		if s, ok := d.staff[id]; ok {
			found = copyStaff(s)
		}
		return nil
	})
	return found, err
}

// LockByID is GetByID: the store lock already serializes transactions.
func (r *staffRepo) LockByID(ctx context.Context, id int64) (*model.Staff, error) {
	return r.GetByID(ctx, id)
}

func (r *staffRepo) GetByEmail(_ context.Context, email string) (*model.Staff, error) {
	var found *model.Staff
	err := r.sess.do(func(d *dataset) error {
		for _, s := range d.staff {
			if s.Email == email {
				found = copyStaff(s)
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *staffRepo) List(_ context.Context, limit, offset int) ([]*model.Staff, error) {
	var page []*model.Staff
	err := r.sess.do(func(d *dataset) error {
		all := make([]*model.Staff, 0, len(d.staff))
		for _, s := range d.staff {
			all = append(all, s)
		}
		sort.Slice(all, func(i, j int) bool {
			if all[i].CreatedAt.Equal(all[j].CreatedAt) {
				return all[i].ID > all[j].ID
			}
			return all[i].CreatedAt.After(all[j].CreatedAt)
		})

		for i := offset; i < len(all) && len(page) < limit; i++ {
			page = append(page, copyStaff(all[i]))
		}
		return nil
	})
	return page, err
}

func (r *staffRepo) Count(context.Context) (int, error) {
	var n int
	err := r.sess.do(func(d *dataset) error {
		n = len(d.staff)
		return nil
	})
	return n, err
}

func (r *staffRepo) Update(_ context.Context, staff *model.Staff) error {
	return r.sess.do(func(d *dataset) error {
		if _, ok := d.staff[staff.ID]; !ok {
			return apperr.NotFound("Staff not found")
		}
		for id, existing := range d.staff {
			if id != staff.ID && existing.Email == staff.Email {
				return apperr.Conflict("Email already exists")
			}
		}

		stored := d.staff[staff.ID]
		stored.Name = staff.Name
		stored.Email = staff.Email
		stored.IsActive = staff.IsActive
		return nil
	})
}

// Delete mirrors the foreign keys: no cascade to bookings or availability.
func (r *staffRepo) Delete(_ context.Context, id int64) error {
	return r.sess.do(func(d *dataset) error {
		if _, ok := d.staff[id]; !ok {
			return apperr.NotFound("Staff not found")
		}
		for _, b := range d.bookings {
			if b.StaffID == id {
				return apperr.Conflict("Staff still has bookings")
			}
		}
		for _, b := range d.blocks {
			if b.StaffID == id {
				return fmt.Errorf("delete staff: availability %d still references staff %d", b.ID, id)
			}
		}

		delete(d.staff, id)
		return nil
	})
}

type availabilityRepo struct {
	sess *session
}

func (r *availabilityRepo) Create(_ context.Context, block *model.AvailabilityBlock) error {
	return r.sess.do(func(d *dataset) error {
		if _, ok := d.staff[block.StaffID]; !ok {
			return fmt.Errorf("create availability: staff %d does not exist", block.StaffID)
		}

		d.nextBlockID++
		block.ID = d.nextBlockID
		d.blocks = append(d.blocks, copyBlock(*block))
		return nil
	})
}

func (r *availabilityRepo) ListByStaffID(_ context.Context, staffID int64) (model.AvailabilitySet, error) {
	var set model.AvailabilitySet
	err := r.sess.do(func(d *dataset) error {
		for _, b := range d.blocks {
			if b.StaffID == staffID {
				set = append(set, copyBlock(b))
			}
		}
		return nil
	})
	return set, err
}

func (r *availabilityRepo) DeleteByStaffID(_ context.Context, staffID int64) error {
	return r.sess.do(func(d *dataset) error {
		kept := d.blocks[:0]
		for _, b := range d.blocks {
			if b.StaffID != staffID {
				kept = append(kept, b)
			}
		}
		d.blocks = kept
		return nil
	})
}

type bookingRepo struct {
	sess *session
}

// checkConstraints applies the schema checks of the bookings table to b.
func checkConstraints(d *dataset, b *model.Booking) error {
	if _, ok := d.staff[b.StaffID]; !ok {
		return apperr.InvalidReference("staffId", "Invalid staffId")
	}
	if !b.StartTime.Before(b.EndTime) {
		return fmt.Errorf("bookings_time_order: start %s is not before end %s", b.StartTime, b.EndTime)
	}
	if schedule.FindConflict(d.sortedBookings(), b.StaffID, b.StartTime, b.EndTime, b.ID) != nil {
		return apperr.Conflict(overlapMessage)
	}
	return nil
}

func (r *bookingRepo) Create(_ context.Context, booking *model.Booking) error {
	return r.sess.do(func(d *dataset) error {
		booking.ID = schedule.NoExclusion
		if err := checkConstraints(d, booking); err != nil {
			return err
		}

		d.nextBookingID++
		now := r.sess.now().UTC()
		booking.ID = d.nextBookingID
		booking.CreatedAt = now
		booking.UpdatedAt = now
		d.bookings[booking.ID] = copyBooking(booking)
		return nil
	})
}

func (r *bookingRepo) GetByID(_ context.Context, id int64) (*model.Booking, error) {
	var found *model.Booking
	err := r.sess.do(func(d *dataset) error {
		if b, ok := d.bookings[id]; ok {
			found = joinStaff(d, b)
		}
		return nil
	})
	return found, err
}

func (r *bookingRepo) LockByID(_ context.Context, id int64) (*model.Booking, error) {
	var found *model.Booking
	err := r.sess.do(func(d *dataset) error {
		if b, ok := d.bookings[id]; ok {
			found = copyBooking(b)
		}
		return nil
	})
	return found, err
}

func (r *bookingRepo) List(_ context.Context, staffID int64) ([]*model.Booking, error) {
	var list []*model.Booking
	err := r.sess.do(func(d *dataset) error {
		for _, b := range d.sortedBookings() {
			if staffID == 0 || b.StaffID == staffID {
				list = append(list, joinStaff(d, b))
			}
		}
		return nil
	})
	return list, err
}

func (r *bookingRepo) FindOverlapping(_ context.Context, staffID int64, start, end time.Time, excludeID int64) (*model.Booking, error) {
	var found *model.Booking
	err := r.sess.do(func(d *dataset) error {
		if b := schedule.FindConflict(d.sortedBookings(), staffID, start, end, excludeID); b != nil {
			found = copyBooking(b)
		}
		return nil
	})
	return found, err
}

func (r *bookingRepo) CountByStaffID(_ context.Context, staffID int64) (int, error) {
	var n int
	err := r.sess.do(func(d *dataset) error {
		for _, b := range d.bookings {
			if b.StaffID == staffID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *bookingRepo) Update(_ context.Context, booking *model.Booking) error {
	return r.sess.do(func(d *dataset) error {
		stored, ok := d.bookings[booking.ID]
		if !ok {
			return apperr.NotFound("Booking not found")
		}
		if err := checkConstraints(d, booking); err != nil {
			return err
		}

		booking.CreatedAt = stored.CreatedAt
		booking.UpdatedAt = r.sess.now().UTC()
		d.bookings[booking.ID] = copyBooking(booking)
		return nil
	})
}

func (r *bookingRepo) Delete(_ context.Context, id int64) error {
	return r.sess.do(func(d *dataset) error {
		if _, ok := d.bookings[id]; !ok {
			return apperr.NotFound("Booking not found")
		}
		delete(d.bookings, id)
		return nil
	})
}

func joinStaff(d *dataset, b *model.Booking) *model.Booking {
	c := copyBooking(b)
	if s, ok := d.staff[b.StaffID]; ok {
		c.Staff = copyStaff(s)
	}
	return c
}
