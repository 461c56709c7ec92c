package model

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/apperr"
	"github.com/Freeeeeet/staff_scheduler/internal/formatting"
)

type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

var weekdays = map[DayOfWeek]time.Weekday{
	Sunday:    time.Sunday,
	Monday:    time.Monday,
	Tuesday:   time.Tuesday,
	Wednesday: time.Wednesday,
	Thursday:  time.Thursday,
	Friday:    time.Friday,
	Saturday:  time.Saturday,
}

// ParseDayOfWeek accepts exactly one of the seven enumerated values.
func ParseDayOfWeek(s string) (DayOfWeek, error) {
	d := DayOfWeek(s)
	if !d.Valid() {
		return "", fmt.Errorf("invalid day of week %q", s)
	}
	return d, nil
}

func (d DayOfWeek) Valid() bool {
	_, ok := weekdays[d]
	return ok
}

// Weekday maps the enum onto time.Weekday (0 = Sunday).
func (d DayOfWeek) Weekday() time.Weekday {
	return weekdays[d]
}

// TimeRange is a half-open interval of minutes since midnight, [StartMinute, EndMinute).
// Values are only produced by NewTimeRange, so StartMinute < EndMinute holds.
type TimeRange struct {
	StartMinute int `json:"startMinute"`
	EndMinute   int `json:"endMinute"`
}

// NewTimeRange validates 0 <= start < end <= 1440.
// End may equal 1440 so a range can run until midnight.
func NewTimeRange(start, end int) (TimeRange, error) {
	if start < 0 || start >= formatting.MinutesPerDay {
		return TimeRange{}, apperr.Validation("startMinute", "startMinute must be between 0 and 1439")
	}
	if end <= 0 || end > formatting.MinutesPerDay {
		return TimeRange{}, apperr.Validation("endMinute", "endMinute must be between 1 and 1440")
	}
	if start >= end {
		return TimeRange{}, apperr.Validation("endMinute", "endMinute must be greater than startMinute")
	}
	return TimeRange{StartMinute: start, EndMinute: end}, nil
}

// Overlaps uses the half-open test, so ranges that only touch do not overlap.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.StartMinute < o.EndMinute && o.StartMinute < r.EndMinute
}

func (r TimeRange) String() string {
	return formatting.FormatMinuteRange(r.StartMinute, r.EndMinute)
}

// AvailabilityBlock is one staff member's working windows for a day of the week.
type AvailabilityBlock struct {
	ID         int64       `json:"id"`
	StaffID    int64       `json:"staffId"`
	DayOfWeek  DayOfWeek   `json:"dayOfWeek"`
	TimeRanges []TimeRange `json:"timeRanges"`
}

// AvailabilitySet is the full weekly availability of a staff member.
type AvailabilitySet []AvailabilityBlock

// ForDay collects the ranges declared for d across all blocks.
func (s AvailabilitySet) ForDay(d DayOfWeek) []TimeRange {
	var ranges []TimeRange
	for _, b := range s {
		if b.DayOfWeek == d {
			ranges = append(ranges, b.TimeRanges...)
		}
	}
	return ranges
}

// Validate checks every block. Duplicate days and overlapping ranges inside a day
// are accepted unless strict is set.
func (s AvailabilitySet) Validate(strict bool) error {
	seen := make(map[DayOfWeek]bool, len(s))
	for i, b := range s {
		if !b.DayOfWeek.Valid() {
			return apperr.Validation(fmt.Sprintf("availability[%d].dayOfWeek", i), "Invalid dayOfWeek")
		}
		for j, r := range b.TimeRanges {
			if _, err := NewTimeRange(r.StartMinute, r.EndMinute); err != nil {
				return apperr.Validation(fmt.Sprintf("availability[%d].timeRanges[%d]", i, j), "Invalid time range: start must be before end")
			}
		}
		if !strict {
			continue
		}
		if seen[b.DayOfWeek] {
			return apperr.Validation(fmt.Sprintf("availability[%d].dayOfWeek", i), fmt.Sprintf("Duplicate availability for %s", b.DayOfWeek))
		}
		seen[b.DayOfWeek] = true
	}

	if strict {
		for d := range seen {
			ranges := s.ForDay(d)
			for i := 0; i < len(ranges); i++ {
				for j := i + 1; j < len(ranges); j++ {
					if ranges[i].Overlaps(ranges[j]) {
						return apperr.Validation("availability", fmt.Sprintf("Overlapping time ranges on %s: %s and %s", d, ranges[i], ranges[j]))
					}
				}
			}
		}
	}

	return nil
}
