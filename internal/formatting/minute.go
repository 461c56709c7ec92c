package formatting

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is the exclusive upper bound of a minute-of-day value.
const MinutesPerDay = 24 * 60

// FormatMinute renders a minute of the day on a 12-hour clock: 0 -> "12:00 AM", 750 -> "12:30 PM".
// Values wrap around the day, so 1440 (the end of a range running to midnight) is "12:00 AM".
func FormatMinute(minute int) string {
	minute = ((minute % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	h := minute / 60
	m := minute % 60

	hour := h % 12
	if hour == 0 {
		hour = 12
	}
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}

	return fmt.Sprintf("%d:%02d %s", hour, m, suffix)
}

// FormatMinuteRange renders [start, end) as "9:00 AM - 5:00 PM"
func FormatMinuteRange(start, end int) string {
	return FormatMinute(start) + " - " + FormatMinute(end)
}

// ParseMinute is the inverse of FormatMinute.
func ParseMinute(s string) (int, error) {
	clock, suffix, ok := strings.Cut(strings.TrimSpace(s), " ")
	if !ok {
		return 0, fmt.Errorf("parse minute %q: missing AM/PM suffix", s)
	}

	var offset int
	switch strings.ToUpper(strings.TrimSpace(suffix)) {
	case "AM":
	case "PM":
		offset = 12
	default:
		return 0, fmt.Errorf("parse minute %q: bad suffix", s)
	}

	hh, mm, ok := strings.Cut(clock, ":")
	if !ok || len(mm) != 2 {
		return 0, fmt.Errorf("parse minute %q: expected h:mm", s)
	}

	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 1 || hour > 12 {
		return 0, fmt.Errorf("parse minute %q: bad hour", s)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("parse minute %q: bad minute", s)
	}

	return ((hour%12)+offset)*60 + minute, nil
}
