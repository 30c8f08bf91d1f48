package subject

import (
	"fmt"

	"github.com/pkg/errors"
)

// MaxScheduleEntries caps how many weekly meeting slots a subject may have.
const MaxScheduleEntries = 10

var (
	// errors
	ErrScheduleTooLong = fmt.Errorf("a subject may have at most %d schedule entries", MaxScheduleEntries)
	ErrBadWeekday      = errors.New("day must be a weekday name (Monday..Sunday)")
	ErrBadTimeFormat   = errors.New("times must be in 24-hour HH:mm format")
	ErrEndBeforeStart  = errors.New("end time must be after start time")
	ErrScheduleOverlap = errors.New("schedule entries overlap")

	weekdays = map[string]struct{}{
		"Monday":    {},
		"Tuesday":   {},
		"Wednesday": {},
		"Thursday":  {},
		"Friday":    {},
		"Saturday":  {},
		"Sunday":    {},
	}
)

// ScheduleEntry is one weekly recurring meeting slot of a subject.
type ScheduleEntry struct {
	Day   string `json:"day"`
	Start string `json:"start"` // "HH:mm"
	End   string `json:"end"`   // "HH:mm"
}

// parseClock parses a strict 24-hour "HH:mm" value: exactly two digits,
// a colon, exactly two digits ("8:00" is rejected).
func parseClock(s string) (hour, min int, err error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, ErrBadTimeFormat
	}
	for _, i := range [...]int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, 0, ErrBadTimeFormat
		}
	}
	hour = int(s[0]-'0')*10 + int(s[1]-'0')
	min = int(s[3]-'0')*10 + int(s[4]-'0')
	if hour > 23 || min > 59 {
		return 0, 0, ErrBadTimeFormat
	}
	return hour, min, nil
}

// minuteOfDay converts a validated "HH:mm" to minutes since midnight.
func minuteOfDay(s string) int {
	h, m, _ := parseClock(s)
	return h*60 + m
}

// check validates one entry: weekday name, both clock values and end > start.
func (e ScheduleEntry) check() error {
	if _, ok := weekdays[e.Day]; !ok {
		return ErrBadWeekday
	}
	startH, startM, err := parseClock(e.Start)
	if err != nil {
		return err
	}
	endH, endM, err := parseClock(e.End)
	if err != nil {
		return err
	}
	if endH*60+endM <= startH*60+startM {
		return ErrEndBeforeStart
	}
	return nil
}

// overlaps reports whether two entries share a day with intersecting
// [start,end) ranges. Half-open so back-to-back meetings are allowed.
func (e ScheduleEntry) overlaps(other ScheduleEntry) bool {
	if e.Day != other.Day {
		return false
	}
	return minuteOfDay(e.Start) < minuteOfDay(other.End) &&
		minuteOfDay(other.Start) < minuteOfDay(e.End)
}

// ValidateSchedule checks a candidate schedule list: count limit first,
// then per-entry format, then pairwise overlap. The first failure wins;
// the list is never modified.
func ValidateSchedule(entries []ScheduleEntry) error {
	if len(entries) > MaxScheduleEntries {
		return ErrScheduleTooLong
	}
	for _, e := range entries {
		if err := e.check(); err != nil {
			return err
		}
	}
	// n <= 10; quadratic scan is fine
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			if entries[i].overlaps(entries[j]) {
				return ErrScheduleOverlap
			}
		}
	}
	return nil
}
