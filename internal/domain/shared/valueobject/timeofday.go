// Package valueobject contains immutable value types shared across domains.
package valueobject

import (
	"database/sql/driver"
	"fmt"
)

// TimeOfDay is a minute-resolution wall-clock time stored as minutes since
// midnight. It exists so schedule comparisons are integer comparisons rather
// than string comparisons on "HH:MM" values, where a missing zero pad would
// silently reorder the day.
type TimeOfDay int

// ParseTimeOfDay parses a strict zero-padded 24-hour "HH:MM" string.
// "9:00" is rejected; only "09:00" is accepted.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time of day %q: want zero-padded HH:MM", s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("invalid time of day %q: want zero-padded HH:MM", s)
		}
	}
	hour := int(s[0]-'0')*10 + int(s[1]-'0')
	minute := int(s[3]-'0')*10 + int(s[4]-'0')
	if hour > 23 {
		return 0, fmt.Errorf("invalid time of day %q: hour out of range", s)
	}
	if minute > 59 {
		return 0, fmt.Errorf("invalid time of day %q: minute out of range", s)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// MustTimeOfDay parses s and panics on error. For tests and constants only.
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// String formats the time as zero-padded "HH:MM"
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Before reports whether t is strictly earlier than other
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t < other
}

// IsValid reports whether t is within a single day
func (t TimeOfDay) IsValid() bool {
	return t >= 0 && t < 24*60
}

// Overlaps reports whether the half-open interval [t, tEnd) overlaps
// [s, sEnd). Adjacent intervals (tEnd == s) do not overlap.
func Overlaps(start, end, otherStart, otherEnd TimeOfDay) bool {
	return start < otherEnd && otherStart < end
}

// MarshalJSON encodes the time as an "HH:MM" string
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON decodes an "HH:MM" string
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid time of day JSON %s", data)
	}
	parsed, err := ParseTimeOfDay(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer, persisting the minute count
func (t TimeOfDay) Value() (driver.Value, error) {
	return int64(t), nil
}

// Scan implements sql.Scanner
func (t *TimeOfDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case int64:
		*t = TimeOfDay(v)
		return nil
	case nil:
		*t = 0
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", src)
	}
}
