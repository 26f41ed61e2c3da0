package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"facility/shared/constant"
)

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour
)

var ErrInvalidClock = errors.New("invalid clock time, expected HH:MM")

// Clock is a wall-clock time of day with minute precision, stored as minutes since midnight.
type Clock int

func NewClock(hour, minute int) Clock {
	return Clock(hour*minutesPerHour + minute)
}

// ParseClock accepts "15:04" and "15:04:05". The seconds, when present, must be zero.
func ParseClock(value string) (Clock, error) {
	for _, layout := range []string{constant.ClockFormat, constant.SQLTimeFormat} {
		t, err := time.Parse(layout, value)
		if err == nil && t.Second() == 0 {
			return clockOf(t), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
}

func clockOf(t time.Time) Clock {
	return NewClock(t.Hour(), t.Minute())
}

func (c Clock) Hour() int {
	return int(c) / minutesPerHour
}

func (c Clock) Minute() int {
	return int(c) % minutesPerHour
}

func (c Clock) Valid() bool {
	return c >= 0 && c < minutesPerDay
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(text []byte) error {
	parsed, err := ParseClock(string(text))
	if err != nil {
		return err
	}

	*c = parsed

	return nil
}

// Value implements driver.Valuer for TIME columns.
func (c Clock) Value() (driver.Value, error) {
	return fmt.Sprintf("%02d:%02d:00", c.Hour(), c.Minute()), nil
}

// Scan implements sql.Scanner. lib/pq decodes TIME columns into time.Time on 0000-01-01.
func (c *Clock) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*c = clockOf(v)

		return nil
	case []byte:
		return c.UnmarshalText(v)
	case string:
		return c.UnmarshalText([]byte(v))
	case int64:
		*c = Clock(v)

		return nil
	default:
		return fmt.Errorf("cannot scan %T into Clock", src)
	}
}
