package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/studyplan/internal/constants"
)

// Clock is a time of day expressed in minutes from midnight of the plan date.
// Values past 24:00 belong to the following morning and are only produced for
// the overnight sleep block.
type Clock int

const nextDaySuffix = "+1"

func NewClock(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// ParseClock parses "HH:MM", "24:00" or "HH:MM+1".
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	offset := 0
	if strings.HasSuffix(s, nextDaySuffix) {
		offset = constants.MinutesPerDay
		s = strings.TrimSuffix(s, nextDaySuffix)
	}
	if s == "24:00" && offset == 0 {
		return Clock(constants.MinutesPerDay), nil
	}
	t, err := time.Parse(constants.TimeFormat, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q (expected HH:MM): %w", s, err)
	}
	return Clock(offset + t.Hour()*60 + t.Minute()), nil
}

func (c Clock) Minutes() int {
	return int(c)
}

func (c Clock) Add(minutes int) Clock {
	return c + Clock(minutes)
}

func (c Clock) String() string {
	m := int(c)
	if m == constants.MinutesPerDay {
		return "24:00"
	}
	suffix := ""
	if m > constants.MinutesPerDay {
		m -= constants.MinutesPerDay
		suffix = nextDaySuffix
	}
	return fmt.Sprintf("%02d:%02d%s", m/60, m%60, suffix)
}

// On returns the instant this clock value denotes on the given date.
func (c Clock) On(date time.Time) time.Time {
	y, mo, d := date.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, date.Location()).Add(time.Duration(c) * time.Minute)
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(b []byte) error {
	parsed, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
