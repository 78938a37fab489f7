package models

import (
	"time"

	"github.com/julianstephens/studyplan/internal/constants"
)

// FixedCommitment is an immovable block such as a class. It recurs on Weekday
// or happens once on Date; Start and End are HH:MM on that day.
type FixedCommitment struct {
	ID       string        `json:"id,omitempty"`
	Label    string        `json:"label"`
	Location string        `json:"location,omitempty"`
	Weekday  *time.Weekday `json:"weekday,omitempty"`
	Date     string        `json:"date,omitempty"` // YYYY-MM-DD format
	Start    string        `json:"start"`          // HH:MM format
	End      string        `json:"end"`            // HH:MM format
}

// OccursOn reports whether the commitment takes place on the given date.
func (c FixedCommitment) OccursOn(date time.Time) bool {
	if c.Date != "" {
		return c.Date == date.Format(constants.DateFormat)
	}
	if c.Weekday != nil {
		return *c.Weekday == date.Weekday()
	}
	return false
}

// Span returns the parsed start and end of the commitment.
func (c FixedCommitment) Span() (Clock, Clock, error) {
	start, err := ParseClock(c.Start)
	if err != nil {
		return 0, 0, err
	}
	end, err := ParseClock(c.End)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
