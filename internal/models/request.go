package models

import (
	"fmt"
	"strings"
)

type StudyMode string

const (
	ModeRelaxed StudyMode = "relaxed"
	ModeNormal  StudyMode = "normal"
	ModeSprint  StudyMode = "sprint"
)

// ParseStudyMode accepts any casing; an empty string means normal.
func ParseStudyMode(s string) (StudyMode, error) {
	switch m := StudyMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeNormal, nil
	case ModeRelaxed, ModeNormal, ModeSprint:
		return m, nil
	default:
		return "", fmt.Errorf("invalid study mode %q (expected relaxed|normal|sprint)", s)
	}
}

// LifestylePreferences are soft defaults; zero values fall back to the
// configured defaults.
type LifestylePreferences struct {
	SleepHours    float64 `json:"sleep_hours"`
	LunchMinutes  int     `json:"lunch_minutes"`
	DinnerMinutes int     `json:"dinner_minutes"`
	ForbidAfter23 bool    `json:"forbid_after_23"`
	ForbidSundays bool    `json:"forbid_sundays"`
}

type HardLimits struct {
	ForbidAfter23 bool `json:"forbid_after_23"`
	ForbidSundays bool `json:"forbid_sundays"`
}

type ScheduleRequest struct {
	Deadlines        []Deadline           `json:"deadlines"`
	FixedCommitments []FixedCommitment    `json:"fixed_commitments"`
	Lifestyle        LifestylePreferences `json:"lifestyle"`
	StudyMode        StudyMode            `json:"study_mode"`
	HardLimits       HardLimits           `json:"hard_limits"`
	NumberOfDays     int                  `json:"number_of_days"`
	StartDate        string               `json:"start_date"`         // YYYY-MM-DD format
	Timezone         string               `json:"timezone,omitempty"` // IANA name, empty means UTC
}

// ForbidAfter23 merges the lifestyle preference with the hard limit.
func (r ScheduleRequest) ForbidAfter23() bool {
	return r.HardLimits.ForbidAfter23 || r.Lifestyle.ForbidAfter23
}

// ForbidSundays merges the lifestyle preference with the hard limit.
func (r ScheduleRequest) ForbidSundays() bool {
	return r.HardLimits.ForbidSundays || r.Lifestyle.ForbidSundays
}
