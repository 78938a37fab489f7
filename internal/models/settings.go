package models

// Settings represents application-wide settings
type Settings struct {
	SleepHours       float64  `json:"sleep_hours"`       // preferred nightly sleep, e.g. 8
	LunchMinutes     int      `json:"lunch_minutes"`     // preferred lunch duration
	DinnerMinutes    int      `json:"dinner_minutes"`    // preferred dinner duration
	ForbidAfter23    bool     `json:"forbid_after_23"`   // never study after 23:00
	ForbidSundays    bool     `json:"forbid_sundays"`    // Sundays are rest days
	StudyMode        string   `json:"study_mode"`        // relaxed, normal or sprint
	PlanDays         int      `json:"plan_days"`         // days generated by `plan` when --days is omitted
	WeaknessKeywords []string `json:"weakness_keywords"` // extra terms that trigger the effort bump
	Timezone         string   `json:"timezone"`          // IANA timezone name (e.g. "Asia/Shanghai", or "Local" for system timezone)
}

// Lifestyle returns the lifestyle preferences stored in the settings.
func (s Settings) Lifestyle() LifestylePreferences {
	return LifestylePreferences{
		SleepHours:    s.SleepHours,
		LunchMinutes:  s.LunchMinutes,
		DinnerMinutes: s.DinnerMinutes,
		ForbidAfter23: s.ForbidAfter23,
		ForbidSundays: s.ForbidSundays,
	}
}
