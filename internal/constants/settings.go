package constants

const (
	// Lifestyle Settings
	SettingSleepHours    = "sleep_hours"
	SettingLunchMinutes  = "lunch_minutes"
	SettingDinnerMinutes = "dinner_minutes"
	SettingForbidAfter23 = "forbid_after_23"
	SettingForbidSundays = "forbid_sundays"

	// Planning Settings
	SettingStudyMode        = "study_mode"
	SettingPlanDays         = "plan_days"
	SettingWeaknessKeywords = "weakness_keywords"
	SettingTimezone         = "timezone"

	// Default Settings Values
	DefaultSleepHours    = 8.0
	DefaultLunchMinutes  = 60
	DefaultDinnerMinutes = 60
	DefaultForbidAfter23 = false
	DefaultForbidSundays = false
	DefaultStudyMode     = "normal"
	DefaultPlanDays      = 1
	DefaultTimezone      = "Local" // Use system local timezone by default
)
