package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/studyplan/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingSleepHours:
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing sleep_hours: %w", err)
			}
			settings.SleepHours = v
		case constants.SettingLunchMinutes:
			if _, err := fmt.Sscanf(value, "%d", &settings.LunchMinutes); err != nil {
				return Settings{}, fmt.Errorf("parsing lunch_minutes: %w", err)
			}
		case constants.SettingDinnerMinutes:
			if _, err := fmt.Sscanf(value, "%d", &settings.DinnerMinutes); err != nil {
				return Settings{}, fmt.Errorf("parsing dinner_minutes: %w", err)
			}
		case constants.SettingForbidAfter23:
			settings.ForbidAfter23 = value == "true"
		case constants.SettingForbidSundays:
			settings.ForbidSundays = value == "true"
		case constants.SettingStudyMode:
			settings.StudyMode = value
		case constants.SettingPlanDays:
			if _, err := fmt.Sscanf(value, "%d", &settings.PlanDays); err != nil {
				return Settings{}, fmt.Errorf("parsing plan_days: %w", err)
			}
		case constants.SettingWeaknessKeywords:
			settings.WeaknessKeywords = SplitKeywords(value)
		case constants.SettingTimezone:
			settings.Timezone = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingSleepHours:       strconv.FormatFloat(settings.SleepHours, 'f', -1, 64),
		constants.SettingLunchMinutes:     fmt.Sprintf("%d", settings.LunchMinutes),
		constants.SettingDinnerMinutes:    fmt.Sprintf("%d", settings.DinnerMinutes),
		constants.SettingForbidAfter23:    fmt.Sprintf("%v", settings.ForbidAfter23),
		constants.SettingForbidSundays:    fmt.Sprintf("%v", settings.ForbidSundays),
		constants.SettingStudyMode:        settings.StudyMode,
		constants.SettingPlanDays:         fmt.Sprintf("%d", settings.PlanDays),
		constants.SettingWeaknessKeywords: strings.Join(settings.WeaknessKeywords, ","),
		constants.SettingTimezone:         settings.Timezone,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.SleepHours == 0 {
		settings.SleepHours = constants.DefaultSleepHours
	}
	if settings.LunchMinutes == 0 {
		settings.LunchMinutes = constants.DefaultLunchMinutes
	}
	if settings.DinnerMinutes == 0 {
		settings.DinnerMinutes = constants.DefaultDinnerMinutes
	}
	if settings.StudyMode == "" {
		settings.StudyMode = constants.DefaultStudyMode
	}
	if settings.PlanDays == 0 {
		settings.PlanDays = constants.DefaultPlanDays
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
}

// DefaultSettings returns a Settings value with every default applied.
func DefaultSettings() Settings {
	s := Settings{
		ForbidAfter23: constants.DefaultForbidAfter23,
		ForbidSundays: constants.DefaultForbidSundays,
	}
	ApplyDefaultSettings(&s)
	return s
}

// SplitKeywords splits a comma-separated keyword list, dropping blanks.
func SplitKeywords(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
