package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/studyplan/internal/cli"
	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	SleepHours       *float64 `help:"Preferred hours of sleep per night."`
	LunchMinutes     *int     `help:"Preferred lunch length in minutes."`
	DinnerMinutes    *int     `help:"Preferred dinner length in minutes."`
	ForbidAfter23    *bool    `name:"forbid-after-23" help:"Never schedule study after 23:00."`
	ForbidSundays    *bool    `help:"Keep Sundays free of study."`
	StudyMode        *string  `help:"Default study mode (relaxed|normal|sprint)."`
	PlanDays         *int     `help:"Days generated by 'plan' when --days is omitted."`
	WeaknessKeywords *string  `help:"Comma-separated extra phrases that mark a deadline as a weak area."`
	Timezone         *string  `help:"IANA timezone name, or 'Local'."`
}

func (c *SettingsCmd) Validate() error {
	if c.SleepHours != nil && (*c.SleepHours < 6 || *c.SleepHours > 16) {
		return errors.New("--sleep-hours must be between 6 and 16")
	}
	if c.LunchMinutes != nil && (*c.LunchMinutes < 15 || *c.LunchMinutes > 240) {
		return errors.New("--lunch-minutes must be between 15 and 240")
	}
	if c.DinnerMinutes != nil && (*c.DinnerMinutes < 15 || *c.DinnerMinutes > 240) {
		return errors.New("--dinner-minutes must be between 15 and 240")
	}
	if c.StudyMode != nil {
		if _, err := models.ParseStudyMode(*c.StudyMode); err != nil {
			return err
		}
	}
	if c.PlanDays != nil && (*c.PlanDays < 1 || *c.PlanDays > 31) {
		return errors.New("--plan-days must be between 1 and 31")
	}
	if c.Timezone != nil && !utils.ValidateTimezone(*c.Timezone) {
		return fmt.Errorf("unknown timezone %q", *c.Timezone)
	}
	return nil
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}

	out := ctx.Stdout()
	if c.List {
		fmt.Fprintln(out, "Lifestyle:")
		fmt.Fprintf(out, "  Sleep Hours:       %v\n", settings.SleepHours)
		fmt.Fprintf(out, "  Lunch Minutes:     %d\n", settings.LunchMinutes)
		fmt.Fprintf(out, "  Dinner Minutes:    %d\n", settings.DinnerMinutes)
		fmt.Fprintf(out, "  Forbid After 23:   %v\n", settings.ForbidAfter23)
		fmt.Fprintf(out, "  Forbid Sundays:    %v\n", settings.ForbidSundays)
		fmt.Fprintln(out, "\nPlanning:")
		fmt.Fprintf(out, "  Study Mode:        %s\n", settings.StudyMode)
		fmt.Fprintf(out, "  Plan Days:         %d\n", settings.PlanDays)
		fmt.Fprintf(out, "  Weakness Keywords: %s\n", strings.Join(settings.WeaknessKeywords, ", "))
		fmt.Fprintf(out, "  Timezone:          %s\n", settings.Timezone)
		return nil
	}

	updated := false
	if c.SleepHours != nil {
		settings.SleepHours = *c.SleepHours
		updated = true
	}
	if c.LunchMinutes != nil {
		settings.LunchMinutes = *c.LunchMinutes
		updated = true
	}
	if c.DinnerMinutes != nil {
		settings.DinnerMinutes = *c.DinnerMinutes
		updated = true
	}
	if c.ForbidAfter23 != nil {
		settings.ForbidAfter23 = *c.ForbidAfter23
		updated = true
	}
	if c.ForbidSundays != nil {
		settings.ForbidSundays = *c.ForbidSundays
		updated = true
	}
	if c.StudyMode != nil {
		mode, _ := models.ParseStudyMode(*c.StudyMode)
		settings.StudyMode = string(mode)
		updated = true
	}
	if c.PlanDays != nil {
		settings.PlanDays = *c.PlanDays
		updated = true
	}
	if c.WeaknessKeywords != nil {
		settings.WeaknessKeywords = models.SplitKeywords(*c.WeaknessKeywords)
		updated = true
	}
	if c.Timezone != nil {
		settings.Timezone = *c.Timezone
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Fprintln(out, "Settings updated successfully.")
	} else {
		fmt.Fprintln(out, "No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
