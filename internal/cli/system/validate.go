package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/studyplan/internal/cli"
	"github.com/julianstephens/studyplan/internal/constants"
	"github.com/julianstephens/studyplan/internal/storage"
	"github.com/julianstephens/studyplan/internal/utils"
	"github.com/julianstephens/studyplan/internal/validation"
)

type ValidateCmd struct {
	Date string `help:"First date to check (YYYY-MM-DD, 'today' or 'tomorrow')." default:"today"`
	Days int    `short:"n" help:"Number of days to check." default:"7"`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	loc, err := cli.Location(settings)
	if err != nil {
		return err
	}
	dateStr, err := utils.ResolveDate(c.Date, settings.Timezone)
	if err != nil {
		return err
	}
	start, err := utils.ParseDateInLocation(dateStr, loc)
	if err != nil {
		return err
	}
	days := c.Days
	if days < 1 {
		days = 1
	}

	commitments, err := ctx.Store.GetAllCommitments()
	if err != nil {
		return err
	}
	deadlines, err := ctx.Store.GetAllDeadlines()
	if err != nil {
		return err
	}

	v := validation.New()
	result := v.ValidateCommitments(commitments, start, days)
	result.Conflicts = append(result.Conflicts, v.ValidateDeadlines(deadlines, time.Now().In(loc)).Conflicts...)

	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format(constants.DateFormat)
		plan, err := ctx.Store.GetPlan(date)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		result.Conflicts = append(result.Conflicts, v.ValidatePlan(plan, commitments).Conflicts...)
	}

	out := ctx.Stdout()
	if !result.HasConflicts() {
		fmt.Fprintf(out, "No problems found for %d day(s) starting %s.\n", days, dateStr)
		return nil
	}
	fmt.Fprint(out, result.FormatReport())
	return fmt.Errorf("validation found %d problem(s)", len(result.Conflicts))
}
