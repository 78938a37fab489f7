package plans

import (
	"errors"
	"fmt"

	"github.com/julianstephens/studyplan/internal/cli"
	"github.com/julianstephens/studyplan/internal/storage"
	"github.com/julianstephens/studyplan/internal/utils"
)

type DayCmd struct {
	Date string `arg:"" help:"Date to show (YYYY-MM-DD, 'today' or 'tomorrow')." default:"today"`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	date, err := utils.ResolveDate(c.Date, settings.Timezone)
	if err != nil {
		return err
	}

	plan, err := ctx.Store.GetPlan(date)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Fprintf(ctx.Stdout(), "No saved plan for %s. Run 'studyplan plan --start %s --save' to create one.\n", date, date)
			return nil
		}
		return err
	}

	fmt.Fprint(ctx.Stdout(), cli.RenderDay(plan))
	return nil
}

type PlanDeleteCmd struct {
	Date string `arg:"" help:"Date of the plan to delete (YYYY-MM-DD)."`
}

func (c *PlanDeleteCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	date, err := utils.ResolveDate(c.Date, settings.Timezone)
	if err != nil {
		return err
	}
	if err := ctx.Store.DeletePlan(date); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Stdout(), "Deleted plan for %s\n", date)
	return nil
}
