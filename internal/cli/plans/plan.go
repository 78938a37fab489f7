package plans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/studyplan/internal/cli"
	"github.com/julianstephens/studyplan/internal/logger"
	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/storage"
	"github.com/julianstephens/studyplan/internal/utils"
)

type PlanCmd struct {
	Start string `help:"First day to plan (YYYY-MM-DD, 'today' or 'tomorrow')." default:"today"`
	Days  int    `short:"n" help:"Number of days to plan (defaults to the plan_days setting)."`
	Mode  string `short:"m" help:"Study mode (relaxed|normal|sprint); defaults to the study_mode setting."`
	Input string `short:"i" help:"Read the schedule request from a JSON file instead of storage." type:"existingfile"`
	AI    bool   `help:"Ask the OpenAI planner first and fall back to the local scheduler."`
	Save  bool   `help:"Save the generated day plans."`
	Yes   bool   `short:"y" help:"Save without asking for confirmation."`
	JSON  bool   `name:"json" help:"Print the schedule as JSON."`
}

func (c *PlanCmd) Validate() error {
	if c.Days < 0 {
		return errors.New("--days must not be negative")
	}
	if c.Mode != "" {
		if _, err := models.ParseStudyMode(c.Mode); err != nil {
			return err
		}
	}
	return nil
}

func (c *PlanCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}

	req, err := c.request(ctx, settings)
	if err != nil {
		return err
	}

	planner, err := ctx.Planner(settings, c.AI)
	if err != nil {
		return err
	}

	schedule, err := planner.Generate(context.Background(), req)
	if err != nil {
		return err
	}

	out := ctx.Stdout()
	if c.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(schedule); err != nil {
			return err
		}
	} else {
		fmt.Fprint(out, cli.RenderSchedule(schedule))
	}

	if !c.Save {
		return nil
	}
	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title("Save this plan?").
			Description(fmt.Sprintf("%d day(s) starting %s will replace any saved plans for those dates.", len(schedule.Days), req.StartDate)).
			Affirmative("Save").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(out, "Plan not saved.")
			return nil
		}
	}

	ctx.Snapshot()
	return savePlans(ctx.Store, schedule, out)
}

// request reads --input when given, otherwise assembles the request from storage.
func (c *PlanCmd) request(ctx *cli.Context, settings models.Settings) (models.ScheduleRequest, error) {
	if c.Input != "" {
		raw, err := os.ReadFile(c.Input)
		if err != nil {
			return models.ScheduleRequest{}, err
		}
		var req models.ScheduleRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return models.ScheduleRequest{}, fmt.Errorf("invalid request file %s: %w", c.Input, err)
		}
		if c.Days > 0 {
			req.NumberOfDays = c.Days
		}
		if c.Mode != "" {
			req.StudyMode = models.StudyMode(c.Mode)
		}
		return req, nil
	}

	start, err := utils.ResolveDate(c.Start, settings.Timezone)
	if err != nil {
		return models.ScheduleRequest{}, err
	}
	return storage.BuildRequest(ctx.Store, start, c.Days, c.Mode)
}

func savePlans(sink storage.PlanSink, schedule models.Schedule, out io.Writer) error {
	for _, day := range schedule.Days {
		if err := sink.SavePlan(day); err != nil {
			return fmt.Errorf("failed to save plan for %s: %w", day.Date, err)
		}
		logger.Debug("Saved day plan", "date", day.Date, "blocks", len(day.Blocks))
	}
	fmt.Fprintf(out, "Saved %d day plan(s).\n", len(schedule.Days))
	return nil
}
