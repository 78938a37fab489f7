package classes

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/studyplan/internal/cli"
	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/storage"
)

type ClassAddCmd struct {
	Label    string `arg:"" help:"Class or commitment name."`
	Start    string `short:"s" help:"Start time (HH:MM)." required:""`
	End      string `short:"e" help:"End time (HH:MM)." required:""`
	Weekdays string `short:"w" help:"Comma-separated weekdays it repeats on, e.g. mon,wed."`
	Date     string `help:"Single date (YYYY-MM-DD) for a one-off commitment."`
	Location string `short:"l" help:"Where it takes place."`
}

func (c *ClassAddCmd) Validate() error {
	if strings.TrimSpace(c.Label) == "" {
		return errors.New("label cannot be empty")
	}
	if (c.Weekdays == "") == (c.Date == "") {
		return errors.New("specify exactly one of --weekdays or --date")
	}
	start, err := models.ParseClock(c.Start)
	if err != nil {
		return fmt.Errorf("invalid start: %w", err)
	}
	end, err := models.ParseClock(c.End)
	if err != nil {
		return fmt.Errorf("invalid end: %w", err)
	}
	if end <= start {
		return errors.New("end must be after start")
	}
	return nil
}

func (c *ClassAddCmd) Run(ctx *cli.Context) error {
	base := models.FixedCommitment{
		Label:    c.Label,
		Location: c.Location,
		Date:     c.Date,
		Start:    c.Start,
		End:      c.End,
	}

	var commitments []models.FixedCommitment
	if c.Date != "" {
		commitments = append(commitments, base)
	} else {
		weekdays, err := cli.ParseWeekdays(c.Weekdays)
		if err != nil {
			return err
		}
		for _, wd := range weekdays {
			fc := base
			fc.Weekday = &wd
			commitments = append(commitments, fc)
		}
	}

	out := ctx.Stdout()
	for _, fc := range commitments {
		fc.ID = uuid.New().String()
		if err := ctx.Store.AddCommitment(fc); err != nil {
			return err
		}
		fmt.Fprintf(out, "Added class: %s %s %s-%s (ID: %s)\n", fc.Label, cli.FormatRecurrence(fc), fc.Start, fc.End, fc.ID)
	}
	return nil
}

type ClassListCmd struct{}

func (c *ClassListCmd) Run(ctx *cli.Context) error {
	commitments, err := ctx.Store.GetAllCommitments()
	if err != nil {
		return err
	}

	out := ctx.Stdout()
	if len(commitments) == 0 {
		fmt.Fprintln(out, "No classes found.")
		return nil
	}

	sort.SliceStable(commitments, func(i, j int) bool {
		return sortKey(commitments[i]) < sortKey(commitments[j])
	})
	for _, fc := range commitments {
		line := fmt.Sprintf("%s  %-20s %s-%s  %s", cli.ShortID(fc.ID), cli.FormatRecurrence(fc), fc.Start, fc.End, fc.Label)
		if fc.Location != "" {
			line += " @ " + fc.Location
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

// sortKey orders weekly commitments Monday first, then one-off ones by date.
func sortKey(fc models.FixedCommitment) string {
	if fc.Weekday != nil {
		return fmt.Sprintf("0-%d-%s", (int(*fc.Weekday)+6)%7, fc.Start)
	}
	return "1-" + fc.Date + "-" + fc.Start
}

type ClassDeleteCmd struct {
	ID string `arg:"" help:"Class ID (or unique prefix)."`
}

func (c *ClassDeleteCmd) Run(ctx *cli.Context) error {
	commitments, err := ctx.Store.GetAllCommitments()
	if err != nil {
		return err
	}
	var matches []models.FixedCommitment
	for _, fc := range commitments {
		if strings.HasPrefix(fc.ID, c.ID) {
			matches = append(matches, fc)
		}
	}
	switch len(matches) {
	case 0:
		return fmt.Errorf("class %s: %w", c.ID, storage.ErrNotFound)
	case 1:
	default:
		return fmt.Errorf("class prefix %q is ambiguous (%d matches)", c.ID, len(matches))
	}

	if err := ctx.Store.DeleteCommitment(matches[0].ID); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Stdout(), "Deleted class %s (%s)\n", matches[0].Label, matches[0].ID)
	return nil
}

