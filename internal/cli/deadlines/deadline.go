package deadlines

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/studyplan/internal/cli"
	"github.com/julianstephens/studyplan/internal/constants"
	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/storage"
	"github.com/julianstephens/studyplan/internal/utils"
)

type DeadlineAddCmd struct {
	Title    string  `arg:"" help:"What is due."`
	Due      string  `short:"d" help:"Due date (YYYY-MM-DD, \"YYYY-MM-DD HH:MM\" or RFC3339)." required:""`
	Hours    float64 `short:"H" help:"Estimated hours of work." required:""`
	Priority string  `short:"p" help:"Priority (low|medium|high|urgent)." default:"medium"`
	Details  string  `help:"Free-form notes, e.g. 'weak at integrals'."`
}

func (c *DeadlineAddCmd) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return errors.New("title cannot be empty")
	}
	if c.Hours < 0 || math.IsNaN(c.Hours) {
		return errors.New("hours must not be negative")
	}
	if c.Hours > constants.MaxEstimatedHours {
		return fmt.Errorf("hours must be at most %d", constants.MaxEstimatedHours)
	}
	if _, err := models.ParsePriority(c.Priority); err != nil {
		return err
	}
	return nil
}

func (c *DeadlineAddCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	loc, err := cli.Location(settings)
	if err != nil {
		return err
	}
	due, err := utils.ParseDue(c.Due, loc)
	if err != nil {
		return err
	}
	priority, err := models.ParsePriority(c.Priority)
	if err != nil {
		return err
	}

	d := models.Deadline{
		ID:             uuid.New().String(),
		Title:          c.Title,
		Due:            due,
		EstimatedHours: c.Hours,
		Priority:       priority,
		Details:        c.Details,
	}
	if err := ctx.Store.AddDeadline(d); err != nil {
		return err
	}

	fmt.Fprintf(ctx.Stdout(), "Added deadline: %s due %s (ID: %s)\n", d.Title, d.Due.In(loc).Format(constants.DueFormat), d.ID)
	return nil
}

type DeadlineListCmd struct{}

func (c *DeadlineListCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	loc, err := cli.Location(settings)
	if err != nil {
		return err
	}
	deadlines, err := ctx.Store.GetAllDeadlines()
	if err != nil {
		return err
	}

	out := ctx.Stdout()
	if len(deadlines) == 0 {
		fmt.Fprintln(out, "No deadlines found.")
		return nil
	}

	sort.SliceStable(deadlines, func(i, j int) bool { return deadlines[i].Due.Before(deadlines[j].Due) })
	for _, d := range deadlines {
		fmt.Fprintf(out, "%s  %-16s %5.1fh  %-6s  %s\n", cli.ShortID(d.ID), d.Due.In(loc).Format(constants.DueFormat), d.EstimatedHours, d.Priority, d.Title)
		if d.Details != "" {
			fmt.Fprintf(out, "          %s\n", d.Details)
		}
	}
	return nil
}

type DeadlineDeleteCmd struct {
	ID string `arg:"" help:"Deadline ID (or unique prefix)."`
}

func (c *DeadlineDeleteCmd) Run(ctx *cli.Context) error {
	id, err := resolveID(ctx.Store, c.ID)
	if err != nil {
		return err
	}
	if err := ctx.Store.DeleteDeadline(id); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Stdout(), "Deleted deadline %s\n", id)
	return nil
}

// resolveID expands a unique ID prefix to the full deadline ID.
func resolveID(store storage.Provider, prefix string) (string, error) {
	deadlines, err := store.GetAllDeadlines()
	if err != nil {
		return "", err
	}
	var matches []string
	for _, d := range deadlines {
		if d.ID == prefix {
			return d.ID, nil
		}
		if strings.HasPrefix(d.ID, prefix) {
			matches = append(matches, d.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("deadline %s: %w", prefix, storage.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("deadline prefix %q is ambiguous (%d matches)", prefix, len(matches))
	}
}
