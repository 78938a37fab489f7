package plans

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/studyplan/internal/backup"
	"github.com/julianstephens/studyplan/internal/cli"
	apperrors "github.com/julianstephens/studyplan/internal/errors"
	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/storage"
	"github.com/julianstephens/studyplan/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	settings.Timezone = "UTC"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}

	out := &bytes.Buffer{}
	return &cli.Context{Store: store, Out: out}, out
}

func seed(t *testing.T, store storage.Provider) {
	t.Helper()
	mon := time.Monday
	if err := store.AddDeadline(models.Deadline{
		ID:             "essay",
		Title:          "History essay",
		Due:            time.Date(2026, 3, 5, 17, 0, 0, 0, time.UTC),
		EstimatedHours: 6,
		Priority:       models.PriorityHigh,
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.AddCommitment(models.FixedCommitment{
		ID: "lecture", Label: "Lecture", Location: "Room 101", Weekday: &mon, Start: "10:00", End: "12:00",
	}); err != nil {
		t.Fatal(err)
	}
}

func TestPlanCmd_SaveAndShow(t *testing.T) {
	ctx, out := setupTestDB(t)
	seed(t, ctx.Store)

	cmd := &PlanCmd{Start: "2026-03-02", Days: 2, Save: true, Yes: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	for _, want := range []string{"2026-03-02", "2026-03-03", "History essay", "Lecture", "Workload:", "Saved 2 day plan(s)."} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("plan output missing %q", want)
		}
	}

	plan, err := ctx.Store.GetPlan("2026-03-02")
	if err != nil {
		t.Fatalf("GetPlan() error = %v", err)
	}
	if len(plan.BlocksOf(models.CategoryClass)) != 1 {
		t.Errorf("expected saved lecture block, got %+v", plan.Blocks)
	}

	out.Reset()
	if err := (&DayCmd{Date: "2026-03-02"}).Run(ctx); err != nil {
		t.Fatalf("day failed: %v", err)
	}
	if !strings.Contains(out.String(), "Room 101") {
		t.Errorf("day output missing class location: %q", out.String())
	}

	if err := (&PlanDeleteCmd{Date: "2026-03-02"}).Run(ctx); err != nil {
		t.Fatalf("plans delete failed: %v", err)
	}
	out.Reset()
	if err := (&DayCmd{Date: "2026-03-02"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No saved plan") {
		t.Errorf("expected no saved plan, got %q", out.String())
	}
}

func TestPlanCmd_JSONFromInput(t *testing.T) {
	ctx, out := setupTestDB(t)

	req := models.ScheduleRequest{
		Deadlines: []models.Deadline{{
			ID: "lab", Title: "Lab report", Due: time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC), EstimatedHours: 3,
		}},
		StudyMode:    models.ModeSprint,
		NumberOfDays: 1,
		StartDate:    "2026-03-03",
	}
	raw, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	input := filepath.Join(t.TempDir(), "request.json")
	if err := os.WriteFile(input, raw, 0600); err != nil {
		t.Fatal(err)
	}

	if err := (&PlanCmd{Input: input, Days: 2, JSON: true}).Run(ctx); err != nil {
		t.Fatalf("plan failed: %v", err)
	}

	var s models.Schedule
	if err := json.Unmarshal(out.Bytes(), &s); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if len(s.Days) != 2 {
		t.Fatalf("expected --days to override the file, got %d days", len(s.Days))
	}
	if s.Days[0].Date != "2026-03-03" {
		t.Errorf("first day = %s", s.Days[0].Date)
	}
	if _, err := ctx.Store.GetPlan("2026-03-03"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("plan should not be saved without --save, got %v", err)
	}
}

func TestPlanCmd_Conflict(t *testing.T) {
	ctx, _ := setupTestDB(t)
	for _, c := range []models.FixedCommitment{
		{ID: "a", Label: "Lab", Date: "2026-03-02", Start: "09:00", End: "11:00"},
		{ID: "b", Label: "Seminar", Date: "2026-03-02", Start: "10:00", End: "12:00"},
	} {
		if err := ctx.Store.AddCommitment(c); err != nil {
			t.Fatal(err)
		}
	}

	err := (&PlanCmd{Start: "2026-03-02", Days: 1}).Run(ctx)
	if !errors.Is(err, apperrors.ErrConflictingCommitments) {
		t.Errorf("expected conflict error, got %v", err)
	}
}

func TestPlanCmd_Validate(t *testing.T) {
	if err := (&PlanCmd{Days: -1}).Validate(); err == nil {
		t.Error("expected error for negative days")
	}
	if err := (&PlanCmd{Mode: "cram"}).Validate(); err == nil {
		t.Error("expected error for unknown mode")
	}
	if err := (&PlanCmd{Mode: "Sprint"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPlanCmd_SaveTakesSnapshot(t *testing.T) {
	ctx, _ := setupTestDB(t)
	seed(t, ctx.Store)

	if err := (&PlanCmd{Start: "2026-03-02", Days: 1, Save: true, Yes: true}).Run(ctx); err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	snaps, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 1 {
		t.Errorf("expected one snapshot before saving, got %d", len(snaps))
	}
}
