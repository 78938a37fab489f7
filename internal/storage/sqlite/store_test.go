package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/storage"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "studyplan.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_ImplementsProvider(t *testing.T) {
	var _ storage.Provider = (*Store)(nil)
}

func TestStore_LoadRequiresInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Error("expected Load to fail before Init")
	}
}

func TestStore_DefaultSettings(t *testing.T) {
	store := setupStore(t)

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if settings.SleepHours != 8 || settings.LunchMinutes != 60 || settings.StudyMode != "normal" || settings.PlanDays != 1 {
		t.Errorf("unexpected defaults: %+v", settings)
	}

	settings.StudyMode = "sprint"
	settings.ForbidSundays = true
	settings.WeaknessKeywords = []string{"weak in", "rusty"}
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	// Re-running Init keeps user values.
	if err := store.Init(); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	got, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if got.StudyMode != "sprint" || !got.ForbidSundays || len(got.WeaknessKeywords) != 2 {
		t.Errorf("settings not preserved: %+v", got)
	}
}

func TestStore_Deadlines(t *testing.T) {
	store := setupStore(t)
	due := time.Date(2026, 3, 4, 23, 59, 0, 0, time.UTC)

	deadlines := []models.Deadline{
		{ID: "b", Title: "Essay", Due: due.Add(48 * time.Hour), EstimatedHours: 3, Priority: models.PriorityLow},
		{ID: "a", Title: "Problem set", Due: due, EstimatedHours: 6.5, Priority: models.PriorityHigh, Details: "weak in proofs"},
	}
	for _, d := range deadlines {
		if err := store.AddDeadline(d); err != nil {
			t.Fatalf("AddDeadline failed: %v", err)
		}
	}

	got, err := store.GetDeadline("a")
	if err != nil {
		t.Fatalf("GetDeadline failed: %v", err)
	}
	if !got.Due.Equal(due) || got.EstimatedHours != 6.5 || got.Priority != models.PriorityHigh || got.Details != "weak in proofs" {
		t.Errorf("unexpected deadline: %+v", got)
	}

	all, err := store.GetAllDeadlines()
	if err != nil {
		t.Fatalf("GetAllDeadlines failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != "a" {
		t.Fatalf("expected deadlines ordered by due, got %+v", all)
	}

	if err := store.DeleteDeadline("a"); err != nil {
		t.Fatalf("DeleteDeadline failed: %v", err)
	}
	if _, err := store.GetDeadline("a"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.DeleteDeadline("a"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
	all, _ = store.GetAllDeadlines()
	if len(all) != 1 {
		t.Errorf("expected 1 active deadline, got %d", len(all))
	}
}

func TestStore_Commitments(t *testing.T) {
	store := setupStore(t)
	monday := time.Monday

	if err := store.AddCommitment(models.FixedCommitment{ID: "c1", Label: "Calculus", Location: "Hall B", Weekday: &monday, Start: "09:00", End: "10:30"}); err != nil {
		t.Fatalf("AddCommitment failed: %v", err)
	}
	if err := store.AddCommitment(models.FixedCommitment{ID: "c2", Label: "Dentist", Date: "2026-03-05", Start: "15:00", End: "16:00"}); err != nil {
		t.Fatalf("AddCommitment failed: %v", err)
	}

	all, err := store.GetAllCommitments()
	if err != nil {
		t.Fatalf("GetAllCommitments failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 commitments, got %d", len(all))
	}
	if all[0].Weekday == nil || *all[0].Weekday != time.Monday || all[0].Location != "Hall B" {
		t.Errorf("weekly commitment not restored: %+v", all[0])
	}
	if all[1].Weekday != nil || all[1].Date != "2026-03-05" {
		t.Errorf("dated commitment not restored: %+v", all[1])
	}

	if err := store.DeleteCommitment("c1"); err != nil {
		t.Fatalf("DeleteCommitment failed: %v", err)
	}
	all, _ = store.GetAllCommitments()
	if len(all) != 1 || all[0].ID != "c2" {
		t.Errorf("expected only c2 to remain, got %+v", all)
	}
}

func TestStore_Plans(t *testing.T) {
	store := setupStore(t)

	plan := models.DayPlan{
		Date:         "2026-03-02",
		Wake:         420,
		Bedtime:      1440,
		StudyMinutes: 90,
		Warning:      "",
		Blocks: []models.TimeBlock{
			{Start: 480, End: 570, Category: models.CategoryStudy, Task: "Essay", Notes: "Due 2026-03-04 23:59", DeadlineID: "d1"},
			{Start: 420, End: 480, Category: models.CategoryBreak, Task: "Wake up & morning routine"},
			{Start: 1440, End: 1860, Category: models.CategorySleep, Task: "Sleep"},
		},
	}
	if err := store.SavePlan(plan); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	got, err := store.GetPlan("2026-03-02")
	if err != nil {
		t.Fatalf("GetPlan failed: %v", err)
	}
	if got.Wake != 420 || got.Bedtime != 1440 || got.StudyMinutes != 90 {
		t.Errorf("unexpected plan header: %+v", got)
	}
	if len(got.Blocks) != 3 || got.Blocks[0].Start != 420 || got.Blocks[2].End != 1860 {
		t.Fatalf("blocks not restored in order: %+v", got.Blocks)
	}
	if got.Blocks[1].DeadlineID != "d1" {
		t.Errorf("expected deadline id to round trip, got %q", got.Blocks[1].DeadlineID)
	}

	plan.Blocks = plan.Blocks[:1]
	plan.Degraded = true
	plan.Warning = "infeasible day"
	if err := store.SavePlan(plan); err != nil {
		t.Fatalf("second SavePlan failed: %v", err)
	}
	got, _ = store.GetPlan("2026-03-02")
	if len(got.Blocks) != 1 || !got.Degraded || got.Warning != "infeasible day" {
		t.Errorf("expected plan to be replaced, got %+v", got)
	}

	if err := store.DeletePlan("2026-03-02"); err != nil {
		t.Fatalf("DeletePlan failed: %v", err)
	}
	if _, err := store.GetPlan("2026-03-02"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	deleted := "2026-03-01T00:00:00Z"
	plan.DeletedAt = &deleted
	if err := store.SavePlan(plan); err == nil {
		t.Error("expected SavePlan to reject deleted_at")
	}
}

func TestBuildRequest(t *testing.T) {
	store := setupStore(t)
	monday := time.Monday
	_ = store.AddDeadline(models.Deadline{ID: "d1", Title: "Essay", Due: time.Date(2026, 3, 4, 23, 59, 0, 0, time.UTC), EstimatedHours: 2})
	_ = store.AddCommitment(models.FixedCommitment{ID: "c1", Label: "Calculus", Weekday: &monday, Start: "09:00", End: "10:30"})

	req, err := storage.BuildRequest(store, "2026-03-02", 0, "")
	if err != nil {
		t.Fatalf("BuildRequest failed: %v", err)
	}
	if req.NumberOfDays != 1 || req.StudyMode != models.ModeNormal || req.Lifestyle.SleepHours != 8 {
		t.Errorf("expected stored defaults, got %+v", req)
	}
	if len(req.Deadlines) != 1 || len(req.FixedCommitments) != 1 {
		t.Errorf("expected stored records, got %d deadlines and %d commitments", len(req.Deadlines), len(req.FixedCommitments))
	}

	req, _ = storage.BuildRequest(store, "2026-03-02", 5, "sprint")
	if req.NumberOfDays != 5 || req.StudyMode != models.ModeSprint {
		t.Errorf("expected overrides, got days=%d mode=%s", req.NumberOfDays, req.StudyMode)
	}
}
