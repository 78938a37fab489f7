package postgres

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/storage"
)

// TestStore_Integration runs against a real database when POSTGRES_TEST_URL is set,
// e.g. POSTGRES_TEST_URL="postgres://studyplan@localhost:5432/studyplan_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	t.Run("Settings", func(t *testing.T) {
		settings, err := store.GetSettings()
		if err != nil {
			t.Fatalf("Failed to get settings: %v", err)
		}
		settings.StudyMode = "sprint"
		if err := store.SaveSettings(settings); err != nil {
			t.Fatalf("Failed to save settings: %v", err)
		}
		updated, err := store.GetSettings()
		if err != nil {
			t.Fatalf("Failed to get settings: %v", err)
		}
		if updated.StudyMode != "sprint" {
			t.Errorf("Expected study mode sprint, got %s", updated.StudyMode)
		}
	})

	t.Run("Deadlines", func(t *testing.T) {
		due := time.Date(2026, 3, 4, 23, 59, 0, 0, time.UTC)
		d := models.Deadline{ID: "it-deadline", Title: "Integration essay", Due: due, EstimatedHours: 3, Priority: models.PriorityHigh}
		if err := store.AddDeadline(d); err != nil {
			t.Fatalf("Failed to add deadline: %v", err)
		}
		got, err := store.GetDeadline(d.ID)
		if err != nil {
			t.Fatalf("Failed to get deadline: %v", err)
		}
		if !got.Due.Equal(due) || got.Title != d.Title {
			t.Errorf("Unexpected deadline: %+v", got)
		}
		if err := store.DeleteDeadline(d.ID); err != nil {
			t.Fatalf("Failed to delete deadline: %v", err)
		}
		if _, err := store.GetDeadline(d.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Commitments", func(t *testing.T) {
		monday := time.Monday
		c := models.FixedCommitment{ID: "it-class", Label: "Integration class", Weekday: &monday, Start: "09:00", End: "10:00"}
		if err := store.AddCommitment(c); err != nil {
			t.Fatalf("Failed to add commitment: %v", err)
		}
		all, err := store.GetAllCommitments()
		if err != nil {
			t.Fatalf("Failed to list commitments: %v", err)
		}
		found := false
		for _, got := range all {
			if got.ID == c.ID && got.Weekday != nil && *got.Weekday == time.Monday {
				found = true
			}
		}
		if !found {
			t.Error("Expected commitment to be listed")
		}
		if err := store.DeleteCommitment(c.ID); err != nil {
			t.Fatalf("Failed to delete commitment: %v", err)
		}
	})

	t.Run("Plans", func(t *testing.T) {
		plan := models.DayPlan{
			Date:    "2099-01-05",
			Wake:    420,
			Bedtime: 1440,
			Blocks: []models.TimeBlock{
				{Start: 420, End: 1440, Category: models.CategoryBreak, Task: "Free time"},
				{Start: 1440, End: 1860, Category: models.CategorySleep, Task: "Sleep"},
			},
		}
		if err := store.SavePlan(plan); err != nil {
			t.Fatalf("Failed to save plan: %v", err)
		}
		got, err := store.GetPlan(plan.Date)
		if err != nil {
			t.Fatalf("Failed to get plan: %v", err)
		}
		if len(got.Blocks) != 2 || got.Blocks[1].End != 1860 {
			t.Errorf("Unexpected blocks: %+v", got.Blocks)
		}
		if err := store.DeletePlan(plan.Date); err != nil {
			t.Fatalf("Failed to delete plan: %v", err)
		}
	})
}
