package scheduler

import (
	"testing"
	"time"

	"github.com/julianstephens/studyplan/internal/constants"
	"github.com/julianstephens/studyplan/internal/models"
)

func TestBudgetPlanner_Negotiation(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		lifestyle  models.LifestylePreferences
		mode       models.StudyMode
		wantSleep  int
		wantLunch  int
		wantDinner int
	}{
		{
			name:      "relaxed keeps preferences",
			lifestyle: models.LifestylePreferences{SleepHours: 9, LunchMinutes: 70, DinnerMinutes: 50},
			mode:      models.ModeRelaxed,
			wantSleep: 540, wantLunch: 70, wantDinner: 50,
		},
		{
			name:      "zero values use defaults",
			lifestyle: models.LifestylePreferences{},
			mode:      models.ModeRelaxed,
			wantSleep: 480, wantLunch: 60, wantDinner: 60,
		},
		{
			name:      "normal caps sleep and meals",
			lifestyle: models.LifestylePreferences{SleepHours: 8, LunchMinutes: 60, DinnerMinutes: 40},
			mode:      models.ModeNormal,
			wantSleep: 420, wantLunch: 45, wantDinner: 40,
		},
		{
			name:      "sprint caps harder",
			lifestyle: models.LifestylePreferences{SleepHours: 8, LunchMinutes: 60, DinnerMinutes: 60},
			mode:      models.ModeSprint,
			wantSleep: 360, wantLunch: 30, wantDinner: 30,
		},
		{
			name:      "floors win over short preferences",
			lifestyle: models.LifestylePreferences{SleepHours: 4.5, LunchMinutes: 5, DinnerMinutes: 10},
			mode:      models.ModeRelaxed,
			wantSleep: constants.SleepFloorMin, wantLunch: constants.MinMealMinutes, wantDinner: constants.MinMealMinutes,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewBudgetPlanner(tt.lifestyle, tt.mode)
			b := p.Plan(date, NewLedger(nil, nil))
			if b.SleepMinutes != tt.wantSleep {
				t.Errorf("sleep = %d, want %d", b.SleepMinutes, tt.wantSleep)
			}
			if b.LunchMinutes != tt.wantLunch {
				t.Errorf("lunch = %d, want %d", b.LunchMinutes, tt.wantLunch)
			}
			if b.DinnerMinutes != tt.wantDinner {
				t.Errorf("dinner = %d, want %d", b.DinnerMinutes, tt.wantDinner)
			}
		})
	}
}

func TestAdjustedHours(t *testing.T) {
	keywords := []string{"weak in", "零基础"}

	tests := []struct {
		name     string
		deadline models.Deadline
		want     float64
	}{
		{"no keyword", models.Deadline{Title: "Essay", EstimatedHours: 10}, 10},
		{"keyword in details", models.Deadline{Title: "Exam", Details: "I am WEAK IN proofs", EstimatedHours: 10}, 13},
		{"keyword in details only", models.Deadline{Title: "Statistics", Details: "零基础", EstimatedHours: 2}, 2.6},
		{"keyword in title is ignored", models.Deadline{Title: "Weak in the middle ages essay", EstimatedHours: 2}, 2},
		{"several keywords apply once", models.Deadline{Title: "Stats", Details: "weak in 零基础", EstimatedHours: 1}, 1.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdjustedHours(tt.deadline, keywords)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("AdjustedHours = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLedger_QueueOrder(t *testing.T) {
	due := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	deadlines := []models.Deadline{
		{Title: "Later", Due: due.Add(24 * time.Hour), EstimatedHours: 1},
		{Title: "Small", Due: due, EstimatedHours: 2, Priority: models.PriorityUrgent},
		{Title: "Large", Due: due, EstimatedHours: 5, Priority: models.PriorityLow},
		{Title: "Beta", Due: due, EstimatedHours: 2, Priority: models.PriorityUrgent},
		{Title: "Medium", Due: due, EstimatedHours: 2, Priority: models.PriorityMedium},
		{Title: "Expired", Due: due.Add(-72 * time.Hour), EstimatedHours: 4},
		{Title: "Done", Due: due, EstimatedHours: 0},
	}

	ledger := NewLedger(deadlines, nil)
	queue := ledger.queue(time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC))

	want := []string{"Large", "Beta", "Small", "Medium", "Later"}
	if len(queue) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(queue))
	}
	for i, title := range want {
		if queue[i].Deadline.Title != title {
			t.Errorf("queue[%d] = %s, want %s", i, queue[i].Deadline.Title, title)
		}
	}
}

func TestLedger_Consume(t *testing.T) {
	ledger := NewLedger([]models.Deadline{
		{Title: "A", EstimatedHours: 2},
		{Title: "B", EstimatedHours: 1},
	}, nil)

	ledger.Consume(map[int]int{0: 90, 1: 200, 7: 10})
	if got := ledger.remainingFor(0); got != 30 {
		t.Errorf("remaining A = %d, want 30", got)
	}
	if got := ledger.remainingFor(1); got != 0 {
		t.Errorf("remaining B = %d, want 0", got)
	}
	if got := ledger.RemainingMinutes(); got != 30 {
		t.Errorf("total remaining = %d, want 30", got)
	}
}
