package scheduler

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/julianstephens/studyplan/internal/constants"
	"github.com/julianstephens/studyplan/internal/models"
)

// workloadTally accumulates per-day figures while the schedule is built.
type workloadTally struct {
	sleepReduction int
	mealReduction  int
	studyMinutes   int
	infeasible     []string
	reasons        []string
}

func (t *workloadTally) addDay(plan models.DayPlan, budget Budget, reason string) {
	t.studyMinutes += plan.StudyMinutes
	if reason != "" {
		t.infeasible = append(t.infeasible, plan.Date)
		t.reasons = append(t.reasons, fmt.Sprintf("%s (%s)", plan.Date, reason))
	}
	if plan.Rest {
		return
	}

	var lunch, dinner, sleep int
	for _, b := range plan.Blocks {
		switch {
		case b.Category == models.CategorySleep:
			sleep += b.Minutes()
		case b.Task == TaskLunch:
			lunch += b.Minutes()
		case b.Task == TaskDinner:
			dinner += b.Minutes()
		}
	}
	t.sleepReduction += max(0, budget.PreferredSleep-sleep)
	t.mealReduction += max(0, budget.PreferredLunch-lunch) + max(0, budget.PreferredDinner-dinner)
}

// analyzeWorkload scores how hard the requested horizon is. The score grows
// with urgent deadlines, negotiated sleep and meal reductions, and work that
// did not fit, and is capped at MaxWorkloadScore.
func analyzeWorkload(deadlines []models.Deadline, start time.Time, tally *workloadTally, remainingMinutes int, lastDate string) models.WorkloadAnalysis {
	urgent := 0
	window := time.Duration(constants.UrgentWithinHours) * time.Hour
	for _, d := range deadlines {
		if d.Priority == models.PriorityUrgent || d.Due.Sub(start) <= window {
			urgent++
		}
	}

	reductionHours := float64(tally.sleepReduction+tally.mealReduction) / 60
	unscheduled := round1(float64(remainingMinutes) / 60)

	score := float64(urgent*constants.UrgentWeight) +
		reductionHours*constants.ReductionPerHour +
		unscheduled*constants.UnscheduledWeight
	score = round1(math.Min(score, constants.MaxWorkloadScore))

	level := levelFor(score)
	analysis := models.WorkloadAnalysis{
		Score:                 score,
		Level:                 level,
		UrgentCount:           urgent,
		SleepReductionMinutes: tally.sleepReduction,
		MealReductionMinutes:  tally.mealReduction,
		StudyMinutes:          tally.studyMinutes,
		UnscheduledHours:      unscheduled,
		InfeasibleDays:        tally.infeasible,
	}

	sentences := []string{fmt.Sprintf("Workload is %s (score %.1f/100).", level, score)}
	if urgent > 0 {
		sentences = append(sentences, fmt.Sprintf("%d deadline(s) are urgent or due within %d hours.", urgent, constants.UrgentWithinHours))
	}
	if tally.sleepReduction > 0 {
		sentences = append(sentences, fmt.Sprintf("Sleep was shortened by %s in total to make room for study.", formatMinutes(tally.sleepReduction)))
	}
	if tally.mealReduction > 0 {
		sentences = append(sentences, fmt.Sprintf("Meals were shortened by %d minutes in total.", tally.mealReduction))
	}
	if len(tally.reasons) > 0 {
		sentences = append(sentences, fmt.Sprintf("No study time fits on %s.", strings.Join(tally.reasons, ", ")))
	}
	if unscheduled > 0 {
		sentences = append(sentences, fmt.Sprintf("%.1f hours of estimated work remain unscheduled after %s.", unscheduled, lastDate))
	}
	analysis.Warning = strings.Join(sentences, " ")

	return analysis
}

func levelFor(score float64) models.WorkloadLevel {
	switch {
	case score < 30:
		return models.WorkloadLight
	case score < 60:
		return models.WorkloadModerate
	case score < 85:
		return models.WorkloadHeavy
	default:
		return models.WorkloadExtreme
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
