package validation

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/studyplan/internal/constants"
	apperrors "github.com/julianstephens/studyplan/internal/errors"
	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictOverlappingCommitments ConflictType = "overlapping_commitments"
	ConflictOverlappingBlocks      ConflictType = "overlapping_blocks"
	ConflictInvalidDateTime        ConflictType = "invalid_datetime"
	ConflictMissingCommitment      ConflictType = "missing_commitment"
	ConflictShortSleep             ConflictType = "short_sleep"
	ConflictDuplicateDeadline      ConflictType = "duplicate_deadline"
	ConflictPastDue                ConflictType = "past_due"
	ConflictForbiddenStudy         ConflictType = "forbidden_study"
)

// Conflict represents a detected conflict in commitments, deadlines or plans
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	Items       []string // Labels of the commitments/blocks involved
	TimeRange   string   // Human-readable time range (if applicable)
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

func (vr *ValidationResult) add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}

// Validator validates requests, commitments and plans
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateRequest checks every request field and returns the first problem as
// an *errors.ValidationError.
func (v *Validator) ValidateRequest(req models.ScheduleRequest) error {
	if req.NumberOfDays < 1 {
		return apperrors.Invalid("number_of_days", "must be at least 1, got %d", req.NumberOfDays)
	}
	if req.StartDate == "" {
		return apperrors.Invalid("start_date", "required")
	}
	if _, err := time.Parse(constants.DateFormat, req.StartDate); err != nil {
		return apperrors.Invalid("start_date", "expected YYYY-MM-DD, got %q", req.StartDate)
	}
	if !utils.ValidateTimezone(req.Timezone) {
		return apperrors.Invalid("timezone", "unknown timezone %q", req.Timezone)
	}
	if _, err := models.ParseStudyMode(string(req.StudyMode)); err != nil {
		return apperrors.Invalid("study_mode", "%v", err)
	}

	ls := req.Lifestyle
	if ls.SleepHours < 0 || math.IsNaN(ls.SleepHours) || ls.SleepHours > 16 {
		return apperrors.Invalid("lifestyle.sleep_hours", "must be between 0 and 16, got %v", ls.SleepHours)
	}
	if ls.LunchMinutes < 0 || ls.LunchMinutes > 240 {
		return apperrors.Invalid("lifestyle.lunch_minutes", "must be between 0 and 240, got %d", ls.LunchMinutes)
	}
	if ls.DinnerMinutes < 0 || ls.DinnerMinutes > 240 {
		return apperrors.Invalid("lifestyle.dinner_minutes", "must be between 0 and 240, got %d", ls.DinnerMinutes)
	}

	for i, d := range req.Deadlines {
		field := fmt.Sprintf("deadlines[%d]", i)
		if strings.TrimSpace(d.Title) == "" {
			return apperrors.Invalid(field+".title", "required")
		}
		if d.Due.IsZero() {
			return apperrors.Invalid(field+".due", "required")
		}
		if d.EstimatedHours < 0 || math.IsNaN(d.EstimatedHours) || math.IsInf(d.EstimatedHours, 0) {
			return apperrors.Invalid(field+".estimated_hours", "must be a non-negative number, got %v", d.EstimatedHours)
		}
		if d.EstimatedHours > constants.MaxEstimatedHours {
			return apperrors.Invalid(field+".estimated_hours", "must be at most %d, got %v", constants.MaxEstimatedHours, d.EstimatedHours)
		}
		if d.Priority != "" && !d.Priority.Valid() {
			return apperrors.Invalid(field+".priority", "unknown priority %q", d.Priority)
		}
	}

	for i, c := range req.FixedCommitments {
		if err := validateCommitment(fmt.Sprintf("fixed_commitments[%d]", i), c); err != nil {
			return err
		}
	}

	return nil
}

func validateCommitment(field string, c models.FixedCommitment) error {
	if strings.TrimSpace(c.Label) == "" {
		return apperrors.Invalid(field+".label", "required")
	}
	if c.Date == "" && c.Weekday == nil {
		return apperrors.Invalid(field, "either date or weekday is required")
	}
	if c.Date != "" {
		if _, err := time.Parse(constants.DateFormat, c.Date); err != nil {
			return apperrors.Invalid(field+".date", "expected YYYY-MM-DD, got %q", c.Date)
		}
	}
	if c.Weekday != nil && (*c.Weekday < time.Sunday || *c.Weekday > time.Saturday) {
		return apperrors.Invalid(field+".weekday", "must be 0-6, got %d", *c.Weekday)
	}
	start, end, err := c.Span()
	if err != nil {
		return apperrors.Invalid(field, "%v", err)
	}
	if end > models.Clock(constants.MinutesPerDay) || start >= models.Clock(constants.MinutesPerDay) {
		return apperrors.Invalid(field, "commitments spanning midnight are not supported (%s-%s)", c.Start, c.End)
	}
	if start >= end {
		return apperrors.Invalid(field, "end time (%s) must be after start time (%s)", c.End, c.Start)
	}
	return nil
}

// CommitmentsOn returns the commitments occurring on date, sorted by start time.
// Commitments that fail to parse are skipped; ValidateRequest reports them.
func CommitmentsOn(date time.Time, commitments []models.FixedCommitment) []models.FixedCommitment {
	var out []models.FixedCommitment
	for _, c := range commitments {
		if c.OccursOn(date) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		si, _, _ := out[i].Span()
		sj, _, _ := out[j].Span()
		return si < sj
	})
	return out
}

// CheckCommitments fails fast with an *errors.ConflictError on the first pair
// of commitments that overlap on date.
func (v *Validator) CheckCommitments(date time.Time, commitments []models.FixedCommitment) error {
	day := CommitmentsOn(date, commitments)
	for i := 0; i < len(day); i++ {
		for j := i + 1; j < len(day); j++ {
			if commitmentsOverlap(day[i], day[j]) {
				return &apperrors.ConflictError{
					Date:   date.Format(constants.DateFormat),
					First:  ref(day[i]),
					Second: ref(day[j]),
				}
			}
		}
	}
	return nil
}

// ValidateCommitments reports every overlap and malformed commitment across a
// range of days.
func (v *Validator) ValidateCommitments(commitments []models.FixedCommitment, start time.Time, days int) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	valid := make([]models.FixedCommitment, 0, len(commitments))
	for _, c := range commitments {
		if err := validateCommitment("commitment", c); err != nil {
			result.add(Conflict{
				Type:        ConflictInvalidDateTime,
				Description: fmt.Sprintf("Commitment %q is invalid: %v", c.Label, err),
				Items:       []string{c.Label},
			})
			continue
		}
		valid = append(valid, c)
	}

	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d)
		day := CommitmentsOn(date, valid)
		dateStr := date.Format(constants.DateFormat)
		for i := 0; i < len(day); i++ {
			for j := i + 1; j < len(day); j++ {
				if !commitmentsOverlap(day[i], day[j]) {
					continue
				}
				result.add(Conflict{
					Type: ConflictOverlappingCommitments,
					Description: fmt.Sprintf("Commitments overlap on %s: %q (%s-%s) and %q (%s-%s)",
						dateStr, day[i].Label, day[i].Start, day[i].End, day[j].Label, day[j].Start, day[j].End),
					Date:      dateStr,
					Items:     []string{day[i].Label, day[j].Label},
					TimeRange: fmt.Sprintf("%s-%s", day[i].Start, day[i].End),
				})
			}
		}
	}

	return result
}

// ValidateDeadlines reports duplicate titles and deadlines already past due at now.
func (v *Validator) ValidateDeadlines(deadlines []models.Deadline, now time.Time) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	seen := make(map[string]int)
	for _, d := range deadlines {
		if d.DeletedAt != nil || d.Title == "" {
			continue
		}
		seen[strings.ToLower(d.Title)]++
		if seen[strings.ToLower(d.Title)] == 2 {
			result.add(Conflict{
				Type:        ConflictDuplicateDeadline,
				Description: fmt.Sprintf("Duplicate deadline title: %q", d.Title),
				Items:       []string{d.Title},
			})
		}
		if d.Due.Before(now) {
			result.add(Conflict{
				Type:        ConflictPastDue,
				Description: fmt.Sprintf("Deadline %q was due %s", d.Title, d.Due.Format(constants.DueFormat)),
				Date:        d.Due.Format(constants.DateFormat),
				Items:       []string{d.Title},
			})
		}
	}

	return result
}

// ValidatePlan checks a single day plan: blocks well formed and pairwise
// non-overlapping, sleep at or above the floor, and every commitment that
// occurs on the plan date present verbatim.
func (v *Validator) ValidatePlan(plan models.DayPlan, commitments []models.FixedCommitment) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	date, err := time.Parse(constants.DateFormat, plan.Date)
	if err != nil {
		result.add(Conflict{
			Type:        ConflictInvalidDateTime,
			Description: fmt.Sprintf("Invalid plan date: %s", plan.Date),
			Date:        plan.Date,
		})
		return result
	}

	blocks := make([]models.TimeBlock, len(plan.Blocks))
	copy(blocks, plan.Blocks)
	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].Start < blocks[j].Start })

	for i, b := range blocks {
		if b.End <= b.Start {
			result.add(Conflict{
				Type:        ConflictInvalidDateTime,
				Description: fmt.Sprintf("Block %q has end (%s) not after start (%s)", b.Task, b.End, b.Start),
				Date:        plan.Date,
				Items:       []string{b.Task},
			})
		}
		if i > 0 && b.Start < blocks[i-1].End {
			prev := blocks[i-1]
			result.add(Conflict{
				Type: ConflictOverlappingBlocks,
				Description: fmt.Sprintf("Blocks overlap on %s: %q (%s-%s) and %q (%s-%s)",
					plan.Date, prev.Task, prev.Start, prev.End, b.Task, b.Start, b.End),
				Date:      plan.Date,
				Items:     []string{prev.Task, b.Task},
				TimeRange: fmt.Sprintf("%s-%s", b.Start, prev.End),
			})
		}
		if b.Category == models.CategorySleep && b.Minutes() < constants.SleepFloorMin {
			result.add(Conflict{
				Type:        ConflictShortSleep,
				Description: fmt.Sprintf("Sleep on %s is %d minutes, below the %d minute floor", plan.Date, b.Minutes(), constants.SleepFloorMin),
				Date:        plan.Date,
				TimeRange:   fmt.Sprintf("%s-%s", b.Start, b.End),
			})
		}
	}

	for _, c := range CommitmentsOn(date, commitments) {
		start, end, err := c.Span()
		if err != nil {
			continue
		}
		found := false
		for _, b := range blocks {
			if b.Category == models.CategoryClass && b.Start == start && b.End == end && b.Task == c.Label {
				found = true
				break
			}
		}
		if !found {
			result.add(Conflict{
				Type:        ConflictMissingCommitment,
				Description: fmt.Sprintf("Commitment %q (%s-%s) is missing from the plan for %s", c.Label, c.Start, c.End, plan.Date),
				Date:        plan.Date,
				Items:       []string{c.Label},
				TimeRange:   fmt.Sprintf("%s-%s", c.Start, c.End),
			})
		}
	}

	return result
}

// ValidateSchedule checks a schedule produced by any planner against the
// request it answers. It is used to vet plans from alternative providers.
func (v *Validator) ValidateSchedule(s models.Schedule, req models.ScheduleRequest) error {
	if len(s.Days) != req.NumberOfDays {
		return fmt.Errorf("schedule has %d days, request asked for %d", len(s.Days), req.NumberOfDays)
	}
	start, err := time.Parse(constants.DateFormat, req.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}

	result := ValidationResult{Conflicts: []Conflict{}}
	for i, day := range s.Days {
		date := start.AddDate(0, 0, i)
		if want := date.Format(constants.DateFormat); day.Date != want {
			return fmt.Errorf("day %d has date %s, want %s", i+1, day.Date, want)
		}
		dayResult := v.ValidatePlan(day, req.FixedCommitments)
		result.Conflicts = append(result.Conflicts, dayResult.Conflicts...)

		for _, b := range day.BlocksOf(models.CategoryStudy) {
			if req.ForbidSundays() && date.Weekday() == time.Sunday {
				result.add(Conflict{
					Type:        ConflictForbiddenStudy,
					Description: fmt.Sprintf("Study block %q scheduled on Sunday %s", b.Task, day.Date),
					Date:        day.Date,
					Items:       []string{b.Task},
				})
			}
			if req.ForbidAfter23() && b.End > models.Clock(constants.LateCutoffMin) {
				result.add(Conflict{
					Type:        ConflictForbiddenStudy,
					Description: fmt.Sprintf("Study block %q on %s ends after 23:00 (%s)", b.Task, day.Date, b.End),
					Date:        day.Date,
					Items:       []string{b.Task},
				})
			}
		}
	}

	if result.HasConflicts() {
		return fmt.Errorf("schedule failed validation: %s", strings.TrimSpace(result.FormatReport()))
	}
	return nil
}

func commitmentsOverlap(a, b models.FixedCommitment) bool {
	as, ae, err1 := a.Span()
	bs, be, err2 := b.Span()
	if err1 != nil || err2 != nil {
		return false
	}
	return as < be && bs < ae
}

func ref(c models.FixedCommitment) apperrors.CommitmentRef {
	return apperrors.CommitmentRef{ID: c.ID, Label: c.Label, Start: c.Start, End: c.End}
}
