package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/studyplan/internal/constants"
	apperrors "github.com/julianstephens/studyplan/internal/errors"
	"github.com/julianstephens/studyplan/internal/logger"
	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/validation"
)

const (
	TaskBreakfast  = "Breakfast"
	TaskLunch      = "Lunch"
	TaskDinner     = "Dinner"
	TaskSleep      = "Sleep"
	TaskMorning    = "Wake up & morning routine"
	TaskWindDown   = "Wind-down"
	TaskShortBreak = "Short break"
	TaskFreeTime   = "Free time"
	TaskReview     = "Review and light studying"
	TaskRest       = "Rest and catch-up"
)

// dayInput carries everything the builder needs for one date. Wake and
// bedtime are already resolved; nextWake is measured from midnight of the
// following day. refBedtime is the bedtime under the preferred sleep, which
// anchors the layout shared by every study mode.
type dayInput struct {
	date          time.Time
	commitments   []models.FixedCommitment
	wake          models.Clock
	bedtime       models.Clock
	refBedtime    models.Clock
	nextWake      models.Clock
	budget        Budget
	forbidAfter23 bool
	rest          bool
}

type dayOutput struct {
	plan       models.DayPlan
	consumed   map[int]int
	infeasible *apperrors.InfeasibleError
}

// DayBuilder lays out a single day: commitments first, then meals, routines,
// study, and finally sleep.
//
// Meals and routines are first reserved on a reference layout that uses the
// preferred meal lengths and the preferred-sleep bedtime. A study mode then
// only trims meals inside their reserved slots and slides the wind-down to
// its own bedtime, so a more intense mode never has less free time, nor
// smaller gaps, than a gentler one.
type DayBuilder struct {
	validator *validation.Validator
}

func (b *DayBuilder) Build(in dayInput) (dayOutput, error) {
	out := dayOutput{consumed: make(map[int]int)}
	dateStr := in.date.Format(constants.DateFormat)
	tl := &timeline{}

	for _, c := range in.commitments {
		start, end, err := c.Span()
		if err != nil {
			return out, err
		}
		block := models.TimeBlock{
			Start:    start,
			End:      end,
			Category: models.CategoryClass,
			Task:     c.Label,
			Notes:    c.Location,
		}
		if err := tl.claim(block); err != nil {
			return out, fmt.Errorf("placing commitment on %s: %w", dateStr, err)
		}
	}

	awake := span{start: in.wake, end: in.bedtime}

	if in.rest {
		if err := fillGaps(tl, awake, TaskRest, "No study on Sundays"); err != nil {
			return out, err
		}
	} else {
		ref := span{start: in.wake, end: min(in.refBedtime, in.bedtime)}
		reserved, reason, err := reserveMeals(tl, in.budget, ref)
		if err != nil {
			return out, err
		}
		var windDown *models.TimeBlock
		if reason == "" {
			if windDown, err = placeRoutines(tl, ref); err != nil {
				return out, err
			}
		}
		if err := trimMeals(tl, reserved); err != nil {
			return out, err
		}
		if windDown != nil {
			shift := int(in.bedtime - ref.end)
			windDown.Start, windDown.End = windDown.Start.Add(shift), windDown.End.Add(shift)
			if err := tl.claim(*windDown); err != nil {
				return out, err
			}
		}
		if reason == "" {
			studyEnd := in.bedtime
			if in.forbidAfter23 && studyEnd > models.Clock(constants.LateCutoffMin) {
				studyEnd = models.Clock(constants.LateCutoffMin)
			}
			a := &assigner{date: in.date, queue: in.budget.Queue, consumed: out.consumed}
			studied, err := fillStudy(tl, span{start: in.wake, end: studyEnd}, a)
			if err != nil {
				return out, err
			}
			if studied == 0 {
				reason = "fixed commitments and minimum sleep leave no room for study"
			}
		}
		if reason != "" {
			out.infeasible = &apperrors.InfeasibleError{Date: dateStr, Reason: reason}
		}
		if err := fillGaps(tl, awake, TaskFreeTime, ""); err != nil {
			return out, err
		}
	}

	sleepEnd := in.nextWake.Add(constants.MinutesPerDay)
	sleep := models.TimeBlock{
		Start:    in.bedtime,
		End:      sleepEnd,
		Category: models.CategorySleep,
		Task:     TaskSleep,
		Notes:    formatMinutes(int(sleepEnd - in.bedtime)),
	}
	if err := tl.claim(sleep); err != nil {
		return out, fmt.Errorf("placing sleep on %s: %w", dateStr, err)
	}

	plan := models.DayPlan{
		Date:    dateStr,
		Wake:    in.wake,
		Bedtime: in.bedtime,
		Blocks:  tl.sorted(),
		Rest:    in.rest,
	}
	for _, blk := range plan.Blocks {
		if blk.Category == models.CategoryStudy {
			plan.StudyMinutes += blk.Minutes()
		}
	}
	if out.infeasible != nil {
		plan.Degraded = true
		plan.Warning = out.infeasible.Error()
		logger.Warn("Day is infeasible, producing degraded plan", "date", dateStr, "reason", out.infeasible.Reason)
	}

	if res := b.validator.ValidatePlan(plan, in.commitments); res.HasConflicts() {
		return out, fmt.Errorf("internal scheduling error on %s: %s", dateStr, res.FormatReport())
	}

	out.plan = plan
	return out, nil
}

// mealSlot is a meal reserved at its preferred length. want is the
// negotiated length it will be trimmed to.
type mealSlot struct {
	block models.TimeBlock
	pref  models.Clock
	want  int
}

// reserveMeals claims lunch and dinner at their preferred lengths. It returns
// a non-empty reason when a meal cannot fit at all.
func reserveMeals(tl *timeline, budget Budget, awake span) ([]mealSlot, string, error) {
	meals := []struct {
		task   string
		pref   models.Clock
		full   int
		want   int
		window span
	}{
		{TaskLunch, constants.LunchAnchorMin, budget.PreferredLunch, budget.LunchMinutes,
			span{start: constants.LunchWindowStartMin, end: constants.LunchWindowEndMin}},
		{TaskDinner, constants.DinnerAnchorMin, budget.PreferredDinner, budget.DinnerMinutes,
			span{start: constants.DinnerWindowStartMin, end: constants.DinnerWindowEndMin}},
	}

	var slots []mealSlot
	for _, m := range meals {
		full := max(m.full, m.want, constants.MinMealMinutes)
		s, ok := placeMeal(tl, m.pref, full, m.window.intersect(awake), awake)
		if !ok {
			return slots, fmt.Sprintf("no room for %s", strings.ToLower(m.task)), nil
		}
		block := models.TimeBlock{Start: s.start, End: s.end, Category: models.CategoryMeal, Task: m.task}
		if err := tl.claim(block); err != nil {
			return slots, "", err
		}
		slots = append(slots, mealSlot{block: block, pref: m.pref, want: m.want})
	}
	return slots, "", nil
}

// trimMeals shrinks each reserved meal to its negotiated length without
// leaving its slot.
func trimMeals(tl *timeline, slots []mealSlot) error {
	for _, m := range slots {
		slot := span{start: m.block.Start, end: m.block.End}
		d := min(m.want, slot.len())
		start := clampStart(m.pref, d, slot)

		block := m.block
		block.Start, block.End = start, start.Add(d)
		if d < m.want {
			block.Notes = fmt.Sprintf("Shortened from %d min to fit around commitments", m.want)
		}
		tl.release(m.block)
		if err := tl.claim(block); err != nil {
			return err
		}
	}
	return nil
}

// placeMeal tries the full length in the window, then a shortened meal in
// the window, and only then the same two outside it.
func placeMeal(tl *timeline, pref models.Clock, want int, window, awake span) (span, bool) {
	attempts := []struct {
		least int
		where span
	}{
		{want, window},
		{constants.MinMealMinutes, window},
		{want, awake},
		{constants.MinMealMinutes, awake},
	}
	for _, a := range attempts {
		if s, ok := tl.fit(pref, want, a.least, a.where); ok {
			return s, true
		}
	}
	return span{}, false
}

// placeRoutines adds the optional morning routine and breakfast, and returns
// the wind-down that fits right before the end of awake, if any. The
// wind-down is not claimed.
func placeRoutines(tl *timeline, awake span) (*models.TimeBlock, error) {
	morningWindow := span{start: awake.start, end: awake.start.Add(180)}.intersect(awake)
	breakfastPref := awake.start
	if s, ok := tl.fit(awake.start, constants.MorningRoutineMin, constants.MinRoutineMin, morningWindow); ok {
		if err := tl.claim(models.TimeBlock{Start: s.start, End: s.end, Category: models.CategoryBreak, Task: TaskMorning}); err != nil {
			return nil, err
		}
		breakfastPref = s.end
	}

	breakfastEnd := max(models.Clock(constants.BreakfastWindowEnd), awake.start.Add(180))
	breakfastWindow := span{start: awake.start, end: breakfastEnd}.intersect(awake)
	if s, ok := tl.fit(breakfastPref, constants.BreakfastMin, constants.MinRoutineMin, breakfastWindow); ok {
		if err := tl.claim(models.TimeBlock{Start: s.start, End: s.end, Category: models.CategoryMeal, Task: TaskBreakfast}); err != nil {
			return nil, err
		}
	}

	gaps := tl.free(awake)
	if len(gaps) == 0 || gaps[len(gaps)-1].end != awake.end {
		return nil, nil
	}
	d := min(constants.WindDownMin, gaps[len(gaps)-1].len())
	if d < constants.MinRoutineMin {
		return nil, nil
	}
	return &models.TimeBlock{Start: awake.end.Add(-d), End: awake.end, Category: models.CategoryBreak, Task: TaskWindDown}, nil
}

// fillStudy chunks every free gap inside window into study sessions separated
// by short breaks, and returns the study minutes placed.
func fillStudy(tl *timeline, window span, a *assigner) (int, error) {
	studied := 0
	for _, gap := range tl.free(window) {
		cur := gap.start
		for int(gap.end-cur) >= constants.MinStudyBlockMin {
			n := min(constants.MaxStudyBlockMin, int(gap.end-cur))
			for _, blk := range a.assign(span{start: cur, end: cur.Add(n)}) {
				if err := tl.claim(blk); err != nil {
					return studied, err
				}
				studied += blk.Minutes()
			}
			cur = cur.Add(n)
			if int(gap.end-cur) < constants.ShortBreakMin+constants.MinStudyBlockMin {
				break
			}
			brk := models.TimeBlock{Start: cur, End: cur.Add(constants.ShortBreakMin), Category: models.CategoryBreak, Task: TaskShortBreak}
			if err := tl.claim(brk); err != nil {
				return studied, err
			}
			cur = brk.End
		}
	}
	return studied, nil
}

// fillGaps covers every unclaimed minute of window with a break block.
func fillGaps(tl *timeline, window span, task, notes string) error {
	for _, gap := range tl.free(window) {
		block := models.TimeBlock{Start: gap.start, End: gap.end, Category: models.CategoryBreak, Task: task, Notes: notes}
		if err := tl.claim(block); err != nil {
			return err
		}
	}
	return nil
}

// assigner hands out study time from the priority queue. Queue items are
// copies, so remaining minutes are tracked locally and reported in consumed.
type assigner struct {
	date     time.Time
	queue    []QueueItem
	pos      int
	consumed map[int]int
}

// head returns the first item with work left that is still open at the given
// minute of the day.
func (a *assigner) head(at models.Clock) *QueueItem {
	instant := at.On(a.date)
	for a.pos < len(a.queue) {
		item := &a.queue[a.pos]
		if item.RemainingMinutes > 0 && item.Deadline.Due.After(instant) {
			return item
		}
		a.pos++
	}
	return nil
}

func (a *assigner) assign(s span) []models.TimeBlock {
	var blocks []models.TimeBlock
	cur := s.start
	for cur < s.end {
		item := a.head(cur)
		if item == nil {
			blocks = append(blocks, models.TimeBlock{
				Start:    cur,
				End:      s.end,
				Category: models.CategoryStudy,
				Task:     TaskReview,
			})
			break
		}

		n := min(int(s.end-cur), item.RemainingMinutes)
		dueOffset := int(item.Deadline.Due.Sub(models.Clock(0).On(a.date)).Minutes())
		if dueOffset < int(s.end) {
			n = min(n, dueOffset-int(cur))
		}
		if n <= 0 {
			a.pos++
			continue
		}

		due := item.Deadline.Due.In(a.date.Location()).Format(constants.DueFormat)
		priority := item.Deadline.Priority
		if priority == "" {
			priority = models.PriorityMedium
		}
		blocks = append(blocks, models.TimeBlock{
			Start:      cur,
			End:        cur.Add(n),
			Category:   models.CategoryStudy,
			Task:       item.Deadline.Title,
			Notes:      fmt.Sprintf("Due %s (%s priority)", due, priority),
			DeadlineID: item.Deadline.ID,
		})
		item.RemainingMinutes -= n
		a.consumed[item.Index] += n
		cur = cur.Add(n)
	}
	return blocks
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%dh %02dm", m/60, m%60)
}
