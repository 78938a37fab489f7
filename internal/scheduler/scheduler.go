package scheduler

import (
	"time"

	"github.com/julianstephens/studyplan/internal/constants"
	apperrors "github.com/julianstephens/studyplan/internal/errors"
	"github.com/julianstephens/studyplan/internal/logger"
	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/utils"
	"github.com/julianstephens/studyplan/internal/validation"
)

type Config struct {
	// WeaknessKeywords mark deadlines that need extra effort. Nil means
	// constants.DefaultWeaknessKeywords.
	WeaknessKeywords []string
}

type Scheduler struct {
	cfg       Config
	validator *validation.Validator
	builder   *DayBuilder
}

func New() *Scheduler {
	return NewWithConfig(Config{})
}

func NewWithConfig(cfg Config) *Scheduler {
	if cfg.WeaknessKeywords == nil {
		cfg.WeaknessKeywords = constants.DefaultWeaknessKeywords
	}
	v := validation.New()
	return &Scheduler{cfg: cfg, validator: v, builder: &DayBuilder{validator: v}}
}

// Generate creates one DayPlan per requested day plus a workload analysis.
// Malformed input yields an *errors.ValidationError and overlapping
// commitments an *errors.ConflictError; days that cannot hold meals or study
// come back degraded and are listed in the analysis.
func (s *Scheduler) Generate(req models.ScheduleRequest) (models.Schedule, error) {
	if err := s.validator.ValidateRequest(req); err != nil {
		return models.Schedule{}, err
	}

	loc, err := utils.LoadLocation(req.Timezone)
	if err != nil {
		return models.Schedule{}, apperrors.Invalid("timezone", "%v", err)
	}
	start, err := utils.ParseDateInLocation(req.StartDate, loc)
	if err != nil {
		return models.Schedule{}, apperrors.Invalid("start_date", "%v", err)
	}
	mode, err := models.ParseStudyMode(string(req.StudyMode))
	if err != nil {
		return models.Schedule{}, apperrors.Invalid("study_mode", "%v", err)
	}

	for i := 0; i < req.NumberOfDays; i++ {
		if err := s.validator.CheckCommitments(start.AddDate(0, 0, i), req.FixedCommitments); err != nil {
			return models.Schedule{}, err
		}
	}

	logger.Debug("Generating schedule",
		"start", req.StartDate, "days", req.NumberOfDays, "mode", mode,
		"deadlines", len(req.Deadlines), "commitments", len(req.FixedCommitments))

	ledger := NewLedger(req.Deadlines, s.cfg.WeaknessKeywords)
	planner := NewBudgetPlanner(req.Lifestyle, mode)
	tally := &workloadTally{}

	schedule := models.Schedule{Days: make([]models.DayPlan, 0, req.NumberOfDays)}
	today := validation.CommitmentsOn(start, req.FixedCommitments)
	for i := 0; i < req.NumberOfDays; i++ {
		date := start.AddDate(0, 0, i)
		tomorrow := validation.CommitmentsOn(date.AddDate(0, 0, 1), req.FixedCommitments)
		rest := req.ForbidSundays() && date.Weekday() == time.Sunday

		budget := planner.Plan(date, ledger)
		sleepMin := budget.SleepMinutes
		if rest {
			sleepMin = planner.RestSleepMinutes()
		}

		wake := wakeFor(today)
		nextWake := wakeFor(tomorrow)
		bedtime, err := bedtimeFor(date, today, nextWake, sleepMin)
		if err != nil {
			return models.Schedule{}, err
		}
		// The preferred sleep is never shorter than the negotiated one, so
		// this bedtime is never later than the real one.
		refBedtime, err := bedtimeFor(date, today, nextWake, planner.RestSleepMinutes())
		if err != nil {
			return models.Schedule{}, err
		}

		out, err := s.builder.Build(dayInput{
			date:          date,
			commitments:   today,
			wake:          wake,
			bedtime:       bedtime,
			refBedtime:    refBedtime,
			nextWake:      nextWake,
			budget:        budget,
			forbidAfter23: req.ForbidAfter23(),
			rest:          rest,
		})
		if err != nil {
			return models.Schedule{}, err
		}
		ledger.Consume(out.consumed)

		reason := ""
		if out.infeasible != nil {
			reason = out.infeasible.Reason
		}
		tally.addDay(out.plan, budget, reason)
		schedule.Days = append(schedule.Days, out.plan)

		logger.Debug("Built day plan",
			"date", out.plan.Date, "wake", wake, "bedtime", bedtime,
			"study_min", out.plan.StudyMinutes, "rest", rest, "degraded", out.plan.Degraded)

		today = tomorrow
	}

	last := start.AddDate(0, 0, req.NumberOfDays-1).Format(constants.DateFormat)
	schedule.Workload = analyzeWorkload(req.Deadlines, start, tally, ledger.RemainingMinutes(), last)

	logger.Info("Schedule generated",
		"days", len(schedule.Days), "score", schedule.Workload.Score, "level", schedule.Workload.Level)
	return schedule, nil
}

// wakeFor returns the anchor wake time, or the start of the first commitment
// when that is earlier. Commitments must be sorted by start.
func wakeFor(commitments []models.FixedCommitment) models.Clock {
	wake := models.Clock(constants.WakeAnchorMin)
	if len(commitments) > 0 {
		if start, _, err := commitments[0].Span(); err == nil && start < wake {
			wake = start
		}
	}
	return wake
}

// bedtimeFor counts sleepMin back from the next wake time. Bedtime only moves
// later to clear the day's last commitment, and never so late that less than
// the sleep floor remains.
func bedtimeFor(date time.Time, commitments []models.FixedCommitment, nextWake models.Clock, sleepMin int) (models.Clock, error) {
	wakeEdge := nextWake.Add(constants.MinutesPerDay)
	bedtime := wakeEdge.Add(-sleepMin)

	var lastEnd models.Clock
	for _, c := range commitments {
		if _, end, err := c.Span(); err == nil && end > lastEnd {
			lastEnd = end
		}
	}
	if bedtime < lastEnd {
		bedtime = lastEnd
	}

	if int(wakeEdge-bedtime) < constants.SleepFloorMin {
		return 0, apperrors.Invalid("fixed_commitments",
			"commitments on %s end at %s and the next day starts at %s, leaving less than %s of sleep",
			date.Format(constants.DateFormat), lastEnd, nextWake, formatMinutes(constants.SleepFloorMin))
	}
	return bedtime, nil
}

