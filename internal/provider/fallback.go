package provider

import (
	"context"
	"time"

	"github.com/julianstephens/studyplan/internal/constants"
	"github.com/julianstephens/studyplan/internal/logger"
	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/validation"
)

// Fallback tries Primary under Timeout and returns its schedule only if it
// passes validation against the request. Otherwise Secondary answers.
type Fallback struct {
	Primary   Planner
	Secondary Planner
	Timeout   time.Duration

	validator *validation.Validator
}

func NewFallback(primary, secondary Planner) *Fallback {
	return &Fallback{
		Primary:   primary,
		Secondary: secondary,
		Timeout:   constants.DefaultProviderTimeout,
		validator: validation.New(),
	}
}

func (f *Fallback) Generate(ctx context.Context, req models.ScheduleRequest) (models.Schedule, error) {
	// Bad input is rejected the same way whichever planner would answer.
	if err := f.validator.ValidateRequest(req); err != nil {
		return models.Schedule{}, err
	}
	if f.Primary == nil {
		return f.Secondary.Generate(ctx, req)
	}

	timeout := f.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultProviderTimeout
	}
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	schedule, err := f.Primary.Generate(pctx, req)
	if err == nil {
		err = f.validator.ValidateSchedule(schedule, req)
	}
	if err == nil {
		logger.Info("Using schedule from primary planner", "days", len(schedule.Days))
		return schedule, nil
	}

	logger.Warn("Primary planner failed, falling back", "error", err)
	return f.Secondary.Generate(ctx, req)
}
