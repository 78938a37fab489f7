package provider

import (
	"context"

	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/scheduler"
)

// Planner produces a schedule for a request.
type Planner interface {
	Generate(ctx context.Context, req models.ScheduleRequest) (models.Schedule, error)
}

// Local runs the deterministic scheduler in process.
type Local struct {
	sched *scheduler.Scheduler
}

func NewLocal(s *scheduler.Scheduler) *Local {
	if s == nil {
		s = scheduler.New()
	}
	return &Local{sched: s}
}

func (l *Local) Generate(ctx context.Context, req models.ScheduleRequest) (models.Schedule, error) {
	if err := ctx.Err(); err != nil {
		return models.Schedule{}, err
	}
	return l.sched.Generate(req)
}
