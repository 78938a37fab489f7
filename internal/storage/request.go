package storage

import (
	"fmt"

	"github.com/julianstephens/studyplan/internal/models"
)

// BuildRequest assembles a schedule request from stored deadlines,
// commitments and settings. Zero days or an empty mode fall back to the
// stored settings.
func BuildRequest(p Provider, startDate string, days int, mode string) (models.ScheduleRequest, error) {
	settings, err := p.GetSettings()
	if err != nil {
		return models.ScheduleRequest{}, fmt.Errorf("failed to load settings: %w", err)
	}
	models.ApplyDefaultSettings(&settings)

	deadlines, err := p.GetAllDeadlines()
	if err != nil {
		return models.ScheduleRequest{}, fmt.Errorf("failed to load deadlines: %w", err)
	}
	commitments, err := p.GetAllCommitments()
	if err != nil {
		return models.ScheduleRequest{}, fmt.Errorf("failed to load commitments: %w", err)
	}

	if days == 0 {
		days = settings.PlanDays
	}
	if mode == "" {
		mode = settings.StudyMode
	}

	return models.ScheduleRequest{
		Deadlines:        deadlines,
		FixedCommitments: commitments,
		Lifestyle:        settings.Lifestyle(),
		StudyMode:        models.StudyMode(mode),
		NumberOfDays:     days,
		StartDate:        startDate,
		Timezone:         settings.Timezone,
	}, nil
}
