package storage

import (
	"errors"

	"github.com/julianstephens/studyplan/internal/models"
)

// ErrNotFound is returned when a record does not exist or is soft-deleted.
var ErrNotFound = errors.New("not found")

// CommitmentSource supplies the fixed commitments a schedule is built around.
type CommitmentSource interface {
	GetAllCommitments() ([]models.FixedCommitment, error)
}

// DeadlineSource supplies the outstanding deadlines.
type DeadlineSource interface {
	GetAllDeadlines() ([]models.Deadline, error)
}

// PlanSink persists generated day plans.
type PlanSink interface {
	SavePlan(models.DayPlan) error
}

type Provider interface {
	CommitmentSource
	DeadlineSource
	PlanSink

	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Deadlines
	AddDeadline(models.Deadline) error
	GetDeadline(id string) (models.Deadline, error)
	DeleteDeadline(id string) error

	// Commitments
	AddCommitment(models.FixedCommitment) error
	DeleteCommitment(id string) error

	// Plans
	GetPlan(date string) (models.DayPlan, error)
	DeletePlan(date string) error

	// Utils
	GetConfigPath() string
}
