package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/storage"
)

// SavePlan replaces any stored plan for the same date, including a
// soft-deleted one.
func (s *Store) SavePlan(plan models.DayPlan) error {
	if plan.DeletedAt != nil {
		return fmt.Errorf("cannot save a plan with deleted_at set; use DeletePlan to soft-delete")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM plan_blocks WHERE plan_date = ?", plan.Date); err != nil {
		return err
	}
	_, err = tx.Exec(`
		INSERT OR REPLACE INTO plans (date, wake, bedtime, study_minutes, rest, degraded, warning, created_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL)`,
		plan.Date, plan.Wake.Minutes(), plan.Bedtime.Minutes(), plan.StudyMinutes,
		plan.Rest, plan.Degraded, plan.Warning, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO plan_blocks (plan_date, start_min, end_min, category, task, notes, deadline_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, b := range plan.Blocks {
		if _, err := stmt.Exec(plan.Date, b.Start.Minutes(), b.End.Minutes(), string(b.Category), b.Task, b.Notes, b.DeadlineID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) GetPlan(date string) (models.DayPlan, error) {
	var plan models.DayPlan
	var wake, bedtime int
	err := s.db.QueryRow(`
		SELECT date, wake, bedtime, study_minutes, rest, degraded, warning
		FROM plans WHERE date = ? AND deleted_at IS NULL`, date,
	).Scan(&plan.Date, &wake, &bedtime, &plan.StudyMinutes, &plan.Rest, &plan.Degraded, &plan.Warning)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DayPlan{}, fmt.Errorf("plan for %s: %w", date, storage.ErrNotFound)
	}
	if err != nil {
		return models.DayPlan{}, err
	}
	plan.Wake = models.Clock(wake)
	plan.Bedtime = models.Clock(bedtime)

	rows, err := s.db.Query(`
		SELECT start_min, end_min, category, task, notes, deadline_id
		FROM plan_blocks WHERE plan_date = ? ORDER BY start_min`, date)
	if err != nil {
		return models.DayPlan{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var b models.TimeBlock
		var start, end int
		var category string
		if err := rows.Scan(&start, &end, &category, &b.Task, &b.Notes, &b.DeadlineID); err != nil {
			return models.DayPlan{}, err
		}
		b.Start = models.Clock(start)
		b.End = models.Clock(end)
		b.Category = models.Category(category)
		plan.Blocks = append(plan.Blocks, b)
	}
	return plan, rows.Err()
}

func (s *Store) DeletePlan(date string) error {
	res, err := s.db.Exec("UPDATE plans SET deleted_at = ? WHERE date = ? AND deleted_at IS NULL",
		time.Now().UTC().Format(time.RFC3339), date)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("plan for %s: %w", date, storage.ErrNotFound)
	}
	return nil
}
