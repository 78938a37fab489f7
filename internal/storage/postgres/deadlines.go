package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/storage"
)

const deadlineColumns = "id, title, due, estimated_hours, priority, details, deleted_at"

func (s *Store) AddDeadline(d models.Deadline) error {
	if d.DeletedAt != nil {
		return fmt.Errorf("cannot save a deadline with deleted_at set")
	}
	_, err := s.db.Exec(`
		INSERT INTO deadlines (id, title, due, estimated_hours, priority, details, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULL)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			due = EXCLUDED.due,
			estimated_hours = EXCLUDED.estimated_hours,
			priority = EXCLUDED.priority,
			details = EXCLUDED.details,
			deleted_at = NULL`,
		d.ID, d.Title, d.Due, d.EstimatedHours, string(d.Priority), d.Details,
	)
	return err
}

func (s *Store) GetDeadline(id string) (models.Deadline, error) {
	row := s.db.QueryRow("SELECT "+deadlineColumns+" FROM deadlines WHERE id = $1 AND deleted_at IS NULL", id)
	d, err := scanDeadline(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Deadline{}, fmt.Errorf("deadline %s: %w", id, storage.ErrNotFound)
	}
	return d, err
}

func (s *Store) GetAllDeadlines() ([]models.Deadline, error) {
	rows, err := s.db.Query("SELECT " + deadlineColumns + " FROM deadlines WHERE deleted_at IS NULL ORDER BY due, title")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deadlines []models.Deadline
	for rows.Next() {
		d, err := scanDeadline(rows)
		if err != nil {
			return nil, err
		}
		deadlines = append(deadlines, d)
	}
	return deadlines, rows.Err()
}

func (s *Store) DeleteDeadline(id string) error {
	res, err := s.db.Exec("UPDATE deadlines SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL",
		time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("deadline %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDeadline(row scanner) (models.Deadline, error) {
	var d models.Deadline
	var priority string
	var deletedAt sql.NullString
	if err := row.Scan(&d.ID, &d.Title, &d.Due, &d.EstimatedHours, &priority, &d.Details, &deletedAt); err != nil {
		return models.Deadline{}, err
	}
	d.Priority = models.Priority(priority)
	if deletedAt.Valid {
		d.DeletedAt = &deletedAt.String
	}
	return d, nil
}
