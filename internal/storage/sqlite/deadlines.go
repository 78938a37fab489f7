package sqlite

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
		INSERT OR REPLACE INTO deadlines (id, title, due, estimated_hours, priority, details, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, NULL)`,
		d.ID, d.Title, d.Due.Format(time.RFC3339), d.EstimatedHours, string(d.Priority), d.Details,
	)
	return err
}

func (s *Store) GetDeadline(id string) (models.Deadline, error) {
	row := s.db.QueryRow("SELECT "+deadlineColumns+" FROM deadlines WHERE id = ? AND deleted_at IS NULL", id)
	d, err := scanDeadline(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Deadline{}, fmt.Errorf("deadline %s: %w", id, storage.ErrNotFound)
	}
	return d, err
}

// GetAllDeadlines returns active deadlines ordered by due time.
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
	res, err := s.db.Exec("UPDATE deadlines SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
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
	var due, priority string
	var deletedAt sql.NullString
	if err := row.Scan(&d.ID, &d.Title, &due, &d.EstimatedHours, &priority, &d.Details, &deletedAt); err != nil {
		return models.Deadline{}, err
	}
	parsed, err := time.Parse(time.RFC3339, due)
	if err != nil {
		return models.Deadline{}, fmt.Errorf("invalid due time %q for deadline %s: %w", due, d.ID, err)
	}
	d.Due = parsed
	d.Priority = models.Priority(priority)
	if deletedAt.Valid {
		d.DeletedAt = &deletedAt.String
	}
	return d, nil
}
