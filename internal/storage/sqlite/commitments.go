package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/storage"
)

func (s *Store) AddCommitment(c models.FixedCommitment) error {
	var weekday sql.NullInt64
	if c.Weekday != nil {
		weekday = sql.NullInt64{Int64: int64(*c.Weekday), Valid: true}
	}
	var date sql.NullString
	if c.Date != "" {
		date = sql.NullString{String: c.Date, Valid: true}
	}
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO commitments (id, label, location, weekday, date, start_time, end_time, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NULL)`,
		c.ID, c.Label, c.Location, weekday, date, c.Start, c.End,
	)
	return err
}

func (s *Store) GetAllCommitments() ([]models.FixedCommitment, error) {
	rows, err := s.db.Query(`
		SELECT id, label, location, weekday, date, start_time, end_time
		FROM commitments WHERE deleted_at IS NULL ORDER BY COALESCE(weekday, 7), date, start_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.FixedCommitment
	for rows.Next() {
		var c models.FixedCommitment
		var weekday sql.NullInt64
		var date sql.NullString
		if err := rows.Scan(&c.ID, &c.Label, &c.Location, &weekday, &date, &c.Start, &c.End); err != nil {
			return nil, err
		}
		if weekday.Valid {
			wd := time.Weekday(weekday.Int64)
			c.Weekday = &wd
		}
		c.Date = date.String
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) DeleteCommitment(id string) error {
	res, err := s.db.Exec("UPDATE commitments SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
		time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("commitment %s: %w", id, storage.ErrNotFound)
	}
	return nil
}
