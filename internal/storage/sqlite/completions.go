package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/habitgrid/internal/errors"
	"github.com/julianstephens/habitgrid/internal/logger"
	"github.com/julianstephens/habitgrid/internal/models"
)

func (s *Store) queryDates(query string, args ...interface{}) ([]string, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := []string{}
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (s *Store) ListCompletionDates(habitID string) ([]string, error) {
	return s.queryDates(`
		SELECT completed_at FROM habit_completions
		WHERE habit_id = ? ORDER BY completed_at`, habitID)
}

func (s *Store) ListCompletionDatesInRange(habitID, start, end string) ([]string, error) {
	return s.queryDates(`
		SELECT completed_at FROM habit_completions
		WHERE habit_id = ? AND completed_at BETWEEN ? AND ?
		ORDER BY completed_at`, habitID, start, end)
}

// activeHabit fails unless id names an existing, unarchived habit.
func activeHabit(tx *sql.Tx, id string) error {
	var archivedAt sql.NullString
	err := tx.QueryRow("SELECT archived_at FROM habits WHERE id = ?", id).Scan(&archivedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", errors.ErrHabitNotFound, id)
	}
	if err != nil {
		return err
	}
	if archivedAt.Valid {
		return fmt.Errorf("%w: %s", errors.ErrHabitArchived, id)
	}
	return nil
}

func (s *Store) ToggleCompletion(habitID, day string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if err := activeHabit(tx, habitID); err != nil {
		return false, err
	}

	result, err := tx.Exec("DELETE FROM habit_completions WHERE habit_id = ? AND completed_at = ?", habitID, day)
	if err != nil {
		return false, err
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	if removed == 0 {
		if _, err := tx.Exec(
			"INSERT INTO habit_completions (id, habit_id, completed_at) VALUES (?, ?, ?)",
			uuid.New().String(), habitID, day); err != nil {
			return false, fmt.Errorf("failed to insert completion: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}

	completed := removed == 0
	logger.Debug("completion toggled", "habit", habitID, "day", day, "completed", completed)
	return completed, nil
}

func (s *Store) AddCompletion(habitID, day string) error {
	_, err := s.db.Exec(`
		INSERT INTO habit_completions (id, habit_id, completed_at) VALUES (?, ?, ?)
		ON CONFLICT (habit_id, completed_at) DO NOTHING`,
		uuid.New().String(), habitID, day)
	if err != nil {
		return fmt.Errorf("failed to add completion: %w", err)
	}
	return nil
}

func (s *Store) GetAllCompletions() ([]models.Completion, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, completed_at FROM habit_completions
		ORDER BY habit_id, completed_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	completions := []models.Completion{}
	for rows.Next() {
		var c models.Completion
		if err := rows.Scan(&c.ID, &c.HabitID, &c.Day); err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}
