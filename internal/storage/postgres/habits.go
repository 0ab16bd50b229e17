package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/habitgrid/internal/errors"
	"github.com/julianstephens/habitgrid/internal/logger"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/storage"
	"github.com/julianstephens/habitgrid/internal/tracker"
)

const habitColumns = `id, name, frequency_type, frequency_days, frequency_times_per_week,
	color, icon, sort_order, created_at, archived_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

type queryRower interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var freq storage.FrequencyColumns
	var archivedAt sql.NullTime

	err := row.Scan(&h.ID, &h.Name, &freq.Type, &freq.Days, &freq.TimesPerWeek,
		&h.Color, &h.Icon, &h.SortOrder, &h.CreatedAt, &archivedAt)
	if err != nil {
		return models.Habit{}, err
	}

	h.Frequency, err = freq.Decode()
	if err != nil {
		return models.Habit{}, fmt.Errorf("habit %s: %w", h.ID, err)
	}
	h.CreatedAt = h.CreatedAt.UTC()
	if archivedAt.Valid {
		t := archivedAt.Time.UTC()
		h.ArchivedAt = &t
	}
	return h, nil
}

func (s *Store) queryHabits(query string, args ...interface{}) ([]models.Habit, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) getHabit(where string, arg string) (models.Habit, error) {
	row := s.db.QueryRow("SELECT "+habitColumns+" FROM habits WHERE "+where, arg)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("%w: %s", errors.ErrHabitNotFound, arg)
	}
	return h, err
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	return s.getHabit("id = $1", id)
}

func (s *Store) GetHabitByName(name string) (models.Habit, error) {
	return s.getHabit("name = $1", name)
}

func (s *Store) ListActiveHabits() ([]models.Habit, error) {
	return s.queryHabits(`SELECT ` + habitColumns + ` FROM habits
		WHERE archived_at IS NULL
		ORDER BY sort_order ASC, created_at DESC`)
}

func (s *Store) ListArchivedHabits() ([]models.Habit, error) {
	return s.queryHabits(`SELECT ` + habitColumns + ` FROM habits
		WHERE archived_at IS NOT NULL
		ORDER BY archived_at DESC`)
}

func nameTaken(q queryRower, name, exceptID string) (bool, error) {
	var exists bool
	err := q.QueryRow("SELECT EXISTS (SELECT 1 FROM habits WHERE name = $1 AND id <> $2)", name, exceptID).Scan(&exists)
	return exists, err
}

// nextSortOrder locks the habits table for the rest of tx so two writers
// cannot hand out the same position.
func nextSortOrder(tx *sql.Tx) (int, error) {
	if _, err := tx.Exec("LOCK TABLE habits IN SHARE ROW EXCLUSIVE MODE"); err != nil {
		return 0, err
	}
	var next int
	err := tx.QueryRow("SELECT COALESCE(MAX(sort_order), -1) + 1 FROM habits WHERE archived_at IS NULL").Scan(&next)
	return next, err
}

func (s *Store) AddHabit(habit models.Habit) error {
	cols, err := storage.EncodeFrequency(habit.Frequency)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	order, err := nextSortOrder(tx)
	if err != nil {
		return fmt.Errorf("failed to compute sort order: %w", err)
	}

	taken, err := nameTaken(tx, habit.Name, habit.ID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: %q", errors.ErrDuplicateName, habit.Name)
	}

	var archivedAt sql.NullTime
	if habit.ArchivedAt != nil {
		archivedAt = sql.NullTime{Time: habit.ArchivedAt.UTC(), Valid: true}
	}

	_, err = tx.Exec(`
		INSERT INTO habits (id, name, frequency_type, frequency_days, frequency_times_per_week,
			color, icon, sort_order, created_at, archived_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		habit.ID, habit.Name, cols.Type, cols.Days, cols.TimesPerWeek,
		habit.Color, habit.Icon, order, habit.CreatedAt.UTC(), archivedAt)
	if err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	logger.Debug("habit added", "habit", habit.ID, "name", habit.Name, "sort_order", order)
	return nil
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	cols, err := storage.EncodeFrequency(habit.Frequency)
	if err != nil {
		return err
	}

	taken, err := nameTaken(s.db, habit.Name, habit.ID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: %q", errors.ErrDuplicateName, habit.Name)
	}

	result, err := s.db.Exec(`
		UPDATE habits SET name = $1, frequency_type = $2, frequency_days = $3,
			frequency_times_per_week = $4, color = $5, icon = $6, sort_order = $7
		WHERE id = $8`,
		habit.Name, cols.Type, cols.Days, cols.TimesPerWeek,
		habit.Color, habit.Icon, habit.SortOrder, habit.ID)
	if err != nil {
		return err
	}
	return requireRow(result, habit.ID)
}

func requireRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", errors.ErrHabitNotFound, id)
	}
	return nil
}

func (s *Store) ArchiveHabit(id string, at time.Time) error {
	result, err := s.db.Exec(`
		UPDATE habits SET archived_at = $1 WHERE id = $2 AND archived_at IS NULL`,
		at.UTC(), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, err := s.GetHabit(id); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s", errors.ErrHabitArchived, id)
	}

	logger.Info("habit archived", "habit", id)
	return nil
}

func (s *Store) RestoreHabit(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	order, err := nextSortOrder(tx)
	if err != nil {
		return fmt.Errorf("failed to compute sort order: %w", err)
	}

	var archivedAt sql.NullTime
	err = tx.QueryRow("SELECT archived_at FROM habits WHERE id = $1", id).Scan(&archivedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", errors.ErrHabitNotFound, id)
	}
	if err != nil {
		return err
	}
	if !archivedAt.Valid {
		return fmt.Errorf("%w: %s", errors.ErrHabitNotArchived, id)
	}

	if _, err := tx.Exec("UPDATE habits SET archived_at = NULL, sort_order = $1 WHERE id = $2", order, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	logger.Info("habit restored", "habit", id, "sort_order", order)
	return nil
}

func deleteHabitTx(tx *sql.Tx, id string) error {
	if _, err := tx.Exec("DELETE FROM habit_completions WHERE habit_id = $1", id); err != nil {
		return fmt.Errorf("failed to delete completions: %w", err)
	}
	result, err := tx.Exec("DELETE FROM habits WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRow(result, id)
}

func (s *Store) PermanentlyDeleteHabit(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteHabitTx(tx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	logger.Info("habit permanently deleted", "habit", id)
	return nil
}

func (s *Store) ReorderHabits(ids []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("UPDATE habits SET sort_order = $1 WHERE id = $2 AND archived_at IS NULL")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, id := range ids {
		result, err := stmt.Exec(i, id)
		if err != nil {
			return err
		}
		if err := requireRow(result, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) PurgeExpiredHabits(retentionDays int, now time.Time) (int, error) {
	archived, err := s.ListArchivedHabits()
	if err != nil {
		return 0, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	purged := 0
	for _, h := range archived {
		if !tracker.IsExpired(*h.ArchivedAt, now, retentionDays) {
			continue
		}
		if err := deleteHabitTx(tx, h.ID); err != nil {
			return 0, fmt.Errorf("failed to purge habit %s: %w", h.ID, err)
		}
		logger.Info("purged expired habit", "habit", h.ID, "name", h.Name, "archived_at", *h.ArchivedAt)
		purged++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return purged, nil
}
