package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// MarkLevelCompleted records a win. Best score and best moves left only ever
// increase across repeated wins.
func (s *Store) MarkLevelCompleted(gameID string, level, score, movesLeft int) error {
	_, err := s.db.Exec(
		`INSERT INTO level_progress (game_id, level, completed, best_score, best_moves_left, updated_at)
		 VALUES (?, ?, 1, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(game_id, level) DO UPDATE SET
		   completed = 1,
		   best_score = MAX(best_score, excluded.best_score),
		   best_moves_left = MAX(best_moves_left, excluded.best_moves_left),
		   updated_at = CURRENT_TIMESTAMP`,
		gameID, level, score, movesLeft,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot mark level %d completed: %w", level, err)
	}
	return nil
}

// IsLevelCompleted reports whether the level has been won at least once.
func (s *Store) IsLevelCompleted(gameID string, level int) (bool, error) {
	var completed bool
	err := s.db.QueryRow(
		"SELECT completed FROM level_progress WHERE game_id = ? AND level = ?",
		gameID, level,
	).Scan(&completed)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage: cannot query level %d: %w", level, err)
	}
	return completed, nil
}

// LevelProgress returns every stored level record for the game, by level.
func (s *Store) LevelProgress(gameID string) ([]LevelRecord, error) {
	rows, err := s.db.Query(
		`SELECT level, completed, best_score, best_moves_left, updated_at
		 FROM level_progress
		 WHERE game_id = ?
		 ORDER BY level`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query progress: %w", err)
	}
	defer rows.Close()

	var records []LevelRecord
	for rows.Next() {
		var r LevelRecord
		var updatedAt any
		if err := rows.Scan(&r.Level, &r.Completed, &r.BestScore, &r.BestMovesLeft, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan progress row: %w", err)
		}
		r.UpdatedAt = parseTime(updatedAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

// CurrentLevel returns the saved campaign position. Defaults to 1.
func (s *Store) CurrentLevel(gameID string) (int, error) {
	var level int
	err := s.db.QueryRow(
		"SELECT current_level FROM save_state WHERE game_id = ?",
		gameID,
	).Scan(&level)
	if errors.Is(err, sql.ErrNoRows) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query current level: %w", err)
	}
	return level, nil
}

// SetCurrentLevel saves the campaign position. Values below 1 are stored as 1.
func (s *Store) SetCurrentLevel(gameID string, level int) error {
	_, err := s.db.Exec(
		`INSERT INTO save_state (game_id, current_level) VALUES (?, ?)
		 ON CONFLICT(game_id) DO UPDATE SET current_level = excluded.current_level`,
		gameID, max(level, 1),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save current level: %w", err)
	}
	return nil
}

// ResetProgress clears completion records and rewinds the campaign to level 1.
// Scores are kept.
func (s *Store) ResetProgress(gameID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin reset: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec("DELETE FROM level_progress WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot reset progress: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM save_state WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot reset save state: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit reset: %w", err)
	}
	return nil
}
