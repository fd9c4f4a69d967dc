// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/mathdrill/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for finished practice sessions.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			uid TEXT NOT NULL UNIQUE,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			user_name TEXT NOT NULL,
			start_difficulty INTEGER NOT NULL,
			end_difficulty INTEGER NOT NULL,
			puzzles INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			high_acc REAL NOT NULL,
			low_acc REAL NOT NULL,
			min_attempts INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_attempts (
			session_id INTEGER NOT NULL,
			puzzle_id INTEGER NOT NULL,
			difficulty INTEGER NOT NULL,
			problem TEXT NOT NULL,
			correct INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			user_answer INTEGER NOT NULL,
			correct_answer INTEGER NOT NULL,
			answered_at TEXT NOT NULL,
			PRIMARY KEY (session_id, puzzle_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_session_attempts_difficulty ON session_attempts(difficulty);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a finished session and its attempts.
func (s *Store) InsertSession(ctx context.Context, stats model.SessionStats, attempts []model.AttemptRecord) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (uid, started_at, ended_at, user_name, start_difficulty, end_difficulty, puzzles, correct, high_acc, low_acc, min_attempts, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stats.UID,
		stats.StartedAt.Format(time.RFC3339Nano),
		stats.EndedAt.Format(time.RFC3339Nano),
		stats.UserName,
		int(stats.StartDifficulty),
		int(stats.EndDifficulty),
		stats.Puzzles,
		stats.Correct,
		stats.HighAcc,
		stats.LowAcc,
		stats.MinAttempts,
		stats.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(attempts) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO session_attempts (session_id, puzzle_id, difficulty, problem, correct, elapsed_ms, user_answer, correct_answer, answered_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, a := range attempts {
			if _, err = stmt.ExecContext(ctx, id, a.PuzzleID, int(a.Difficulty), a.Problem, a.Correct,
				a.Elapsed.Milliseconds(), a.UserAnswer, a.CorrectAnswer, a.AnsweredAt.Format(time.RFC3339Nano)); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListSessions returns session aggregates filtered by stats config, oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Name != "" {
		clauses = append(clauses, "user_name = ?")
		args = append(args, cfg.Name)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, uid, user_name, ended_at, start_difficulty, end_difficulty, puzzles, correct, duration_ms
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		var startDiff, endDiff int
		if err := rows.Scan(&agg.SessionID, &agg.UID, &agg.UserName, &endedAt, &startDiff, &endDiff, &agg.Puzzles, &agg.Correct, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		agg.StartDifficulty = model.Difficulty(startDiff)
		agg.EndDifficulty = model.Difficulty(endDiff)
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListDifficultyAggregates aggregates stored attempts per difficulty across sessions.
func (s *Store) ListDifficultyAggregates(ctx context.Context, sessionIDs []int64) ([]model.DifficultyAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(sessionIDs))
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT difficulty, COUNT(*) AS attempts, SUM(correct) AS correct, SUM(elapsed_ms) AS time_sum_ms
		FROM session_attempts
		WHERE session_id IN (%s)
		GROUP BY difficulty
		ORDER BY difficulty ASC`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.DifficultyAggregate
	for rows.Next() {
		var agg model.DifficultyAggregate
		var diff int
		if err := rows.Scan(&diff, &agg.Attempts, &agg.Correct, &agg.TimeSumMs); err != nil {
			return nil, err
		}
		agg.Difficulty = model.Difficulty(diff)
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListAttempts returns the stored attempts of one session in question order.
func (s *Store) ListAttempts(ctx context.Context, sessionID int64) ([]model.AttemptRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT puzzle_id, difficulty, problem, correct, elapsed_ms, user_answer, correct_answer, answered_at
		 FROM session_attempts
		 WHERE session_id = ?
		 ORDER BY puzzle_id ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.AttemptRecord
	for rows.Next() {
		var rec model.AttemptRecord
		var diff int
		var elapsedMs int64
		var answeredAt string
		if err := rows.Scan(&rec.PuzzleID, &diff, &rec.Problem, &rec.Correct, &elapsedMs, &rec.UserAnswer, &rec.CorrectAnswer, &answeredAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, answeredAt)
		if err != nil {
			return nil, err
		}
		rec.Difficulty = model.Difficulty(diff)
		rec.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		rec.AnsweredAt = parsed
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
