// Package history keeps a SQLite record of completed survey sessions: which
// survey was taken, when, the final category totals and the matched results.
// Sessions in progress are never stored.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/persona/internal/models"
)

// ErrNotFound is returned by Get for an unknown session ID
var ErrNotFound = errors.New("session not found")

// Record is one completed session
type Record struct {
	ID          string
	SurveyTitle string
	SurveyPath  string
	Shuffled    bool
	CompletedAt time.Time
	Scores      []models.CategoryScore
	Results     []string
}

// Filter narrows List
type Filter struct {
	// SurveyTitle matches exactly when set
	SurveyTitle string
	// Limit caps the number of records; 0 means no limit
	Limit int
}

// Store manages the session history database
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open opens (creating if needed) the history database at dbPath and applies
// pending migrations. ":memory:" opens a private in-memory database.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA busy_timeout=5000", // must be first
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if err := execWithRetry(db, p, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", p, err)
		}
	}

	s := &Store{db: db, dbPath: dbPath}
	if err := s.ApplyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return s, nil
}

// execWithRetry retries "database is locked" failures with exponential backoff
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Path returns the database path the store was opened with
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save stores a completed session. A zero CompletedAt is set to now.
func (s *Store) Save(ctx context.Context, r *Record) error {
	if r.ID == "" {
		return errors.New("session id is required")
	}
	if r.CompletedAt.IsZero() {
		r.CompletedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, survey_title, survey_path, completed_at, shuffled) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.SurveyTitle, r.SurveyPath, r.CompletedAt.UTC(), r.Shuffled)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	for _, sc := range r.Scores {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO session_scores (session_id, ordinal, category, points) VALUES (?, ?, ?, ?)`,
			r.ID, sc.Ordinal, sc.Name, sc.Points)
		if err != nil {
			return fmt.Errorf("insert score for %q: %w", sc.Name, err)
		}
	}
	for i, text := range r.Results {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO session_results (session_id, position, text) VALUES (?, ?, ?)`,
			r.ID, i+1, text)
		if err != nil {
			return fmt.Errorf("insert result %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

// Get returns one session with its scores and results
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	r := &Record{}
	var path sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, survey_title, survey_path, completed_at, shuffled FROM sessions WHERE id = ?`, id).
		Scan(&r.ID, &r.SurveyTitle, &path, &r.CompletedAt, &r.Shuffled)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	r.SurveyPath = path.String

	if err := s.loadDetails(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// List returns completed sessions, most recent first
func (s *Store) List(ctx context.Context, f Filter) ([]*Record, error) {
	query := `SELECT id, survey_title, survey_path, completed_at, shuffled FROM sessions`
	var args []any
	if f.SurveyTitle != "" {
		query += ` WHERE survey_title = ?`
		args = append(args, f.SurveyTitle)
	}
	query += ` ORDER BY completed_at DESC, id ASC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	var records []*Record
	for rows.Next() {
		r := &Record{}
		var path sql.NullString
		if err := rows.Scan(&r.ID, &r.SurveyTitle, &path, &r.CompletedAt, &r.Shuffled); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan session: %w", err)
		}
		r.SurveyPath = path.String
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	rows.Close()

	// details are loaded after the session rows are released; an in-memory
	// store has a single connection
	for _, r := range records {
		if err := s.loadDetails(ctx, r); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// Averages returns the mean points per category across every stored session of
// the named survey, and how many sessions contributed.
func (s *Store) Averages(ctx context.Context, surveyTitle string) ([]models.CategoryScore, int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sessions WHERE survey_title = ?`, surveyTitle).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT sc.ordinal, sc.category, AVG(sc.points)
FROM session_scores sc
JOIN sessions se ON se.id = sc.session_id
WHERE se.survey_title = ?
GROUP BY sc.ordinal, sc.category
ORDER BY sc.ordinal ASC`, surveyTitle)
	if err != nil {
		return nil, 0, fmt.Errorf("query averages: %w", err)
	}
	defer rows.Close()

	var scores []models.CategoryScore
	for rows.Next() {
		var sc models.CategoryScore
		if err := rows.Scan(&sc.Ordinal, &sc.Name, &sc.Points); err != nil {
			return nil, 0, fmt.Errorf("scan average: %w", err)
		}
		scores = append(scores, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate averages: %w", err)
	}
	return scores, count, nil
}

// Delete removes a session and its details
func (s *Store) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"session_scores", "session_results"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE session_id = ?`, id); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return tx.Commit()
}

func (s *Store) loadDetails(ctx context.Context, r *Record) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ordinal, category, points FROM session_scores WHERE session_id = ? ORDER BY ordinal ASC`, r.ID)
	if err != nil {
		return fmt.Errorf("query scores: %w", err)
	}
	r.Scores = nil
	for rows.Next() {
		var sc models.CategoryScore
		if err := rows.Scan(&sc.Ordinal, &sc.Name, &sc.Points); err != nil {
			rows.Close()
			return fmt.Errorf("scan score: %w", err)
		}
		r.Scores = append(r.Scores, sc)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return fmt.Errorf("iterate scores: %w", err)
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT text FROM session_results WHERE session_id = ? ORDER BY position ASC`, r.ID)
	if err != nil {
		return fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()
	r.Results = nil
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return fmt.Errorf("scan result: %w", err)
		}
		r.Results = append(r.Results, text)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate results: %w", err)
	}
	return nil
}
