package runstore

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users then delete the run database and start fresh.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run is one recorded audit.
type Run struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   time.Time
	Status       string
	Sources      []string
	PresentCount int
	MissingCount int
	QueuedMovies int
	QueuedShows  int
	Error        string
}

// Store manages run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the run database at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("run database path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// StartRun records a new run in the running state.
func (s *Store) StartRun(ctx context.Context, id string, startedAt time.Time, sources []string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("run id required")
	}
	encoded, err := json.Marshal(sources)
	if err != nil {
		return fmt.Errorf("encode sources: %w", err)
	}
	return s.execWithRetry(ctx,
		"INSERT INTO audit_runs (id, started_at, status, sources) VALUES (?, ?, ?, ?)",
		id, startedAt.UTC().Format(time.RFC3339), StatusRunning, string(encoded),
	)
}

// CompleteRun finalizes a run with its counts.
func (s *Store) CompleteRun(ctx context.Context, id string, finishedAt time.Time, present, missing, queuedMovies, queuedShows int) error {
	return s.finishRun(ctx, id, finishedAt, StatusCompleted, present, missing, queuedMovies, queuedShows, "")
}

// FailRun finalizes a run with the failure message.
func (s *Store) FailRun(ctx context.Context, id string, finishedAt time.Time, runErr error) error {
	message := ""
	if runErr != nil {
		message = runErr.Error()
	}
	return s.finishRun(ctx, id, finishedAt, StatusFailed, 0, 0, 0, 0, message)
}

func (s *Store) finishRun(ctx context.Context, id string, finishedAt time.Time, status string, present, missing, queuedMovies, queuedShows int, message string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("run id required")
	}
	var updated int64
	err := retryOnBusy(ensureContext(ctx), func() error {
		res, execErr := s.db.ExecContext(ensureContext(ctx),
			`UPDATE audit_runs
			 SET finished_at = ?, status = ?, present_count = ?, missing_count = ?, queued_movies = ?, queued_shows = ?, error = ?
			 WHERE id = ?`,
			finishedAt.UTC().Format(time.RFC3339), status, present, missing, queuedMovies, queuedShows, message, id,
		)
		if execErr != nil {
			return execErr
		}
		updated, execErr = res.RowsAffected()
		return execErr
	})
	if err != nil {
		return fmt.Errorf("finish run %s: %w", id, err)
	}
	if updated == 0 {
		return fmt.Errorf("run %s not found", id)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	ctx = ensureContext(ctx)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, status, sources, present_count, missing_count, queued_movies, queued_shows, error
		 FROM audit_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run                 Run
			startedAt, finished string
			encodedSources      string
		)
		if err := rows.Scan(&run.ID, &startedAt, &finished, &run.Status, &encodedSources,
			&run.PresentCount, &run.MissingCount, &run.QueuedMovies, &run.QueuedShows, &run.Error); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
			return nil, fmt.Errorf("parse started_at for %s: %w", run.ID, err)
		}
		if finished != "" {
			if run.FinishedAt, err = time.Parse(time.RFC3339, finished); err != nil {
				return nil, fmt.Errorf("parse finished_at for %s: %w", run.ID, err)
			}
		}
		if err := json.Unmarshal([]byte(encodedSources), &run.Sources); err != nil {
			return nil, fmt.Errorf("decode sources for %s: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}
