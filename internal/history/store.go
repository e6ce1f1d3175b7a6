// Package history persists dispatch results to a local SQLite database
// so past runs can be inspected with the history command. Nothing here is
// ever read back to answer a dispatch.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/joss/polyprompt/internal/dispatch"
)

type Store struct {
	db   *sql.DB
	path string
}

func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "polyprompt.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS dispatches (
		id TEXT PRIMARY KEY,
		request_id TEXT NOT NULL,
		prompt TEXT NOT NULL,
		prompt_tokens INTEGER NOT NULL DEFAULT 0,
		total INTEGER NOT NULL,
		succeeded INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_dispatches_created ON dispatches(created_at DESC);

	CREATE TABLE IF NOT EXISTS outcomes (
		id TEXT PRIMARY KEY,
		dispatch_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		thinking_budget INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		kind TEXT,
		message TEXT,
		response TEXT,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (dispatch_id) REFERENCES dispatches(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_outcomes_dispatch ON outcomes(dispatch_id, position);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a dispatch result and its outcomes.
func (s *Store) Record(ctx context.Context, res *dispatch.Result) (string, error) {
	now := time.Now().UTC()
	id := newULID()
	sum := res.Summary()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO dispatches (id, request_id, prompt, prompt_tokens, total, succeeded, failed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, res.RequestID, res.Prompt, res.PromptTokens, sum.Total, sum.Succeeded, sum.Failed, now)
	if err != nil {
		return "", err
	}

	for i, o := range res.Outcomes {
		status := "ok"
		if !o.Succeeded() {
			status = "failed"
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO outcomes (id, dispatch_id, position, provider, model, thinking_budget, status, kind, message, response, duration_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, newULID(), id, i, o.Spec.Provider.String(), o.Spec.Model, o.Spec.ThinkingBudget,
			status, string(o.Kind), o.Message(), o.Text, o.Duration.Milliseconds())
		if err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// Entry is one recorded dispatch, newest first in Recent.
type Entry struct {
	ID           string
	RequestID    string
	Prompt       string
	PromptTokens int
	Total        int
	Succeeded    int
	Failed       int
	CreatedAt    time.Time
}

// Recent returns the latest dispatches, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, request_id, prompt, prompt_tokens, total, succeeded, failed, created_at
		FROM dispatches ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.RequestID, &e.Prompt, &e.PromptTokens, &e.Total, &e.Succeeded, &e.Failed, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// OutcomeRow is one recorded per-spec outcome.
type OutcomeRow struct {
	Position   int
	Provider   string
	Model      string
	Status     string
	Kind       string
	Message    string
	Response   string
	DurationMS int64
}

// Outcomes returns the recorded outcomes for a dispatch, in input order.
func (s *Store) Outcomes(ctx context.Context, dispatchID string) ([]OutcomeRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position, provider, model, status, kind, message, response, duration_ms
		FROM outcomes WHERE dispatch_id = ? ORDER BY position
	`, dispatchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OutcomeRow
	for rows.Next() {
		var r OutcomeRow
		if err := rows.Scan(&r.Position, &r.Provider, &r.Model, &r.Status, &r.Kind, &r.Message, &r.Response, &r.DurationMS); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func newULID() string {
	return ulid.Make().String()
}
