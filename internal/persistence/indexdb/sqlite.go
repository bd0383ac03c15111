package indexdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"toystore/internal/toys"
)

// SQLiteIndex records sampling runs: the pool each run drew from and every
// draw in order. The results file remains the primary output.
type SQLiteIndex struct {
	db *sql.DB
}

type Run struct {
	ID        string
	Seed      int64
	Capacity  int
	Draws     int
	Output    string
	CreatedAt time.Time
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteIndex{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			capacity INTEGER NOT NULL,
			draws INTEGER NOT NULL,
			output TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS pool (
			run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
			slot INTEGER NOT NULL,
			toy_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			weight INTEGER NOT NULL,
			PRIMARY KEY (run_id, slot)
		);`,
		`CREATE TABLE IF NOT EXISTS draws (
			run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			toy_id INTEGER NOT NULL,
			PRIMARY KEY (run_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_draws_run_toy ON draws(run_id, toy_id);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordRun stores one run and returns its generated id.
func (s *SQLiteIndex) RecordRun(ctx context.Context, run Run, pool []toys.Toy, ids []int) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	run.Draws = len(ids)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs(run_id,seed,capacity,draws,output,created_at) VALUES(?,?,?,?,?,?)`,
		run.ID, run.Seed, run.Capacity, run.Draws, run.Output, run.CreatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	poolStmt, err := tx.PrepareContext(ctx, `INSERT INTO pool(run_id,slot,toy_id,name,weight) VALUES(?,?,?,?,?)`)
	if err != nil {
		return "", err
	}
	defer poolStmt.Close()
	for i, t := range pool {
		if _, err := poolStmt.ExecContext(ctx, run.ID, i, t.ID, t.Name, t.Weight); err != nil {
			return "", fmt.Errorf("insert pool slot %d: %w", i, err)
		}
	}

	drawStmt, err := tx.PrepareContext(ctx, `INSERT INTO draws(run_id,seq,toy_id) VALUES(?,?,?)`)
	if err != nil {
		return "", err
	}
	defer drawStmt.Close()
	for i, id := range ids {
		if _, err := drawStmt.ExecContext(ctx, run.ID, i, id); err != nil {
			return "", fmt.Errorf("insert draw %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return run.ID, nil
}

// Counts returns how often each toy id was drawn in a run.
func (s *SQLiteIndex) Counts(ctx context.Context, runID string) (map[int]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT toy_id, COUNT(*) FROM draws WHERE run_id=? GROUP BY toy_id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[int]int{}
	for rows.Next() {
		var id, n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, rows.Err()
}

// Runs lists recorded runs, newest first.
func (s *SQLiteIndex) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT run_id,seed,capacity,draws,output,created_at FROM runs ORDER BY created_at DESC, run_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Run
	for rows.Next() {
		var (
			r       Run
			created string
		)
		if err := rows.Scan(&r.ID, &r.Seed, &r.Capacity, &r.Draws, &r.Output, &created); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Pool returns the toys a run sampled from, in slot order.
func (s *SQLiteIndex) Pool(ctx context.Context, runID string) ([]toys.Toy, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT toy_id,name,weight FROM pool WHERE run_id=? ORDER BY slot`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []toys.Toy
	for rows.Next() {
		var t toys.Toy
		if err := rows.Scan(&t.ID, &t.Name, &t.Weight); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
