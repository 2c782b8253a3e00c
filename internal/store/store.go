// Package store persists simulation runs in Postgres. The core never touches
// it; the server and CLI hand finished results over for later retrieval.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// Store wraps a Postgres connection for run persistence.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres and verifies the connection.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing connection (tests use sqlmock).
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

const schema = `CREATE TABLE IF NOT EXISTS simulation_runs (
	id UUID PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL,
	crisis_type TEXT NOT NULL,
	scenario JSONB NOT NULL,
	summaries JSONB NOT NULL
)`

// Init creates the runs table if it does not exist.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating simulation_runs table: %w", err)
	}
	return nil
}

// RunRecord is one persisted simulation run. Scenario and Summaries are
// stored as JSON documents so the schema survives result-shape evolution.
type RunRecord struct {
	ID         uuid.UUID       `json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	CrisisType string          `json:"crisis_type"`
	Scenario   json.RawMessage `json:"scenario"`
	Summaries  json.RawMessage `json:"summaries"`
}

// SaveRun stores a scenario and its per-policy summaries and returns the
// generated run ID.
func (s *Store) SaveRun(ctx context.Context, crisisType string, scenario, summaries any) (uuid.UUID, error) {
	id := uuid.New()
	scenarioJSON, err := json.Marshal(scenario)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal scenario: %w", err)
	}
	summariesJSON, err := json.Marshal(summaries)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal summaries: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO simulation_runs (id, created_at, crisis_type, scenario, summaries) VALUES ($1,$2,$3,$4,$5)`,
		id, time.Now().UTC(), crisisType, scenarioJSON, summariesJSON)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert simulation run: %w", err)
	}
	return id, nil
}

// GetRun fetches one run by ID. Returns sql.ErrNoRows when absent.
func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, crisis_type, scenario, summaries FROM simulation_runs WHERE id = $1`, id)
	var rec RunRecord
	if err := row.Scan(&rec.ID, &rec.CreatedAt, &rec.CrisisType, &rec.Scenario, &rec.Summaries); err != nil {
		return nil, fmt.Errorf("scan simulation run: %w", err)
	}
	return &rec, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, crisis_type, scenario, summaries FROM simulation_runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query simulation runs: %w", err)
	}
	defer rows.Close()

	var recs []RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.CrisisType, &rec.Scenario, &rec.Summaries); err != nil {
			return nil, fmt.Errorf("scan simulation run: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
