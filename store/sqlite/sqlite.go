/*
Package sqlite provides a SQLite-backed implementation of store.Store.

PURPOSE:
  Keeps saved scenarios and the history of simulation runs. The engine is
  deterministic, so a run row is a record of what was shown, not state the
  engine depends on.

KEY TABLES:
  scenarios: scenario documents (JSON), versioned on every update
  runs:      one row per simulation, headline figures + full result JSON

INDEXES:
  - idx_runs_scenario_created: run history of one scenario (hot path)
  - idx_runs_input_hash:       find earlier runs of identical inputs

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, and a single connection so that
  ":memory:" databases are shared by every query.

USAGE:
  st, err := sqlite.New("./data/cashflow.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

SEE ALSO:
  - store/store.go: interface and records
  - store/memory/memory.go: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/cashflow-engine/cashflow"
	"github.com/warp/cashflow-engine/store"
)

// timeLayout has a fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store implements store.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ store.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scenarios (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		scenario_json TEXT NOT NULL,
		version INTEGER DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scenarios_name
		ON scenarios(name);

	-- Runs are removed with their scenario
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		scenario_id TEXT NOT NULL REFERENCES scenarios(id) ON DELETE CASCADE,
		input_hash TEXT NOT NULL,
		risk_level TEXT NOT NULL,
		payoff_month INTEGER,
		total_interest_saved TEXT NOT NULL,
		result_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_scenario_created
		ON runs(scenario_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_input_hash
		ON runs(input_hash);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SCENARIOS
// =============================================================================

// SaveScenario inserts a scenario or updates it in place, bumping version.
func (s *Store) SaveScenario(ctx context.Context, rec store.ScenarioRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := json.Marshal(rec.Scenario)
	if err != nil {
		return fmt.Errorf("encoding scenario %s: %w", rec.ID, err)
	}

	query := `
		INSERT INTO scenarios (id, name, scenario_json, version, created_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			scenario_json = excluded.scenario_json,
			version = scenarios.version + 1,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(timeLayout)
	_, err = s.db.ExecContext(ctx, query, rec.ID, rec.Name, string(doc), now, now)
	return err
}

// GetScenario retrieves a scenario by ID.
func (s *Store) GetScenario(ctx context.Context, id string) (*store.ScenarioRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, scenario_json, version, created_at, updated_at FROM scenarios WHERE id = ?",
		id,
	)
	rec, err := scanScenario(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrScenarioNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListScenarios returns all scenarios ordered by name.
func (s *Store) ListScenarios(ctx context.Context) ([]store.ScenarioRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, scenario_json, version, created_at, updated_at FROM scenarios ORDER BY name, id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []store.ScenarioRecord{}
	for rows.Next() {
		rec, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// DeleteScenario removes a scenario; its runs go with it.
func (s *Store) DeleteScenario(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM scenarios WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrScenarioNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanScenario(row scanner) (*store.ScenarioRecord, error) {
	var rec store.ScenarioRecord
	var doc, createdAt, updatedAt string

	if err := row.Scan(&rec.ID, &rec.Name, &doc, &rec.Version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(doc), &rec.Scenario); err != nil {
		return nil, fmt.Errorf("decoding scenario %s: %w", rec.ID, err)
	}

	rec.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	rec.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return &rec, nil
}

// =============================================================================
// RUNS
// =============================================================================

// SaveRun records a simulation run.
func (s *Store) SaveRun(ctx context.Context, rec store.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("encoding run %s: %w", rec.ID, err)
	}

	var payoff sql.NullInt64
	if rec.PayoffMonth != nil {
		payoff = sql.NullInt64{Int64: int64(*rec.PayoffMonth), Valid: true}
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, scenario_id, input_hash, risk_level, payoff_month,
			total_interest_saved, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ScenarioID, rec.InputHash, string(rec.RiskLevel), payoff,
		rec.TotalInterestSaved.String(), string(result), createdAt.UTC().Format(timeLayout),
	)
	return err
}

// GetRun retrieves a run by ID, including its full result.
func (s *Store) GetRun(ctx context.Context, id string) (*store.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, scenario_id, input_hash, risk_level, payoff_month,
			total_interest_saved, result_json, created_at
		FROM runs WHERE id = ?`, id)

	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListRuns returns runs newest first, optionally for one scenario.
func (s *Store) ListRuns(ctx context.Context, scenarioID string) ([]store.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, scenario_id, input_hash, risk_level, payoff_month,
			total_interest_saved, result_json, created_at
		FROM runs`
	args := []any{}
	if scenarioID != "" {
		query += " WHERE scenario_id = ?"
		args = append(args, scenarioID)
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []store.RunRecord{}
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func scanRun(row scanner) (*store.RunRecord, error) {
	var rec store.RunRecord
	var level, saved, result, createdAt string
	var payoff sql.NullInt64

	if err := row.Scan(&rec.ID, &rec.ScenarioID, &rec.InputHash, &level, &payoff,
		&saved, &result, &createdAt); err != nil {
		return nil, err
	}

	rec.RiskLevel = cashflow.RiskLevel(level)
	if payoff.Valid {
		m := int(payoff.Int64)
		rec.PayoffMonth = &m
	}

	var err error
	if rec.TotalInterestSaved, err = decimal.NewFromString(saved); err != nil {
		return nil, fmt.Errorf("decoding run %s: %w", rec.ID, err)
	}
	rec.Result = &cashflow.Result{}
	if err := json.Unmarshal([]byte(result), rec.Result); err != nil {
		return nil, fmt.Errorf("decoding run %s: %w", rec.ID, err)
	}

	rec.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return &rec, nil
}
