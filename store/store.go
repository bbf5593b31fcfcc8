/*
Package store defines persistence for saved scenarios and simulation runs.

PURPOSE:
  The engine itself keeps nothing between runs. Callers that want to keep a
  household description, or to look at what a past run produced, go through
  this interface.

KEY RECORDS:
  ScenarioRecord: a named scenario document, versioned on every update
  RunRecord:      one engine run of a scenario, with its full result

IMPLEMENTATIONS:
  store/sqlite: SQLite (production)
  store/memory: in-process maps (tests, CLI)

SEE ALSO:
  - factory/scenario.go: the scenario document
  - cashflow/types.go: Result
*/
package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/cashflow-engine/cashflow"
	"github.com/warp/cashflow-engine/factory"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrScenarioNotFound is returned when a scenario ID does not exist.
	ErrScenarioNotFound = errors.New("scenario not found")

	// ErrRunNotFound is returned when a run ID does not exist.
	ErrRunNotFound = errors.New("run not found")
)

// =============================================================================
// RECORDS
// =============================================================================

// ScenarioRecord is a saved scenario.
type ScenarioRecord struct {
	ID        string
	Name      string
	Scenario  factory.ScenarioJSON
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RunRecord is one simulation of a scenario. The headline figures are kept
// alongside the result so listings do not need to decode it.
type RunRecord struct {
	ID                 string
	ScenarioID         string
	InputHash          string
	RiskLevel          cashflow.RiskLevel
	PayoffMonth        *int
	TotalInterestSaved decimal.Decimal
	Result             *cashflow.Result
	CreatedAt          time.Time
}

// NewRunRecord summarizes result for persistence.
func NewRunRecord(id, scenarioID, inputHash string, result *cashflow.Result) RunRecord {
	return RunRecord{
		ID:                 id,
		ScenarioID:         scenarioID,
		InputHash:          inputHash,
		RiskLevel:          result.Risk.Level,
		PayoffMonth:        result.PayoffMonth,
		TotalInterestSaved: result.TotalInterestSaved,
		Result:             result,
	}
}

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store persists scenarios and runs.
type Store interface {
	// SaveScenario inserts or updates a scenario. Updates bump Version.
	SaveScenario(ctx context.Context, rec ScenarioRecord) error

	// GetScenario returns ErrScenarioNotFound for an unknown ID.
	GetScenario(ctx context.Context, id string) (*ScenarioRecord, error)

	// ListScenarios returns every scenario ordered by name.
	ListScenarios(ctx context.Context) ([]ScenarioRecord, error)

	// DeleteScenario removes a scenario and its runs.
	DeleteScenario(ctx context.Context, id string) error

	SaveRun(ctx context.Context, rec RunRecord) error

	// GetRun returns ErrRunNotFound for an unknown ID.
	GetRun(ctx context.Context, id string) (*RunRecord, error)

	// ListRuns returns runs newest first. An empty scenarioID lists all runs.
	ListRuns(ctx context.Context, scenarioID string) ([]RunRecord, error)

	Close() error
}
