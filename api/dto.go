/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Engine types
  (cashflow.LedgerEntry, cashflow.RiskAnalysis, ...) are already tagged
  for JSON and are embedded as they are; the DTOs add the headline figures
  and the bookkeeping of stored scenarios and runs.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - Request bodies are factory.ScenarioJSON documents

VIEWS:
  ?view=summary drops the 240-row ledger from SimulationDTO.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/scenario.go: ScenarioJSON type
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/cashflow-engine/cashflow"
	"github.com/warp/cashflow-engine/factory"
	"github.com/warp/cashflow-engine/store"
)

const (
	viewFull    = "full"
	viewSummary = "summary"
)

// =============================================================================
// SIMULATION
// =============================================================================

// SimulationDTO is the response of every simulate endpoint.
type SimulationDTO struct {
	RunID         string                       `json:"run_id,omitempty"`
	ScenarioID    string                       `json:"scenario_id,omitempty"`
	InputHash     string                       `json:"input_hash"`
	Cached        bool                         `json:"cached"`
	Summary       SummaryDTO                   `json:"summary"`
	Risk          cashflow.RiskAnalysis        `json:"risk"`
	Accelerations []cashflow.AccelerationEvent `json:"accelerations"`
	Ledger        []cashflow.LedgerEntry       `json:"ledger,omitempty"`
}

// SummaryDTO holds the headline figures of a run.
type SummaryDTO struct {
	RiskLevel          cashflow.RiskLevel `json:"risk_level"`
	PayoffMonth        *int               `json:"payoff_month"`
	PayoffLabel        string             `json:"payoff_label,omitempty"`
	TotalInterestSaved decimal.Decimal    `json:"total_interest_saved"`
	Accelerations      int                `json:"accelerations"`
	DeficitMonths      int                `json:"deficit_months"`
	FinalBuffer        decimal.Decimal    `json:"final_buffer"`
	FinalEmergency     decimal.Decimal    `json:"final_emergency"`
	FinalBucket        decimal.Decimal    `json:"final_bucket"`
	FinalPrincipal     decimal.Decimal    `json:"final_principal"`
}

func toSimulationDTO(res *cashflow.Result, view string) SimulationDTO {
	dto := SimulationDTO{
		Summary:       toSummaryDTO(res),
		Risk:          res.Risk,
		Accelerations: res.Accelerations,
	}
	if dto.Accelerations == nil {
		dto.Accelerations = []cashflow.AccelerationEvent{}
	}
	if view != viewSummary {
		dto.Ledger = res.Ledger
	}
	return dto
}

func toSummaryDTO(res *cashflow.Result) SummaryDTO {
	s := SummaryDTO{
		RiskLevel:          res.Risk.Level,
		PayoffMonth:        res.PayoffMonth,
		TotalInterestSaved: res.TotalInterestSaved,
		Accelerations:      len(res.Accelerations),
	}
	if p := res.PayoffMonth; p != nil && *p < len(res.Ledger) {
		s.PayoffLabel = res.Ledger[*p].Label
	}
	for _, e := range res.Ledger {
		if e.HasFlag(cashflow.FlagDeficit) {
			s.DeficitMonths++
		}
	}
	if n := len(res.Ledger); n > 0 {
		last := res.Ledger[n-1]
		s.FinalBuffer = last.Funds.Buffer
		s.FinalEmergency = last.Funds.Emergency
		s.FinalBucket = last.Funds.Bucket
		s.FinalPrincipal = last.Mortgage.RemainingPrincipal
	}
	return s
}

// =============================================================================
// SCENARIOS & PRESETS
// =============================================================================

// ScenarioDTO represents a saved scenario in API responses.
type ScenarioDTO struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Version   int                  `json:"version"`
	Scenario  factory.ScenarioJSON `json:"scenario"`
	CreatedAt string               `json:"created_at"`
	UpdatedAt string               `json:"updated_at"`
}

func toScenarioDTO(rec store.ScenarioRecord) ScenarioDTO {
	return ScenarioDTO{
		ID:        rec.ID,
		Name:      rec.Name,
		Version:   rec.Version,
		Scenario:  rec.Scenario,
		CreatedAt: rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt: rec.UpdatedAt.Format(time.RFC3339),
	}
}

// PresetDTO lists a built-in scenario.
type PresetDTO struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Category    string                `json:"category"`
	Scenario    *factory.ScenarioJSON `json:"scenario,omitempty"`
}

// =============================================================================
// RUNS
// =============================================================================

// RunDTO represents a recorded run. Result is only set on GET /api/runs/{id}.
type RunDTO struct {
	ID                 string             `json:"id"`
	ScenarioID         string             `json:"scenario_id"`
	InputHash          string             `json:"input_hash"`
	RiskLevel          cashflow.RiskLevel `json:"risk_level"`
	PayoffMonth        *int               `json:"payoff_month"`
	TotalInterestSaved decimal.Decimal    `json:"total_interest_saved"`
	CreatedAt          string             `json:"created_at"`
	Result             *SimulationDTO     `json:"result,omitempty"`
}

func toRunDTO(rec store.RunRecord) RunDTO {
	return RunDTO{
		ID:                 rec.ID,
		ScenarioID:         rec.ScenarioID,
		InputHash:          rec.InputHash,
		RiskLevel:          rec.RiskLevel,
		PayoffMonth:        rec.PayoffMonth,
		TotalInterestSaved: rec.TotalInterestSaved,
		CreatedAt:          rec.CreatedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// MISC
// =============================================================================

// HealthDTO is returned by GET /api/health.
type HealthDTO struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
