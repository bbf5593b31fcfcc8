/*
Package events publishes notifications about completed simulation runs.

PURPOSE:
  Recording a run is the only side effect the service has. Other systems
  (dashboards, advisors, audit) learn about it from a simulation_completed
  event rather than by polling the run history.

PUBLISHERS:
  kafka.Publisher: segmentio/kafka-go writer (events/kafka)
  Memory:          keeps events in a slice (tests, CLI)
  Nop:             discards everything (events disabled)

SEE ALSO:
  - api/handlers.go: publishes after a scenario run is saved
*/
package events

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/cashflow-engine/cashflow"
)

// TopicSimulationCompleted is the default topic for SimulationCompleted.
const TopicSimulationCompleted = "simulation_completed"

// Publisher delivers an event to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
}

// Keyed events choose their own partition key.
type Keyed interface {
	EventKey() string
}

// SimulationCompleted is emitted once a scenario run has been recorded.
type SimulationCompleted struct {
	RunID              string             `json:"run_id"`
	ScenarioID         string             `json:"scenario_id"`
	InputHash          string             `json:"input_hash"`
	RiskLevel          cashflow.RiskLevel `json:"risk_level"`
	PayoffMonth        *int               `json:"payoff_month"`
	Accelerations      int                `json:"accelerations"`
	TotalInterestSaved decimal.Decimal    `json:"total_interest_saved"`
	OccurredAt         time.Time          `json:"occurred_at"`
}

// NewSimulationCompleted summarizes result for publication.
func NewSimulationCompleted(runID, scenarioID, inputHash string, result *cashflow.Result, at time.Time) SimulationCompleted {
	return SimulationCompleted{
		RunID:              runID,
		ScenarioID:         scenarioID,
		InputHash:          inputHash,
		RiskLevel:          result.Risk.Level,
		PayoffMonth:        result.PayoffMonth,
		Accelerations:      len(result.Accelerations),
		TotalInterestSaved: result.TotalInterestSaved,
		OccurredAt:         at,
	}
}

// EventKey keeps every run of one scenario on one partition.
func (e SimulationCompleted) EventKey() string { return e.ScenarioID }

// =============================================================================
// IN-PROCESS PUBLISHERS
// =============================================================================

type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }

// Published is one event captured by Memory.
type Published struct {
	Topic string
	Event any
}

// Memory records published events.
type Memory struct {
	mu     sync.Mutex
	events []Published
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Publish(_ context.Context, topic string, event any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, Published{Topic: topic, Event: event})
	return nil
}

// Events returns a copy of everything published so far.
func (m *Memory) Events() []Published {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Published(nil), m.events...)
}
