package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/cashflow-engine/cashflow"
	"github.com/warp/cashflow-engine/events"
	"github.com/warp/cashflow-engine/factory"
)

func TestSimulationCompleted_Summarizes(t *testing.T) {
	p, ok := factory.LookupPreset("aggressive-prepayment")
	require.True(t, ok)
	in, err := factory.NewScenarioFactory().FromJSON(p.Scenario)
	require.NoError(t, err)
	res := cashflow.Run(in)

	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	ev := events.NewSimulationCompleted("run-1", "household", "abc", res, at)

	assert.Equal(t, "household", ev.EventKey())
	assert.Equal(t, res.Risk.Level, ev.RiskLevel)
	assert.Equal(t, len(res.Accelerations), ev.Accelerations)
	assert.True(t, ev.TotalInterestSaved.Equal(res.TotalInterestSaved))
	assert.Equal(t, at, ev.OccurredAt)
}

func TestMemory_RecordsInOrder(t *testing.T) {
	m := events.NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Publish(ctx, "a", 1))
	require.NoError(t, m.Publish(ctx, "b", 2))

	got := m.Events()
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Topic)
	assert.Equal(t, 2, got[1].Event)
}
