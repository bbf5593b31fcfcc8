// Package storetest holds behaviour tests every store.Store must pass.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/cashflow-engine/cashflow"
	"github.com/warp/cashflow-engine/factory"
	"github.com/warp/cashflow-engine/store"
)

// Run exercises newStore against the store.Store contract. newStore must
// return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("ScenarioRoundTrip", func(t *testing.T) { testScenarioRoundTrip(t, newStore(t)) })
	t.Run("ScenarioUpdateBumpsVersion", func(t *testing.T) { testScenarioUpdate(t, newStore(t)) })
	t.Run("ScenarioNotFound", func(t *testing.T) { testScenarioNotFound(t, newStore(t)) })
	t.Run("ListScenariosByName", func(t *testing.T) { testListScenarios(t, newStore(t)) })
	t.Run("RunRoundTrip", func(t *testing.T) { testRunRoundTrip(t, newStore(t)) })
	t.Run("ListRunsNewestFirst", func(t *testing.T) { testListRuns(t, newStore(t)) })
	t.Run("DeleteScenarioRemovesRuns", func(t *testing.T) { testDeleteCascade(t, newStore(t)) })
}

func scenario(id, name string) store.ScenarioRecord {
	sj := factory.DefaultScenario()
	sj.ID, sj.Name = id, name
	return store.ScenarioRecord{ID: id, Name: name, Scenario: sj}
}

func run(t *testing.T, id, scenarioID string, createdAt time.Time) store.RunRecord {
	t.Helper()
	in, err := factory.NewScenarioFactory().FromJSON(factory.DefaultScenario())
	require.NoError(t, err)

	rec := store.NewRunRecord(id, scenarioID, "hash-"+id, cashflow.Run(in))
	rec.CreatedAt = createdAt
	return rec
}

func testScenarioRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	want := scenario("household", "My household")
	layoff := 36
	want.Scenario.UnemploymentMonth = &layoff

	require.NoError(t, s.SaveScenario(ctx, want))

	got, err := s.GetScenario(ctx, "household")
	require.NoError(t, err)
	assert.Equal(t, "My household", got.Name)
	assert.Equal(t, 1, got.Version)
	assert.False(t, got.CreatedAt.IsZero())
	require.NotNil(t, got.Scenario.UnemploymentMonth)
	assert.Equal(t, 36, *got.Scenario.UnemploymentMonth)
	assert.True(t, got.Scenario.BaseSalary.Equal(want.Scenario.BaseSalary))
	assert.Len(t, got.Scenario.Expenses, 4)
}

func testScenarioUpdate(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveScenario(ctx, scenario("h", "First")))
	require.NoError(t, s.SaveScenario(ctx, scenario("h", "Second")))

	got, err := s.GetScenario(ctx, "h")
	require.NoError(t, err)
	assert.Equal(t, "Second", got.Name)
	assert.Equal(t, 2, got.Version)
}

func testScenarioNotFound(t *testing.T, s store.Store) {
	ctx := context.Background()

	_, err := s.GetScenario(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrScenarioNotFound)

	assert.ErrorIs(t, s.DeleteScenario(ctx, "missing"), store.ErrScenarioNotFound)

	_, err = s.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrRunNotFound)
}

func testListScenarios(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveScenario(ctx, scenario("b", "Bravo")))
	require.NoError(t, s.SaveScenario(ctx, scenario("a", "Alpha")))
	require.NoError(t, s.SaveScenario(ctx, scenario("c", "Charlie")))

	list, err := s.ListScenarios(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie"},
		[]string{list[0].Name, list[1].Name, list[2].Name})
}

func testRunRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveScenario(ctx, scenario("h", "Household")))

	want := run(t, "run-1", "h", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, s.SaveRun(ctx, want))

	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "h", got.ScenarioID)
	assert.Equal(t, "hash-run-1", got.InputHash)
	assert.Equal(t, want.RiskLevel, got.RiskLevel)
	assert.True(t, got.TotalInterestSaved.Equal(want.TotalInterestSaved))
	assert.Equal(t, want.PayoffMonth, got.PayoffMonth)
	require.NotNil(t, got.Result)
	assert.Len(t, got.Result.Ledger, cashflow.HorizonMonths)
	assert.True(t, got.Result.Ledger[100].Funds.Buffer.Equal(want.Result.Ledger[100].Funds.Buffer))
}

func testListRuns(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveScenario(ctx, scenario("a", "A")))
	require.NoError(t, s.SaveScenario(ctx, scenario("b", "B")))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveRun(ctx, run(t, "r1", "a", base)))
	require.NoError(t, s.SaveRun(ctx, run(t, "r2", "b", base.Add(time.Minute))))
	require.NoError(t, s.SaveRun(ctx, run(t, "r3", "a", base.Add(2*time.Minute))))

	all, err := s.ListRuns(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"r3", "r2", "r1"}, []string{all[0].ID, all[1].ID, all[2].ID})

	forA, err := s.ListRuns(ctx, "a")
	require.NoError(t, err)
	require.Len(t, forA, 2)
	assert.Equal(t, "r3", forA[0].ID)

	none, err := s.ListRuns(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testDeleteCascade(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveScenario(ctx, scenario("a", "A")))
	require.NoError(t, s.SaveRun(ctx, run(t, "r1", "a", time.Now())))

	require.NoError(t, s.DeleteScenario(ctx, "a"))

	_, err := s.GetScenario(ctx, "a")
	assert.ErrorIs(t, err, store.ErrScenarioNotFound)
	_, err = s.GetRun(ctx, "r1")
	assert.ErrorIs(t, err, store.ErrRunNotFound)
}
