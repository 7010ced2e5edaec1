package balance

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T, subs ...Substance) *Catalog {
	t.Helper()
	catalog, err := NewCatalog("test", subs)
	require.NoError(t, err)
	return catalog
}

func TestSimulateProgression_ZeroTarget(t *testing.T) {
	res, err := SimulateProgression(context.Background(), ProgressionCatalog(), DefaultProgressionConfig(0))
	require.NoError(t, err)

	assert.True(t, res.Converged())
	assert.Zero(t, res.ElapsedSeconds)
	assert.Zero(t, res.Purchases)
	assert.Zero(t, res.Inventory.Total())
	assert.Nil(t, res.Err)
}

func TestSimulateProgression_FirstPurchase(t *testing.T) {
	// 20 vibes/sec of clicking: 0.5s to afford alcohol, buy it, then one more
	// skip to the next alcohol at 11 vibes crosses the target.
	res, err := SimulateProgression(context.Background(), ProgressionCatalog(), DefaultProgressionConfig(11))
	require.NoError(t, err)

	assert.True(t, res.Converged())
	assert.Equal(t, 1, res.Purchases)
	assert.Equal(t, 1, res.Inventory.Count("alcohol"))
	assert.InDelta(t, 1.0, res.FinalRate, 1e-9)
	assert.InDelta(t, 0.5+11.0/21.0, res.ElapsedSeconds, 1e-9)
	assert.InDelta(t, 21.0, res.TotalEarned, 1e-9)
	assert.InDelta(t, 11.0, res.Balance, 1e-9)
}

func TestSimulateProgression_ReachesTarget(t *testing.T) {
	cfg := DefaultProgressionConfig(1000000)
	res, err := SimulateProgression(context.Background(), ProgressionCatalog(), cfg)
	require.NoError(t, err)

	require.True(t, res.Converged())
	assert.GreaterOrEqual(t, res.TotalEarned, cfg.Target)
	assert.GreaterOrEqual(t, res.Balance, 0.0)
	assert.Positive(t, res.Purchases)
	assert.Equal(t, res.Purchases, res.Inventory.Total())
	assert.Equal(t, InsightPoints(res.TotalEarned), res.InsightPoints)
	assert.Equal(t, EarnedMilestonesReached(res.TotalEarned), res.EarnedMilestones)
	assert.InDelta(t, ProgressionCatalog().ProductionRate(res.Inventory)*cfg.Multiplier, res.FinalRate, 1e-9)
	assert.NotEmpty(t, res.RunID)
}

func TestSimulateProgression_ZeroIncome(t *testing.T) {
	catalog := testCatalog(t, Substance{ID: "rock", BaseCost: 10, CostMultiplier: 1.5})
	cfg := DefaultProgressionConfig(100)
	cfg.ClickPower = 0

	res, err := SimulateProgression(context.Background(), catalog, cfg)
	require.NoError(t, err)

	assert.Equal(t, OutcomeNonConvergent, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrNonConvergence)
	assert.False(t, res.Converged())
	assert.Zero(t, res.ElapsedSeconds)
}

func TestSimulateProgression_EmptyCatalog(t *testing.T) {
	res, err := SimulateProgression(context.Background(), testCatalog(t), DefaultProgressionConfig(100))
	require.NoError(t, err)

	assert.Equal(t, OutcomeNonConvergent, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrNonConvergence)
}

func TestSimulateProgression_InvalidInput(t *testing.T) {
	_, err := SimulateProgression(context.Background(), nil, DefaultProgressionConfig(100))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	tests := []struct {
		name   string
		mutate func(c *ProgressionConfig)
	}{
		{"zero seconds per click", func(c *ProgressionConfig) { c.SecondsPerClick = 0 }},
		{"negative click power", func(c *ProgressionConfig) { c.ClickPower = -1 }},
		{"negative multiplier", func(c *ProgressionConfig) { c.Multiplier = -2 }},
		{"zero time step", func(c *ProgressionConfig) { c.MinTimeStep = 0 }},
		{"NaN target", func(c *ProgressionConfig) { c.Target = math.NaN() }},
		{"negative max iterations", func(c *ProgressionConfig) { c.MaxIterations = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultProgressionConfig(100)
			tt.mutate(&cfg)
			res, err := SimulateProgression(context.Background(), ProgressionCatalog(), cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Nil(t, res)
		})
	}
}

func TestSimulateProgression_Deterministic(t *testing.T) {
	cfg := DefaultProgressionConfig(100000)
	cfg.ProgressLogMinutes = 1

	a, err := SimulateProgression(context.Background(), ProgressionCatalog(), cfg)
	require.NoError(t, err)
	b, err := SimulateProgression(context.Background(), ProgressionCatalog(), cfg)
	require.NoError(t, err)

	assert.Equal(t, a.ElapsedSeconds, b.ElapsedSeconds)
	assert.Equal(t, a.Inventory, b.Inventory)
	assert.Equal(t, a.Purchases, b.Purchases)
	assert.Equal(t, a.Events, b.Events)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestSimulateProgression_MultiplierSpeedsUp(t *testing.T) {
	var prev float64
	for i, mult := range []float64{1, 2, 4} {
		cfg := DefaultProgressionConfig(100000)
		cfg.Multiplier = mult

		res, err := SimulateProgression(context.Background(), ProgressionCatalog(), cfg)
		require.NoError(t, err)
		require.True(t, res.Converged())

		if i > 0 {
			assert.Less(t, res.ElapsedSeconds, prev, "multiplier %v should be faster", mult)
		}
		prev = res.ElapsedSeconds
	}
}

func TestSimulateProgression_TiesKeepCatalogOrder(t *testing.T) {
	catalog := testCatalog(t,
		Substance{ID: "first", BaseCost: 10, CostMultiplier: 1.1, BaseProduction: 1},
		Substance{ID: "second", BaseCost: 10, CostMultiplier: 1.1, BaseProduction: 1},
	)

	res, err := SimulateProgression(context.Background(), catalog, DefaultProgressionConfig(15))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Inventory.Count("first"))
	assert.Equal(t, 0, res.Inventory.Count("second"))
}

func TestSimulateProgression_NeverBuysZeroROI(t *testing.T) {
	catalog := testCatalog(t,
		Substance{ID: "dud", BaseCost: 1, CostMultiplier: 1.1},
		Substance{ID: "real", BaseCost: 10, CostMultiplier: 1.2, BaseProduction: 1},
	)

	res, err := SimulateProgression(context.Background(), catalog, DefaultProgressionConfig(50))
	require.NoError(t, err)

	assert.True(t, res.Converged())
	assert.Zero(t, res.Inventory.Count("dud"))
	assert.Positive(t, res.Inventory.Count("real"))
}

func TestSimulateProgression_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := SimulateProgression(ctx, ProgressionCatalog(), DefaultProgressionConfig(1e9))
	require.NoError(t, err)

	assert.Equal(t, OutcomeCancelled, res.Outcome)
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.Zero(t, res.Iterations)
}

func TestSimulateProgression_IterationLimit(t *testing.T) {
	cfg := DefaultProgressionConfig(1e9)
	cfg.MaxIterations = 25

	res, err := SimulateProgression(context.Background(), ProgressionCatalog(), cfg)
	require.NoError(t, err)

	assert.Equal(t, OutcomeIterationLimit, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrIterationLimit)
	assert.Equal(t, 25, res.Iterations)
	assert.Less(t, res.TotalEarned, cfg.Target)
}

func TestSimulateProgression_Events(t *testing.T) {
	cfg := DefaultProgressionConfig(200000)
	cfg.MilestoneCost = 1000
	cfg.ProgressLogMinutes = 1

	res, err := SimulateProgression(context.Background(), ProgressionCatalog(), cfg)
	require.NoError(t, err)
	require.True(t, res.Converged())

	var purchases, progress int
	lastProgress := -1.0
	for _, ev := range res.Events {
		switch ev.Kind {
		case EventPurchase:
			purchases++
			assert.GreaterOrEqual(t, ev.Cost, cfg.MilestoneCost)
			assert.Positive(t, ev.Owned)
			assert.NotEmpty(t, ev.SubstanceID)
		case EventProgress:
			progress++
			assert.Greater(t, ev.Seconds, lastProgress)
			assert.Positive(t, ev.Rate)
			lastProgress = ev.Seconds
		}
	}
	assert.Positive(t, purchases)
	assert.Positive(t, progress)
}

func TestSimulateProgression_EventsDoNotChangeOutcome(t *testing.T) {
	quiet := DefaultProgressionConfig(100000)
	quiet.ProgressLogMinutes = 0
	quiet.MilestoneCost = 1e18

	noisy := DefaultProgressionConfig(100000)
	noisy.ProgressLogMinutes = 1
	noisy.MilestoneCost = 10

	a, err := SimulateProgression(context.Background(), ProgressionCatalog(), quiet)
	require.NoError(t, err)
	b, err := SimulateProgression(context.Background(), ProgressionCatalog(), noisy)
	require.NoError(t, err)

	assert.Empty(t, a.Events)
	assert.NotEmpty(t, b.Events)
	assert.Equal(t, a.ElapsedSeconds, b.ElapsedSeconds)
	assert.Equal(t, a.Inventory, b.Inventory)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "converged", OutcomeConverged.String())
	assert.Equal(t, "non-convergent", OutcomeNonConvergent.String())
	assert.Equal(t, "iteration-limit", OutcomeIterationLimit.String())
	assert.Equal(t, "cancelled", OutcomeCancelled.String())
	assert.Equal(t, "unknown", Outcome(99).String())
}

func TestProgressionResultLogValue(t *testing.T) {
	res := &ProgressionResult{RunID: "abc", Target: 10, Outcome: OutcomeConverged, ElapsedSeconds: 7200}
	v := res.LogValue()

	attrs := v.Group()
	require.NotEmpty(t, attrs)
	assert.Equal(t, "run_id", attrs[0].Key)
	assert.Equal(t, "abc", attrs[0].Value.String())
	assert.InDelta(t, 2.0, res.Hours(), 1e-12)
}
