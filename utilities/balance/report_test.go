package balance

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCostEfficiency(t *testing.T) {
	rows, err := CostEfficiency(LongTermCatalog(), 10)
	require.NoError(t, err)
	require.Len(t, rows, 15)

	alcohol := rows[0]
	assert.Equal(t, "alcohol", alcohol.SubstanceID)
	assert.Equal(t, 10.0, alcohol.FirstCost)
	assert.Equal(t, 35.0, alcohol.LastCost)
	assert.Equal(t, 200.0, alcohol.TotalCost)
	assert.InDelta(t, 0.025, alcohol.ROI, 1e-12)

	_, err = CostEfficiency(LongTermCatalog(), 0)
	assert.ErrorIs(t, err, ErrNegativeCount)
}

func TestBestBuyForBudget(t *testing.T) {
	pick, ok, err := BestBuyForBudget(LongTermCatalog(), 100)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "empathogen", pick.SubstanceID)
	assert.Equal(t, 1, pick.Units)
	assert.InDelta(t, 0.06, pick.ROI, 1e-12)

	_, ok, err = BestBuyForBudget(LongTermCatalog(), 5)
	require.NoError(t, err)
	assert.False(t, ok, "nothing costs 5 or less")

	_, _, err = BestBuyForBudget(LongTermCatalog(), -1)
	assert.ErrorIs(t, err, ErrNegativeBudget)
}

func TestPrestigeCurve(t *testing.T) {
	rows := PrestigeCurve([]int{1, 2, 5})
	require.Len(t, rows, 3)

	assert.Equal(t, 1000000.0, rows[0].TotalVibes)
	assert.Equal(t, 3000000.0, rows[0].VibesForNext)
	assert.Zero(t, rows[0].IncreasePercent)

	assert.Equal(t, 4000000.0, rows[1].TotalVibes)
	assert.Equal(t, 5000000.0, rows[1].VibesForNext)
	assert.InDelta(t, 300.0, rows[1].IncreasePercent, 1e-9)

	assert.Equal(t, 25000000.0, rows[2].TotalVibes)
	assert.InDelta(t, 525.0, rows[2].IncreasePercent, 1e-9)
}

func TestLateGameProjection(t *testing.T) {
	rows, total, err := LateGameProjection(LongTermCatalog(), 50, 2)
	require.NoError(t, err)
	require.Len(t, rows, 15)

	assert.Equal(t, 50.0, rows[0].Rate)
	assert.InDelta(t, 200180.0, total, 1e-6)
}

func TestWriteLongTermReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLongTermReport(&buf, LongTermCatalog(), DefaultReportConfig()))
	out := buf.String()

	for _, want := range []string{
		"LONG-TERM BALANCE ANALYSIS",
		"[1] SUBSTANCE COST EFFICIENCY - First 10 Units",
		"[2] MOST EFFICIENT SUBSTANCE AT DIFFERENT BUDGETS",
		"[3] PRESTIGE CURVE - Insight Point Requirements",
		"[4] UPGRADE TIER REQUIREMENTS",
		"[5] MILESTONE PROGRESSION GAPS",
		"[6] LATE-GAME PRODUCTION PROJECTION (with 2x multipliers)",
		"Cookie Clicker scaling",
		"5,000,000,000",
		"N/A",
		"200,180.0 vibes/sec",
		"Time to earn 1,000,000,000 vibes: 1.39 hours",
		"ANALYSIS COMPLETE",
	} {
		assert.Contains(t, out, want)
	}

	// The first alcohol row is the cost efficiency entry.
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "alcohol ") {
			assert.Equal(t, []string{"alcohol", "10", "35", "200", "0.025000"}, strings.Fields(line))
			break
		}
	}

	assert.Contains(t, out, "Budget             100: empathogen      x1     (ROI: 0.06000000)")
}

func TestWriteLongTermReport_FlagsLargeGaps(t *testing.T) {
	cfg := DefaultReportConfig()
	cfg.Milestones = []float64{1000, 1000000}

	var buf bytes.Buffer
	require.NoError(t, WriteLongTermReport(&buf, LongTermCatalog(), cfg))
	assert.Contains(t, buf.String(), "1000.0x")
	assert.Contains(t, buf.String(), "⚠ LARGE GAP")
}

func TestWriteProgressionReport(t *testing.T) {
	catalog := ProgressionCatalog()
	cfg := DefaultProgressionConfig(1000000)
	cfg.MilestoneCost = 1000

	res, err := SimulateProgression(context.Background(), catalog, cfg)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteProgressionReport(&buf, catalog, cfg, res))
	out := buf.String()

	assert.Contains(t, out, "Starting simulation to reach 1,000,000 vibes")
	assert.Contains(t, out, "Assuming 10 click power, clicking every 1s")
	assert.Contains(t, out, "Assuming 2.0x production multiplier from upgrades")
	assert.Contains(t, out, "Reached 1,000,000 vibes in")
	assert.Contains(t, out, "] Bought ")
	assert.Contains(t, out, "   Current rate: ")
	assert.Contains(t, out, "[10m] Vibes: ")
	assert.Contains(t, out, "  alcohol: ")
	assert.Contains(t, out, "Prestige now would grant 1 insight points")

	// Inventory lines follow catalog order.
	assert.Less(t, strings.Index(out, "  alcohol: "), strings.Index(out, "  stimulant: "))
}

func TestWriteProgressionReport_NonConvergent(t *testing.T) {
	catalog, err := NewCatalog("inert", []Substance{{ID: "rock", BaseCost: 10, CostMultiplier: 1.5}})
	require.NoError(t, err)
	cfg := DefaultProgressionConfig(100)
	cfg.ClickPower = 0

	res, err := SimulateProgression(context.Background(), catalog, cfg)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteProgressionReport(&buf, catalog, cfg, res))
	assert.Contains(t, buf.String(), "ERROR: Zero income, cannot progress!")
	assert.Contains(t, buf.String(), "Stopped at 0 of 100 vibes")
	assert.NotContains(t, buf.String(), "Reached ")
}
