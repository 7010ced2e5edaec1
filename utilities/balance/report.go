package balance

import (
	"bufio"
	"fmt"
	"io"

	"github.com/lawnchairsociety/tycoonbalance/internal/gametime"
)

// TierRequirement is the minimum cost that unlocks an upgrade tier.
type TierRequirement struct {
	Tier        int     `yaml:"tier"`
	MinCost     float64 `yaml:"min_cost"`
	Description string  `yaml:"description"`
}

// DefaultTierRequirements returns the upgrade tier thresholds.
func DefaultTierRequirements() []TierRequirement {
	return []TierRequirement{
		{1, 100, "Early game"},
		{2, 1000, "Basic mechanics"},
		{3, 10000, "Mid-game opens"},
		{4, 100000, "Advanced strategies"},
		{5, 10000000, "Late game power"},
		{6, 5000000000, "Cookie Clicker scaling"},
		{7, 1000000000000, "Absurd scaling"},
		{8, 1000000000000000, "Transcendent"},
		{9, 1000000000000000000, "Infinity"},
	}
}

// ReportConfig controls the long-term balance report.
type ReportConfig struct {
	CostUnits          int               `yaml:"cost_units"`           // Units priced in the efficiency table
	Budgets            []float64         `yaml:"budgets"`              // Budgets for the best-buy table
	PrestigePoints     []int             `yaml:"prestige_points"`      // Insight point levels to tabulate
	Tiers              []TierRequirement `yaml:"tiers"`                // Upgrade tier thresholds
	Milestones         []float64         `yaml:"milestones"`           // Checkpoints for the gap analysis
	LateGameUnits      int               `yaml:"late_game_units"`      // Units of each substance in the projection
	LateGameMultiplier float64           `yaml:"late_game_multiplier"` // Global multiplier in the projection
	LateGameTarget     float64           `yaml:"late_game_target"`     // Vibes the projection times
}

// DefaultReportConfig returns the parameters of the long-term analysis.
func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		CostUnits:          10,
		Budgets:            []float64{100, 1000, 10000, 100000, 1000000, 10000000, 100000000, 1000000000},
		PrestigePoints:     []int{1, 2, 5, 10, 20, 50, 100, 200, 500, 1000},
		Tiers:              DefaultTierRequirements(),
		Milestones:         []float64{10000, 100000, 500000, 1000000, 10000000, 100000000, 1000000000},
		LateGameUnits:      50,
		LateGameMultiplier: 2.0,
		LateGameTarget:     1000000000,
	}
}

// CostEfficiencyRow summarizes the first N units of one substance.
type CostEfficiencyRow struct {
	SubstanceID string
	FirstCost   float64 // Price of unit 1
	LastCost    float64 // Price of unit N
	TotalCost   float64 // Cumulative price of N units
	ROI         float64 // Vibes/sec per vibe at N units
}

// CostEfficiency prices the first units of every substance.
func CostEfficiency(catalog *Catalog, units int) ([]CostEfficiencyRow, error) {
	if units < 1 {
		return nil, fmt.Errorf("%w: cost table needs at least one unit, got %d", ErrNegativeCount, units)
	}
	rows := make([]CostEfficiencyRow, 0, catalog.Len())
	for _, s := range catalog.substances {
		roi, err := ReturnOnInvestment(s, units)
		if err != nil {
			return nil, err
		}
		rows = append(rows, CostEfficiencyRow{
			SubstanceID: s.ID,
			FirstCost:   unitCost(s, 0),
			LastCost:    unitCost(s, units-1),
			TotalCost:   CumulativeCost(s, units),
			ROI:         roi,
		})
	}
	return rows, nil
}

// BudgetPick is the best single-substance spend for a budget.
type BudgetPick struct {
	Budget      float64
	SubstanceID string
	Units       int
	ROI         float64
}

// BestBuyForBudget finds the substance whose affordable quantity has the
// highest ROI. ok is false when nothing is affordable.
func BestBuyForBudget(catalog *Catalog, budget float64) (pick BudgetPick, ok bool, err error) {
	pick.Budget = budget
	bestROI := 0.0
	for _, s := range catalog.substances {
		units, err := MaxAffordableUnits(s, budget)
		if err != nil {
			return pick, false, err
		}
		if units == 0 {
			continue
		}
		roi, err := ReturnOnInvestment(s, units)
		if err != nil {
			return pick, false, err
		}
		if roi > bestROI {
			bestROI = roi
			pick.SubstanceID, pick.Units, pick.ROI = s.ID, units, roi
			ok = true
		}
	}
	return pick, ok, nil
}

// PrestigeRow describes one level of the insight curve.
type PrestigeRow struct {
	Points          int
	TotalVibes      float64
	VibesForNext    float64 // Additional vibes for one more point
	IncreasePercent float64 // Growth over the previous row, 0 for the first
}

// PrestigeCurve tabulates the vibes needed for each insight level.
func PrestigeCurve(points []int) []PrestigeRow {
	rows := make([]PrestigeRow, 0, len(points))
	prev := 0.0
	for _, p := range points {
		total := VibesForInsight(p)
		row := PrestigeRow{
			Points:       p,
			TotalVibes:   total,
			VibesForNext: VibesForNextInsight(p) - total,
		}
		if prev > 0 {
			row.IncreasePercent = (total - prev) / prev * 100
		}
		rows = append(rows, row)
		prev = total
	}
	return rows
}

// LateGameRow is one substance's contribution to the projection.
type LateGameRow struct {
	SubstanceID string
	Units       int
	Rate        float64 // Vibes/sec including the multiplier
}

// LateGameProjection returns per-substance and total vibes/sec for owning
// units of everything.
func LateGameProjection(catalog *Catalog, units int, multiplier float64) ([]LateGameRow, float64, error) {
	rows := make([]LateGameRow, 0, catalog.Len())
	total := 0.0
	for _, s := range catalog.substances {
		rate, err := ProductionRate(s, units)
		if err != nil {
			return nil, 0, err
		}
		rate *= multiplier
		total += rate
		rows = append(rows, LateGameRow{SubstanceID: s.ID, Units: units, Rate: rate})
	}
	return rows, total, nil
}

// WriteLongTermReport writes the six-part long-term balance analysis.
func WriteLongTermReport(out io.Writer, catalog *Catalog, cfg ReportConfig) error {
	w := bufio.NewWriter(out)

	fmt.Fprintln(w, rule("="))
	fmt.Fprintln(w, "LONG-TERM BALANCE ANALYSIS")
	fmt.Fprintf(w, "Catalog: %s (%d substances)\n", catalog.Name(), catalog.Len())
	fmt.Fprintln(w, rule("="))

	// [1] Cost efficiency
	rows, err := CostEfficiency(catalog, cfg.CostUnits)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\n[1] SUBSTANCE COST EFFICIENCY - First %d Units\n", cfg.CostUnits)
	fmt.Fprintln(w, rule("-"))
	fmt.Fprintf(w, "%-15s %-15s %-15s %-20s %s\n", "Substance", "Cost/Unit 1",
		fmt.Sprintf("Cost/Unit %d", cfg.CostUnits), fmt.Sprintf("Total Cost (%d)", cfg.CostUnits),
		fmt.Sprintf("ROI (%d units)", cfg.CostUnits))
	fmt.Fprintln(w, rule("-"))
	for _, r := range rows {
		fmt.Fprintf(w, "%-15s %-15s %-15s %-20s %.6f\n",
			r.SubstanceID, commaInt(r.FirstCost), commaInt(r.LastCost), commaInt(r.TotalCost), r.ROI)
	}

	// [2] Best buy per budget
	fmt.Fprintln(w, "\n[2] MOST EFFICIENT SUBSTANCE AT DIFFERENT BUDGETS")
	fmt.Fprintln(w, rule("-"))
	for _, budget := range cfg.Budgets {
		pick, ok, err := BestBuyForBudget(catalog, budget)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		fmt.Fprintf(w, "Budget %15s: %-15s x%-5d (ROI: %.8f)\n",
			commaInt(budget), pick.SubstanceID, pick.Units, pick.ROI)
	}

	// [3] Prestige curve
	fmt.Fprintln(w, "\n[3] PRESTIGE CURVE - Insight Point Requirements")
	fmt.Fprintln(w, rule("-"))
	fmt.Fprintf(w, "%-20s %-25s %-25s %s\n", "Insight Points", "Total Vibes Required", "Vibes for Next Point", "% Increase")
	fmt.Fprintln(w, rule("-"))
	for _, r := range PrestigeCurve(cfg.PrestigePoints) {
		fmt.Fprintf(w, "%-20d %-25s %-25s %6.1f%%\n",
			r.Points, commaInt(r.TotalVibes), commaInt(r.VibesForNext), r.IncreasePercent)
	}

	// [4] Upgrade tiers
	fmt.Fprintln(w, "\n[4] UPGRADE TIER REQUIREMENTS")
	fmt.Fprintln(w, rule("-"))
	fmt.Fprintf(w, "%-10s %-25s %s\n", "Tier", "Min Cost", "Description")
	fmt.Fprintln(w, rule("-"))
	for _, t := range cfg.Tiers {
		fmt.Fprintf(w, "%-10d %-25s %s\n", t.Tier, commaInt(t.MinCost), t.Description)
	}

	// [5] Milestone gaps
	fmt.Fprintln(w, "\n[5] MILESTONE PROGRESSION GAPS")
	fmt.Fprintln(w, rule("-"))
	fmt.Fprintf(w, "%-20s %-30s %s\n", "Milestone", "Multiplier from Previous", "Status")
	fmt.Fprintln(w, rule("-"))
	for _, g := range AnalyzeMilestoneGaps(cfg.Milestones) {
		ratio := "N/A"
		if g.Ratio > 0 {
			ratio = fmt.Sprintf("%.1fx", g.Ratio)
		}
		status := g.Status
		if status == "LARGE GAP" {
			status = "⚠ " + status
		}
		fmt.Fprintf(w, "%-20s %-30s %s\n", commaInt(g.Milestone), ratio, status)
	}

	// [6] Late-game projection
	lateRows, totalRate, err := LateGameProjection(catalog, cfg.LateGameUnits, cfg.LateGameMultiplier)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\n[6] LATE-GAME PRODUCTION PROJECTION (with %gx multipliers)\n", cfg.LateGameMultiplier)
	fmt.Fprintln(w, rule("-"))
	fmt.Fprintf(w, "Assuming you buy %d units of each substance and have %gx global multiplier:\n",
		cfg.LateGameUnits, cfg.LateGameMultiplier)
	fmt.Fprintln(w, rule("-"))
	for _, r := range lateRows {
		fmt.Fprintf(w, "%-15s x%-5d = %15s vibes/sec\n", r.SubstanceID, r.Units, commaFloat(r.Rate))
	}
	fmt.Fprintln(w, rule("-"))
	fmt.Fprintf(w, "%-21s = %15s vibes/sec\n", "TOTAL", commaFloat(totalRate))
	if totalRate > 0 {
		fmt.Fprintf(w, "\nTime to earn %s vibes: %.2f hours\n",
			commaInt(cfg.LateGameTarget), cfg.LateGameTarget/totalRate/gametime.SecondsPerHour)
	} else {
		fmt.Fprintf(w, "\nTime to earn %s vibes: never (no production)\n", commaInt(cfg.LateGameTarget))
	}

	fmt.Fprintln(w, "\n"+rule("="))
	fmt.Fprintln(w, "ANALYSIS COMPLETE")
	fmt.Fprintln(w, rule("="))

	return w.Flush()
}

// WriteProgressionReport writes the narrative of one progression run.
func WriteProgressionReport(out io.Writer, catalog *Catalog, cfg ProgressionConfig, res *ProgressionResult) error {
	w := bufio.NewWriter(out)

	fmt.Fprintf(w, "Starting simulation to reach %s vibes\n", commaInt(cfg.Target))
	fmt.Fprintf(w, "Assuming %g click power, clicking every %gs\n", cfg.ClickPower, cfg.SecondsPerClick)
	fmt.Fprintf(w, "Assuming %.1fx production multiplier from upgrades\n", cfg.Multiplier)
	fmt.Fprintln(w, rule("="))

	for _, ev := range res.Events {
		switch ev.Kind {
		case EventPurchase:
			fmt.Fprintf(w, "[%.1fm] Bought %s #%d for %s vibes\n",
				ev.Seconds/gametime.SecondsPerMinute, ev.SubstanceID, ev.Owned, commaInt(ev.Cost))
			fmt.Fprintf(w, "   Current rate: %.1f vibes/sec\n", ev.Rate)
		case EventProgress:
			fmt.Fprintf(w, "[%dm] Vibes: %s | Rate: %.1f/s\n",
				int(ev.Seconds/gametime.SecondsPerMinute), commaInt(ev.TotalEarned), ev.Rate)
		}
	}

	switch res.Outcome {
	case OutcomeConverged:
	case OutcomeNonConvergent:
		fmt.Fprintln(w, "ERROR: Zero income, cannot progress!")
	default:
		fmt.Fprintf(w, "ERROR: Simulation stopped early (%s): %v\n", res.Outcome, res.Err)
	}

	fmt.Fprintln(w, rule("="))
	if res.Converged() {
		fmt.Fprintf(w, "Reached %s vibes in %.2f hours (%.1f minutes)\n",
			commaInt(cfg.Target), res.Hours(), res.ElapsedSeconds/gametime.SecondsPerMinute)
	} else {
		fmt.Fprintf(w, "Stopped at %s of %s vibes after %.2f hours (%.1f minutes)\n",
			commaInt(res.TotalEarned), commaInt(cfg.Target), res.Hours(), res.ElapsedSeconds/gametime.SecondsPerMinute)
	}
	fmt.Fprintf(w, "Final production rate: %.1f vibes/sec\n", res.FinalRate)

	fmt.Fprintln(w, "\nInventory summary:")
	for _, s := range catalog.substances {
		if n := res.Inventory.Count(s.ID); n > 0 {
			fmt.Fprintf(w, "  %s: %d\n", s.ID, n)
		}
	}
	fmt.Fprintf(w, "\nPrestige now would grant %d insight points (%d repeatable milestones reached)\n",
		res.InsightPoints, res.EarnedMilestones)

	return w.Flush()
}
