package balance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/lawnchairsociety/tycoonbalance/internal/gametime"
	"github.com/lawnchairsociety/tycoonbalance/internal/logger"
)

var (
	// ErrInvalidConfig is returned when progression parameters are unusable.
	ErrInvalidConfig = errors.New("invalid progression config")

	// ErrNonConvergence means nothing was affordable and income was zero.
	ErrNonConvergence = errors.New("zero income, cannot progress")

	// ErrIterationLimit means the run hit MaxIterations before the target.
	ErrIterationLimit = errors.New("iteration limit reached")
)

// cancelCheckInterval is how many loop iterations pass between context checks.
const cancelCheckInterval = 4096

// ProgressionConfig holds the parameters of one greedy progression run.
type ProgressionConfig struct {
	Target             float64 // Lifetime vibes to reach
	ClickPower         float64 // Vibes per click before the multiplier
	SecondsPerClick    float64 // Time between clicks
	Multiplier         float64 // Global production multiplier (applies to clicks too)
	MinTimeStep        float64 // Shortest time skip in seconds
	MilestoneCost      float64 // Purchases at or above this cost are logged
	ProgressLogMinutes int     // Progress is logged on multiples of this many minutes (0 = off)
	MaxIterations      int     // Loop cap (0 = unlimited)
}

// DefaultProgressionConfig returns the standard balance assumptions:
// 10 click power, one click per second, 2x multiplier from upgrades.
func DefaultProgressionConfig(target float64) ProgressionConfig {
	return ProgressionConfig{
		Target:             target,
		ClickPower:         10,
		SecondsPerClick:    1,
		Multiplier:         2.0,
		MinTimeStep:        0.1,
		MilestoneCost:      1000000,
		ProgressLogMinutes: 10,
		MaxIterations:      50000000,
	}
}

// Validate rejects parameters the simulation cannot run with.
func (c ProgressionConfig) Validate() error {
	for name, v := range map[string]float64{
		"target":            c.Target,
		"click power":       c.ClickPower,
		"seconds per click": c.SecondsPerClick,
		"multiplier":        c.Multiplier,
		"min time step":     c.MinTimeStep,
		"milestone cost":    c.MilestoneCost,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidConfig, name)
		}
	}
	if c.SecondsPerClick <= 0 {
		return fmt.Errorf("%w: seconds per click must be positive", ErrInvalidConfig)
	}
	if c.ClickPower < 0 {
		return fmt.Errorf("%w: click power must not be negative", ErrInvalidConfig)
	}
	if c.Multiplier < 0 {
		return fmt.Errorf("%w: multiplier must not be negative", ErrInvalidConfig)
	}
	if c.MinTimeStep <= 0 {
		return fmt.Errorf("%w: min time step must be positive", ErrInvalidConfig)
	}
	if c.ProgressLogMinutes < 0 {
		return fmt.Errorf("%w: progress log interval must not be negative", ErrInvalidConfig)
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("%w: max iterations must not be negative", ErrInvalidConfig)
	}
	return nil
}

// ActiveRate returns vibes/sec earned by clicking.
func (c ProgressionConfig) ActiveRate() float64 {
	return c.ClickPower * c.Multiplier / c.SecondsPerClick
}

// Outcome is how a progression run ended.
type Outcome int

const (
	OutcomeConverged Outcome = iota
	OutcomeNonConvergent
	OutcomeIterationLimit
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConverged:
		return "converged"
	case OutcomeNonConvergent:
		return "non-convergent"
	case OutcomeIterationLimit:
		return "iteration-limit"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// EventKind classifies observational progress entries.
type EventKind int

const (
	EventPurchase EventKind = iota // A purchase at or above the milestone cost
	EventProgress                  // Periodic time-based progress report
)

// ProgressEvent is one observational log entry. Events never feed back into
// the simulation.
type ProgressEvent struct {
	Kind        EventKind
	Seconds     float64 // Simulated time of the event
	SubstanceID string  // Purchases only
	Owned       int     // Units owned after the purchase
	Cost        float64 // Purchase price
	TotalEarned float64 // Progress reports only
	Rate        float64 // Passive rate after a purchase, or total income for progress reports
}

// ProgressionResult is the terminal state of a run.
type ProgressionResult struct {
	RunID            string
	Target           float64
	Outcome          Outcome
	Err              error // nil when converged
	ElapsedSeconds   float64
	Inventory        Inventory
	FinalRate        float64 // Passive vibes/sec including the multiplier
	TotalEarned      float64
	Balance          float64
	Purchases        int
	Iterations       int
	InsightPoints    int // Prestige points a reset at the end would grant
	EarnedMilestones int // Repeatable vibes milestones crossed
	Events           []ProgressEvent
}

// Converged reports whether the target was reached.
func (r *ProgressionResult) Converged() bool {
	return r.Outcome == OutcomeConverged
}

// Hours returns elapsed simulated hours.
func (r *ProgressionResult) Hours() float64 {
	return r.ElapsedSeconds / gametime.SecondsPerHour
}

// progressionState is the mutable state owned by one run.
type progressionState struct {
	balance     float64
	totalEarned float64
	clock       *gametime.SimClock
	inventory   Inventory
}

// SimulateProgression runs the greedy one-step-lookahead purchasing strategy
// until lifetime vibes reach cfg.Target. Configuration problems are returned
// as errors; every other ending (including non-convergence) is a result.
func SimulateProgression(ctx context.Context, catalog *Catalog, cfg ProgressionConfig) (*ProgressionResult, error) {
	if catalog == nil {
		return nil, fmt.Errorf("%w: nil catalog", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := logger.With("run_id", runID, "catalog", catalog.Name(), "target", cfg.Target)

	state := &progressionState{
		clock:     gametime.NewSimClock(),
		inventory: make(Inventory),
	}
	result := &ProgressionResult{RunID: runID, Target: cfg.Target}

	log.Debug("progression started",
		"click_power", cfg.ClickPower,
		"seconds_per_click", cfg.SecondsPerClick,
		"multiplier", cfg.Multiplier,
	)

	activeRate := cfg.ActiveRate()
	lastLogMinute := 0

	for state.totalEarned < cfg.Target {
		if cfg.MaxIterations > 0 && result.Iterations >= cfg.MaxIterations {
			result.finish(state, catalog, cfg, OutcomeIterationLimit,
				fmt.Errorf("%w: %d iterations", ErrIterationLimit, result.Iterations))
			log.Warn("progression stopped", "outcome", result.Outcome, "iterations", result.Iterations)
			return result, nil
		}
		if result.Iterations%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				result.finish(state, catalog, cfg, OutcomeCancelled, err)
				log.Warn("progression cancelled", "error", err, "sim_time", state.clock.String())
				return result, nil
			}
		}
		result.Iterations++

		passiveRate := catalog.ProductionRate(state.inventory) * cfg.Multiplier
		totalRate := passiveRate + activeRate

		if sub, cost, ok := bestPurchase(catalog, state, cfg.Multiplier); ok {
			state.balance -= cost
			state.inventory.Add(sub.ID)
			result.Purchases++

			if cost >= cfg.MilestoneCost {
				ev := ProgressEvent{
					Kind:        EventPurchase,
					Seconds:     state.clock.Seconds(),
					SubstanceID: sub.ID,
					Owned:       state.inventory.Count(sub.ID),
					Cost:        cost,
					Rate:        catalog.ProductionRate(state.inventory) * cfg.Multiplier,
				}
				result.Events = append(result.Events, ev)
				log.Debug("milestone purchase",
					"substance", ev.SubstanceID, "owned", ev.Owned, "cost", ev.Cost, "rate", ev.Rate)
			}
			continue
		}

		// Nothing affordable: skip ahead to the cheapest next unit.
		minCost, ok := cheapestNextUnit(catalog, state.inventory)
		if totalRate <= 0 || !ok {
			result.finish(state, catalog, cfg, OutcomeNonConvergent, ErrNonConvergence)
			log.Warn("progression cannot advance", "income", totalRate, "substances", catalog.Len())
			return result, nil
		}

		timeNeeded := math.Max(cfg.MinTimeStep, (minCost-state.balance)/totalRate)
		earned := totalRate * timeNeeded
		state.balance += earned
		state.totalEarned += earned
		state.clock.Advance(timeNeeded)

		if cfg.ProgressLogMinutes > 0 {
			currentMinute := state.clock.WholeMinutes()
			if currentMinute > lastLogMinute && currentMinute%cfg.ProgressLogMinutes == 0 {
				result.Events = append(result.Events, ProgressEvent{
					Kind:        EventProgress,
					Seconds:     state.clock.Seconds(),
					TotalEarned: state.totalEarned,
					Rate:        totalRate,
				})
				log.Debug("progress", "minute", currentMinute, "total_earned", state.totalEarned, "rate", totalRate)
				lastLogMinute = currentMinute
			}
		}
	}

	result.finish(state, catalog, cfg, OutcomeConverged, nil)
	log.Info("progression finished",
		"hours", fmt.Sprintf("%.2f", result.Hours()),
		"purchases", result.Purchases,
		"final_rate", result.FinalRate,
	)
	return result, nil
}

// bestPurchase picks the affordable substance with the highest marginal ROI
// for its next unit. Ties keep the earlier catalog entry; zero-ROI units are
// never chosen.
func bestPurchase(catalog *Catalog, state *progressionState, multiplier float64) (Substance, float64, bool) {
	var (
		best     Substance
		bestCost float64
		bestROI  float64
		found    bool
	)
	for _, s := range catalog.substances {
		cost := unitCost(s, state.inventory.Count(s.ID))
		if cost > state.balance {
			continue
		}
		roi := marginalROI(s, cost, multiplier)
		if roi > bestROI {
			best, bestCost, bestROI, found = s, cost, roi, true
		}
	}
	return best, bestCost, found
}

// cheapestNextUnit returns the lowest next-unit price across the catalog.
func cheapestNextUnit(catalog *Catalog, inv Inventory) (float64, bool) {
	minCost := math.Inf(1)
	for _, s := range catalog.substances {
		if cost := unitCost(s, inv.Count(s.ID)); cost < minCost {
			minCost = cost
		}
	}
	return minCost, !math.IsInf(minCost, 1)
}

func (r *ProgressionResult) finish(state *progressionState, catalog *Catalog, cfg ProgressionConfig, outcome Outcome, err error) {
	r.Outcome = outcome
	r.Err = err
	r.ElapsedSeconds = state.clock.Seconds()
	r.Inventory = state.inventory.Clone()
	r.FinalRate = catalog.ProductionRate(state.inventory) * cfg.Multiplier
	r.TotalEarned = state.totalEarned
	r.Balance = state.balance
	r.InsightPoints = InsightPoints(state.totalEarned)
	r.EarnedMilestones = EarnedMilestonesReached(state.totalEarned)
}

// LogValue lets results be logged as a single structured attribute.
func (r *ProgressionResult) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", r.RunID),
		slog.Float64("target", r.Target),
		slog.String("outcome", r.Outcome.String()),
		slog.Float64("hours", r.Hours()),
		slog.Int("purchases", r.Purchases),
		slog.Float64("final_rate", r.FinalRate),
	)
}
