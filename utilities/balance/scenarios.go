package balance

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lawnchairsociety/tycoonbalance/internal/logger"
)

// Scenario is one named progression run.
type Scenario struct {
	Name   string
	Config ProgressionConfig
}

// MilestoneTarget is a named lifetime-vibes checkpoint.
type MilestoneTarget struct {
	Name   string  `yaml:"name"`
	Target float64 `yaml:"target"`
}

// DefaultMilestoneTargets returns the checkpoints projected by the progression analysis.
func DefaultMilestoneTargets() []MilestoneTarget {
	return []MilestoneTarget{
		{Name: "1 Million", Target: 1000000},
		{Name: "10 Million", Target: 10000000},
		{Name: "100 Million", Target: 100000000},
		{Name: "1 Billion", Target: 1000000000},
	}
}

// MilestoneScenarios builds one scenario per target, sharing every other parameter with base.
func MilestoneScenarios(base ProgressionConfig, targets []MilestoneTarget) []Scenario {
	scenarios := make([]Scenario, len(targets))
	for i, t := range targets {
		cfg := base
		cfg.Target = t.Target
		scenarios[i] = Scenario{Name: t.Name, Config: cfg}
	}
	return scenarios
}

// ScenarioResult pairs a scenario with its outcome.
type ScenarioResult struct {
	Scenario Scenario
	Result   *ProgressionResult
}

// RunOptions bounds a batch of scenario runs.
type RunOptions struct {
	Parallelism int           // Concurrent runs (<= 0 means one per scenario)
	Timeout     time.Duration // Wall-clock cap per run (0 = none)
}

// RunScenarios runs each scenario independently and returns results in input
// order. Scenarios share only the read-only catalog. A run that fails to
// converge is reported in its result and does not stop the others; invalid
// configuration aborts the batch.
func RunScenarios(ctx context.Context, catalog *Catalog, scenarios []Scenario, opts RunOptions) ([]ScenarioResult, error) {
	for _, sc := range scenarios {
		if err := sc.Config.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
	}

	results := make([]ScenarioResult, len(scenarios))

	g, gctx := errgroup.WithContext(ctx)
	if opts.Parallelism > 0 {
		g.SetLimit(opts.Parallelism)
	}

	for i, sc := range scenarios {
		i, sc := i, sc
		g.Go(func() error {
			runCtx := gctx
			if opts.Timeout > 0 {
				var cancel context.CancelFunc
				runCtx, cancel = context.WithTimeout(gctx, opts.Timeout)
				defer cancel()
			}

			res, err := SimulateProgression(runCtx, catalog, sc.Config)
			if err != nil {
				return fmt.Errorf("scenario %q: %w", sc.Name, err)
			}
			if !res.Converged() {
				logger.Always("scenario did not converge",
					"scenario", sc.Name, "outcome", res.Outcome.String(), "error", res.Err)
			}
			results[i] = ScenarioResult{Scenario: sc, Result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// AllConverged reports whether every scenario reached its target.
func AllConverged(results []ScenarioResult) bool {
	for _, r := range results {
		if r.Result == nil || !r.Result.Converged() {
			return false
		}
	}
	return true
}
