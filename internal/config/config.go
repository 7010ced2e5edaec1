package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/tycoonbalance/utilities/balance"
)

// ErrInvalidConfig is returned by Validate for unusable settings.
var ErrInvalidConfig = errors.New("invalid balance config")

// BalanceConfig holds the settings of the balance tool.
type BalanceConfig struct {
	// Catalog is a built-in catalog name ("progression" or "long-term").
	Catalog string `yaml:"catalog"`

	// CatalogPath points at a catalog YAML file. Overrides Catalog when set.
	CatalogPath string `yaml:"catalog_path"`

	Simulation SimulationConfig     `yaml:"simulation"`
	Milestones MilestonesConfig     `yaml:"milestones"`
	Report     balance.ReportConfig `yaml:"report"`
	Runner     RunnerConfig         `yaml:"runner"`
}

// SimulationConfig holds the parameters of a single progression run.
type SimulationConfig struct {
	Target             float64 `yaml:"target"`
	ClickPower         float64 `yaml:"click_power"`
	SecondsPerClick    float64 `yaml:"seconds_per_click"`
	Multiplier         float64 `yaml:"multiplier"`
	MinTimeStep        float64 `yaml:"min_time_step"`
	MilestoneCost      float64 `yaml:"milestone_cost"`
	ProgressLogMinutes int     `yaml:"progress_log_minutes"`
	MaxIterations      int     `yaml:"max_iterations"`
}

// MilestonesConfig holds the milestone projection settings.
type MilestonesConfig struct {
	// ClickPower replaces the simulation click power for milestone runs.
	ClickPower float64                   `yaml:"click_power"`
	Targets    []balance.MilestoneTarget `yaml:"targets"`
}

// RunnerConfig bounds parallel scenario execution.
type RunnerConfig struct {
	// Parallelism is the number of concurrent runs. 0 means one per scenario.
	Parallelism int `yaml:"parallelism"`

	// Timeout caps each run's wall-clock time. 0 means no cap.
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig returns a BalanceConfig with the standard balance assumptions.
func DefaultConfig() *BalanceConfig {
	sim := balance.DefaultProgressionConfig(1000000)
	return &BalanceConfig{
		Catalog: "progression",
		Simulation: SimulationConfig{
			Target:             sim.Target,
			ClickPower:         sim.ClickPower,
			SecondsPerClick:    sim.SecondsPerClick,
			Multiplier:         sim.Multiplier,
			MinTimeStep:        sim.MinTimeStep,
			MilestoneCost:      sim.MilestoneCost,
			ProgressLogMinutes: sim.ProgressLogMinutes,
			MaxIterations:      sim.MaxIterations,
		},
		Milestones: MilestonesConfig{
			ClickPower: 20, // Milestone projections assume upgraded clicks
			Targets:    balance.DefaultMilestoneTargets(),
		},
		Report: balance.DefaultReportConfig(),
		Runner: RunnerConfig{
			Parallelism: 4,
			Timeout:     2 * time.Minute,
		},
	}
}

// LoadConfig loads balance configuration from a YAML file.
// If the file doesn't exist, returns default config.
func LoadConfig(path string) (*BalanceConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil // Use defaults if file doesn't exist
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config YAML: %w", err)
	}

	return config, nil
}

// ProgressionConfig converts the simulation settings for the simulator.
func (c *SimulationConfig) ProgressionConfig() balance.ProgressionConfig {
	return balance.ProgressionConfig{
		Target:             c.Target,
		ClickPower:         c.ClickPower,
		SecondsPerClick:    c.SecondsPerClick,
		Multiplier:         c.Multiplier,
		MinTimeStep:        c.MinTimeStep,
		MilestoneCost:      c.MilestoneCost,
		ProgressLogMinutes: c.ProgressLogMinutes,
		MaxIterations:      c.MaxIterations,
	}
}

// MilestoneScenarios builds the milestone runs from the simulation settings.
func (c *BalanceConfig) MilestoneScenarios() []balance.Scenario {
	base := c.Simulation.ProgressionConfig()
	if c.Milestones.ClickPower > 0 {
		base.ClickPower = c.Milestones.ClickPower
	}
	return balance.MilestoneScenarios(base, c.Milestones.Targets)
}

// RunOptions converts the runner settings for balance.RunScenarios.
func (c *RunnerConfig) RunOptions() balance.RunOptions {
	return balance.RunOptions{Parallelism: c.Parallelism, Timeout: c.Timeout}
}

// ResolveCatalog returns the configured catalog, loading CatalogPath if set.
func (c *BalanceConfig) ResolveCatalog() (*balance.Catalog, error) {
	if c.CatalogPath != "" {
		return balance.LoadCatalogFromYAML(c.CatalogPath)
	}
	return balance.CatalogByName(c.Catalog)
}

// Validate checks every section and reports the first problem found.
func (c *BalanceConfig) Validate() error {
	pc := c.Simulation.ProgressionConfig()
	if err := pc.Validate(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	if c.Milestones.ClickPower < 0 {
		return fmt.Errorf("%w: milestones: click power must not be negative", ErrInvalidConfig)
	}
	for _, t := range c.Milestones.Targets {
		if t.Name == "" {
			return fmt.Errorf("%w: milestones: target %v has no name", ErrInvalidConfig, t.Target)
		}
		if t.Target <= 0 {
			return fmt.Errorf("%w: milestones: %s target must be positive", ErrInvalidConfig, t.Name)
		}
	}
	if c.Report.CostUnits < 1 {
		return fmt.Errorf("%w: report: cost units must be at least 1", ErrInvalidConfig)
	}
	for _, b := range c.Report.Budgets {
		if b < 0 {
			return fmt.Errorf("%w: report: budget %v must not be negative", ErrInvalidConfig, b)
		}
	}
	if c.Report.LateGameUnits < 0 {
		return fmt.Errorf("%w: report: late game units must not be negative", ErrInvalidConfig)
	}
	if c.Runner.Parallelism < 0 {
		return fmt.Errorf("%w: runner: parallelism must not be negative", ErrInvalidConfig)
	}
	if c.Runner.Timeout < 0 {
		return fmt.Errorf("%w: runner: timeout must not be negative", ErrInvalidConfig)
	}
	return nil
}
