// balance is an offline balance analyzer for the idle economy.
//
// Usage:
//
//	balance [command] [options]
//
// Commands:
//
//	simulate    - Simulate greedy progression to a vibes target
//	milestones  - Project time to the 1M/10M/100M/1B milestones
//	report      - Print the long-term balance analysis
//	all         - Run report followed by milestones
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/lawnchairsociety/tycoonbalance/internal/config"
	"github.com/lawnchairsociety/tycoonbalance/internal/logger"
	"github.com/lawnchairsociety/tycoonbalance/utilities/balance"
)

// Exit codes.
const (
	exitOK             = 0
	exitConfigError    = 1
	exitNonConvergence = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run dispatches a subcommand and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return exitConfigError
	}

	switch args[0] {
	case "simulate":
		return runSimulate(ctx, args[1:], stdout, stderr)
	case "milestones":
		return runMilestones(ctx, args[1:], stdout, stderr)
	case "report":
		return runReport(args[1:], stdout, stderr)
	case "all":
		return runAll(ctx, args[1:], stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return exitConfigError
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `Idle Economy Balance Analyzer

Simulates greedy progression and prints long-term balance tables.

Usage: balance <command> [options]

Commands:
  simulate    Simulate greedy progression to a vibes target
  milestones  Project time to the 1M/10M/100M/1B milestones
  report      Print the long-term balance analysis
  all         Run report followed by milestones

Examples:
  balance simulate -target=1000000 -click-power=10 -multiplier=2
  balance simulate -catalog=data/catalogs/progression.yaml -target=1e8
  balance milestones -click-power=20 -timeout=30s
  balance report -catalog=long-term
  balance all -config=data/balance.yaml

Exit codes: 0 converged, 1 configuration error, 2 a run did not converge.

Use "balance <command> -h" for more information about a command.`)
}

// commonFlags are shared by every subcommand.
type commonFlags struct {
	configPath  *string
	loggingPath *string
	catalog     *string
}

func addCommonFlags(fs *flag.FlagSet, defaultCatalog string) commonFlags {
	return commonFlags{
		configPath:  fs.String("config", "data/balance.yaml", "Path to balance config YAML file"),
		loggingPath: fs.String("logging", "data/logging.yaml", "Path to logging config YAML file"),
		catalog:     fs.String("catalog", defaultCatalog, "Built-in catalog name (progression, long-term) or catalog YAML path"),
	}
}

// simulationFlags override the simulation section of the config file.
type simulationFlags struct {
	clickPower      *float64
	secondsPerClick *float64
	multiplier      *float64
}

func addSimulationFlags(fs *flag.FlagSet, defaults config.SimulationConfig, clickPower float64) simulationFlags {
	return simulationFlags{
		clickPower:      fs.Float64("click-power", clickPower, "Vibes per click before multipliers"),
		secondsPerClick: fs.Float64("seconds-per-click", defaults.SecondsPerClick, "Seconds between clicks"),
		multiplier:      fs.Float64("multiplier", defaults.Multiplier, "Global production multiplier from upgrades"),
	}
}

// setup parses flags, initializes logging and loads the config. Flags that
// were set explicitly win over file values.
func setup(fs *flag.FlagSet, args []string, common commonFlags, stderr io.Writer) (*config.BalanceConfig, map[string]bool, error) {
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	logConfig, _ := logger.LoadConfig(*common.loggingPath)
	if err := logger.Initialize(logConfig); err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logging: %v\n", err)
	}

	cfg, err := config.LoadConfig(*common.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config %s: %w", *common.configPath, err)
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["catalog"] {
		if isCatalogFile(*common.catalog) {
			cfg.CatalogPath = *common.catalog
		} else {
			cfg.Catalog = *common.catalog
			cfg.CatalogPath = ""
		}
	}

	return cfg, set, nil
}

// isCatalogFile reports whether a -catalog value names a file on disk.
func isCatalogFile(value string) bool {
	info, err := os.Stat(value)
	return err == nil && !info.IsDir()
}

func loadCatalog(cfg *config.BalanceConfig, stderr io.Writer) (*balance.Catalog, bool) {
	catalog, err := cfg.ResolveCatalog()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return nil, false
	}
	logger.Info("Catalog loaded", "name", catalog.Name(), "substances", catalog.Len())
	return catalog, true
}

func exitCodeFor(err error, stderr io.Writer) int {
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitConfigError
}

func runSimulate(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	defaults := config.DefaultConfig()
	common := addCommonFlags(fs, defaults.Catalog)
	sim := addSimulationFlags(fs, defaults.Simulation, defaults.Simulation.ClickPower)
	target := fs.Float64("target", defaults.Simulation.Target, "Lifetime vibes to reach")
	timeout := fs.Duration("timeout", 0, "Wall-clock cap on the run (0 = none)")

	cfg, set, err := setup(fs, args, common, stderr)
	if err != nil {
		return exitCodeFor(err, stderr)
	}

	if set["target"] {
		cfg.Simulation.Target = *target
	}
	if set["click-power"] {
		cfg.Simulation.ClickPower = *sim.clickPower
	}
	if set["seconds-per-click"] {
		cfg.Simulation.SecondsPerClick = *sim.secondsPerClick
	}
	if set["multiplier"] {
		cfg.Simulation.Multiplier = *sim.multiplier
	}
	if set["timeout"] {
		cfg.Runner.Timeout = *timeout
	}

	if err := cfg.Validate(); err != nil {
		return exitCodeFor(err, stderr)
	}
	catalog, ok := loadCatalog(cfg, stderr)
	if !ok {
		return exitConfigError
	}

	if cfg.Runner.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Runner.Timeout)
		defer cancel()
	}

	pc := cfg.Simulation.ProgressionConfig()
	result, err := balance.SimulateProgression(ctx, catalog, pc)
	if err != nil {
		return exitCodeFor(err, stderr)
	}

	if err := balance.WriteProgressionReport(stdout, catalog, pc, result); err != nil {
		fmt.Fprintf(stderr, "Error writing report: %v\n", err)
		return exitConfigError
	}

	if !result.Converged() {
		return exitNonConvergence
	}
	return exitOK
}

func runMilestones(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("milestones", flag.ContinueOnError)
	fs.SetOutput(stderr)

	defaults := config.DefaultConfig()
	common := addCommonFlags(fs, defaults.Catalog)
	sim := addSimulationFlags(fs, defaults.Simulation, defaults.Milestones.ClickPower)
	parallel := fs.Int("parallel", defaults.Runner.Parallelism, "Concurrent scenario runs (0 = one per milestone)")
	timeout := fs.Duration("timeout", defaults.Runner.Timeout, "Wall-clock cap per run (0 = none)")

	cfg, set, err := setup(fs, args, common, stderr)
	if err != nil {
		return exitCodeFor(err, stderr)
	}

	if set["click-power"] {
		cfg.Milestones.ClickPower = *sim.clickPower
	}
	if set["seconds-per-click"] {
		cfg.Simulation.SecondsPerClick = *sim.secondsPerClick
	}
	if set["multiplier"] {
		cfg.Simulation.Multiplier = *sim.multiplier
	}
	if set["parallel"] {
		cfg.Runner.Parallelism = *parallel
	}
	if set["timeout"] {
		cfg.Runner.Timeout = *timeout
	}

	if err := cfg.Validate(); err != nil {
		return exitCodeFor(err, stderr)
	}
	catalog, ok := loadCatalog(cfg, stderr)
	if !ok {
		return exitConfigError
	}

	return milestones(ctx, cfg, catalog, stdout, stderr)
}

func milestones(ctx context.Context, cfg *config.BalanceConfig, catalog *balance.Catalog, stdout, stderr io.Writer) int {
	results, err := balance.RunScenarios(ctx, catalog, cfg.MilestoneScenarios(), cfg.Runner.RunOptions())
	if err != nil {
		return exitCodeFor(err, stderr)
	}

	for _, r := range results {
		fmt.Fprintf(stdout, "\n\n### Simulating to %s ###\n", r.Scenario.Name)
		if err := balance.WriteProgressionReport(stdout, catalog, r.Scenario.Config, r.Result); err != nil {
			fmt.Fprintf(stderr, "Error writing report: %v\n", err)
			return exitConfigError
		}
		if r.Result.Converged() {
			fmt.Fprintf(stdout, "\n>>> %s reached in %.2f hours <<<\n", r.Scenario.Name, r.Result.Hours())
		} else {
			fmt.Fprintf(stdout, "\n>>> %s not reached (%s) <<<\n", r.Scenario.Name, r.Result.Outcome)
		}
	}

	if !balance.AllConverged(results) {
		return exitNonConvergence
	}
	return exitOK
}

func runReport(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(stderr)

	common := addCommonFlags(fs, "long-term")
	units := fs.Int("units", config.DefaultConfig().Report.CostUnits, "Units priced in the cost efficiency table")

	cfg, set, err := setup(fs, args, common, stderr)
	if err != nil {
		return exitCodeFor(err, stderr)
	}
	if !set["catalog"] && cfg.CatalogPath == "" {
		cfg.Catalog = "long-term"
	}
	if set["units"] {
		cfg.Report.CostUnits = *units
	}

	if err := cfg.Validate(); err != nil {
		return exitCodeFor(err, stderr)
	}
	catalog, ok := loadCatalog(cfg, stderr)
	if !ok {
		return exitConfigError
	}

	return report(cfg, catalog, stdout, stderr)
}

func report(cfg *config.BalanceConfig, catalog *balance.Catalog, stdout, stderr io.Writer) int {
	if err := balance.WriteLongTermReport(stdout, catalog, cfg.Report); err != nil {
		fmt.Fprintf(stderr, "Error writing report: %v\n", err)
		return exitConfigError
	}
	return exitOK
}

func runAll(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("all", flag.ContinueOnError)
	fs.SetOutput(stderr)

	defaults := config.DefaultConfig()
	common := addCommonFlags(fs, defaults.Catalog)

	cfg, set, err := setup(fs, args, common, stderr)
	if err != nil {
		return exitCodeFor(err, stderr)
	}
	if err := cfg.Validate(); err != nil {
		return exitCodeFor(err, stderr)
	}

	// The long-term analysis uses its own catalog unless one was chosen.
	reportCfg := *cfg
	if !set["catalog"] && cfg.CatalogPath == "" {
		reportCfg.Catalog = "long-term"
	}
	reportCatalog, ok := loadCatalog(&reportCfg, stderr)
	if !ok {
		return exitConfigError
	}
	if code := report(&reportCfg, reportCatalog, stdout, stderr); code != exitOK {
		return code
	}

	catalog, ok := loadCatalog(cfg, stderr)
	if !ok {
		return exitConfigError
	}
	return milestones(ctx, cfg, catalog, stdout, stderr)
}
