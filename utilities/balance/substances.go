// Package balance provides cost, ROI, prestige and progression analysis tools
// for the idle economy.
package balance

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidSubstance is returned when a catalog entry is malformed.
	ErrInvalidSubstance = errors.New("invalid substance")

	// ErrNegativeCount is returned when a calculator receives a negative owned count.
	ErrNegativeCount = errors.New("owned count must not be negative")

	// ErrNegativeBudget is returned when a calculator receives a negative budget.
	ErrNegativeBudget = errors.New("budget must not be negative")
)

// Substance is a purchasable production unit.
type Substance struct {
	ID             string  `yaml:"id"`
	Name           string  `yaml:"name,omitempty"`    // Display name (defaults to ID)
	Tagline        string  `yaml:"tagline,omitempty"` // Flavor text, display only
	BaseCost       float64 `yaml:"base_cost"`
	CostMultiplier float64 `yaml:"cost_multiplier"` // Exponential growth per owned unit, > 1
	BaseProduction float64 `yaml:"base_production"` // Vibes/sec per owned unit before multipliers
}

// DisplayName returns the substance name, falling back to its ID.
func (s Substance) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

// Validate checks that the substance describes a usable cost curve.
func (s Substance) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidSubstance)
	}
	for _, v := range []float64{s.BaseCost, s.CostMultiplier, s.BaseProduction} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s has a non-finite value", ErrInvalidSubstance, s.ID)
		}
	}
	if s.BaseCost <= 0 {
		return fmt.Errorf("%w: %s base cost %v must be positive", ErrInvalidSubstance, s.ID, s.BaseCost)
	}
	if s.CostMultiplier <= 1.0 {
		return fmt.Errorf("%w: %s cost multiplier %v must be greater than 1", ErrInvalidSubstance, s.ID, s.CostMultiplier)
	}
	if s.BaseProduction < 0 {
		return fmt.Errorf("%w: %s base production %v must not be negative", ErrInvalidSubstance, s.ID, s.BaseProduction)
	}
	return nil
}

// LongTermCatalog returns the substance table used by the long-term balance
// analysis. High tiers grow steeply (1.35x-1.55x per unit).
func LongTermCatalog() *Catalog {
	subs := baseSubstances()
	subs = append(subs,
		Substance{ID: "exotic", BaseCost: 50000, CostMultiplier: 1.35, BaseProduction: 60},
		Substance{ID: "experimental", BaseCost: 250000, CostMultiplier: 1.4, BaseProduction: 125},
		Substance{ID: "forbidden", BaseCost: 1000000, CostMultiplier: 1.45, BaseProduction: 250},
		Substance{ID: "eldritch", BaseCost: 10000000, CostMultiplier: 1.5, BaseProduction: 500},
		Substance{ID: "void", BaseCost: 100000000, CostMultiplier: 1.55, BaseProduction: 1000},
	)
	return mustCatalog("long-term", subs)
}

// ProgressionCatalog returns the rebalanced substance table used by the
// progression simulator. High tiers grow at 1.25x-1.35x per unit.
func ProgressionCatalog() *Catalog {
	subs := baseSubstances()
	subs = append(subs,
		Substance{ID: "exotic", BaseCost: 50000, CostMultiplier: 1.25, BaseProduction: 60},
		Substance{ID: "experimental", BaseCost: 250000, CostMultiplier: 1.28, BaseProduction: 125},
		Substance{ID: "forbidden", BaseCost: 1000000, CostMultiplier: 1.3, BaseProduction: 250},
		Substance{ID: "eldritch", BaseCost: 10000000, CostMultiplier: 1.32, BaseProduction: 500},
		Substance{ID: "void", BaseCost: 100000000, CostMultiplier: 1.35, BaseProduction: 1000},
	)
	return mustCatalog("progression", subs)
}

// baseSubstances returns the ten tiers both catalogs agree on.
// A fresh slice is built on every call so catalogs never share backing arrays.
func baseSubstances() []Substance {
	return []Substance{
		{ID: "alcohol", Name: "Alcohol LLC", Tagline: "The Foundation of Bad Decisions", BaseCost: 10, CostMultiplier: 1.15, BaseProduction: 0.5},
		{ID: "stimulant", Name: "Stimulant Startups", Tagline: "Sleep is a Construct", BaseCost: 25, CostMultiplier: 1.2, BaseProduction: 1.5},
		{ID: "empathogen", Name: "Empathogen Corp", Tagline: "Connection as a Service", BaseCost: 50, CostMultiplier: 1.25, BaseProduction: 3},
		{ID: "dissociative", Name: "Dissociative Industries", Tagline: "Perspective Adjustment Solutions", BaseCost: 40, CostMultiplier: 1.18, BaseProduction: 1},
		{ID: "sedative", Name: "Sedative Unlimited", Tagline: "Anxiety Not Found", BaseCost: 35, CostMultiplier: 1.2, BaseProduction: 0.8},
		{ID: "nootropic", BaseCost: 100, CostMultiplier: 1.15, BaseProduction: 2.5},
		{ID: "deliriant", BaseCost: 250, CostMultiplier: 1.18, BaseProduction: 4.5},
		{ID: "psychedelic", BaseCost: 750, CostMultiplier: 1.22, BaseProduction: 8},
		{ID: "synthetic", BaseCost: 2500, CostMultiplier: 1.25, BaseProduction: 15},
		{ID: "research", BaseCost: 10000, CostMultiplier: 1.3, BaseProduction: 30},
	}
}

func mustCatalog(name string, subs []Substance) *Catalog {
	c, err := NewCatalog(name, subs)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog %q: %v", name, err))
	}
	return c
}
