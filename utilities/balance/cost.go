package balance

import (
	"fmt"
	"math"
)

// MaxAffordableSearchCap bounds MaxAffordableUnits. Budgets that cover more
// than this many units report the cap.
const MaxAffordableSearchCap = 1000

// UnitCost returns the price of the next unit when owned units are already held:
// floor(baseCost * costMultiplier^owned).
func UnitCost(s Substance, owned int) (float64, error) {
	if owned < 0 {
		return 0, fmt.Errorf("%w: %s owned=%d", ErrNegativeCount, s.ID, owned)
	}
	return unitCost(s, owned), nil
}

func unitCost(s Substance, owned int) float64 {
	return math.Floor(s.BaseCost * math.Pow(s.CostMultiplier, float64(owned)))
}

// CumulativeCost returns the total price of buying count units starting from zero.
// Returns 0 for count <= 0.
func CumulativeCost(s Substance, count int) float64 {
	total := 0.0
	for i := 0; i < count; i++ {
		total += unitCost(s, i)
	}
	return total
}

// ProductionRate returns vibes/sec from owned units before any multiplier.
func ProductionRate(s Substance, owned int) (float64, error) {
	if owned < 0 {
		return 0, fmt.Errorf("%w: %s owned=%d", ErrNegativeCount, s.ID, owned)
	}
	return s.BaseProduction * float64(owned), nil
}

// ReturnOnInvestment returns vibes/sec gained per vibe spent to own count units.
// Zero investment yields 0 rather than a division by zero.
func ReturnOnInvestment(s Substance, count int) (float64, error) {
	rate, err := ProductionRate(s, count)
	if err != nil {
		return 0, err
	}
	total := CumulativeCost(s, count)
	if total == 0 {
		return 0, nil
	}
	return rate / total, nil
}

// MarginalROI returns the multiplied vibes/sec gained per vibe spent on the
// next unit only.
func MarginalROI(s Substance, owned int, multiplier float64) (float64, error) {
	cost, err := UnitCost(s, owned)
	if err != nil {
		return 0, err
	}
	return marginalROI(s, cost, multiplier), nil
}

// marginalROI treats a free unit that produces anything as infinitely good.
func marginalROI(s Substance, cost, multiplier float64) float64 {
	gain := s.BaseProduction * multiplier
	if cost <= 0 {
		if gain > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return gain / cost
}

// MaxAffordableUnits returns the largest n in [0, MaxAffordableSearchCap] whose
// cumulative cost fits in budget. Cumulative cost is strictly increasing in n,
// so a binary search over the capped range is exact.
func MaxAffordableUnits(s Substance, budget float64) (int, error) {
	if budget < 0 || math.IsNaN(budget) {
		return 0, fmt.Errorf("%w: %v", ErrNegativeBudget, budget)
	}

	low, high := 0, MaxAffordableSearchCap
	for low < high {
		mid := (low + high + 1) / 2
		if CumulativeCost(s, mid) <= budget {
			low = mid
		} else {
			high = mid - 1
		}
	}
	return low, nil
}
