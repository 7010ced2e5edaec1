package balance

import "math"

// VibesPerInsightUnit scales the square-root prestige conversion.
const VibesPerInsightUnit = 1000000.0

// InsightPoints converts lifetime vibes into prestige currency:
// floor(sqrt(total / 1,000,000)).
func InsightPoints(totalVibes float64) int {
	if totalVibes <= 0 || math.IsNaN(totalVibes) {
		return 0
	}
	return int(math.Floor(math.Sqrt(totalVibes / VibesPerInsightUnit)))
}

// VibesForInsight returns the lifetime vibes required to hold points insight.
func VibesForInsight(points int) float64 {
	if points <= 0 {
		return 0
	}
	p := float64(points)
	return p * p * VibesPerInsightUnit
}

// VibesForNextInsight returns the lifetime vibes required for one more point.
func VibesForNextInsight(currentPoints int) float64 {
	if currentPoints < 0 {
		currentPoints = 0
	}
	return VibesForInsight(currentPoints + 1)
}
