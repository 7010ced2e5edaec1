package balance

// NextEarnedMilestone returns the repeatable vibes milestone that follows
// current: 1k, then +1k steps to 10k, +10k to 100k, +100k to 1M, +1M after.
func NextEarnedMilestone(current float64) float64 {
	switch {
	case current <= 0:
		return 1000
	case current < 10000:
		return current + 1000
	case current < 100000:
		return current + 10000
	case current < 1000000:
		return current + 100000
	default:
		return current + 1000000
	}
}

// EarnedMilestonesReached counts the repeatable milestones a lifetime total
// has crossed.
func EarnedMilestonesReached(total float64) int {
	count := 0
	for next := NextEarnedMilestone(0); total >= next; next = NextEarnedMilestone(next) {
		count++
	}
	return count
}

// MilestoneGap describes the jump from one analysis milestone to the next.
type MilestoneGap struct {
	Milestone float64
	Ratio     float64 // Milestone / previous milestone, 0 for the first entry
	Status    string  // "First", "OK" or "LARGE GAP"
}

// MaxHealthyMilestoneRatio is the largest jump between milestones that is not
// flagged as a gap.
const MaxHealthyMilestoneRatio = 10.0

// AnalyzeMilestoneGaps flags milestones that are more than 10x their predecessor.
func AnalyzeMilestoneGaps(milestones []float64) []MilestoneGap {
	gaps := make([]MilestoneGap, 0, len(milestones))
	prev := 0.0
	for _, m := range milestones {
		gap := MilestoneGap{Milestone: m, Status: "First"}
		if prev > 0 {
			gap.Ratio = m / prev
			if gap.Ratio <= MaxHealthyMilestoneRatio {
				gap.Status = "OK"
			} else {
				gap.Status = "LARGE GAP"
			}
		}
		gaps = append(gaps, gap)
		prev = m
	}
	return gaps
}
