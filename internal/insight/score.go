// Package insight scores clustered problems for opportunity and derives the
// report's natural-language takeaways.
package insight

import (
	"github.com/redscout/redscout-cli/internal/model"
)

// ScoreOpportunity estimates in [0,1] how under-served a clustered problem
// is, combining discussion volume, severity, engagement, trend, and the
// density and quality of existing solutions.
func ScoreOpportunity(c model.ProblemCluster, set model.SolutionSet) float64 {
	score := 0.0

	score += capAt(float64(c.ThreadCount)/20, 0.3)
	score += capAt(c.Severity, 0.2)
	score += capAt(c.AvgScore/100, 0.1)

	if c.Trend == model.TrendRising {
		score += 0.15
	}

	// Solution density counts the category's own catalog matches;
	// backfilled catalog-wide padding never dilutes the gap signal.
	native := set.CategorySolutions()
	switch n := len(native); {
	case n == 0:
		score += 0.2
	case n <= 2:
		score += 0.1
	default:
		score -= 0.05
	}

	if len(native) > 0 && meanRating(native) < 4.0 {
		score += 0.1
	}

	return clamp(score, 0, 1)
}

// MarketSizeOf buckets a cluster by total engagement: thread count plus
// comments plus score-weighted threads.
func MarketSizeOf(c model.ProblemCluster) model.MarketSize {
	engagement := float64(c.ThreadCount) + float64(c.TotalComments) + c.AvgScore*float64(c.ThreadCount)
	switch {
	case engagement > 500:
		return model.MarketLarge
	case engagement > 150:
		return model.MarketMedium
	default:
		return model.MarketSmall
	}
}

// OverallConfidence blends parse confidence, analyzed volume, and mean
// cluster confidence, clamped to 1.0.
func OverallConfidence(parseConfidence float64, totalResults int, clusters []model.EnrichedCluster) float64 {
	mean := 0.0
	if len(clusters) > 0 {
		sum := 0.0
		for _, c := range clusters {
			sum += c.Confidence
		}
		mean = sum / float64(len(clusters))
	}

	c := 0.3*parseConfidence + capAt(float64(totalResults)/50, 0.3) + 0.4*mean
	return clamp(c, 0, 1)
}

func meanRating(solutions []model.Solution) float64 {
	sum := 0.0
	for _, s := range solutions {
		sum += s.Rating
	}
	return sum / float64(len(solutions))
}

func capAt(v, max float64) float64 {
	if v > max {
		return max
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
