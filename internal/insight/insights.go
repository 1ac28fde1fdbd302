package insight

import (
	"fmt"

	"github.com/redscout/redscout-cli/internal/model"
)

const (
	maxTopProblems         = 5
	maxEmergingTrends      = 3
	maxSolutionGaps        = 3
	maxMarketOpportunities = 4

	solutionGapThreshold = 2
	opportunityThreshold = 0.6
)

// Build derives insights from enriched clusters. Clusters must already be
// sorted by opportunity score, descending.
func Build(clusters []model.EnrichedCluster) model.Insights {
	insights := model.Insights{}

	for _, c := range clusters {
		if len(insights.TopProblems) < maxTopProblems {
			insights.TopProblems = append(insights.TopProblems, c.Title)
		}
		if c.Trend == model.TrendRising && len(insights.EmergingTrends) < maxEmergingTrends {
			insights.EmergingTrends = append(insights.EmergingTrends, c.Title)
		}
		if c.TotalFound <= solutionGapThreshold && len(insights.SolutionGaps) < maxSolutionGaps {
			insights.SolutionGaps = append(insights.SolutionGaps, c.Title)
		}
		if c.OpportunityScore > opportunityThreshold && len(insights.MarketOpportunities) < maxMarketOpportunities {
			insights.MarketOpportunities = append(insights.MarketOpportunities,
				fmt.Sprintf("%s (%d discussions)", c.Title, c.ThreadCount))
		}
	}

	insights.ActionableRecommendations = recommendations(clusters)
	return insights
}

// recommendations emits up to four templated actions in fixed order: the
// top-opportunity cluster, the first solution gap, the first rising trend,
// and an aggregate statement. Entries without a qualifying cluster are
// skipped.
func recommendations(clusters []model.EnrichedCluster) []string {
	if len(clusters) == 0 {
		return nil
	}

	var recs []string

	top := clusters[0]
	recs = append(recs, fmt.Sprintf(
		"Prioritize %q: %d discussions and an opportunity score of %.2f make it the strongest candidate.",
		top.Title, top.ThreadCount, top.OpportunityScore))

	for _, c := range clusters {
		if c.TotalFound <= solutionGapThreshold {
			recs = append(recs, fmt.Sprintf(
				"%q has only %d established solutions; validate demand for a purpose-built alternative.",
				c.Title, c.TotalFound))
			break
		}
	}

	for _, c := range clusters {
		if c.Trend == model.TrendRising {
			recs = append(recs, fmt.Sprintf(
				"%q is gaining momentum; engage those communities before the space gets crowded.",
				c.Title))
			break
		}
	}

	totalThreads := 0
	for _, c := range clusters {
		totalThreads += c.ThreadCount
	}
	recs = append(recs, fmt.Sprintf(
		"Reviewed %d discussions across %d problem clusters; revisit the lower-ranked clusters after acting on the top ones.",
		totalThreads, len(clusters)))

	return recs
}

// GenericRecommendations is the fixed advice returned when a research run
// produces no quality results.
func GenericRecommendations() []string {
	return []string{
		"Broaden the research query or relax the time window to surface more discussions.",
		"Add more specific problem keywords to the query and re-run the analysis.",
		"Monitor the candidate communities for a few days before searching again.",
	}
}
