package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redscout/redscout-cli/internal/model"
	"github.com/redscout/redscout-cli/internal/solutions"
)

func cluster(threads int, severity, avgScore float64, trend model.TrendDirection) model.ProblemCluster {
	return model.ProblemCluster{
		Title:       "Payment Processing Issues",
		ThreadCount: threads,
		Severity:    severity,
		AvgScore:    avgScore,
		Trend:       trend,
		Confidence:  0.5,
	}
}

func solutionsWithRating(n int, rating float64) model.SolutionSet {
	set := model.SolutionSet{TotalFound: n}
	for i := 0; i < n; i++ {
		set.Solutions = append(set.Solutions, model.Solution{Name: "s", Rating: rating})
	}
	return set
}

func TestScoreOpportunity_NoSolutionsBonus(t *testing.T) {
	c := cluster(10, 0.5, 50, model.TrendStable)

	none := ScoreOpportunity(c, model.SolutionSet{})
	crowded := ScoreOpportunity(c, solutionsWithRating(3, 4.5))

	// +0.2 for an empty landscape vs −0.05 for a crowded one.
	assert.InDelta(t, 0.25, none-crowded, 1e-9)
}

func TestScoreOpportunity_BackfillDoesNotDiluteBonus(t *testing.T) {
	c := cluster(10, 0.5, 50, model.TrendStable)

	// An empty category padded with four catalog-wide entries still earns
	// the no-solutions bonus; only native matches count.
	backfilled := model.SolutionSet{
		TotalFound: 0,
		Solutions:  solutionsWithRating(4, 4.5).Solutions,
	}
	crowded := solutionsWithRating(4, 4.5)

	assert.InDelta(t, 0.25, ScoreOpportunity(c, backfilled)-ScoreOpportunity(c, crowded), 1e-9)

	// Two native matches padded to four keep the thin-landscape bonus, and
	// their low ratings stay visible through the high-rated padding.
	thin := model.SolutionSet{
		TotalFound: 2,
		Solutions: append(solutionsWithRating(2, 3.0).Solutions,
			solutionsWithRating(2, 4.8).Solutions...),
	}
	// vs crowded: +0.1 thin bonus − (−0.05) + 0.1 weak incumbents = 0.25.
	assert.InDelta(t, 0.25, ScoreOpportunity(c, thin)-ScoreOpportunity(c, crowded), 1e-9)
}

func TestScoreOpportunity_DiscoveredEmptyCategory(t *testing.T) {
	catalog := &solutions.Catalog{
		CategoryTerms: []solutions.CategoryTerms{
			{Name: "payment", Terms: []string{"payment", "checkout"}},
			{Name: "security", Terms: []string{"security", "fraud"}},
		},
		Solutions: map[string][]model.Solution{
			"payment": {
				{Name: "Stripe", Rating: 4.6},
				{Name: "Square", Rating: 4.5},
				{Name: "Adyen", Rating: 4.4},
				{Name: "Braintree", Rating: 4.3},
			},
		},
	}
	d, err := solutions.NewDiscovery(catalog, nil)
	require.NoError(t, err)

	uncovered := d.Discover("security fraud problems", nil)
	require.NotEmpty(t, uncovered.Solutions, "thin categories are padded for display")
	assert.Zero(t, uncovered.TotalFound)

	covered := d.Discover("payment checkout problems", nil)
	require.Equal(t, 4, covered.TotalFound)

	c := cluster(10, 0.5, 50, model.TrendStable)
	// +0.2 uncovered vs −0.05 for four well-rated incumbents.
	assert.InDelta(t, 0.25, ScoreOpportunity(c, uncovered)-ScoreOpportunity(c, covered), 1e-9)
}

func TestScoreOpportunity_Components(t *testing.T) {
	c := cluster(10, 0.5, 50, model.TrendRising)

	// threads min(10/20, 0.3) = 0.3; severity min(0.5, 0.2) = 0.2;
	// avgScore min(50/100, 0.1) = 0.1; rising +0.15; 1-2 solutions +0.1;
	// mean rating 3.0 < 4.0 adds +0.1. Total 0.95.
	score := ScoreOpportunity(c, solutionsWithRating(2, 3.0))
	assert.InDelta(t, 0.95, score, 1e-9)
}

func TestScoreOpportunity_Clamped(t *testing.T) {
	high := cluster(100, 1.0, 500, model.TrendRising)
	assert.LessOrEqual(t, ScoreOpportunity(high, model.SolutionSet{}), 1.0)

	low := cluster(0, 0, 0, model.TrendStable)
	score := ScoreOpportunity(low, solutionsWithRating(5, 4.8))
	assert.GreaterOrEqual(t, score, 0.0)
}

func TestScoreOpportunity_LowRatedIncumbents(t *testing.T) {
	c := cluster(10, 0.5, 50, model.TrendStable)

	weak := ScoreOpportunity(c, solutionsWithRating(3, 3.2))
	strong := ScoreOpportunity(c, solutionsWithRating(3, 4.6))

	assert.InDelta(t, 0.1, weak-strong, 1e-9, "sub-4.0 incumbents add the quality-gap bonus")
}

func TestMarketSizeOf(t *testing.T) {
	small := model.ProblemCluster{ThreadCount: 3, TotalComments: 20, AvgScore: 10}
	assert.Equal(t, model.MarketSmall, MarketSizeOf(small)) // 3+20+30 = 53

	medium := model.ProblemCluster{ThreadCount: 5, TotalComments: 50, AvgScore: 25}
	assert.Equal(t, model.MarketMedium, MarketSizeOf(medium)) // 5+50+125 = 180

	large := model.ProblemCluster{ThreadCount: 10, TotalComments: 200, AvgScore: 40}
	assert.Equal(t, model.MarketLarge, MarketSizeOf(large)) // 10+200+400 = 610
}

func TestOverallConfidence(t *testing.T) {
	clusters := []model.EnrichedCluster{
		{ProblemCluster: model.ProblemCluster{Confidence: 0.6}},
		{ProblemCluster: model.ProblemCluster{Confidence: 0.8}},
	}

	// 0.3·0.8 + min(100/50,0.3) + 0.4·0.7 = 0.24 + 0.3 + 0.28 = 0.82.
	assert.InDelta(t, 0.82, OverallConfidence(0.8, 100, clusters), 1e-9)

	// No clusters: mean term contributes nothing.
	assert.InDelta(t, 0.3*0.9+0.1, OverallConfidence(0.9, 5, nil), 1e-9)

	assert.LessOrEqual(t, OverallConfidence(1.0, 1000, clusters), 1.0)
}

func TestBuild_InsightLists(t *testing.T) {
	var clusters []model.EnrichedCluster
	for i := 0; i < 7; i++ {
		trend := model.TrendStable
		if i%2 == 0 {
			trend = model.TrendRising
		}
		c := model.EnrichedCluster{
			ProblemCluster: model.ProblemCluster{
				Title:       titleFor(i),
				ThreadCount: 20 - i,
				Trend:       trend,
			},
			OpportunityScore: 0.9 - float64(i)*0.1,
		}
		if i >= 4 {
			c.Solutions = solutionsWithRating(5, 4.0).Solutions
			c.TotalFound = 5
		}
		clusters = append(clusters, c)
	}

	insights := Build(clusters)

	assert.Len(t, insights.TopProblems, 5)
	assert.Equal(t, titleFor(0), insights.TopProblems[0])
	assert.LessOrEqual(t, len(insights.EmergingTrends), 3)
	assert.LessOrEqual(t, len(insights.SolutionGaps), 3)
	assert.LessOrEqual(t, len(insights.MarketOpportunities), 4)
	assert.Contains(t, insights.MarketOpportunities[0], "(20 discussions)")

	require.NotEmpty(t, insights.ActionableRecommendations)
	assert.LessOrEqual(t, len(insights.ActionableRecommendations), 4)
	assert.Contains(t, insights.ActionableRecommendations[0], titleFor(0))
}

func TestBuild_EmptyClusters(t *testing.T) {
	insights := Build(nil)
	assert.Empty(t, insights.TopProblems)
	assert.Empty(t, insights.ActionableRecommendations)

	generic := GenericRecommendations()
	assert.NotEmpty(t, generic)
}

func TestRecommendations_FixedOrderSkipsMissing(t *testing.T) {
	// No solution gaps, no rising trends: only the top-cluster and the
	// aggregate recommendations remain.
	clusters := []model.EnrichedCluster{
		{
			ProblemCluster:   model.ProblemCluster{Title: "A", ThreadCount: 8, Trend: model.TrendStable},
			Solutions:        solutionsWithRating(5, 4.2).Solutions,
			TotalFound:       5,
			OpportunityScore: 0.5,
		},
	}

	recs := recommendations(clusters)
	require.Len(t, recs, 2)
	assert.Contains(t, recs[0], `"A"`)
	assert.Contains(t, recs[1], "Reviewed 8 discussions")
}

func titleFor(i int) string {
	return []string{
		"Payment Processing Issues",
		"Shipping & Fulfillment Issues",
		"Customer Service Challenges",
		"Analytics & Reporting Gaps",
		"Technical & Integration Problems",
		"Pricing & Billing Complaints",
		"Security & Fraud Concerns",
	}[i]
}
