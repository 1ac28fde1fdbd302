package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/redscout/redscout-cli/internal/model"
)

func sampleReport() *model.Report {
	return &model.Report{
		ParsedQuery: model.ParsedQuery{
			TargetAudience: "Shopify store owners",
			Intent:         model.IntentFindProblems,
			TimeWindow:     model.WindowWeek,
			Confidence:     0.8,
		},
		Summary:              "Analyzed 6 discussions and found 1 recurring problem area.",
		TotalResultsAnalyzed: 6,
		Clusters: []model.EnrichedCluster{
			{
				ProblemCluster: model.ProblemCluster{
					Title:         "Payment Processing Issues",
					Centroid:      model.FeatureVector{Category: "payment"},
					ThreadCount:   6,
					Severity:      0.55,
					Trend:         model.TrendRising,
					AvgScore:      42.5,
					TotalComments: 61,
					TopKeywords:   []string{"payment", "checkout"},
				},
				Solutions: []model.Solution{
					{Name: "Stripe", Category: "payment", Rating: 4.4, ReviewCount: 8200, Pricing: "2.9% + 30¢", WebsiteURL: "https://stripe.com"},
				},
				SearchConfidence: 0.9,
				OpportunityScore: 0.62,
				MarketSize:       model.MarketMedium,
			},
		},
		Insights: model.Insights{
			TopProblems:               []string{"Payment Processing Issues"},
			ActionableRecommendations: []string{"Prioritize Payment Processing Issues"},
		},
		OverallConfidence: 0.71,
		ProcessingTimeMs:  900,
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteXLSX(sampleReport(), path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 3)
	assert.Equal(t, "Overview", f.Sheets[0].Name)
	assert.Equal(t, "Clusters", f.Sheets[1].Name)
	assert.Equal(t, "Solutions", f.Sheets[2].Name)

	clusters := f.Sheets[1]
	require.GreaterOrEqual(t, len(clusters.Rows), 2)
	assert.Equal(t, "Title", clusters.Rows[0].Cells[0].String())
	assert.Equal(t, "Payment Processing Issues", clusters.Rows[1].Cells[0].String())
	assert.Equal(t, "6", clusters.Rows[1].Cells[2].String())

	solutionsSheet := f.Sheets[2]
	require.GreaterOrEqual(t, len(solutionsSheet.Rows), 2)
	assert.Equal(t, "Stripe", solutionsSheet.Rows[1].Cells[1].String())
}

func TestBuildWorkbook_EmptyReport(t *testing.T) {
	report := &model.Report{
		ParsedQuery: model.ParsedQuery{TargetAudience: "Business owners"},
		Summary:     "No relevant discussions found.",
		Clusters:    []model.EnrichedCluster{},
	}

	f, err := buildWorkbook(report)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 3)
	// Header-only data sheets.
	assert.Len(t, f.Sheets[1].Rows, 1)
	assert.Len(t, f.Sheets[2].Rows, 1)
}
