package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redscout/redscout-cli/internal/model"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	expected := []string{"research", "serve", "runs", "catalog", "export"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "redscout", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestResearchCommand_Flags(t *testing.T) {
	require.NotNil(t, researchCmd.Flags().Lookup("json"))
	require.NotNil(t, researchCmd.Flags().Lookup("export"))
	require.NotNil(t, researchCmd.Flags().Lookup("no-save"))
}

func TestFormatReport(t *testing.T) {
	report := &model.Report{
		ParsedQuery: model.ParsedQuery{
			TargetAudience: "Shopify store owners",
			Intent:         model.IntentFindProblems,
			TimeWindow:     model.WindowWeek,
		},
		Summary:              "Analyzed 6 discussions and found 1 recurring problem area.",
		TotalResultsAnalyzed: 6,
		Clusters: []model.EnrichedCluster{
			{
				ProblemCluster: model.ProblemCluster{
					Title:       "Payment Processing Issues",
					Description: "Recurring payment problems reported across 6 discussions.",
					ThreadCount: 6,
					Severity:    0.55,
					Trend:       model.TrendRising,
				},
				Solutions:        []model.Solution{{Name: "Stripe"}, {Name: "Square"}},
				OpportunityScore: 0.62,
				MarketSize:       model.MarketMedium,
			},
		},
		Insights: model.Insights{
			ActionableRecommendations: []string{"Prioritize Payment Processing Issues"},
		},
		OverallConfidence: 0.71,
	}

	var buf bytes.Buffer
	formatReport(&buf, report)
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, report.Summary))
	assert.Contains(t, out, "1. Payment Processing Issues")
	assert.Contains(t, out, "existing solutions: Stripe, Square")
	assert.Contains(t, out, "opportunity=0.62")
	assert.Contains(t, out, "Prioritize Payment Processing Issues")
}

func TestFormatRunsList_Truncation(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 40))
	long := strings.Repeat("x", 50)
	got := truncate(long, 40)
	assert.Len(t, got, 40)
	assert.True(t, strings.HasSuffix(got, "..."))
}
