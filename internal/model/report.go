package model

import "time"

// RunStatus represents the state of a research run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Insights are the natural-language takeaways derived from scored clusters.
type Insights struct {
	TopProblems               []string `json:"top_problems"`
	EmergingTrends            []string `json:"emerging_trends"`
	SolutionGaps              []string `json:"solution_gaps"`
	MarketOpportunities       []string `json:"market_opportunities"`
	ActionableRecommendations []string `json:"actionable_recommendations"`
}

// Report is the full response for one research request. Clusters are sorted
// by opportunity score, descending.
type Report struct {
	ParsedQuery          ParsedQuery       `json:"parsed_query"`
	Summary              string            `json:"summary"`
	TotalResultsAnalyzed int               `json:"total_results_analyzed"`
	Clusters             []EnrichedCluster `json:"clusters"`
	Insights             Insights          `json:"insights"`
	OverallConfidence    float64           `json:"overall_confidence"`
	ProcessingTimeMs     int64             `json:"processing_time_ms"`
}

// Run is one persisted research run for the dashboard's history view.
type Run struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Status    RunStatus `json:"status"`
	Report    *Report   `json:"report,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
