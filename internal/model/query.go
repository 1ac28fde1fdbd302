package model

// IntentCategory classifies what kind of research the user is asking for.
type IntentCategory string

const (
	IntentFindProblems      IntentCategory = "find_problems"
	IntentFindOpportunities IntentCategory = "find_opportunities"
	IntentFindSolutions     IntentCategory = "find_solutions"
	IntentFindTrends        IntentCategory = "find_trends"
)

// TimeWindow restricts how far back a source search looks.
type TimeWindow string

const (
	WindowDay   TimeWindow = "day"
	WindowWeek  TimeWindow = "week"
	WindowMonth TimeWindow = "month"
	WindowAll   TimeWindow = "all"
)

// ParsedQuery is the structured intent extracted from a free-text research
// request. Created once per request and read-only thereafter.
type ParsedQuery struct {
	TargetAudience   string         `json:"target_audience"`
	Intent           IntentCategory `json:"intent"`
	TimeWindow       TimeWindow     `json:"time_window"`
	CandidateSources []string       `json:"candidate_sources"`
	SeedQueries      []string       `json:"seed_queries"`
	Keywords         []string       `json:"keywords"`
	Confidence       float64        `json:"confidence"`
}

// Usable reports whether the parse is strong enough to proceed with.
// Callers must reject unusable parses before any search is attempted.
func (q ParsedQuery) Usable() bool {
	return q.TargetAudience != "" &&
		len(q.CandidateSources) > 0 &&
		len(q.SeedQueries) > 0 &&
		q.Confidence > 0.3
}
