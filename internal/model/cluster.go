package model

// TrendDirection describes whether discussion of a problem is picking up.
type TrendDirection string

const (
	TrendRising    TrendDirection = "rising"
	TrendStable    TrendDirection = "stable"
	TrendDeclining TrendDirection = "declining"
)

// MarketSize is a coarse engagement bucket for an opportunity.
type MarketSize string

const (
	MarketSmall  MarketSize = "small"
	MarketMedium MarketSize = "medium"
	MarketLarge  MarketSize = "large"
)

// FeatureVector summarizes one result's text: business-problem keyword
// frequencies, sentiment in [-1,1], urgency in [0,1], and the dominant
// problem category.
type FeatureVector struct {
	KeywordFrequency map[string]float64 `json:"keyword_frequency"`
	Sentiment        float64            `json:"sentiment"`
	Urgency          float64            `json:"urgency"`
	Category         string             `json:"category"`
}

// Clone returns a deep copy of the vector. Cluster centroids start as a copy
// of the founding member's vector so later folds never alias it.
func (v FeatureVector) Clone() FeatureVector {
	freq := make(map[string]float64, len(v.KeywordFrequency))
	for k, f := range v.KeywordFrequency {
		freq[k] = f
	}
	return FeatureVector{
		KeywordFrequency: freq,
		Sentiment:        v.Sentiment,
		Urgency:          v.Urgency,
		Category:         v.Category,
	}
}

// ProblemCluster groups similar results around one recurring problem.
// It is enriched once after all members are assigned and never mutated again.
type ProblemCluster struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Members       []RawResult    `json:"members"`
	Centroid      FeatureVector  `json:"centroid"`
	ThreadCount   int            `json:"thread_count"`
	Severity      float64        `json:"severity"`
	Trend         TrendDirection `json:"trend"`
	Confidence    float64        `json:"confidence"`
	TopKeywords   []string       `json:"top_keywords"`
	AvgScore      float64        `json:"avg_score"`
	TotalComments int            `json:"total_comments"`
}

// Solution is one cataloged third-party product that addresses a problem
// category. The catalog is read-only at request time.
type Solution struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	WebsiteURL  string   `json:"website_url" yaml:"website_url"`
	Pricing     string   `json:"pricing" yaml:"pricing"`
	Rating      float64  `json:"rating" yaml:"rating"`
	ReviewCount int      `json:"review_count" yaml:"review_count"`
	Category    string   `json:"category" yaml:"category"`
	SourceKind  string   `json:"source_kind" yaml:"source_kind"`
	Tags        []string `json:"tags" yaml:"tags"`
	LastUpdated string   `json:"last_updated" yaml:"last_updated"` // YYYY-MM-DD
}

// SolutionSet is the outcome of solution discovery for one cluster.
// TotalFound counts the category's own catalog matches, before any
// catalog-wide backfill padding of Solutions.
type SolutionSet struct {
	Category         string     `json:"category"`
	Solutions        []Solution `json:"solutions"`
	TotalFound       int        `json:"total_found"`
	SearchConfidence float64    `json:"search_confidence"`
}

// CategorySolutions returns the category-native prefix of Solutions,
// excluding backfilled catalog-wide entries. Native entries always sort
// ahead of backfill, so the prefix is exact.
func (s SolutionSet) CategorySolutions() []Solution {
	if s.TotalFound < len(s.Solutions) {
		return s.Solutions[:s.TotalFound]
	}
	return s.Solutions
}

// EnrichedCluster is the terminal, request-scoped output entity: a problem
// cluster plus its solution landscape and opportunity assessment.
type EnrichedCluster struct {
	ProblemCluster
	Solutions        []Solution `json:"solutions"`
	TotalFound       int        `json:"total_found"`
	SearchConfidence float64    `json:"search_confidence"`
	OpportunityScore float64    `json:"opportunity_score"`
	MarketSize       MarketSize `json:"market_size"`
}
