package solutions

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/redscout/redscout-cli/internal/model"
)

const (
	minSolutions = 4
	maxSolutions = 6

	recencyWindow = 30 * 24 * time.Hour
)

// Discovery looks up and ranks cataloged solutions for a clustered problem.
// It is safe for concurrent use: the catalog is read-only at request time.
type Discovery struct {
	catalog *Catalog
	now     func() time.Time
}

// NewDiscovery creates a Discovery. A nil catalog selects the embedded
// defaults; a nil clock selects time.Now.
func NewDiscovery(catalog *Catalog, now func() time.Time) (*Discovery, error) {
	if catalog == nil {
		var err error
		catalog, err = DefaultCatalog()
		if err != nil {
			return nil, err
		}
	}
	if now == nil {
		now = time.Now
	}
	return &Discovery{catalog: catalog, now: now}, nil
}

// Discover categorizes the problem named by title+keywords, ranks the
// category's cataloged solutions, backfills from the catalog at large when
// the category is thin, and returns the top candidates with a search
// confidence.
func (d *Discovery) Discover(title string, keywords []string) model.SolutionSet {
	text := strings.ToLower(title + " " + strings.Join(keywords, " "))
	category := d.catalog.Categorize(text)

	candidates := append([]model.Solution(nil), d.catalog.Solutions[category]...)
	terms := searchTerms(title, keywords)

	type scored struct {
		solution model.Solution
		score    float64
	}
	ranked := make([]scored, 0, len(candidates))
	for _, s := range candidates {
		ranked = append(ranked, scored{solution: s, score: d.score(s, terms)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out := make([]model.Solution, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.solution)
	}

	// The category's own match count, before padding. Scoring and the
	// gap insights read this, never the backfilled length.
	totalFound := len(out)

	// Thin category: pad with catalog-wide entries, unranked, at the end.
	if len(out) < minSolutions {
		out = d.backfill(out)
	}
	if len(out) > maxSolutions {
		out = out[:maxSolutions]
	}

	confidence := d.catalog.baseConfidence(category) + capAt(float64(totalFound)/10, 0.1)

	zap.L().Debug("solution discovery",
		zap.String("category", category),
		zap.Int("total_found", totalFound),
		zap.Float64("search_confidence", confidence),
	)

	return model.SolutionSet{
		Category:         category,
		Solutions:        out,
		TotalFound:       totalFound,
		SearchConfidence: confidence,
	}
}

// score ranks one solution against the search terms: rating carries 30%,
// term coverage 40%, review volume up to 0.2, and a 0.1 recency bonus for
// catalogs updated within the last 30 days.
func (d *Discovery) score(s model.Solution, terms []string) float64 {
	score := 0.3 * (s.Rating / 5)

	if len(terms) > 0 {
		haystack := strings.ToLower(s.Name + " " + s.Description + " " + strings.Join(s.Tags, " "))
		matched := 0
		for _, term := range terms {
			if strings.Contains(haystack, term) {
				matched++
			}
		}
		score += 0.4 * float64(matched) / float64(len(terms))
	}

	score += capAt(float64(s.ReviewCount)/10000, 0.2)

	if updated, err := time.Parse("2006-01-02", s.LastUpdated); err == nil {
		if d.now().Sub(updated) <= recencyWindow {
			score += 0.1
		}
	}
	return score
}

// backfill appends catalog-wide entries not already present until the
// minimum count is reached or the catalog is exhausted.
func (d *Discovery) backfill(current []model.Solution) []model.Solution {
	have := make(map[string]bool, len(current))
	for _, s := range current {
		have[s.Name] = true
	}
	for _, s := range d.catalog.all() {
		if len(current) >= minSolutions {
			break
		}
		if !have[s.Name] {
			have[s.Name] = true
			current = append(current, s)
		}
	}
	return current
}

// searchTerms lower-cases the title words and keywords, keeping terms of at
// least 3 characters.
func searchTerms(title string, keywords []string) []string {
	var terms []string
	for _, w := range strings.Fields(strings.ToLower(title)) {
		if len(w) >= 3 {
			terms = append(terms, w)
		}
	}
	for _, k := range keywords {
		k = strings.ToLower(k)
		if len(k) >= 3 {
			terms = append(terms, k)
		}
	}
	return terms
}

func capAt(v, max float64) float64 {
	if v > max {
		return max
	}
	return v
}
