package cluster

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/redscout/redscout-cli/internal/model"
)

// enrichAll discards clusters below the member minimum, enriches the
// survivors, ranks them by threadCount × severity, and truncates the list.
func (e *Engine) enrichAll(working []*workingCluster) []model.ProblemCluster {
	clusters := make([]model.ProblemCluster, 0, len(working))
	for _, wc := range working {
		if len(wc.members) < e.cfg.MinMembers {
			continue
		}
		clusters = append(clusters, e.enrich(wc))
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return float64(clusters[i].ThreadCount)*clusters[i].Severity >
			float64(clusters[j].ThreadCount)*clusters[j].Severity
	})
	if len(clusters) > e.cfg.MaxClusters {
		clusters = clusters[:e.cfg.MaxClusters]
	}
	return clusters
}

// enrich computes the one-shot derived fields for a surviving cluster. The
// returned cluster is never mutated afterwards.
func (e *Engine) enrich(wc *workingCluster) model.ProblemCluster {
	memberCount := len(wc.members)

	totalScore := 0
	totalComments := 0
	for _, m := range wc.members {
		totalScore += m.Score
		totalComments += m.CommentCount
	}
	avgScore := float64(totalScore) / float64(memberCount)
	avgComments := float64(totalComments) / float64(memberCount)

	severity := clamp(
		0.4*wc.centroid.Urgency+
			0.3*capAt(avgScore/100, 1)+
			0.3*capAt(avgComments/50, 1),
		0, 1)

	confidence := float64(memberCount) / 10
	if confidence > 0.9 {
		confidence = 0.9
	}

	topKeywords := topCentroidKeywords(wc.centroid, 5)

	return model.ProblemCluster{
		ID:            uuid.NewString(),
		Title:         e.title(wc.centroid.Category, topKeywords),
		Description:   e.describe(wc),
		Members:       wc.members,
		Centroid:      wc.centroid,
		ThreadCount:   memberCount,
		Severity:      severity,
		Trend:         e.trend(wc.members),
		Confidence:    confidence,
		TopKeywords:   topKeywords,
		AvgScore:      avgScore,
		TotalComments: totalComments,
	}
}

// title resolves the category's template title, falling back to the top
// centroid keyword.
func (e *Engine) title(category string, topKeywords []string) string {
	if t, ok := e.vocab.TitleTemplates[category]; ok {
		return t
	}
	if len(topKeywords) > 0 {
		return strings.ToUpper(topKeywords[0]) + " Related Issues"
	}
	return model.CategoryDisplay(category) + " Related Issues"
}

// describe names the category and any common patterns found in at least one
// member's text.
func (e *Engine) describe(wc *workingCluster) string {
	desc := fmt.Sprintf("Cluster of %d discussions about %s problems.",
		len(wc.members), strings.ToLower(model.CategoryDisplay(wc.centroid.Category)))

	patterns := e.detectPatterns(wc.members)
	if len(patterns) > 0 {
		desc += " Common themes: " + strings.Join(patterns, ", ") + "."
	}
	return desc
}

// detectPatterns returns the names of pattern groups whose phrases appear
// in at least one member, in declaration order.
func (e *Engine) detectPatterns(members []model.RawResult) []string {
	var found []string
	for _, group := range e.vocab.CommonPatterns {
		for _, m := range members {
			text := strings.ToLower(m.Title + " " + m.BodyText)
			if containsAnyPhrase(text, group.Phrases) {
				found = append(found, group.Name)
				break
			}
		}
	}
	return found
}

// trend compares members created inside the recent window against older
// ones: rising when recent > 1.5× older, declining when recent < 0.5× older.
func (e *Engine) trend(members []model.RawResult) model.TrendDirection {
	cutoff := e.cfg.Now().Add(-e.cfg.RecentWindow)

	recent := 0
	older := 0
	for _, m := range members {
		if m.CreatedAt().After(cutoff) {
			recent++
		} else {
			older++
		}
	}

	switch {
	case float64(recent) > 1.5*float64(older):
		return model.TrendRising
	case float64(recent) < 0.5*float64(older):
		return model.TrendDeclining
	default:
		return model.TrendStable
	}
}

// topCentroidKeywords returns up to n centroid keywords by frequency,
// breaking ties alphabetically for determinism.
func topCentroidKeywords(centroid model.FeatureVector, n int) []string {
	terms := make([]string, 0, len(centroid.KeywordFrequency))
	for term := range centroid.KeywordFrequency {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		fi, fj := centroid.KeywordFrequency[terms[i]], centroid.KeywordFrequency[terms[j]]
		if fi != fj {
			return fi > fj
		}
		return terms[i] < terms[j]
	})
	if len(terms) > n {
		terms = terms[:n]
	}
	return terms
}

func capAt(v, max float64) float64 {
	if v > max {
		return max
	}
	return v
}

func containsAnyPhrase(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
