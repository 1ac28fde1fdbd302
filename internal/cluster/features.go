package cluster

import (
	"strings"

	"github.com/redscout/redscout-cli/internal/model"
)

// ExtractFeatures derives a feature vector from a result's concatenated
// title and body, lower-cased.
func (e *Engine) ExtractFeatures(r model.RawResult) model.FeatureVector {
	text := strings.ToLower(r.Title + " " + r.BodyText)

	return model.FeatureVector{
		KeywordFrequency: e.keywordFrequency(text),
		Sentiment:        e.sentiment(text),
		Urgency:          e.urgency(text),
		Category:         e.categorize(text),
	}
}

// keywordFrequency counts word-boundary prefix occurrences of every
// vocabulary term; only non-zero counts are stored.
func (e *Engine) keywordFrequency(text string) map[string]float64 {
	freq := make(map[string]float64)
	for _, group := range e.vocab.Categories {
		for _, term := range group.Terms {
			if n := e.vocab.countTerm(text, term); n > 0 {
				freq[term] = float64(n)
			}
		}
	}
	return freq
}

// sentiment starts at 0, subtracts 0.1 per occurrence of each negative
// word and adds 0.1 per occurrence of each positive word, clamped to [-1,1].
func (e *Engine) sentiment(text string) float64 {
	s := 0.0
	for _, w := range e.vocab.NegativeWords {
		s -= 0.1 * float64(strings.Count(text, w))
	}
	for _, w := range e.vocab.PositiveWords {
		s += 0.1 * float64(strings.Count(text, w))
	}
	return clamp(s, -1, 1)
}

// urgency adds a flat 0.2 per distinct urgency phrase present, clamped to
// [0,1]. Overlapping phrases in the list each count; this mirrors the
// upstream behavior and is intentionally not deduplicated.
func (e *Engine) urgency(text string) float64 {
	u := 0.0
	for _, phrase := range e.vocab.UrgencyPhrases {
		if strings.Contains(text, phrase) {
			u += 0.2
		}
	}
	return clamp(u, 0, 1)
}

// categorize picks the category whose terms have the highest summed
// frequency; ties keep the earlier-declared category, and "general" is
// returned when every sum is zero.
func (e *Engine) categorize(text string) string {
	best := "general"
	bestSum := 0
	for _, group := range e.vocab.Categories {
		sum := 0
		for _, term := range group.Terms {
			sum += e.vocab.countTerm(text, term)
		}
		if sum > bestSum {
			best = group.Name
			bestSum = sum
		}
	}
	return best
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
