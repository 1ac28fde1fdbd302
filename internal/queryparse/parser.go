// Package queryparse turns a free-text research request into a structured
// query: target audience, search intent, time window, candidate source
// channels, seed queries, and keywords, with a deterministic confidence.
package queryparse

import (
	"strings"

	"go.uber.org/zap"

	"github.com/redscout/redscout-cli/internal/model"
)

// MinQueryLength is the shortest free-text request the parser accepts.
const MinQueryLength = 10

const (
	maxSeedQueries = 10
	maxKeywords    = 10
)

// Parser interprets free-text research requests against its pattern tables.
type Parser struct {
	tables *Tables
}

// New creates a Parser. If tables is nil, the embedded defaults are used.
func New(tables *Tables) (*Parser, error) {
	if tables == nil {
		var err error
		tables, err = DefaultTables()
		if err != nil {
			return nil, err
		}
	}
	return &Parser{tables: tables}, nil
}

// Parse interprets a free-text request. Requests shorter than MinQueryLength
// are rejected with an InputValidationError before any other work happens.
func (p *Parser) Parse(text string) (model.ParsedQuery, error) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < MinQueryLength {
		return model.ParsedQuery{}, model.NewInputValidationError(
			"query must be at least %d characters, got %d", MinQueryLength, len(trimmed))
	}

	input := strings.ToLower(trimmed)

	audience, audienceMatched := p.matchAudience(input)
	intent, intentMatches := p.matchIntent(input)
	window, windowMatched := p.matchWindow(input)

	query := model.ParsedQuery{
		TargetAudience:   audience.Name,
		Intent:           intent,
		TimeWindow:       window,
		CandidateSources: append([]string(nil), audience.Sources...),
		SeedQueries:      p.seedQueries(audience, intent),
		Keywords:         p.extractKeywords(input),
		Confidence:       confidence(audienceMatched, intentMatches, windowMatched),
	}

	zap.L().Debug("parsed research query",
		zap.String("audience", query.TargetAudience),
		zap.String("intent", string(query.Intent)),
		zap.String("window", string(query.TimeWindow)),
		zap.Float64("confidence", query.Confidence),
	)

	return query, nil
}

// matchAudience returns the first audience whose patterns appear in the
// input, or the fallback audience when nothing matches.
func (p *Parser) matchAudience(input string) (AudiencePattern, bool) {
	for _, a := range p.tables.Audiences {
		if containsAny(input, a.Patterns) {
			return a, true
		}
	}
	return p.tables.FallbackAudience, false
}

// matchIntent returns the first matching intent (table order) and the total
// number of intent phrases found anywhere in the table, which feeds the
// confidence score.
func (p *Parser) matchIntent(input string) (model.IntentCategory, int) {
	matched := model.IntentFindProblems
	matchedSet := false
	total := 0
	for _, row := range p.tables.Intents {
		hits := countMatches(input, row.Patterns)
		total += hits
		if hits > 0 && !matchedSet {
			matched = row.Intent
			matchedSet = true
		}
	}
	return matched, total
}

func (p *Parser) matchWindow(input string) (model.TimeWindow, bool) {
	for _, row := range p.tables.TimeWindows {
		if containsAny(input, row.Patterns) {
			return row.Window, true
		}
	}
	return model.WindowWeek, false
}

// seedQueries emits the audience's domain-specific templates first, then the
// generic templates for the matched intent, capped at maxSeedQueries.
func (p *Parser) seedQueries(audience AudiencePattern, intent model.IntentCategory) []string {
	seeds := make([]string, 0, maxSeedQueries)
	seeds = append(seeds, audience.SeedQueries...)
	seeds = append(seeds, p.tables.SeedTemplates[intent]...)
	if len(seeds) > maxSeedQueries {
		seeds = seeds[:maxSeedQueries]
	}
	return seeds
}

// extractKeywords keeps a vocabulary entry when it appears in the input, or
// when any input token of 3+ characters overlaps it as a substring in either
// direction. Problem keywords come before business domains; the result is
// deduplicated and capped.
func (p *Parser) extractKeywords(input string) []string {
	tokens := tokenize(input)

	var keywords []string
	seen := make(map[string]bool)
	for _, vocab := range [][]string{p.tables.ProblemKeywords, p.tables.BusinessDomains} {
		for _, entry := range vocab {
			if seen[entry] || !matchesEntry(input, tokens, entry) {
				continue
			}
			seen[entry] = true
			keywords = append(keywords, entry)
			if len(keywords) >= maxKeywords {
				return keywords
			}
		}
	}
	return keywords
}

func matchesEntry(input string, tokens []string, entry string) bool {
	if strings.Contains(input, entry) {
		return true
	}
	for _, tok := range tokens {
		if strings.Contains(entry, tok) || strings.Contains(tok, entry) {
			return true
		}
	}
	return false
}

// tokenize splits on non-letter/digit runes and drops tokens shorter than
// 3 characters, which would otherwise match almost every vocabulary entry.
func tokenize(input string) []string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return !isWordRune(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) >= 3 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || r == '-' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// confidence is 0.5 base, +0.2 for a non-default audience, +0.1 per intent
// phrase match capped at +0.2, +0.1 for a time match, clamped to 1.0.
func confidence(audienceMatched bool, intentMatches int, windowMatched bool) float64 {
	c := 0.5
	if audienceMatched {
		c += 0.2
	}
	intentBoost := 0.1 * float64(intentMatches)
	if intentBoost > 0.2 {
		intentBoost = 0.2
	}
	c += intentBoost
	if windowMatched {
		c += 0.1
	}
	if c > 1.0 {
		c = 1.0
	}
	return c
}

func containsAny(input string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(input, phrase) {
			return true
		}
	}
	return false
}

func countMatches(input string, phrases []string) int {
	n := 0
	for _, phrase := range phrases {
		if strings.Contains(input, phrase) {
			n++
		}
	}
	return n
}
