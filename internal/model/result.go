package model

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// RawResult is one discussion thread returned by a source search. It is
// immutable once fetched; identity is ID. The fetching layer is responsible
// for producing well-formed RawResults — the pipeline rejects partially
// shaped ones at the boundary.
type RawResult struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	BodyText       string `json:"body_text"`
	AuthorName     string `json:"author_name"`
	SourceChannel  string `json:"source_channel"`
	Score          int    `json:"score"`
	CommentCount   int    `json:"comment_count"`
	CreatedAtEpoch int64  `json:"created_at_epoch"`
	Permalink      string `json:"permalink"`
}

// CreatedAt returns the creation time of the result.
func (r RawResult) CreatedAt() time.Time {
	return time.Unix(r.CreatedAtEpoch, 0).UTC()
}

// Validate checks that a RawResult is well-formed enough to enter the
// pipeline. Collaborators must either produce valid results or fail visibly.
func (r RawResult) Validate() error {
	if r.ID == "" {
		return eris.New("raw result: missing id")
	}
	if strings.TrimSpace(r.Title) == "" {
		return eris.New("raw result: missing title")
	}
	if r.SourceChannel == "" {
		return eris.New("raw result: missing source channel")
	}
	return nil
}

// removedTitleMarkers flag threads whose content was taken down upstream.
var removedTitleMarkers = []string{"[deleted]", "[removed]"}

// IsQuality reports whether the result passes the post-search quality
// filter: enough body text to analyze, a non-negative score, and a title
// that has not been deleted or removed.
func (r RawResult) IsQuality() bool {
	if len(r.BodyText) <= 20 {
		return false
	}
	if r.Score < 0 {
		return false
	}
	title := strings.ToLower(r.Title)
	for _, marker := range removedTitleMarkers {
		if strings.Contains(title, marker) {
			return false
		}
	}
	return true
}

// DedupeByID removes duplicate results by ID, keeping the last occurrence.
// Relative order of first appearance is preserved. Running it twice yields
// the same set as running it once.
func DedupeByID(results []RawResult) []RawResult {
	byID := make(map[string]RawResult, len(results))
	order := make([]string, 0, len(results))
	for _, r := range results {
		if _, seen := byID[r.ID]; !seen {
			order = append(order, r.ID)
		}
		byID[r.ID] = r
	}
	out := make([]RawResult, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	return out
}
