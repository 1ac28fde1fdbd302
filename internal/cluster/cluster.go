// Package cluster groups raw discussion results into named problem clusters
// using single-pass incremental similarity clustering over derived feature
// vectors.
package cluster

import (
	"time"

	"go.uber.org/zap"

	"github.com/redscout/redscout-cli/internal/model"
)

// Config tunes the clustering engine.
type Config struct {
	// SimilarityThreshold is the minimum similarity for joining an existing
	// cluster. Default: 0.6.
	SimilarityThreshold float64

	// MinMembers discards smaller clusters after assignment. Default: 2.
	MinMembers int

	// MaxClusters truncates the final ranked cluster list. Default: 10.
	MaxClusters int

	// RecentWindow separates recent from older members for trend detection.
	// Default: 7 days.
	RecentWindow time.Duration

	// Now supplies the current time; tests inject a fixed clock.
	Now func() time.Time
}

func (c Config) withDefaults() Config {
	if c.SimilarityThreshold <= 0 {
		c.SimilarityThreshold = 0.6
	}
	if c.MinMembers <= 0 {
		c.MinMembers = 2
	}
	if c.MaxClusters <= 0 {
		c.MaxClusters = 10
	}
	if c.RecentWindow <= 0 {
		c.RecentWindow = 7 * 24 * time.Hour
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// Engine clusters results against a fixed vocabulary. It holds no
// per-request state; every Cluster call is independent.
type Engine struct {
	vocab *Vocabulary
	cfg   Config
}

// New creates an Engine. A nil vocabulary selects the embedded defaults.
func New(vocab *Vocabulary, cfg Config) (*Engine, error) {
	if vocab == nil {
		var err error
		vocab, err = DefaultVocabulary()
		if err != nil {
			return nil, err
		}
	}
	return &Engine{vocab: vocab, cfg: cfg.withDefaults()}, nil
}

// workingCluster accumulates members during the assignment pass.
type workingCluster struct {
	centroid model.FeatureVector
	members  []model.RawResult
}

// Cluster assigns results to problem clusters in input order, discards
// clusters below the member minimum, enriches the survivors, and returns
// them ranked by threadCount × severity, truncated to MaxClusters.
// Clustering is deterministic for a fixed input order.
func (e *Engine) Cluster(results []model.RawResult) []model.ProblemCluster {
	var working []*workingCluster

	for _, r := range results {
		vec := e.ExtractFeatures(r)

		bestIdx := -1
		bestSim := 0.0
		for i, wc := range working {
			if sim := Similarity(vec, wc.centroid); sim > bestSim {
				bestIdx = i
				bestSim = sim
			}
		}

		if bestIdx >= 0 && bestSim >= e.cfg.SimilarityThreshold {
			working[bestIdx].absorb(vec, r)
		} else {
			working = append(working, &workingCluster{
				centroid: vec.Clone(),
				members:  []model.RawResult{r},
			})
		}
	}

	clusters := e.enrichAll(working)

	zap.L().Debug("clustering complete",
		zap.Int("results", len(results)),
		zap.Int("raw_clusters", len(working)),
		zap.Int("clusters", len(clusters)),
	)

	return clusters
}

// absorb adds a result to the cluster and folds its vector into the
// centroid: every incoming keyword's frequency is re-averaged over the new
// member count, sentiment and urgency take a two-point mean, and the
// centroid's category never changes.
func (wc *workingCluster) absorb(vec model.FeatureVector, r model.RawResult) {
	wc.members = append(wc.members, r)
	count := float64(len(wc.members))

	for term, freq := range vec.KeywordFrequency {
		wc.centroid.KeywordFrequency[term] = (wc.centroid.KeywordFrequency[term] + freq) / count
	}
	wc.centroid.Sentiment = (wc.centroid.Sentiment + vec.Sentiment) / 2
	wc.centroid.Urgency = (wc.centroid.Urgency + vec.Urgency) / 2
}

// Similarity scores two feature vectors in [0,0.9]: 0.3 for a shared
// category, 0.4 × Jaccard overlap of keyword sets, and 0.1 each for
// sentiment and urgency proximity. It is symmetric.
func Similarity(a, b model.FeatureVector) float64 {
	sim := 0.0
	if a.Category == b.Category {
		sim += 0.3
	}
	sim += 0.4 * jaccard(a.KeywordFrequency, b.KeywordFrequency)
	sim += 0.1 * (1 - abs(a.Sentiment-b.Sentiment))
	sim += 0.1 * (1 - abs(a.Urgency-b.Urgency))
	return sim
}

// jaccard computes |A∩B| / |A∪B| over the keyword key sets. Two empty sets
// score 0.
func jaccard(a, b map[string]float64) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
