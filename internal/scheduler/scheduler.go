// Package scheduler executes a prioritized queue of (source, query) search
// tasks strictly sequentially, with inter-task pacing and bounded retry on
// rate limits, then deduplicates and quality-filters the results. Tasks
// must never run in parallel; the pacing contract assumes a single lane.
package scheduler

import (
	"context"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/redscout/redscout-cli/internal/model"
	"github.com/redscout/redscout-cli/internal/resilience"
)

// SearchFunc is the single opaque capability the scheduler consumes from
// the source-facing collaborator. It must return a rate-limit-tagged error
// (resilience.RateLimitError) when the upstream throttles.
type SearchFunc func(ctx context.Context, source, query string, window model.TimeWindow) ([]model.RawResult, error)

// TaskKind labels where a task's query text came from.
type TaskKind string

const (
	TaskSeedQuery TaskKind = "seed_query"
	TaskKeyword   TaskKind = "keyword"
)

// Task is one scheduled (source, query) search. Tasks are ephemeral and
// owned by the scheduler for the duration of one request.
type Task struct {
	Source   string
	Query    string
	Priority int // 1 = seed-query task, 2 = keyword task
	Kind     TaskKind
}

// Config tunes queue construction and execution.
type Config struct {
	// Queue bounds: first MaxSeedSources × MaxSeedQueries seed tasks,
	// then first MaxKeywordSources × MaxKeywords keyword tasks.
	MaxSeedSources    int // default 5
	MaxSeedQueries    int // default 6
	MaxKeywordSources int // default 3
	MaxKeywords       int // default 4

	// TaskInterval is the fixed delay enforced between tasks. Default: 1s.
	TaskInterval time.Duration

	// MaxPerTask caps one task's contribution. Default: 20.
	MaxPerTask int

	// MaxResults caps the final quality-filtered result list. Default: 150.
	MaxResults int

	// Retry is the per-task retry policy applied around the search call.
	// Zero value selects resilience.DefaultRetryConfig.
	Retry resilience.RetryConfig

	// Limiter overrides the inter-task pacer; tests inject an unlimited one.
	Limiter *rate.Limiter
}

func (c Config) withDefaults() Config {
	if c.MaxSeedSources <= 0 {
		c.MaxSeedSources = 5
	}
	if c.MaxSeedQueries <= 0 {
		c.MaxSeedQueries = 6
	}
	if c.MaxKeywordSources <= 0 {
		c.MaxKeywordSources = 3
	}
	if c.MaxKeywords <= 0 {
		c.MaxKeywords = 4
	}
	if c.TaskInterval <= 0 {
		c.TaskInterval = time.Second
	}
	if c.MaxPerTask <= 0 {
		c.MaxPerTask = 20
	}
	if c.MaxResults <= 0 {
		c.MaxResults = 150
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry = resilience.DefaultRetryConfig()
	}
	return c
}

// Scheduler runs search task queues. One Scheduler may serve many requests;
// it keeps no per-request state.
type Scheduler struct {
	search  SearchFunc
	cfg     Config
	limiter *rate.Limiter
}

// New creates a Scheduler around a search function.
func New(search SearchFunc, cfg Config) *Scheduler {
	cfg = cfg.withDefaults()
	limiter := cfg.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(cfg.TaskInterval), 1)
	}
	return &Scheduler{search: search, cfg: cfg, limiter: limiter}
}

// BuildQueue materializes the full task queue for a parsed query, sorted by
// priority with insertion order preserved within a priority. It fails only
// when no sources are available, which the interpreter's usability contract
// prevents upstream.
func (s *Scheduler) BuildQueue(q model.ParsedQuery) ([]Task, error) {
	if len(q.CandidateSources) == 0 {
		return nil, eris.New("scheduler: no candidate sources")
	}

	sources := headOf(q.CandidateSources, s.cfg.MaxSeedSources)
	seeds := headOf(q.SeedQueries, s.cfg.MaxSeedQueries)

	var tasks []Task
	for _, src := range sources {
		for _, seed := range seeds {
			tasks = append(tasks, Task{Source: src, Query: seed, Priority: 1, Kind: TaskSeedQuery})
		}
	}

	if len(q.Keywords) > 0 {
		kwSources := headOf(q.CandidateSources, s.cfg.MaxKeywordSources)
		keywords := headOf(q.Keywords, s.cfg.MaxKeywords)
		for _, src := range kwSources {
			for _, kw := range keywords {
				tasks = append(tasks, Task{Source: src, Query: kw, Priority: 2, Kind: TaskKeyword})
			}
		}
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Priority < tasks[j].Priority
	})
	return tasks, nil
}

// Run executes the queue for a parsed query and returns deduplicated,
// quality-filtered results. Individual task failures are logged and
// tolerated; Run itself fails only when the queue cannot be built or the
// context is cancelled.
func (s *Scheduler) Run(ctx context.Context, q model.ParsedQuery) ([]model.RawResult, error) {
	tasks, err := s.BuildQueue(q)
	if err != nil {
		return nil, err
	}

	log := zap.L().With(zap.Int("tasks", len(tasks)))
	log.Info("scheduler: executing search queue")

	var collected []model.RawResult
	for _, task := range tasks {
		// Fixed inter-task spacing; the first task passes immediately.
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "scheduler: cancelled while pacing")
		}

		results, err := s.runTask(ctx, task, q.TimeWindow)
		if err != nil {
			if ctx.Err() != nil {
				return nil, eris.Wrap(ctx.Err(), "scheduler: cancelled mid-queue")
			}
			// A single task must never abort the batch.
			zap.L().Warn("scheduler: task abandoned",
				zap.String("source", task.Source),
				zap.String("query", task.Query),
				zap.Error(err),
			)
			continue
		}
		collected = append(collected, results...)
	}

	quality := filterQuality(model.DedupeByID(collected))
	if len(quality) > s.cfg.MaxResults {
		quality = quality[:s.cfg.MaxResults]
	}

	log.Info("scheduler: queue complete",
		zap.Int("collected", len(collected)),
		zap.Int("quality", len(quality)),
	)
	return quality, nil
}

// runTask performs one search with the retry policy, capping its
// contribution and dropping malformed results at the boundary.
func (s *Scheduler) runTask(ctx context.Context, task Task, window model.TimeWindow) ([]model.RawResult, error) {
	retry := s.cfg.Retry
	retry.ShouldRetry = resilience.IsRateLimited
	if retry.OnRetry == nil {
		retry.OnRetry = resilience.RetryLogger(task.Source, task.Query)
	}

	results, err := resilience.DoVal(ctx, retry, func(ctx context.Context) ([]model.RawResult, error) {
		return s.search(ctx, task.Source, task.Query, window)
	})
	if err != nil {
		return nil, err
	}

	if len(results) > s.cfg.MaxPerTask {
		results = results[:s.cfg.MaxPerTask]
	}

	valid := results[:0]
	for _, r := range results {
		if verr := r.Validate(); verr != nil {
			zap.L().Warn("scheduler: dropping malformed result",
				zap.String("source", task.Source),
				zap.Error(verr),
			)
			continue
		}
		valid = append(valid, r)
	}
	return valid, nil
}

func filterQuality(results []model.RawResult) []model.RawResult {
	out := make([]model.RawResult, 0, len(results))
	for _, r := range results {
		if r.IsQuality() {
			out = append(out, r)
		}
	}
	return out
}

func headOf(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
