// Package research orchestrates a full research request: parse the free-text
// query, search the candidate communities, cluster the recurring problems,
// discover the solution landscape per cluster, and score the opportunities
// into a final report.
package research

import (
	"context"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/redscout/redscout-cli/internal/cluster"
	"github.com/redscout/redscout-cli/internal/insight"
	"github.com/redscout/redscout-cli/internal/model"
	"github.com/redscout/redscout-cli/internal/queryparse"
	"github.com/redscout/redscout-cli/internal/scheduler"
	"github.com/redscout/redscout-cli/internal/solutions"
	"github.com/redscout/redscout-cli/internal/store"
	"github.com/redscout/redscout-cli/pkg/llm"
)

const (
	// minQueryLength rejects free text too short to carry any intent.
	minQueryLength = 10

	defaultSolutionWorkers = 4
)

// Options wires the engine's collaborators. Parser, Scheduler, Clusterer,
// and Discovery are required. Store and LLM are optional: without a store
// nothing is persisted, without an LLM summaries stay templated.
type Options struct {
	Parser          *queryparse.Parser
	Scheduler       *scheduler.Scheduler
	Clusterer       *cluster.Engine
	Discovery       *solutions.Discovery
	Store           store.Store
	LLM             llm.Client
	SolutionWorkers int
	Now             func() time.Time
}

// Engine runs research requests end to end.
type Engine struct {
	parser    *queryparse.Parser
	scheduler *scheduler.Scheduler
	clusterer *cluster.Engine
	discovery *solutions.Discovery
	store     store.Store
	llm       llm.Client
	workers   int
	now       func() time.Time
}

// New creates a research engine.
func New(opts Options) (*Engine, error) {
	if opts.Parser == nil {
		return nil, eris.New("research: parser is required")
	}
	if opts.Scheduler == nil {
		return nil, eris.New("research: scheduler is required")
	}
	if opts.Clusterer == nil {
		return nil, eris.New("research: clusterer is required")
	}
	if opts.Discovery == nil {
		return nil, eris.New("research: discovery is required")
	}
	if opts.SolutionWorkers <= 0 {
		opts.SolutionWorkers = defaultSolutionWorkers
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		parser:    opts.Parser,
		scheduler: opts.Scheduler,
		clusterer: opts.Clusterer,
		discovery: opts.Discovery,
		store:     opts.Store,
		llm:       opts.LLM,
		workers:   opts.SolutionWorkers,
		now:       opts.Now,
	}, nil
}

// Research executes one research request. Input validation failures return a
// model.InputValidationError; partial upstream failures are tolerated and
// never surface here.
func (e *Engine) Research(ctx context.Context, freeText string) (*model.Report, error) {
	start := e.now()
	log := zap.L().With(zap.String("query", freeText))

	if len(freeText) < minQueryLength {
		return nil, model.NewInputValidationError("query too short: need at least %d characters", minQueryLength)
	}

	runID := e.recordStart(ctx, freeText)

	parsed, err := e.parser.Parse(freeText)
	if err != nil {
		e.recordFailure(ctx, runID, err)
		return nil, eris.Wrap(err, "research: parse query")
	}
	if !parsed.Usable() {
		vErr := model.NewInputValidationError(
			"could not interpret query (confidence %.2f); try naming an audience, e.g. \"problems of shopify store owners\"",
			parsed.Confidence,
		)
		e.recordFailure(ctx, runID, vErr)
		return nil, vErr
	}

	log.Info("research: query parsed",
		zap.String("audience", parsed.TargetAudience),
		zap.String("intent", string(parsed.Intent)),
		zap.Float64("confidence", parsed.Confidence),
	)

	results, err := e.scheduler.Run(ctx, parsed)
	if err != nil {
		e.recordFailure(ctx, runID, err)
		return nil, eris.Wrap(err, "research: search")
	}

	if len(results) == 0 {
		report := e.emptyReport(parsed, start)
		e.recordCompletion(ctx, runID, report)
		return report, nil
	}

	clusters := e.clusterer.Cluster(results)

	enriched, err := e.enrichClusters(ctx, clusters)
	if err != nil {
		e.recordFailure(ctx, runID, err)
		return nil, eris.Wrap(err, "research: enrich clusters")
	}

	sort.SliceStable(enriched, func(i, j int) bool {
		return enriched[i].OpportunityScore > enriched[j].OpportunityScore
	})

	report := &model.Report{
		ParsedQuery:          parsed,
		TotalResultsAnalyzed: len(results),
		Clusters:             enriched,
		Insights:             insight.Build(enriched),
		OverallConfidence:    insight.OverallConfidence(parsed.Confidence, len(results), enriched),
		ProcessingTimeMs:     e.now().Sub(start).Milliseconds(),
	}
	report.Summary = e.summarize(ctx, report)

	log.Info("research: complete",
		zap.Int("results", len(results)),
		zap.Int("clusters", len(enriched)),
		zap.Float64("overall_confidence", report.OverallConfidence),
		zap.Int64("processing_ms", report.ProcessingTimeMs),
	)

	e.recordCompletion(ctx, runID, report)
	return report, nil
}

// enrichClusters runs solution discovery and opportunity scoring per cluster.
// Each cluster's enrichment is independent and read-only on shared state, so
// it runs concurrently with a bounded worker count.
func (e *Engine) enrichClusters(ctx context.Context, clusters []model.ProblemCluster) ([]model.EnrichedCluster, error) {
	enriched := make([]model.EnrichedCluster, len(clusters))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, c := range clusters {
		g.Go(func() error {
			set := e.discovery.Discover(c.Title, c.TopKeywords)
			enriched[i] = model.EnrichedCluster{
				ProblemCluster:   c,
				Solutions:        set.Solutions,
				TotalFound:       set.TotalFound,
				SearchConfidence: set.SearchConfidence,
				OpportunityScore: insight.ScoreOpportunity(c, set),
				MarketSize:       insight.MarketSizeOf(c),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return enriched, nil
}

// emptyReport is the well-formed zero-result response: no clusters, zeroed
// counts and confidence, generic recommendations.
func (e *Engine) emptyReport(parsed model.ParsedQuery, start time.Time) *model.Report {
	return &model.Report{
		ParsedQuery:          parsed,
		Summary:              emptySummary(parsed),
		TotalResultsAnalyzed: 0,
		Clusters:             []model.EnrichedCluster{},
		Insights: model.Insights{
			ActionableRecommendations: insight.GenericRecommendations(),
		},
		OverallConfidence: 0,
		ProcessingTimeMs:  e.now().Sub(start).Milliseconds(),
	}
}

// recordStart creates a run record when a store is configured. Persistence
// failures are logged and never block the request.
func (e *Engine) recordStart(ctx context.Context, query string) string {
	if e.store == nil {
		return ""
	}
	run, err := e.store.CreateRun(ctx, query)
	if err != nil {
		zap.L().Warn("research: failed to record run", zap.Error(err))
		return ""
	}
	return run.ID
}

func (e *Engine) recordCompletion(ctx context.Context, runID string, report *model.Report) {
	if e.store == nil || runID == "" {
		return
	}
	if err := e.store.CompleteRun(ctx, runID, report); err != nil {
		zap.L().Warn("research: failed to record completion",
			zap.String("run_id", runID), zap.Error(err))
	}
}

func (e *Engine) recordFailure(ctx context.Context, runID string, cause error) {
	if e.store == nil || runID == "" {
		return
	}
	if err := e.store.FailRun(ctx, runID, cause.Error()); err != nil {
		zap.L().Warn("research: failed to record failure",
			zap.String("run_id", runID), zap.Error(err))
	}
}
