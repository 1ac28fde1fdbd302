package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/redscout/redscout-cli/internal/model"
	"github.com/redscout/redscout-cli/pkg/llm"
)

// llmSummaryTimeout bounds the optional summary refinement so a slow model
// never dominates request latency.
const llmSummaryTimeout = 20 * time.Second

const summarySystemPrompt = "You are a market research analyst. Rewrite the " +
	"draft summary of a community research report into 2-3 crisp sentences. " +
	"Keep every number exactly as given. Do not add claims that are not in " +
	"the draft."

// summarize produces the report summary: a deterministic template, refined
// by the LLM when one is configured. LLM failures degrade to the template.
func (e *Engine) summarize(ctx context.Context, report *model.Report) string {
	draft := templateSummary(report)
	if e.llm == nil {
		return draft
	}

	llmCtx, cancel := context.WithTimeout(ctx, llmSummaryTimeout)
	defer cancel()

	resp, err := e.llm.Complete(llmCtx, llm.CompletionRequest{
		System:    summarySystemPrompt,
		Prompt:    draft,
		MaxTokens: 512,
	})
	if err != nil {
		zap.L().Warn("research: llm summary failed, using template", zap.Error(err))
		return draft
	}
	if resp.Text == "" {
		return draft
	}
	resp.Usage.Log(llm.DefaultModel, "summary")
	return resp.Text
}

// templateSummary builds the deterministic summary sentence for a report
// with at least one cluster.
func templateSummary(report *model.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyzed %d discussions from communities of %s and found %d recurring problem areas.",
		report.TotalResultsAnalyzed,
		strings.ToLower(report.ParsedQuery.TargetAudience),
		len(report.Clusters),
	)
	if len(report.Clusters) > 0 {
		top := report.Clusters[0]
		fmt.Fprintf(&b, " The strongest opportunity is %q (%d discussions, opportunity score %.2f).",
			top.Title, top.ThreadCount, top.OpportunityScore)
	}
	return b.String()
}

// emptySummary is the fixed-shape summary for a zero-result run.
func emptySummary(parsed model.ParsedQuery) string {
	return fmt.Sprintf("No relevant discussions found for %s in the selected time window. Try a broader time window or a different audience.",
		strings.ToLower(parsed.TargetAudience))
}
