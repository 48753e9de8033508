// Package pipeline sequences the cognitive filters for one task: attention
// filtering first, then plausibility checking on the filtered state, never
// on raw context. The outcome is always a typed Result carrying either a
// RefinedState (cleared for execution) or a SanityAlert (rejected, with
// reasons).
package pipeline

import (
	"context"
	"time"

	"mindgate/internal/attention"
	"mindgate/internal/config"
	"mindgate/internal/logging"
	"mindgate/internal/plausibility"
	"mindgate/internal/types"
)

const pipelineTier = 2

// CognitiveFilter runs the attention → plausibility sequence.
type CognitiveFilter struct {
	scorer   attention.SimilarityScorer
	checker  *plausibility.Checker
	settings *config.Provider
}

// New creates a pipeline. The settings provider supplies thresholds
// hot-readable per call.
func New(scorer attention.SimilarityScorer, checker *plausibility.Checker, settings *config.Provider) *CognitiveFilter {
	if settings == nil {
		settings = config.NewStaticProvider(nil)
	}
	return &CognitiveFilter{
		scorer:   scorer,
		checker:  checker,
		settings: settings,
	}
}

// Run evaluates one task. Each invocation is independent: no state is
// shared across concurrent runs.
func (p *CognitiveFilter) Run(ctx context.Context, task types.TaskState) types.Result {
	ref := types.ModuleRef{Tier: pipelineTier, Module: "cognitive_filter", Function: "Run"}

	if task.Goal == "" {
		return types.Fail(types.ErrValidation, "task goal must be non-empty", ref)
	}

	start := time.Now()
	threshold := p.settings.AttentionRelevanceThreshold()

	filtered := attention.Filter(ctx, task, threshold, p.scorer)
	filterElapsed := time.Since(start)

	checkStart := time.Now()
	verdict := p.checker.Check(ctx, filtered)
	checkElapsed := time.Since(checkStart)

	metrics := map[string]any{
		"elements_in":      len(task.ContextElements),
		"elements_kept":    len(filtered.CriticalElements),
		"elements_dropped": filtered.DroppedCount,
		"threshold":        threshold,
		"filter_ms":        filterElapsed.Milliseconds(),
		"plausibility_ms":  checkElapsed.Milliseconds(),
		"verdict":          string(verdict.Verdict),
	}

	if verdict.Verdict == types.VerdictFail {
		alert := types.SanityAlert{
			Reason:       verdict.Issues[0],
			Issues:       verdict.Issues,
			Confidence:   verdict.Confidence,
			OriginalGoal: task.Goal,
		}
		logging.Pipeline("Task rejected: %s (confidence=%.2f)", alert.Reason, alert.Confidence)
		return types.Ok(alert, metrics, ref)
	}

	refined := types.RefinedState{
		Goal:                   filtered.Goal,
		CriticalElements:       filtered.CriticalElements,
		PlausibilityConfidence: verdict.Confidence,
	}
	logging.Pipeline("Task cleared: kept=%d dropped=%d confidence=%.2f",
		len(refined.CriticalElements), filtered.DroppedCount, verdict.Confidence)
	return types.Ok(refined, metrics, ref)
}
