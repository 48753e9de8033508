// Package attention filters a task's supporting context down to the
// elements relevant to its goal. Relevance comes from the external
// similarity collaborator; elements below the configured threshold are
// dropped before any expensive downstream work happens.
package attention

import (
	"context"

	"golang.org/x/sync/errgroup"

	"mindgate/internal/logging"
	"mindgate/internal/types"
)

// SimilarityScorer is the slice of the inference collaborator this filter
// needs.
type SimilarityScorer interface {
	EmbedSimilarity(ctx context.Context, a, b string) (float64, error)
}

// maxConcurrentScores bounds the similarity fan-out per task.
const maxConcurrentScores = 8

// Filter scores every context element against the goal and keeps those at
// or above threshold. Scoring fans out concurrently but results are written
// back by index, so output order always matches input order. A scorer
// failure or cancellation for one element marks that element relevance 0.0
// (dropped) and never aborts the pass.
func Filter(ctx context.Context, task types.TaskState, threshold float64, scorer SimilarityScorer) types.FilteredState {
	timer := logging.StartTimer(logging.CategoryAttention, "Filter")
	defer timer.Stop()

	scored := make([]types.ContextElement, len(task.ContextElements))
	copy(scored, task.ContextElements)
	finished := make([]bool, len(scored))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentScores)

	for i := range scored {
		g.Go(func() error {
			relevance, err := scorer.EmbedSimilarity(gctx, scored[i].Value, task.Goal)
			if err != nil {
				// Conservative default: a bad element is dropped, the
				// batch continues.
				logging.AttentionWarn("Similarity failed for element %q: %v", scored[i].Key, err)
				scored[i].Relevance = 0.0
				finished[i] = true
				return nil
			}
			scored[i].Relevance = clamp01(relevance)
			finished[i] = true
			return nil
		})
	}
	// Goroutines only return nil; Wait is for completion, not errors.
	_ = g.Wait()

	// Cancelled mid-pass: unfinished elements must not leak through with
	// an undefined relevance.
	for i := range scored {
		if !finished[i] {
			scored[i].Relevance = 0.0
		}
	}

	critical := make([]types.ContextElement, 0, len(scored))
	for _, el := range scored {
		if el.Relevance >= threshold {
			critical = append(critical, el)
		} else {
			logging.AttentionDebug("Dropping element %q (relevance=%.3f < %.3f)", el.Key, el.Relevance, threshold)
		}
	}

	state := types.FilteredState{
		Goal:             task.Goal,
		CriticalElements: critical,
		DroppedCount:     len(task.ContextElements) - len(critical),
	}

	logging.Attention("Filtered context: kept=%d dropped=%d threshold=%.2f",
		len(state.CriticalElements), state.DroppedCount, threshold)
	return state
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
