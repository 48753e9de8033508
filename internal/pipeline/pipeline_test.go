package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"mindgate/internal/config"
	"mindgate/internal/plausibility"
	"mindgate/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// opencensus (linked in via the genai dependency chain) starts this
		// worker goroutine in package init; it is not a leak from this code.
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"),
	)
}

// keywordScorer scores an element by word overlap with the goal: enough to
// make relevance ordering deterministic without a real embedding backend.
type keywordScorer struct{}

func (keywordScorer) EmbedSimilarity(ctx context.Context, a, b string) (float64, error) {
	goalWords := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(b)) {
		goalWords[w] = true
	}
	fields := strings.Fields(strings.ToLower(a))
	if len(fields) == 0 {
		return 0, nil
	}
	hits := 0
	for _, w := range fields {
		if goalWords[w] {
			hits++
		}
	}
	return float64(hits) / float64(len(fields)), nil
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("empty goal is a validation error", func(t *testing.T) {
		p := New(keywordScorer{}, plausibility.NewChecker(nil), nil)
		result := p.Run(ctx, types.TaskState{})

		assert.False(t, result.OK)
		assert.Equal(t, types.ErrValidation, result.ErrorKind)
		assert.NotEmpty(t, result.RequestID)
	})

	t.Run("relevant context survives, irrelevant is dropped", func(t *testing.T) {
		p := New(keywordScorer{}, plausibility.NewChecker(nil), nil)
		task := types.TaskState{
			Goal: "analyze quarterly revenue trends",
			ContextElements: []types.ContextElement{
				types.NewContextElement("revenue_data", "revenue trends quarterly", "warehouse"),
				types.NewContextElement("weather", "sunny skies in Oslo today", "sensor"),
			},
		}
		result := p.Run(ctx, task)

		require.True(t, result.OK)
		refined, ok := result.Data.(types.RefinedState)
		require.True(t, ok, "expected RefinedState, got %T", result.Data)

		require.Len(t, refined.CriticalElements, 1)
		assert.Equal(t, "revenue_data", refined.CriticalElements[0].Key)
		assert.Equal(t, 1.0, refined.PlausibilityConfidence)

		assert.Equal(t, 2, result.Metrics["elements_in"])
		assert.Equal(t, 1, result.Metrics["elements_kept"])
		assert.Equal(t, 1, result.Metrics["elements_dropped"])
		assert.Equal(t, "PASS", result.Metrics["verdict"])
	})

	t.Run("contradictory goal yields a sanity alert", func(t *testing.T) {
		p := New(keywordScorer{}, plausibility.NewChecker(nil), nil)
		result := p.Run(ctx, types.TaskState{Goal: "enable the flag and disable the flag"})

		require.True(t, result.OK, "a rejection is a successful evaluation")
		alert, ok := result.Data.(types.SanityAlert)
		require.True(t, ok, "expected SanityAlert, got %T", result.Data)

		assert.NotEmpty(t, alert.Reason)
		assert.Equal(t, alert.Issues[0], alert.Reason)
		assert.Equal(t, 1.0, alert.Confidence)
		assert.Equal(t, "enable the flag and disable the flag", alert.OriginalGoal)
		assert.Equal(t, "FAIL", result.Metrics["verdict"])
	})

	t.Run("threshold comes from settings", func(t *testing.T) {
		s := config.DefaultSettings()
		s.Kernel.AttentionRelevanceThreshold = 0.01
		p := New(keywordScorer{}, plausibility.NewChecker(nil), config.NewStaticProvider(s))

		task := types.TaskState{
			Goal: "analyze quarterly revenue trends",
			ContextElements: []types.ContextElement{
				types.NewContextElement("revenue_data", "revenue trends quarterly", "warehouse"),
				types.NewContextElement("weather", "sunny revenue skies today", "sensor"),
			},
		}
		result := p.Run(ctx, task)

		require.True(t, result.OK)
		refined := result.Data.(types.RefinedState)
		assert.Len(t, refined.CriticalElements, 2, "permissive threshold keeps everything scoring above it")
	})

	t.Run("runs are independent", func(t *testing.T) {
		p := New(keywordScorer{}, plausibility.NewChecker(nil), nil)
		a := p.Run(ctx, types.TaskState{Goal: "first goal"})
		b := p.Run(ctx, types.TaskState{Goal: "second goal"})

		require.True(t, a.OK)
		require.True(t, b.OK)
		assert.NotEqual(t, a.RequestID, b.RequestID)
	})

	t.Run("module ref tags the envelope", func(t *testing.T) {
		p := New(keywordScorer{}, plausibility.NewChecker(nil), nil)
		result := p.Run(ctx, types.TaskState{Goal: "summarize the report"})

		assert.Equal(t, 2, result.Module.Tier)
		assert.Equal(t, "cognitive_filter", result.Module.Module)
		assert.Equal(t, "Run", result.Module.Function)
	})
}
