package scoring

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindgate/internal/inference"
	"mindgate/internal/types"
)

func TestSelectWeights(t *testing.T) {
	t.Run("weights always sum to one", func(t *testing.T) {
		metas := []types.ScoringMetadata{
			{},
			{TaskType: "technical"},
			{TaskType: "creative"},
			{TaskType: "analytical"},
			{TaskType: "unheard_of"},
			{TaskType: "technical", Domain: "finance"},
			{TaskType: "creative", Domain: "legal", UserRole: "auditor"},
			{UserRole: "reviewer"},
			{Domain: "medical", UserRole: "reviewer"},
		}
		for _, meta := range metas {
			w := SelectWeights(meta)
			sum := w.Semantic + w.Precision + w.Reward
			assert.InDelta(t, 1.0, sum, 1e-6, "metadata %+v", meta)
			assert.GreaterOrEqual(t, w.Semantic, 0.0)
			assert.GreaterOrEqual(t, w.Precision, 0.0)
			assert.GreaterOrEqual(t, w.Reward, 0.0)
		}
	})

	t.Run("unknown task type is balanced", func(t *testing.T) {
		w := SelectWeights(types.ScoringMetadata{TaskType: "unheard_of"})
		assert.InDelta(t, 1.0/3.0, w.Semantic, 1e-9)
		assert.InDelta(t, 1.0/3.0, w.Precision, 1e-9)
		assert.InDelta(t, 1.0/3.0, w.Reward, 1e-9)
	})

	t.Run("technical favors reward and precision", func(t *testing.T) {
		w := SelectWeights(types.ScoringMetadata{TaskType: "technical"})
		assert.Greater(t, w.Reward, w.Semantic)
		assert.Greater(t, w.Precision, w.Semantic)
	})

	t.Run("regulated domain boosts reward", func(t *testing.T) {
		base := SelectWeights(types.ScoringMetadata{TaskType: "analytical"})
		regulated := SelectWeights(types.ScoringMetadata{TaskType: "analytical", Domain: "finance"})
		assert.Greater(t, regulated.Reward, base.Reward)
	})

	t.Run("reviewer boosts precision", func(t *testing.T) {
		base := SelectWeights(types.ScoringMetadata{TaskType: "creative"})
		reviewer := SelectWeights(types.ScoringMetadata{TaskType: "creative", UserRole: "reviewer"})
		assert.Greater(t, reviewer.Precision, base.Precision)
	})
}

func TestAggregateScores(t *testing.T) {
	t.Run("balanced fusion", func(t *testing.T) {
		score := AggregateScores(0.9, 0.6, 0.3, types.ScoringMetadata{})
		assert.InDelta(t, (0.9+0.6+0.3)/3.0, score.Score, 1e-9)
		assert.Equal(t, 0.9, score.SemanticScore)
		assert.Equal(t, 0.6, score.PrecisionScore)
		assert.Equal(t, 0.3, score.RewardScore)
	})

	t.Run("inputs clamped into range", func(t *testing.T) {
		score := AggregateScores(1.5, -0.2, 0.5, types.ScoringMetadata{})
		assert.Equal(t, 1.0, score.SemanticScore)
		assert.Equal(t, 0.0, score.PrecisionScore)
		assert.LessOrEqual(t, score.Score, 1.0)
	})

	t.Run("weights used are reported", func(t *testing.T) {
		score := AggregateScores(0.5, 0.5, 0.5, types.ScoringMetadata{TaskType: "technical"})
		require.Contains(t, score.WeightsUsed, "semantic")
		require.Contains(t, score.WeightsUsed, "precision")
		require.Contains(t, score.WeightsUsed, "reward")
		sum := score.WeightsUsed["semantic"] + score.WeightsUsed["precision"] + score.WeightsUsed["reward"]
		assert.InDelta(t, 1.0, sum, 1e-6)
	})
}

// fixedEngine returns canned track scores or errors.
type fixedEngine struct {
	semantic, precision float64
	semErr, precErr     error
}

func (e *fixedEngine) EmbedSimilarity(ctx context.Context, a, b string) (float64, error) {
	return e.semantic, e.semErr
}

func (e *fixedEngine) PrecisionCompare(ctx context.Context, expected, actual string) (float64, error) {
	return e.precision, e.precErr
}

func (e *fixedEngine) Complete(ctx context.Context, messages []inference.Message) (string, error) {
	return "", errors.New("not implemented")
}

func TestAggregator_Score(t *testing.T) {
	ctx := context.Background()

	t.Run("all tracks fused", func(t *testing.T) {
		agg := NewAggregator(&fixedEngine{semantic: 0.8, precision: 0.6})
		report := agg.Score(ctx, ScoreInput{
			Query:    "analyze revenue",
			Content:  "revenue grew 12%",
			Expected: "a growth figure",
			Constraints: []types.Constraint{
				{Type: types.ConstraintContains, Value: "revenue"},
				{Type: types.ConstraintContains, Value: "absent"},
			},
		})

		assert.Equal(t, 0.8, report.SemanticScore)
		assert.Equal(t, 0.6, report.PrecisionScore)
		assert.InDelta(t, 0.5, report.RewardScore, 1e-9)
		assert.Len(t, report.ConstraintOutcomes, 2)
	})

	t.Run("track failure zeroes only that track", func(t *testing.T) {
		agg := NewAggregator(&fixedEngine{
			semantic:  0.8,
			semErr:    errors.New("backend down"),
			precision: 0.6,
		})
		report := agg.Score(ctx, ScoreInput{Content: "content"})

		assert.Equal(t, 0.0, report.SemanticScore)
		assert.Equal(t, 0.6, report.PrecisionScore)
		assert.Equal(t, 1.0, report.RewardScore)
	})

	t.Run("nil engine still scores reward locally", func(t *testing.T) {
		agg := NewAggregator(nil)
		report := agg.Score(ctx, ScoreInput{
			Content:     "hello",
			Constraints: []types.Constraint{{Type: types.ConstraintContains, Value: "hello"}},
		})
		assert.Equal(t, 0.0, report.SemanticScore)
		assert.Equal(t, 0.0, report.PrecisionScore)
		assert.Equal(t, 1.0, report.RewardScore)
	})
}
