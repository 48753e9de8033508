package scoring

import (
	"context"

	"mindgate/internal/inference"
	"mindgate/internal/logging"
	"mindgate/internal/types"
)

// =============================================================================
// WEIGHT POLICY
// =============================================================================

// WeightProfile holds per-track weights for score fusion.
type WeightProfile struct {
	Semantic  float64
	Precision float64
	Reward    float64
}

// taskTypeWeights is the policy table keyed by task type. Technical work
// weights constraint compliance and precision; creative work weights
// semantic fit. Unknown task types fall back to the balanced default.
var taskTypeWeights = map[string]WeightProfile{
	"technical":      {Semantic: 0.2, Precision: 0.4, Reward: 0.4},
	"infrastructure": {Semantic: 0.2, Precision: 0.4, Reward: 0.4},
	"creative":       {Semantic: 0.6, Precision: 0.2, Reward: 0.2},
	"analytical":     {Semantic: 0.3, Precision: 0.4, Reward: 0.3},
}

var balancedWeights = WeightProfile{
	Semantic:  1.0 / 3.0,
	Precision: 1.0 / 3.0,
	Reward:    1.0 / 3.0,
}

// regulatedDomains shift weight toward hard-constraint compliance.
var regulatedDomains = map[string]bool{
	"finance": true,
	"legal":   true,
	"medical": true,
}

// SelectWeights picks the weight profile for the given metadata. The
// returned weights always sum to 1.0 regardless of which branch fired.
func SelectWeights(meta types.ScoringMetadata) WeightProfile {
	meta = meta.Normalized()

	w, ok := taskTypeWeights[meta.TaskType]
	if !ok {
		w = balancedWeights
	}

	// Regulated domains care more about constraint compliance.
	if regulatedDomains[meta.Domain] {
		w.Reward += 0.1
		w.Semantic -= 0.05
		w.Precision -= 0.05
	}

	// Reviewer roles weight precision over fit.
	if meta.UserRole == "reviewer" || meta.UserRole == "auditor" {
		w.Precision += 0.1
		w.Semantic -= 0.1
	}

	return w.normalize()
}

// normalize rescales the profile so the weights sum to exactly 1.0,
// flooring any nudged-negative weight at zero first.
func (w WeightProfile) normalize() WeightProfile {
	if w.Semantic < 0 {
		w.Semantic = 0
	}
	if w.Precision < 0 {
		w.Precision = 0
	}
	if w.Reward < 0 {
		w.Reward = 0
	}
	total := w.Semantic + w.Precision + w.Reward
	if total == 0 {
		return balancedWeights
	}
	return WeightProfile{
		Semantic:  w.Semantic / total,
		Precision: w.Precision / total,
		Reward:    w.Reward / total,
	}
}

// =============================================================================
// SCORE AGGREGATION
// =============================================================================

// AggregateScores fuses the three track scores into one NumericScore using
// the weight policy. The final score is clamped to [0,1] and the applied
// weights are returned verbatim for audit.
func AggregateScores(semantic, precision, reward float64, meta types.ScoringMetadata) types.NumericScore {
	w := SelectWeights(meta)

	semantic = clamp01(semantic)
	precision = clamp01(precision)
	reward = clamp01(reward)

	score := clamp01(w.Semantic*semantic + w.Precision*precision + w.Reward*reward)

	logging.ScoringDebug("Aggregate: score=%.3f (semantic=%.3f*%.2f precision=%.3f*%.2f reward=%.3f*%.2f)",
		score, semantic, w.Semantic, precision, w.Precision, reward, w.Reward)

	return types.NumericScore{
		Score:          score,
		SemanticScore:  semantic,
		PrecisionScore: precision,
		RewardScore:    reward,
		WeightsUsed: map[string]float64{
			"semantic":  w.Semantic,
			"precision": w.Precision,
			"reward":    w.Reward,
		},
	}
}

// =============================================================================
// AGGREGATOR (collaborator-backed)
// =============================================================================

// ScoreInput carries everything needed to score one produced result.
type ScoreInput struct {
	// Query is the original user request.
	Query string

	// Content is the produced output under evaluation.
	Content string

	// Expected describes what the output should contain.
	Expected string

	Constraints []types.Constraint
	Metadata    types.ScoringMetadata
}

// ScoreReport is a NumericScore plus the per-constraint outcomes backing
// its reward track.
type ScoreReport struct {
	types.NumericScore
	ConstraintOutcomes []ConstraintOutcome `json:"constraint_outcomes,omitempty"`
}

// Aggregator computes the semantic and precision tracks through the
// inference collaborator, evaluates reward compliance locally, and fuses
// the three.
type Aggregator struct {
	engine inference.Engine
}

// NewAggregator creates an aggregator over an inference engine.
func NewAggregator(engine inference.Engine) *Aggregator {
	return &Aggregator{engine: engine}
}

// Score evaluates one produced result. A collaborator failure on a track
// conservatively zeroes that track; the aggregation itself never fails.
func (a *Aggregator) Score(ctx context.Context, in ScoreInput) ScoreReport {
	timer := logging.StartTimer(logging.CategoryScoring, "Score")
	defer timer.Stop()

	semantic := 0.0
	if a.engine != nil {
		v, err := a.engine.EmbedSimilarity(ctx, in.Content, in.Query)
		if err != nil {
			logging.ScoringWarn("Semantic track unavailable, scoring 0.0: %v", err)
		} else {
			semantic = v
		}
	}

	precision := 0.0
	if a.engine != nil {
		v, err := a.engine.PrecisionCompare(ctx, in.Expected, in.Content)
		if err != nil {
			logging.ScoringWarn("Precision track unavailable, scoring 0.0: %v", err)
		} else {
			precision = v
		}
	}

	reward, outcomes := EvaluateRewardCompliance(in.Content, in.Constraints)

	return ScoreReport{
		NumericScore:       AggregateScores(semantic, precision, reward, in.Metadata),
		ConstraintOutcomes: outcomes,
	}
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
