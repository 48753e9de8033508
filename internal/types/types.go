// Package types provides shared type definitions used across mindgate packages.
// This package exists to break import cycles between the awareness, attention,
// plausibility, and scoring tiers. Types in this package should be foundational
// data structures with no complex dependencies.
package types

// =============================================================================
// TASK TYPES
// =============================================================================

// TaskState is one incoming unit of work produced by the upstream
// intent-detection stage. Goal must be non-empty.
type TaskState struct {
	// Goal is the free-form objective for this task.
	Goal string `json:"goal"`

	// ContextElements are the supporting facts for the goal, in the order
	// the upstream stage supplied them.
	ContextElements []ContextElement `json:"context_elements"`

	// InterpretedIntent is the upstream stage's reading of the request.
	InterpretedIntent string `json:"interpreted_intent,omitempty"`
}

// ContextElement is one fact supporting a goal.
type ContextElement struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Source string `json:"source,omitempty"`

	// Relevance is the element's similarity to the goal, in [0,1].
	// It starts at DefaultRelevance and is set once by the attention filter.
	Relevance float64 `json:"relevance"`
}

// DefaultRelevance is the relevance assigned to an element before scoring.
const DefaultRelevance = 0.5

// NewContextElement creates an element with the default (unscored) relevance.
func NewContextElement(key, value, source string) ContextElement {
	return ContextElement{
		Key:       key,
		Value:     value,
		Source:    source,
		Relevance: DefaultRelevance,
	}
}

// FilteredState is a task after attention filtering.
// DroppedCount always equals len(input elements) - len(CriticalElements).
type FilteredState struct {
	Goal             string           `json:"goal"`
	CriticalElements []ContextElement `json:"critical_elements"`
	DroppedCount     int              `json:"dropped_count"`
}

// RefinedState is a task cleared by the plausibility checker and ready for
// the execution tier. Only produced on a PASS verdict.
type RefinedState struct {
	Goal                   string           `json:"goal"`
	CriticalElements       []ContextElement `json:"critical_elements"`
	PlausibilityConfidence float64          `json:"plausibility_confidence"`
}

// SanityAlert records why a goal was rejected. Only produced on FAIL.
type SanityAlert struct {
	Reason       string   `json:"reason"`
	Issues       []string `json:"issues"`
	Confidence   float64  `json:"confidence"`
	OriginalGoal string   `json:"original_goal"`
}

// =============================================================================
// PLAUSIBILITY TYPES
// =============================================================================

// Verdict is the terminal state of a plausibility check.
type Verdict string

const (
	VerdictPass Verdict = "PASS"
	VerdictFail Verdict = "FAIL"
)

// PlausibilityResult is the coherence verdict for a filtered task.
// A FAIL verdict always carries at least one issue.
type PlausibilityResult struct {
	Verdict    Verdict  `json:"verdict"`
	Confidence float64  `json:"confidence"`
	Issues     []string `json:"issues,omitempty"`
}

// =============================================================================
// CONSTRAINT TYPES
// =============================================================================

// ConstraintType selects the predicate used to evaluate a constraint.
type ConstraintType string

const (
	ConstraintRegex          ConstraintType = "regex"
	ConstraintLineCount      ConstraintType = "line_count"
	ConstraintWordCount      ConstraintType = "word_count"
	ConstraintContains       ConstraintType = "contains"
	ConstraintMustContain    ConstraintType = "must_contain"
	ConstraintNotContains    ConstraintType = "not_contains"
	ConstraintMustNotContain ConstraintType = "must_not_contain"
	ConstraintFileExtension  ConstraintType = "file_extension"
	ConstraintMaxLength      ConstraintType = "max_length"
)

// Canonical collapses alias constraint types onto their canonical form:
// must_contain -> contains, must_not_contain -> not_contains.
func (t ConstraintType) Canonical() ConstraintType {
	switch t {
	case ConstraintMustContain:
		return ConstraintContains
	case ConstraintMustNotContain:
		return ConstraintNotContains
	default:
		return t
	}
}

// Constraint is one hard reward-compliance rule. The semantics of Value
// depend on Type (pattern for regex, integer for counts, substring for
// contains, suffix for file_extension).
type Constraint struct {
	Type        ConstraintType `json:"constraint_type" yaml:"constraint_type"`
	Value       string         `json:"value" yaml:"value"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
}

// =============================================================================
// SCORING TYPES
// =============================================================================

// ScoringMetadata carries the weighting context for score aggregation.
type ScoringMetadata struct {
	UserRole string `json:"user_role"`
	TaskType string `json:"task_type"`
	Domain   string `json:"domain"`
}

// Normalized returns a copy with empty fields replaced by their defaults.
func (m ScoringMetadata) Normalized() ScoringMetadata {
	if m.UserRole == "" {
		m.UserRole = "user"
	}
	if m.TaskType == "" {
		m.TaskType = "general"
	}
	if m.Domain == "" {
		m.Domain = "general"
	}
	return m
}

// NumericScore is the fused evaluation of a produced result.
// Score = sum(weight * subscore); weights sum to ~1.0.
type NumericScore struct {
	Score          float64            `json:"score"`
	SemanticScore  float64            `json:"semantic_score"`
	PrecisionScore float64            `json:"precision_score"`
	RewardScore    float64            `json:"reward_score"`
	WeightsUsed    map[string]float64 `json:"weights_used"`
}
