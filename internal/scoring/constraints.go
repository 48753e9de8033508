// Package scoring evaluates produced content after execution: hard
// constraint compliance, then fusion of the semantic, precision, and
// reward tracks into one auditable number.
package scoring

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"mindgate/internal/logging"
	"mindgate/internal/types"
)

// ConstraintOutcome records the verdict for a single constraint so a
// caller can always see which rules failed, not just the fraction.
type ConstraintOutcome struct {
	Constraint types.Constraint `json:"constraint"`
	Satisfied  bool             `json:"satisfied"`
	Reason     string           `json:"reason,omitempty"`
}

// EvaluateRewardCompliance checks content against an ordered constraint
// list and returns satisfied/total plus per-constraint outcomes. Zero
// constraints score 1.0. A malformed constraint (bad regex, non-numeric
// count) counts as not satisfied and never raises out of the evaluator.
func EvaluateRewardCompliance(content string, constraints []types.Constraint) (float64, []ConstraintOutcome) {
	timer := logging.StartTimer(logging.CategoryScoring, "EvaluateRewardCompliance")
	defer timer.Stop()

	if len(constraints) == 0 {
		return 1.0, nil
	}

	outcomes := make([]ConstraintOutcome, 0, len(constraints))
	satisfied := 0
	for _, c := range constraints {
		outcome := evaluateConstraint(content, c)
		if outcome.Satisfied {
			satisfied++
		} else {
			logging.ScoringDebug("Constraint not satisfied (%s %q): %s", c.Type, c.Value, outcome.Reason)
		}
		outcomes = append(outcomes, outcome)
	}

	score := float64(satisfied) / float64(len(constraints))
	logging.Scoring("Reward compliance: %d/%d constraints satisfied (%.3f)", satisfied, len(constraints), score)
	return score, outcomes
}

func evaluateConstraint(content string, c types.Constraint) ConstraintOutcome {
	outcome := ConstraintOutcome{Constraint: c}

	switch c.Type.Canonical() {
	case types.ConstraintRegex:
		re, err := regexp.Compile(c.Value)
		if err != nil {
			outcome.Reason = fmt.Sprintf("invalid pattern: %v", err)
			return outcome
		}
		if re.MatchString(content) {
			outcome.Satisfied = true
		} else {
			outcome.Reason = fmt.Sprintf("pattern %q not found", c.Value)
		}

	case types.ConstraintLineCount:
		want, err := strconv.Atoi(strings.TrimSpace(c.Value))
		if err != nil {
			outcome.Reason = fmt.Sprintf("non-numeric line count %q", c.Value)
			return outcome
		}
		got := countLines(content)
		if got == want {
			outcome.Satisfied = true
		} else {
			outcome.Reason = fmt.Sprintf("expected %d lines, got %d", want, got)
		}

	case types.ConstraintWordCount:
		want, err := strconv.Atoi(strings.TrimSpace(c.Value))
		if err != nil {
			outcome.Reason = fmt.Sprintf("non-numeric word count %q", c.Value)
			return outcome
		}
		got := len(strings.Fields(content))
		if got == want {
			outcome.Satisfied = true
		} else {
			outcome.Reason = fmt.Sprintf("expected %d words, got %d", want, got)
		}

	case types.ConstraintContains:
		if strings.Contains(content, c.Value) {
			outcome.Satisfied = true
		} else {
			outcome.Reason = fmt.Sprintf("missing required substring %q", c.Value)
		}

	case types.ConstraintNotContains:
		if !strings.Contains(content, c.Value) {
			outcome.Satisfied = true
		} else {
			outcome.Reason = fmt.Sprintf("contains forbidden substring %q", c.Value)
		}

	case types.ConstraintFileExtension:
		if strings.HasSuffix(content, c.Value) {
			outcome.Satisfied = true
		} else {
			outcome.Reason = fmt.Sprintf("does not end with %q", c.Value)
		}

	case types.ConstraintMaxLength:
		limit, err := strconv.Atoi(strings.TrimSpace(c.Value))
		if err != nil {
			outcome.Reason = fmt.Sprintf("non-numeric length limit %q", c.Value)
			return outcome
		}
		if len(content) <= limit {
			outcome.Satisfied = true
		} else {
			outcome.Reason = fmt.Sprintf("length %d exceeds limit %d", len(content), limit)
		}

	default:
		outcome.Reason = fmt.Sprintf("unknown constraint type %q", c.Type)
	}

	return outcome
}

// countLines counts newline-delimited lines, ignoring one trailing newline.
func countLines(content string) int {
	if content == "" {
		return 0
	}
	return len(strings.Split(strings.TrimSuffix(content, "\n"), "\n"))
}
