// Package plausibility verifies that a filtered goal is coherent and
// achievable before any expensive execution happens. The check is a
// two-stage state machine with terminal states PASS and FAIL: a free
// heuristic contradiction scan that short-circuits, then an optional
// LLM-assisted pass. When neither stage can decide, the check fails open
// to PASS; that availability-over-strictness policy is inherited and
// deliberate.
package plausibility

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"mindgate/internal/inference"
	"mindgate/internal/logging"
	"mindgate/internal/types"
)

// contradictionPairs lists opposite-action verb pairs. A goal containing
// both halves of any pair is incoherent on its face.
var contradictionPairs = [][2]string{
	{"create", "destroy"},
	{"start", "stop"},
	{"open", "close"},
	{"enable", "disable"},
	{"add", "remove"},
	{"increase", "decrease"},
}

var wordPatterns = buildWordPatterns()

func buildWordPatterns() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp)
	for _, pair := range contradictionPairs {
		for _, word := range pair {
			if _, ok := patterns[word]; !ok {
				patterns[word] = regexp.MustCompile(`(?i)\b` + word + `\b`)
			}
		}
	}
	return patterns
}

const checkSystemPrompt = `You verify whether a task goal is logically coherent and achievable.
Respond with JSON only: {"is_plausible": <bool>, "issues": [<string>, ...]}
List concrete issues when the goal is implausible; an empty list otherwise.`

// Checker runs the plausibility state machine. A nil client disables the
// LLM-assisted pass entirely.
type Checker struct {
	client inference.LLMClient
}

// NewChecker creates a checker with an optional LLM collaborator.
func NewChecker(client inference.LLMClient) *Checker {
	return &Checker{client: client}
}

// Check evaluates a filtered task state and returns a terminal verdict.
func (c *Checker) Check(ctx context.Context, state types.FilteredState) types.PlausibilityResult {
	timer := logging.StartTimer(logging.CategoryPlausibility, "Check")
	defer timer.Stop()

	// Stage 1: heuristic scan. Free, always runs, and short-circuits —
	// no LLM call is spent on a goal the heuristic already rejects.
	if issues := scanContradictions(state.Goal); len(issues) > 0 {
		logging.Plausibility("Goal failed contradiction scan: %v", issues)
		return types.PlausibilityResult{
			Verdict:    types.VerdictFail,
			Confidence: 1.0,
			Issues:     issues,
		}
	}

	// Stage 2: LLM-assisted pass, only when a collaborator is configured.
	if c.client != nil {
		if result, ok := c.checkViaLLM(ctx, state); ok {
			return result
		}
	}

	// Stage 3: fail-open default.
	logging.PlausibilityDebug("No decisive verdict available, failing open to PASS")
	return types.PlausibilityResult{
		Verdict:    types.VerdictPass,
		Confidence: 1.0,
	}
}

// checkViaLLM returns (result, true) when the collaborator produced a
// decodable verdict. Inference and parse failures return ok=false so the
// caller falls through to the fail-open default.
func (c *Checker) checkViaLLM(ctx context.Context, state types.FilteredState) (types.PlausibilityResult, bool) {
	reply, err := c.client.CompleteWithSystem(ctx, checkSystemPrompt, buildCheckPrompt(state))
	if err != nil {
		logging.PlausibilityWarn("Plausibility collaborator unavailable: %v", err)
		return types.PlausibilityResult{}, false
	}

	verdict, err := DecodeVerdict(reply)
	if err != nil {
		logging.PlausibilityWarn("Plausibility reply not decodable: %v", err)
		return types.PlausibilityResult{}, false
	}

	if !verdict.IsPlausible {
		issues := verdict.Issues
		if len(issues) == 0 {
			// FAIL always carries at least one issue.
			issues = []string{"Goal judged implausible by reviewing model"}
		}
		logging.Plausibility("Goal failed LLM plausibility review: %v", issues)
		return types.PlausibilityResult{
			Verdict:    types.VerdictFail,
			Confidence: 0.9,
			Issues:     issues,
		}, true
	}

	return types.PlausibilityResult{
		Verdict:    types.VerdictPass,
		Confidence: 0.9,
	}, true
}

// scanContradictions returns one issue per opposite-verb pair co-occurring
// in the goal.
func scanContradictions(goal string) []string {
	var issues []string
	for _, pair := range contradictionPairs {
		if wordPatterns[pair[0]].MatchString(goal) && wordPatterns[pair[1]].MatchString(goal) {
			issues = append(issues,
				fmt.Sprintf("Contradictory: goal asks to both %q and %q", pair[0], pair[1]))
		}
	}
	return issues
}

// buildCheckPrompt renders the goal and its critical context for review.
func buildCheckPrompt(state types.FilteredState) string {
	var sb strings.Builder
	sb.WriteString("## Goal\n\n")
	sb.WriteString(state.Goal)

	if len(state.CriticalElements) > 0 {
		sb.WriteString("\n\n## Supporting Context\n")
		for _, el := range state.CriticalElements {
			fmt.Fprintf(&sb, "\n- %s: %s", el.Key, el.Value)
		}
	}
	return sb.String()
}
