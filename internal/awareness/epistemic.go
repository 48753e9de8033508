package awareness

import (
	"fmt"
	"regexp"
	"strings"

	"mindgate/internal/logging"
)

// EpistemicState is the known/unknown framing of a query: what information
// is missing, what referents are unclear, and which terms are subjective.
// Sequences keep match order and may contain duplicates.
type EpistemicState struct {
	KnownUnknowns   []string `json:"known_unknowns,omitempty"`
	Ambiguities     []string `json:"ambiguities,omitempty"`
	SubjectiveTerms []string `json:"subjective_terms,omitempty"`
}

// HasGaps reports whether anything notable was detected.
func (e EpistemicState) HasGaps() bool {
	return len(e.KnownUnknowns) > 0 || len(e.Ambiguities) > 0 || len(e.SubjectiveTerms) > 0
}

// The detectors below are ordered regex rule tables, evaluated per query
// with no state. They are intentionally an extensible heuristic list, not
// a general NLP model.

var subjectiveFamilies = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(best|worst|top|favorite|ideal|perfect)\b`),
	regexp.MustCompile(`(?i)\b(cheap|expensive|affordable)\b`),
	regexp.MustCompile(`(?i)\b(fast|slow|quick)\b`),
	regexp.MustCompile(`(?i)\b(good|bad|nice)\b`),
}

var ambiguityFamilies = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(it|they|them|that|this)\b`), // anaphora
	regexp.MustCompile(`(?i)\b(recent|lately|soon)\b`),     // vague time
	regexp.MustCompile(`(?i)\b(here|there|local)\b`),       // vague location
}

var (
	fiscalTopicPattern  = regexp.MustCompile(`(?i)\b(revenue|profit)\b`)
	fiscalPeriodPattern = regexp.MustCompile(`(?i)(\b(19\d{2}|20[0-2]\d)\b|last year|\bq[1-4]\b)`)
	placeTopicPattern   = regexp.MustCompile(`(?i)\b(weather|time)\b`)
	inPlacePattern      = regexp.MustCompile(`(?i)\bin\s+\p{L}+`)
)

// DetectEpistemic infers knowledge gaps, ambiguity, and subjective terms
// from a query.
func DetectEpistemic(query string) EpistemicState {
	var state EpistemicState

	for _, family := range subjectiveFamilies {
		for _, m := range family.FindAllString(query, -1) {
			state.SubjectiveTerms = append(state.SubjectiveTerms, strings.ToLower(m))
		}
	}

	for _, family := range ambiguityFamilies {
		for _, m := range family.FindAllString(query, -1) {
			state.Ambiguities = append(state.Ambiguities,
				fmt.Sprintf("Referent of '%s' may be unclear", strings.ToLower(m)))
		}
	}

	// Domain heuristics: financial queries need a fiscal period, and
	// weather/time queries need a place.
	if fiscalTopicPattern.MatchString(query) && !fiscalPeriodPattern.MatchString(query) {
		state.KnownUnknowns = append(state.KnownUnknowns, "Fiscal period not specified")
	}
	if placeTopicPattern.MatchString(query) && !inPlacePattern.MatchString(query) {
		state.KnownUnknowns = append(state.KnownUnknowns, "Location context may be missing")
	}

	logging.AwarenessDebug("Epistemic: unknowns=%d ambiguities=%d subjective=%d",
		len(state.KnownUnknowns), len(state.Ambiguities), len(state.SubjectiveTerms))
	return state
}

// PromptSection renders the epistemic state for prompt construction.
// Returns an empty string when there is nothing notable to report.
func (e EpistemicState) PromptSection() string {
	if !e.HasGaps() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("## Epistemic Context\n")
	for _, u := range e.KnownUnknowns {
		fmt.Fprintf(&sb, "- Unknown: %s\n", u)
	}
	for _, a := range e.Ambiguities {
		fmt.Fprintf(&sb, "- Ambiguity: %s\n", a)
	}
	if len(e.SubjectiveTerms) > 0 {
		fmt.Fprintf(&sb, "- Subjective terms: %s\n", strings.Join(e.SubjectiveTerms, ", "))
	}
	return strings.TrimRight(sb.String(), "\n")
}
