// Package awareness builds the situated-context envelope for a request:
// when it is anchored in time, where it is anchored in jurisdiction, and
// what about it is unknown or ambiguous. All detectors are pure functions
// of their inputs; the clock is always injected so results are reproducible.
package awareness

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"mindgate/internal/logging"
)

// TemporalAnchor is the time framing of a query.
type TemporalAnchor string

const (
	AnchorLive       TemporalAnchor = "LIVE"
	AnchorRecent     TemporalAnchor = "RECENT"
	AnchorHistorical TemporalAnchor = "HISTORICAL"
	AnchorFuture     TemporalAnchor = "FUTURE"
	AnchorTimeless   TemporalAnchor = "TIMELESS"
)

// TemporalContext is the time framing detected for a task.
type TemporalContext struct {
	CurrentTime   time.Time      `json:"current_time"`
	Anchor        TemporalAnchor `json:"anchor"`
	ExplicitDates []time.Time    `json:"explicit_dates,omitempty"`
	IsMarketHours bool           `json:"is_market_hours"`
	IsWeekend     bool           `json:"is_weekend"`
}

// anchorRule is one entry in the ordered anchor cascade. Rules are evaluated
// in slice order and the first match wins, which makes the priority policy a
// visible table instead of implicit branch ordering.
type anchorRule struct {
	pattern *regexp.Regexp
	anchor  TemporalAnchor
}

var anchorRules = []anchorRule{
	// LIVE has highest priority: anything asking about the present moment.
	{regexp.MustCompile(`(?i)(\bnow\b|\bcurrent\b|\blive\b|\breal-time\b|\btoday\b|\blatest\b|\bprice\b|right now|at the moment)`), AnchorLive},
	// FUTURE next.
	{regexp.MustCompile(`(?i)(\bprediction\b|\bforecast\b|\boutlook\b|\bfuture\b|\bnext\b|\bcoming\b|\bwill\b|going to|\bexpect\b)`), AnchorFuture},
	// HISTORICAL last: past-tense markers or a bare year.
	{regexp.MustCompile(`(?i)(\bhistory\b|\bpast\b|\bwas\b|\bdid\b|\byesterday\b|last year|\bago\b|\b(19\d{2}|20[0-2]\d)\b)`), AnchorHistorical},
}

var (
	isoDatePattern  = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	bareYearPattern = regexp.MustCompile(`\b(19\d{2}|20[0-2]\d)\b`)
)

// DetectTemporal infers the time anchor and explicit dates of a query.
// loc is the user timezone (nil means UTC) and affects the weekend flag;
// the market-hours heuristic always evaluates in UTC.
func DetectTemporal(query string, now time.Time, loc *time.Location) TemporalContext {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)

	anchor := AnchorRecent
	for _, rule := range anchorRules {
		if rule.pattern.MatchString(query) {
			anchor = rule.anchor
			break
		}
	}

	ctx := TemporalContext{
		CurrentTime:   local,
		Anchor:        anchor,
		ExplicitDates: extractExplicitDates(query),
		IsMarketHours: isUSMarketHours(now.UTC()),
		IsWeekend:     local.Weekday() == time.Saturday || local.Weekday() == time.Sunday,
	}

	logging.AwarenessDebug("Temporal: anchor=%s dates=%d market_hours=%v", ctx.Anchor, len(ctx.ExplicitDates), ctx.IsMarketHours)
	return ctx
}

type dateSpan struct {
	start int
	end   int
	date  time.Time
}

// extractExplicitDates collects ISO dates and bare 4-digit years in order of
// appearance. Bare years become Jan 1 of that year; duplicates are kept.
func extractExplicitDates(query string) []time.Time {
	var spans []dateSpan

	for _, m := range isoDatePattern.FindAllStringIndex(query, -1) {
		parsed, err := time.Parse("2006-01-02", query[m[0]:m[1]])
		if err != nil {
			// Tokens like 2024-13-45 match the shape but are not dates.
			continue
		}
		spans = append(spans, dateSpan{start: m[0], end: m[1], date: parsed})
	}

	for _, m := range bareYearPattern.FindAllStringIndex(query, -1) {
		if insideAny(m[0], spans) {
			continue
		}
		year, _ := time.Parse("2006", query[m[0]:m[1]])
		spans = append(spans, dateSpan{start: m[0], end: m[1], date: year})
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	dates := make([]time.Time, 0, len(spans))
	for _, s := range spans {
		dates = append(dates, s.date)
	}
	return dates
}

func insideAny(pos int, spans []dateSpan) bool {
	for _, s := range spans {
		if pos >= s.start && pos < s.end {
			return true
		}
	}
	return false
}

// isUSMarketHours is a deliberately simplified approximation of US exchange
// hours: weekday with UTC hour in [13,20]. Exchange calendars and holidays
// are out of scope.
func isUSMarketHours(utc time.Time) bool {
	wd := utc.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return utc.Hour() >= 13 && utc.Hour() <= 20
}

// PromptSection renders the temporal context for prompt construction.
func (t TemporalContext) PromptSection() string {
	var sb strings.Builder
	sb.WriteString("## Temporal Context\n")
	fmt.Fprintf(&sb, "- Current time: %s\n", t.CurrentTime.Format(time.RFC3339))
	fmt.Fprintf(&sb, "- Time anchor: %s\n", t.Anchor)

	marketState := "closed"
	if t.IsMarketHours {
		marketState = "open"
	}
	fmt.Fprintf(&sb, "- US market hours: %s\n", marketState)

	if t.IsWeekend {
		sb.WriteString("- Weekend: yes\n")
	}
	if len(t.ExplicitDates) > 0 {
		rendered := make([]string, len(t.ExplicitDates))
		for i, d := range t.ExplicitDates {
			rendered[i] = d.Format("2006-01-02")
		}
		fmt.Fprintf(&sb, "- Explicit dates: %s\n", strings.Join(rendered, ", "))
	}

	return strings.TrimRight(sb.String(), "\n")
}
