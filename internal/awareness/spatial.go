package awareness

import (
	"fmt"
	"strings"

	"mindgate/internal/logging"
)

// Profile is the optional user profile feeding spatial detection. Absent
// fields mean "use defaults"; a nil *Profile behaves like an empty one, so
// malformed upstream input can never propagate past fusion.
type Profile struct {
	Country   string `json:"country,omitempty" yaml:"country,omitempty"`
	Timezone  string `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	Language  string `json:"language,omitempty" yaml:"language,omitempty"`
	Formality string `json:"preference_formality,omitempty" yaml:"preference_formality,omitempty"`
}

// SpatialContext is the jurisdiction/locale framing detected for a task.
type SpatialContext struct {
	CountryCode     string   `json:"country_code"`
	Currency        string   `json:"currency"`
	Jurisdiction    string   `json:"jurisdiction"`
	Regulations     []string `json:"regulations,omitempty"`
	PrimaryExchange string   `json:"primary_exchange"`
	MarketSensitive bool     `json:"market_sensitive"`
	Units           string   `json:"units"`
	Locale          string   `json:"locale"`
}

// RegionProfile is the static market/regulatory data for one region.
type RegionProfile struct {
	Currency        string
	PrimaryExchange string
	Units           string
	Regulations     []string
}

// RegionMatchKind tags a region lookup outcome. "No entry found" is a
// modeled case, not a sentinel map key.
type RegionMatchKind int

const (
	RegionKnown RegionMatchKind = iota
	RegionDefault
)

// RegionMatch is the outcome of a region table lookup. Lookup is total:
// every country code yields either a known region or the default profile.
type RegionMatch struct {
	Kind    RegionMatchKind
	Code    string
	Profile RegionProfile
}

// restrictedRegulators are the regulators whose presence marks a region as
// market sensitive.
var restrictedRegulators = map[string]bool{
	"SEC": true,
	"FCA": true,
	"MAS": true,
	"OJK": true,
}

var regionTable = map[string]RegionProfile{
	"US": {Currency: "USD", PrimaryExchange: "NYSE", Units: "imperial", Regulations: []string{"SEC", "FINRA"}},
	"GB": {Currency: "GBP", PrimaryExchange: "LSE", Units: "metric", Regulations: []string{"FCA", "GDPR"}},
	"DE": {Currency: "EUR", PrimaryExchange: "XETRA", Units: "metric", Regulations: []string{"BaFin", "GDPR"}},
	"FR": {Currency: "EUR", PrimaryExchange: "Euronext", Units: "metric", Regulations: []string{"AMF", "GDPR"}},
	"JP": {Currency: "JPY", PrimaryExchange: "TSE", Units: "metric", Regulations: []string{"FSA"}},
	"SG": {Currency: "SGD", PrimaryExchange: "SGX", Units: "metric", Regulations: []string{"MAS", "PDPA"}},
	"ID": {Currency: "IDR", PrimaryExchange: "IDX", Units: "metric", Regulations: []string{"OJK"}},
	"IN": {Currency: "INR", PrimaryExchange: "NSE", Units: "metric", Regulations: []string{"SEBI"}},
	"AU": {Currency: "AUD", PrimaryExchange: "ASX", Units: "metric", Regulations: []string{"ASIC"}},
	"CA": {Currency: "CAD", PrimaryExchange: "TSX", Units: "metric", Regulations: []string{"CSA"}},
}

var defaultRegion = RegionProfile{
	Currency:        "USD",
	PrimaryExchange: "Global",
	Units:           "metric",
	Regulations:     nil,
}

// LookupRegion resolves a country code to its region data. Unknown or empty
// codes resolve to the default profile; the lookup never fails.
func LookupRegion(countryCode string) RegionMatch {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	if profile, ok := regionTable[code]; ok {
		return RegionMatch{Kind: RegionKnown, Code: code, Profile: profile}
	}
	return RegionMatch{Kind: RegionDefault, Code: code, Profile: defaultRegion}
}

// DetectSpatial infers jurisdiction, currency, market, and units from a
// user profile.
func DetectSpatial(profile *Profile) SpatialContext {
	if profile == nil {
		profile = &Profile{}
	}

	match := LookupRegion(profile.Country)

	code := match.Code
	if match.Kind == RegionDefault && code == "" {
		code = "GLOBAL"
	}
	ctx := SpatialContext{
		CountryCode:  code,
		Jurisdiction: fmt.Sprintf("%s-NATIONAL", code),
	}

	ctx.Currency = match.Profile.Currency
	ctx.PrimaryExchange = match.Profile.PrimaryExchange
	ctx.Units = match.Profile.Units
	ctx.Regulations = append([]string(nil), match.Profile.Regulations...)
	ctx.MarketSensitive = hasRestrictedRegulator(ctx.Regulations)

	language := profile.Language
	if language == "" {
		language = "en"
	}
	ctx.Locale = fmt.Sprintf("%s-%s", language, ctx.CountryCode)

	logging.AwarenessDebug("Spatial: country=%s currency=%s sensitive=%v", ctx.CountryCode, ctx.Currency, ctx.MarketSensitive)
	return ctx
}

func hasRestrictedRegulator(regulations []string) bool {
	for _, r := range regulations {
		if restrictedRegulators[r] {
			return true
		}
	}
	return false
}

// PromptSection renders the spatial context for prompt construction.
func (s SpatialContext) PromptSection() string {
	var sb strings.Builder
	sb.WriteString("## Spatial Context\n")
	fmt.Fprintf(&sb, "- Jurisdiction: %s\n", s.Jurisdiction)
	fmt.Fprintf(&sb, "- Currency: %s\n", s.Currency)
	fmt.Fprintf(&sb, "- Primary exchange: %s\n", s.PrimaryExchange)
	fmt.Fprintf(&sb, "- Units: %s\n", s.Units)
	if len(s.Regulations) > 0 {
		fmt.Fprintf(&sb, "- Regulations: %s\n", strings.Join(s.Regulations, ", "))
	}
	if s.MarketSensitive {
		sb.WriteString("- Market-sensitive jurisdiction: responses may be subject to financial regulation\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
