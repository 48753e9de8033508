package awareness

import (
	"strings"
	"time"

	"mindgate/internal/logging"
)

// Envelope is the fused situational context for one request. It is built
// once by Fuse and read-only afterwards. Rendering order is fixed:
// temporal, spatial, epistemic.
type Envelope struct {
	Temporal  TemporalContext `json:"temporal"`
	Spatial   SpatialContext  `json:"spatial"`
	Epistemic EpistemicState  `json:"epistemic"`
}

// Fuse runs the three detectors in sequence and composes their outputs.
// A nil profile is normalized to defaults before use. The detectors are
// independent and side-effect-free, so no ordering between them matters
// beyond the fixed rendering order of the result.
func Fuse(query string, profile *Profile, now time.Time) Envelope {
	timer := logging.StartTimer(logging.CategoryAwareness, "Fuse")
	defer timer.Stop()

	if profile == nil {
		profile = &Profile{}
	}

	loc := time.UTC
	if profile.Timezone != "" {
		if parsed, err := time.LoadLocation(profile.Timezone); err == nil {
			loc = parsed
		} else {
			logging.AwarenessDebug("Unknown timezone %q, using UTC", profile.Timezone)
		}
	}

	return Envelope{
		Temporal:  DetectTemporal(query, now, loc),
		Spatial:   DetectSpatial(profile),
		Epistemic: DetectEpistemic(query),
	}
}

// SystemPrompt concatenates the sub-context renderers with blank-line
// separation. A sub-context with nothing notable contributes nothing, not
// an empty header.
func (e Envelope) SystemPrompt() string {
	sections := make([]string, 0, 3)
	for _, section := range []string{
		e.Temporal.PromptSection(),
		e.Spatial.PromptSection(),
		e.Epistemic.PromptSection(),
	} {
		if section != "" {
			sections = append(sections, section)
		}
	}
	return strings.Join(sections, "\n\n")
}
