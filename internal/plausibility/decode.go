package plausibility

import (
	"encoding/json"
	"fmt"

	"mindgate/internal/inference"
)

// VerdictReply is the structured verdict expected from the LLM-assisted
// plausibility pass.
type VerdictReply struct {
	IsPlausible bool     `json:"is_plausible"`
	Issues      []string `json:"issues"`
}

// DecodeVerdict parses an LLM reply into a VerdictReply, tolerating a
// Markdown code-fence wrapper. A reply with no decodable JSON object is a
// recoverable parse error, never a crash; callers fall through to the
// fail-open default.
func DecodeVerdict(raw string) (VerdictReply, error) {
	extracted := inference.ExtractJSON(raw)
	if extracted == "" {
		return VerdictReply{}, fmt.Errorf("no JSON object in plausibility reply")
	}

	var reply VerdictReply
	if err := json.Unmarshal([]byte(extracted), &reply); err != nil {
		return VerdictReply{}, fmt.Errorf("failed to decode plausibility reply: %w", err)
	}
	return reply, nil
}
