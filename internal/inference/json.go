package inference

import "strings"

// StripFences removes a Markdown code-fence wrapper from an LLM reply.
// Handles ```json ... ```, bare ``` ... ```, and replies with no fence at
// all. The fence language tag, when present, is discarded.
func StripFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	// Drop the opening fence line (``` or ```json).
	rest := trimmed[3:]
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		rest = rest[idx+1:]
	} else {
		// Single-line fence like ```json{...}```
		rest = strings.TrimPrefix(rest, "json")
	}

	// Drop the closing fence, if any.
	if idx := strings.LastIndex(rest, "```"); idx >= 0 {
		rest = rest[:idx]
	}

	return strings.TrimSpace(rest)
}

// ExtractJSON finds the first balanced JSON object in a reply, after
// fence-stripping. Returns "" when no object is present.
func ExtractJSON(s string) string {
	s = StripFences(s)

	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	return ""
}
