package insight

import (
	"encoding/json"
	"strings"

	serrors "github.com/dragon88888888888/dashboard-serenity/internal/errors"
)

// parsePayload parses a narrative backend response into v using a two-stage
// strategy: strict parse of the fence-stripped text, then a best-effort parse
// of the first balanced JSON substring. A double failure is an AGENT_OUTPUT
// error.
func parsePayload(raw string, v any) error {
	cleaned := stripCodeFences(raw)

	strictErr := json.Unmarshal([]byte(cleaned), v)
	if strictErr == nil {
		return nil
	}

	if extracted, ok := extractBalanced(cleaned); ok {
		if err := json.Unmarshal([]byte(extracted), v); err == nil {
			return nil
		}
	}

	return serrors.AgentOutput("failed to parse agent output", strictErr)
}

// stripCodeFences removes a markdown code fence wrapping the payload, if any.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// extractBalanced returns the first balanced {...} or [...] substring. String
// literals are skipped so braces inside generated prose do not unbalance the
// scan.
func extractBalanced(s string) (string, bool) {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", false
	}

	open := s[start]
	var close byte = '}'
	if open == '[' {
		close = ']'
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
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}
