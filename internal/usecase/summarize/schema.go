package summarize

import (
	"encoding/json"
	"errors"
	"strings"

	"feeddigest/internal/domain/entity"
)

// ErrInvalidSummary indicates the provider response could not be coerced
// into a valid summary object.
var ErrInvalidSummary = errors.New("response is not a valid summary object")

// truncationSuffixes are closing sequences tried in order when a response
// looks like JSON cut off by the output token limit. Each one closes an
// open string, array, or object at a different nesting depth.
var truncationSuffixes = []string{`"}` + "\n}", `"` + "\n}", `"]` + "\n}", "]\n}", "\n}", "}"}

// ParseSummary parses a raw provider response into a Summary. Markdown
// fences are stripped first; if a direct parse fails, the truncation
// suffixes are tried before giving up.
func ParseSummary(raw string) (*entity.Summary, error) {
	cleaned := stripFences(raw)

	if summary, ok := tryParse(cleaned); ok {
		return summary, nil
	}

	for _, suffix := range truncationSuffixes {
		if summary, ok := tryParse(cleaned + suffix); ok {
			return summary, nil
		}
	}

	return nil, ErrInvalidSummary
}

// stripFences removes markdown code fence lines from a response that
// ignored the no-fences instruction.
func stripFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	lines := strings.Split(trimmed, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func tryParse(text string) (*entity.Summary, bool) {
	var summary entity.Summary
	if err := json.Unmarshal([]byte(text), &summary); err != nil {
		return nil, false
	}
	if err := summary.Validate(); err != nil {
		return nil, false
	}
	return &summary, true
}
