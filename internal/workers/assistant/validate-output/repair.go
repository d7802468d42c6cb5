// internal/workers/assistant/validate-output/repair.go
package validateoutput

import (
	"regexp"
	"strings"
)

var (
	fencePattern        = regexp.MustCompile("(?i)```(?:jsonc|json)?\\s*([\\s\\S]*?)\\s*```")
	lineCommentPattern  = regexp.MustCompile(`(?m)(^|[^:])//.*$`)
	blockCommentPattern = regexp.MustCompile(`(?s)/\*.*?\*/`)
	trailingComma       = regexp.MustCompile(`,\s*([}\]])`)
	emptyContainerComma = regexp.MustCompile(`([{\[])\s*,\s*([}\]])`)
)

const bom = "\ufeff"

// Extract returns the body of the first fenced code block, or the trimmed
// text when there is none.
func Extract(raw string) string {
	if m := fencePattern.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return strings.TrimSpace(raw)
}

// Repair fixes the defects models commonly emit: comments, trailing commas
// and a leading byte-order mark. It is best-effort; "//" after a colon is
// kept so URLs survive.
func Repair(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), bom)
	s = lineCommentPattern.ReplaceAllString(s, "${1}")
	s = blockCommentPattern.ReplaceAllString(s, "")
	s = trailingComma.ReplaceAllString(s, "${1}")
	s = emptyContainerComma.ReplaceAllString(s, "${1}${2}")
	return strings.TrimSpace(strings.TrimPrefix(s, bom))
}
