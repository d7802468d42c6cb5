// internal/workers/assistant/find-providers/place.go
package findproviders

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	zipToken   = regexp.MustCompile(`\b(\d{5})\b`)
	cityPhrase = regexp.MustCompile(`(?i)\bin\s+([A-Za-z][A-Za-z\s]+)\b`)
)

// Place picks the location to search: the explicit hint, then the first
// five-digit token, then the words after "in". Empty means no filter.
func Place(cityOrZip, message string) string {
	if p := strings.TrimSpace(cityOrZip); p != "" {
		return p
	}
	if m := zipToken.FindStringSubmatch(message); m != nil {
		return m[1]
	}
	if m := cityPhrase.FindStringSubmatch(message); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// Answer is the one-line lead shown above the provider list.
func Answer(count int, place string) string {
	if count > 0 {
		return fmt.Sprintf("Here are %d providers in %s:", count, place)
	}
	return fmt.Sprintf("I couldn’t find providers for “%s”. Try a city like “Pittsburgh” or a 5-digit ZIP.", place)
}
