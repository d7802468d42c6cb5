// internal/workers/assistant/validate-output/canonicalize.go
package validateoutput

import (
	"strings"

	"childcare-assistant/pkg/registry"
)

// Canonicalize folds obj onto the schema vocabulary in place: renames, value
// synonyms, substring and prefix rules, case, then defaults for missing
// top-level keys. Applying it to its own output changes nothing.
func Canonicalize(obj map[string]interface{}, aliases registry.AliasTable, defaults map[string]interface{}) {
	for _, r := range aliases.Renames {
		v, ok := obj[r.From]
		if !ok {
			continue
		}
		if _, exists := obj[r.To]; exists {
			continue
		}
		obj[r.To] = v
		delete(obj, r.From)
	}

	for field, synonyms := range aliases.Values {
		if s, ok := obj[field].(string); ok {
			if canonical, found := synonyms[strings.ToLower(strings.TrimSpace(s))]; found {
				obj[field] = canonical
			}
		}
	}

	for field, rules := range aliases.Contains {
		if s, ok := obj[field].(string); ok {
			v := strings.ToLower(s)
			for _, r := range rules {
				if strings.Contains(v, r.Match) {
					obj[field] = r.Value
					break
				}
			}
		}
	}

	for field, rules := range aliases.Prefixes {
		if s, ok := obj[field].(string); ok {
			v := strings.ToLower(strings.TrimSpace(s))
			for _, r := range rules {
				if strings.HasPrefix(v, r.Match) {
					obj[field] = r.Value
					break
				}
			}
		}
	}

	for _, field := range aliases.Upper {
		if s, ok := obj[field].(string); ok {
			obj[field] = strings.ToUpper(strings.TrimSpace(s))
		}
	}
	for _, field := range aliases.Lower {
		if s, ok := obj[field].(string); ok {
			obj[field] = strings.ToLower(strings.TrimSpace(s))
		}
	}

	for k, v := range defaults {
		if _, ok := obj[k]; !ok {
			obj[k] = v
		}
	}
}
