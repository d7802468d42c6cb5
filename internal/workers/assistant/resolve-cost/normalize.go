// internal/workers/assistant/resolve-cost/normalize.go
package resolvecost

import (
	"regexp"
	"strings"

	"childcare-assistant/internal/models"
)

var (
	infantPattern    = regexp.MustCompile(`infant`)
	toddlerPattern   = regexp.MustCompile(`toddler`)
	preschoolPattern = regexp.MustCompile(`pre[-\s]?school`)
	schoolAgePattern = regexp.MustCompile(`school[-\s_]?age`)
	mixedPattern     = regexp.MustCompile(`mixed|all[-\s]?ages`)

	monthlyPattern = regexp.MustCompile(`(?i)month|monthly|per\s*month`)
	countyPattern  = regexp.MustCompile(`\b([a-z]+)\s+county\b`)
)

// NormalizeAge folds an age label onto a band. Unknown labels report false
// so the caller leaves the filter unset.
func NormalizeAge(s string) (models.AgeBand, bool) {
	v := strings.ToLower(s)
	switch {
	case v == "":
		return "", false
	case infantPattern.MatchString(v):
		return models.AgeInfant, true
	case toddlerPattern.MatchString(v):
		return models.AgeToddler, true
	case preschoolPattern.MatchString(v):
		return models.AgePreschool, true
	case schoolAgePattern.MatchString(v):
		return models.AgeSchoolAge, true
	case mixedPattern.MatchString(v):
		return models.AgeMixed, true
	}
	return "", false
}

// NormalizeSetting maps "home", "fcc" and "family" to family.
func NormalizeSetting(s string) (models.CareSetting, bool) {
	v := strings.ToLower(s)
	switch {
	case v == "":
		return "", false
	case strings.Contains(v, "center"), strings.Contains(v, "centre"):
		return models.SettingCenter, true
	case strings.Contains(v, "home"), strings.Contains(v, "family"), strings.Contains(v, "fcc"):
		return models.SettingFamily, true
	}
	return "", false
}

func NormalizeMetric(s string) string {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "p75" || strings.Contains(v, "75th") {
		return "p75"
	}
	return "median"
}

func NormalizeUnits(s string) string {
	if monthlyPattern.MatchString(s) {
		return "monthly"
	}
	return "weekly"
}

// CountyHint extracts a "<name> county" phrase from free text, lower-cased.
func CountyHint(message string) string {
	m := countyPattern.FindStringSubmatch(strings.ToLower(message))
	if m == nil {
		return ""
	}
	return m[1] + " county"
}
