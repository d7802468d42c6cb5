// internal/models/intent.go
package models

import "strings"

// Intent is the symbolic category of a user request. It selects both the
// retrieval scope and the output schema.
type Intent string

const (
	IntentCost             Intent = "COST"
	IntentFindProvider     Intent = "FIND_PROVIDER"
	IntentCheckEligibility Intent = "CHECK_ELIGIBILITY"
	IntentLookupRule       Intent = "LOOKUP_RULE"
	IntentExplainProcess   Intent = "EXPLAIN_PROCESS"
	IntentProgramInfo      Intent = "PROGRAM_INFO"
	IntentContactHelp      Intent = "CONTACT_HELP"
	IntentDocumentation    Intent = "DOCUMENTATION"
	IntentGeneral          Intent = "GENERAL"
)

// AllIntents lists every intent in classification precedence order.
var AllIntents = []Intent{
	IntentDocumentation,
	IntentCost,
	IntentFindProvider,
	IntentCheckEligibility,
	IntentLookupRule,
	IntentExplainProcess,
	IntentProgramInfo,
	IntentContactHelp,
	IntentGeneral,
}

// legacy client names
var intentAliases = map[string]Intent{
	"LOOKUP_PROVIDER": IntentFindProvider,
	"DOCUMENTS":       IntentDocumentation,
}

func (i Intent) String() string { return string(i) }

// Valid reports whether i is a member of the closed intent set.
func (i Intent) Valid() bool {
	for _, known := range AllIntents {
		if i == known {
			return true
		}
	}
	return false
}

// ParseIntent maps a client-supplied override onto an Intent.
func ParseIntent(s string) (Intent, bool) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "" {
		return "", false
	}
	if alias, ok := intentAliases[v]; ok {
		return alias, true
	}
	i := Intent(v)
	return i, i.Valid()
}
