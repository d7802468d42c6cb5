// internal/workers/assistant/retrieve-evidence/models.go
package retrieveevidence

import "childcare-assistant/internal/models"

type Input struct {
	Jurisdiction   string        `json:"jurisdiction"`
	Intent         models.Intent `json:"intent"`
	AllowedIntents []string      `json:"allowedIntents,omitempty"`
	Query          string        `json:"query"`
	K              int           `json:"k,omitempty"`
	IgnoreIntent   bool          `json:"ignoreIntent,omitempty"`
}

type Output struct {
	Documents []models.EvidenceDocument `json:"documents"`
	Sources   []models.Source           `json:"sources"`
}
