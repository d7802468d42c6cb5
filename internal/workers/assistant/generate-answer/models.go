// internal/workers/assistant/generate-answer/models.go
package generateanswer

import "childcare-assistant/internal/models"

type Input struct {
	Intent       models.Intent             `json:"intent"`
	Jurisdiction string                    `json:"jurisdiction"`
	Question     string                    `json:"question"`
	Documents    []models.EvidenceDocument `json:"documents"`
}

type Output struct {
	Raw string `json:"raw"`
}
