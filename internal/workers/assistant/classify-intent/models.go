// internal/workers/assistant/classify-intent/models.go
package classifyintent

import "childcare-assistant/internal/models"

type Input struct {
	Message      string `json:"message"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
	Intent       string `json:"intent,omitempty"` // explicit override
}

type Output struct {
	Intent       models.Intent `json:"intent"`
	Jurisdiction string        `json:"jurisdiction"`
	Overridden   bool          `json:"overridden"`
}
