// internal/workers/assistant/answer-question/models.go
package answerquestion

import "childcare-assistant/internal/models"

type Input = models.ChatRequest

type Output struct {
	RequestID string           `json:"requestId"`
	Envelope  *models.Envelope `json:"envelope"`
}
