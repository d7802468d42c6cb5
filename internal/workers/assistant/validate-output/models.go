// internal/workers/assistant/validate-output/models.go
package validateoutput

import (
	apperrors "childcare-assistant/internal/common/errors"
	"childcare-assistant/internal/models"
)

type Input struct {
	Intent models.Intent `json:"intent"`
	Raw    string        `json:"raw"`
}

// Result is either OK with Data, or a PARSE_ERROR / SCHEMA_ERROR with Issues
// and the cleaned Raw text. Data is the canonical object, or the raw string
// for intents without a schema.
type Result struct {
	OK        bool                `json:"ok"`
	Data      interface{}         `json:"data,omitempty"`
	ErrorKind apperrors.ErrorCode `json:"errorKind,omitempty"`
	Error     string              `json:"error,omitempty"`
	Issues    []string            `json:"issues,omitempty"`
	Raw       string              `json:"raw,omitempty"`
}
