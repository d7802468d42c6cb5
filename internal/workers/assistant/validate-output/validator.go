// internal/workers/assistant/validate-output/validator.go
package validateoutput

import (
	"encoding/json"
	"fmt"

	apperrors "childcare-assistant/internal/common/errors"
	"childcare-assistant/internal/common/metrics"
	"childcare-assistant/internal/common/validation"
	"childcare-assistant/internal/models"
	"childcare-assistant/pkg/registry"
)

// MaxIssues caps the diagnostics returned for a schema failure.
const MaxIssues = 10

type Validator struct {
	registry *registry.Registry
}

func NewValidator(reg *registry.Registry) *Validator {
	return &Validator{registry: reg}
}

// Validate turns raw model text into a schema-conformant object. Intents the
// registry has no schema for pass raw through untouched. Nothing is retried
// here; a failed Result carries the cleaned text for diagnosis.
func (v *Validator) Validate(intent models.Intent, raw string) (*Result, error) {
	entry, ok := v.registry.Lookup(intent.String())
	if !ok {
		return &Result{OK: true, Data: raw, Raw: raw}, nil
	}

	cleaned := Repair(Extract(raw))

	var doc interface{}
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		metrics.ValidationFailures.WithLabelValues(intent.String(), "parse").Inc()
		return &Result{
			ErrorKind: apperrors.ErrCodeParseError,
			Error:     "JSON parse failed",
			Raw:       cleaned,
		}, nil
	}
	obj, ok := doc.(map[string]interface{})
	if !ok {
		metrics.ValidationFailures.WithLabelValues(intent.String(), "schema").Inc()
		return &Result{
			ErrorKind: apperrors.ErrCodeSchemaError,
			Error:     "Schema validation failed",
			Issues:    []string{"(root): expected object"},
			Raw:       cleaned,
		}, nil
	}

	Canonicalize(obj, entry.Aliases, entry.Defaults())

	res, err := validation.Validate(entry.Schema(), obj)
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", intent, err)
	}
	if !res.Valid {
		metrics.ValidationFailures.WithLabelValues(intent.String(), "schema").Inc()
		return &Result{
			ErrorKind: apperrors.ErrCodeSchemaError,
			Error:     "Schema validation failed",
			Issues:    res.Summary(MaxIssues),
			Raw:       cleaned,
		}, nil
	}

	// keys outside the schema are dropped
	for k := range obj {
		if !entry.HasProperty(k) {
			delete(obj, k)
		}
	}
	return &Result{OK: true, Data: obj}, nil
}
