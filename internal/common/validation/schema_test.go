package validation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

const ruleSchema = `{
  "type": "object",
  "properties": {
    "answer": { "type": "string" },
    "citations": { "type": "array", "items": { "type": "string" }, "minItems": 1 },
    "links": { "type": "array", "items": { "type": "string", "format": "uri" } }
  },
  "required": ["answer", "citations"]
}`

func compile(t *testing.T, schemaJSON string) *gojsonschema.Schema {
	t.Helper()
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	require.NoError(t, err)
	return schema
}

func TestValidate(t *testing.T) {
	schema := compile(t, ruleSchema)

	tests := []struct {
		name      string
		doc       map[string]interface{}
		wantValid bool
		wantField string
		wantCode  string
	}{
		{
			name:      "valid",
			doc:       map[string]interface{}{"answer": "ok", "citations": []interface{}{"a"}},
			wantValid: true,
		},
		{
			name:     "missing required",
			doc:      map[string]interface{}{"citations": []interface{}{"a"}},
			wantCode: "required",
		},
		{
			name:      "empty citations",
			doc:       map[string]interface{}{"answer": "ok", "citations": []interface{}{}},
			wantField: "citations",
		},
		{
			name:      "bad uri",
			doc:       map[string]interface{}{"answer": "ok", "citations": []interface{}{"a"}, "links": []interface{}{"not a url"}},
			wantField: "links.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Validate(schema, tt.doc)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, res.Valid)
			if tt.wantField != "" {
				require.NotEmpty(t, res.Errors)
				assert.Equal(t, tt.wantField, res.Errors[0].Field, "errors: %v", res.GetErrorMessages())
			}
			if tt.wantCode != "" {
				require.NotEmpty(t, res.Errors)
				assert.Equal(t, tt.wantCode, res.Errors[0].Code)
			}
		})
	}
}

func TestGetErrorMessages(t *testing.T) {
	res, err := Validate(compile(t, ruleSchema), map[string]interface{}{"answer": 3, "citations": []interface{}{"a"}})
	require.NoError(t, err)
	require.False(t, res.Valid)
	msgs := res.GetErrorMessages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "answer: Invalid type")
}

func TestSummary_Caps(t *testing.T) {
	res := &ValidationResult{}
	for i := 0; i < 15; i++ {
		res.Errors = append(res.Errors, ValidationError{Field: fmt.Sprintf("f%d", i), Message: "bad"})
	}
	summary := res.Summary(10)
	assert.Len(t, summary, 10)
	assert.Equal(t, "f0: bad", summary[0])
	assert.Len(t, res.Summary(0), 15)
}
