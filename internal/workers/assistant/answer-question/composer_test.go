package answerquestion

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "childcare-assistant/internal/common/errors"
	"childcare-assistant/internal/models"
	validateoutput "childcare-assistant/internal/workers/assistant/validate-output"
)

func TestScaffoldEligibility(t *testing.T) {
	t.Run("fills empty fields for PA", func(t *testing.T) {
		data := map[string]interface{}{"summary": " ", "clarifying_questions": []interface{}{}}
		ScaffoldEligibility(models.IntentCheckEligibility, "pa", data)

		assert.Equal(t, eligibilitySummary, data["summary"])
		assert.Equal(t, "uncertain", data["estimated_fit"])
		assert.Equal(t, eligibilityAnswer, data["answer"])
		assert.Len(t, data["clarifying_questions"], 8)
	})

	t.Run("keeps model values", func(t *testing.T) {
		data := map[string]interface{}{
			"summary":              "Likely eligible below 200% FPL.",
			"estimated_fit":        "likely",
			"clarifying_questions": []interface{}{"How many children?"},
		}
		ScaffoldEligibility(models.IntentCheckEligibility, "PA", data)

		assert.Equal(t, "Likely eligible below 200% FPL.", data["summary"])
		assert.Equal(t, "likely", data["estimated_fit"])
		assert.Equal(t, []interface{}{"How many children?"}, data["clarifying_questions"])
	})

	t.Run("other jurisdictions and intents untouched", func(t *testing.T) {
		wv := map[string]interface{}{}
		ScaffoldEligibility(models.IntentCheckEligibility, "WV", wv)
		assert.Empty(t, wv)

		rule := map[string]interface{}{}
		ScaffoldEligibility(models.IntentLookupRule, "PA", rule)
		assert.Empty(t, rule)
	})
}

func TestCompose(t *testing.T) {
	sources := []models.Source{{Title: "Chapter 3270", URL: "https://www.pacodeandbulletin.gov/"}}

	t.Run("object answer", func(t *testing.T) {
		env := Compose(models.IntentLookupRule, "PA", &validateoutput.Result{
			OK:   true,
			Data: map[string]interface{}{"answer": "1:4", "citations": []interface{}{"55 Pa. Code § 3270.51", 7}},
		}, sources)

		require.NotNil(t, env.Answer)
		assert.Equal(t, "1:4", *env.Answer)
		assert.Equal(t, []string{"55 Pa. Code § 3270.51"}, env.Citations)
		assert.Equal(t, sources, env.Sources)
		assert.False(t, env.Failed())
	})

	t.Run("object without answer", func(t *testing.T) {
		env := Compose(models.IntentExplainProcess, "PA", &validateoutput.Result{
			OK:   true,
			Data: map[string]interface{}{"steps": []interface{}{"Apply"}, "citations": []interface{}{"x"}},
		}, nil)
		assert.Nil(t, env.Answer)
		assert.NotNil(t, env.Sources)
	})

	t.Run("prose carrying json", func(t *testing.T) {
		env := Compose(models.IntentDocumentation, "PA", &validateoutput.Result{
			OK:   true,
			Data: "```json\n{\"answer\":\"See the provider handbook.\",\"citations\":[\"https://www.dhs.pa.gov\"]}\n```",
		}, sources)
		require.NotNil(t, env.Answer)
		assert.Equal(t, "See the provider handbook.", *env.Answer)
		assert.Equal(t, []string{"https://www.dhs.pa.gov"}, env.Citations)
	})

	t.Run("rejected output", func(t *testing.T) {
		env := Compose(models.IntentContactHelp, "PA", &validateoutput.Result{
			ErrorKind: apperrors.ErrCodeParseError,
			Error:     "JSON parse failed",
			Raw:       "not json",
		}, sources)
		assert.True(t, env.Failed())
		assert.Equal(t, "PARSE_ERROR", env.Kind)
		assert.Equal(t, "not json", env.Raw)
		assert.Equal(t, sources, env.Sources)
		assert.Nil(t, env.Data)
	})
}

func TestErrorEnvelope(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantKind  string
		wantError string
	}{
		{"plain error", errors.New("dial tcp: refused"), "UPSTREAM_FAILURE", upstreamMessage},
		{"upstream", apperrors.NewUpstreamFailureError("completion", errors.New("503")), "UPSTREAM_FAILURE", upstreamMessage},
		{"internal code", &apperrors.StandardError{Code: apperrors.ErrCodeInternal, Message: "boom"}, "UPSTREAM_FAILURE", upstreamMessage},
		{"price not found", apperrors.NewPriceNotFoundError("Erie County", "PA"), "PRICE_NOT_FOUND", "No NDCP price rows found for Erie County, PA."},
		{"input", apperrors.NewInputInvalidError("message is empty"), "INPUT_INVALID", "message (or query/input) is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := errorEnvelope(models.IntentCost, tt.err)
			assert.Equal(t, tt.wantKind, env.Kind)
			assert.Equal(t, tt.wantError, env.Error)
			assert.Equal(t, models.IntentCost, env.Intent)
			assert.NotNil(t, env.Citations)
		})
	}
}
