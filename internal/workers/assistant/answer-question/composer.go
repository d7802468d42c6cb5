// internal/workers/assistant/answer-question/composer.go
package answerquestion

import (
	"encoding/json"
	"strings"

	apperrors "childcare-assistant/internal/common/errors"
	"childcare-assistant/internal/models"
	findproviders "childcare-assistant/internal/workers/assistant/find-providers"
	validateoutput "childcare-assistant/internal/workers/assistant/validate-output"
)

// DefaultEligibilityQuestions are asked when a Pennsylvania eligibility
// answer comes back without its own.
var DefaultEligibilityQuestions = []string{
	"Child’s age (in years and months)",
	"Household size (including the child)",
	"Approximate monthly gross household income",
	"County or ZIP code of residence",
	"Parent/guardian work or school/training status (hours/week)",
	"Does the child have a disability, IEP/IFSP, or special needs?",
	"Current subsidy or waiting list enrollment?",
	"Preferred schedule (full-time/part-time; hours needed)",
}

const (
	eligibilitySummary = "To assess eligibility for Pennsylvania Child Care Works (CCW), please answer the questions below."
	eligibilityAnswer  = "To check eligibility, I need a few details:"

	upstreamMessage = "Upstream service failed"
)

// ScaffoldEligibility fills the empty parts of a validated PA eligibility
// answer. Anything the model supplied is kept.
func ScaffoldEligibility(intent models.Intent, jurisdiction string, data map[string]interface{}) {
	if intent != models.IntentCheckEligibility || !strings.EqualFold(jurisdiction, "PA") {
		return
	}
	if isEmpty(data["clarifying_questions"]) {
		qs := make([]interface{}, len(DefaultEligibilityQuestions))
		for i, q := range DefaultEligibilityQuestions {
			qs[i] = q
		}
		data["clarifying_questions"] = qs
	}
	if isEmpty(data["summary"]) {
		data["summary"] = eligibilitySummary
	}
	if isEmpty(data["estimated_fit"]) {
		data["estimated_fit"] = "uncertain"
	}
	if isEmpty(data["answer"]) {
		data["answer"] = eligibilityAnswer
	}
}

func isEmpty(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []interface{}:
		return len(t) == 0
	case []string:
		return len(t) == 0
	}
	return false
}

// Compose builds the envelope for the generated path. A rejected answer
// becomes a failure envelope that still lists the evidence consulted.
func Compose(intent models.Intent, jurisdiction string, res *validateoutput.Result, sources []models.Source) *models.Envelope {
	if sources == nil {
		sources = []models.Source{}
	}
	env := &models.Envelope{Intent: intent, Citations: []string{}, Sources: sources}

	if !res.OK {
		env.Error = res.Error
		env.Issues = res.Issues
		env.Raw = res.Raw
		env.Kind = string(res.ErrorKind)
		return env
	}

	switch data := res.Data.(type) {
	case map[string]interface{}:
		ScaffoldEligibility(intent, jurisdiction, data)
		if s, ok := data["answer"].(string); ok {
			env.Answer = &s
		}
		env.Citations = stringSlice(data["citations"])
		env.Data = data
	case string:
		answer, citations := proseAnswer(data)
		env.Answer = &answer
		env.Citations = citations
		env.Data = data
	}
	return env
}

// proseAnswer reads the answer out of free text. Models often return JSON
// even when asked for prose; otherwise the text itself is the answer.
func proseAnswer(text string) (string, []string) {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(validateoutput.Repair(validateoutput.Extract(text))), &obj); err == nil {
		if s, ok := obj["answer"].(string); ok && strings.TrimSpace(s) != "" {
			return s, stringSlice(obj["citations"])
		}
	}
	return strings.TrimSpace(text), []string{}
}

func stringSlice(v interface{}) []string {
	out := []string{}
	items, ok := v.([]interface{})
	if !ok {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func costEnvelope(cost *models.CostAnswer) *models.Envelope {
	citations := cost.Citations
	if citations == nil {
		citations = []string{}
	}
	return &models.Envelope{
		Intent:    models.IntentCost,
		Citations: citations,
		Data:      cost,
		Sources:   []models.Source{},
	}
}

func providerEnvelope(res *findproviders.Result) *models.Envelope {
	answer := res.Answer
	return &models.Envelope{
		Intent:    models.IntentFindProvider,
		Answer:    &answer,
		Citations: []string{},
		Sources:   []models.Source{},
		Providers: res.Providers,
	}
}

// errorEnvelope turns a pipeline error into a failure envelope. Lookup and
// input errors keep their guidance text; everything else is reported as a
// single upstream failure.
func errorEnvelope(intent models.Intent, err error) *models.Envelope {
	env := &models.Envelope{
		Intent:    intent,
		Citations: []string{},
		Sources:   []models.Source{},
		Error:     upstreamMessage,
		Kind:      string(apperrors.ErrCodeUpstreamFailure),
	}

	stdErr, ok := apperrors.AsStandard(err)
	if !ok {
		return env
	}
	switch stdErr.Code {
	case apperrors.ErrCodeInputInvalid:
		env.Error = stdErr.Message
		env.Kind = string(stdErr.Code)
		if stdErr.Details != "" {
			env.Issues = []string{stdErr.Details}
		}
	case apperrors.ErrCodeSubRegionNotFound, apperrors.ErrCodePriceNotFound:
		env.Error = stdErr.Message
		env.Kind = string(stdErr.Code)
	}
	return env
}
