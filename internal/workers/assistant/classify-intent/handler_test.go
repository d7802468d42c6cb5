package classifyintent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	apperrors "childcare-assistant/internal/common/errors"
	"childcare-assistant/internal/common/logger"
	"childcare-assistant/internal/models"
)

func createTestConfig() *Config {
	return &Config{
		DefaultJurisdiction: "PA",
		Timeout:             time.Second,
	}
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

// ==========================
// Rule Precedence Tests
// ==========================

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.Intent
	}{
		{name: "zip code alone", text: "anything at 15401?", want: models.IntentFindProvider},
		{name: "near", text: "Daycare near me", want: models.IntentFindProvider},
		{name: "documentation beats cost", text: "Where is the subsidy manual that lists the rates?", want: models.IntentDocumentation},
		{name: "statute identifier", text: "show me 55 Pa. Code Chapter 3042", want: models.IntentDocumentation},
		{name: "price noun", text: "What does infant care cost in Fayette County?", want: models.IntentCost},
		{name: "cost beats provider setting word", text: "median weekly price for a center", want: models.IntentCost},
		{name: "currency pattern", text: "is $250 normal for toddlers", want: models.IntentCost},
		{name: "rate pattern", text: "they want 300 per week", want: models.IntentCost},
		{name: "cost beats zip", text: "tuition around 15222", want: models.IntentCost},
		{name: "eligibility", text: "Am I eligible for a subsidy?", want: models.IntentCheckEligibility},
		{name: "required documents are eligibility", text: "What documents do I need to apply for assistance?", want: models.IntentCheckEligibility},
		{name: "policy documents", text: "Where are the policy documents for providers?", want: models.IntentDocumentation},
		{name: "rule lookup", text: "What is the staff ratio for toddlers?", want: models.IntentLookupRule},
		{name: "section sign", text: "explain §3042.31", want: models.IntentLookupRule},
		{name: "process", text: "How to renew my certificate", want: models.IntentExplainProcess},
		{name: "program", text: "What is Keystone STARS?", want: models.IntentProgramInfo},
		{name: "contact", text: "Who do I call at the regional office?", want: models.IntentContactHelp},
		{name: "general", text: "hello there", want: models.IntentGeneral},
		{name: "empty", text: "", want: models.IntentGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestRules_Order(t *testing.T) {
	want := []models.Intent{
		models.IntentDocumentation,
		models.IntentCost,
		models.IntentFindProvider,
		models.IntentCheckEligibility,
		models.IntentLookupRule,
		models.IntentExplainProcess,
		models.IntentProgramInfo,
		models.IntentContactHelp,
	}
	got := make([]models.Intent, 0, len(Rules))
	for _, r := range Rules {
		got = append(got, r.Intent)
	}
	assert.Equal(t, want, got)
}

func TestDetectJurisdiction(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"infant care prices in WV", "WV"},
		{"daycare in pittsburgh", "PA"}, // "in" is a word, not Indiana
		{"daycare in IN", "IN"},
		{"rules for ny programs", "NY"},
		{"", "PA"},
		{"me or you", "PA"},
		{"Daycare In Pittsburgh", "PA"},
		{"FIND CHILDCARE IN PITTSBURGH", "PA"},
		{"FIND CHILDCARE IN WV", "WV"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectJurisdiction(tt.text, "PA"), tt.text)
	}
}

// ==========================
// Handler Execute Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	h := NewHandler(createTestConfig(), createTestLogger(t))

	tests := []struct {
		name             string
		input            *Input
		wantIntent       models.Intent
		wantJurisdiction string
		wantOverridden   bool
	}{
		{
			name:             "classified with default jurisdiction",
			input:            &Input{Message: "find daycare near 15401"},
			wantIntent:       models.IntentFindProvider,
			wantJurisdiction: "PA",
		},
		{
			name:             "jurisdiction detected from text",
			input:            &Input{Message: "licensing ratio rules in WV"},
			wantIntent:       models.IntentLookupRule,
			wantJurisdiction: "WV",
		},
		{
			name:             "explicit jurisdiction wins",
			input:            &Input{Message: "licensing ratio rules in WV", Jurisdiction: "oh"},
			wantIntent:       models.IntentLookupRule,
			wantJurisdiction: "OH",
		},
		{
			name:             "override with legacy name",
			input:            &Input{Message: "anything", Intent: "lookup_provider"},
			wantIntent:       models.IntentFindProvider,
			wantJurisdiction: "PA",
			wantOverridden:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := h.Execute(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantIntent, out.Intent)
			assert.Equal(t, tt.wantJurisdiction, out.Jurisdiction)
			assert.Equal(t, tt.wantOverridden, out.Overridden)
		})
	}
}

func TestHandler_Execute_UnknownOverride(t *testing.T) {
	h := NewHandler(createTestConfig(), createTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{Message: "x", Intent: "WEATHER"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInputInvalid))

	_, err = h.Execute(context.Background(), nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInputInvalid))
}
