package retrieveevidence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "childcare-assistant/internal/common/errors"
	"childcare-assistant/internal/models"
)

func createTestConfig() *Config {
	return &Config{
		TopK:    5,
		Timeout: time.Second,
	}
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name        string
		input       *Input
		wantIntents []string
		wantK       int
	}{
		{
			name:        "intent scoped with default k",
			input:       &Input{Jurisdiction: "pa", Intent: models.IntentProgramInfo, Query: "keystone stars"},
			wantIntents: []string{"PROGRAM_INFO"},
			wantK:       5,
		},
		{
			name:        "documentation intent ignores intent filter",
			input:       &Input{Jurisdiction: "PA", Intent: models.IntentDocumentation, Query: "keystone stars"},
			wantIntents: nil,
			wantK:       5,
		},
		{
			name:        "explicit k",
			input:       &Input{Jurisdiction: "PA", Intent: models.IntentProgramInfo, Query: "keystone stars", K: 3},
			wantIntents: []string{"PROGRAM_INFO"},
			wantK:       3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockStore)
			emb := new(MockEmbedder)
			emb.On("Embed", mock.Anything, "keystone stars").Return(vec, nil)
			store.On("SimilaritySearch", mock.Anything, "PA", tt.wantIntents, vec, tt.wantK).
				Return([]models.EvidenceDocument{ranked(1, "PA", 0.9), ranked(2, "PA", 0.8)}, nil)

			h := NewHandler(createTestConfig(), NewEngine(emb, store, nil, 12, createTestLogger(t)), createTestLogger(t))
			out, err := h.Execute(context.Background(), tt.input)

			require.NoError(t, err)
			assert.Len(t, out.Documents, 2)
			assert.Equal(t, []models.Source{
				{Title: "doc", URL: "https://example.org/doc"},
				{Title: "doc", URL: "https://example.org/doc"},
			}, out.Sources)
			store.AssertExpectations(t)
		})
	}
}

func TestHandler_Execute_DocumentationRetryAsksForMore(t *testing.T) {
	store := new(MockStore)
	emb := new(MockEmbedder)
	broadVec := []float64{0.9, 0.9, 0.9}
	emb.On("Embed", mock.Anything, "ccw manual").Return(vec, nil)
	emb.On("Embed", mock.Anything, BroadenQuery("ccw manual")).Return(broadVec, nil)
	store.On("SimilaritySearch", mock.Anything, "PA", []string(nil), vec, 5).
		Return([]models.EvidenceDocument{ranked(1, "PA", 0.8)}, nil)
	store.On("SimilaritySearch", mock.Anything, "PA", []string(nil), broadVec, 12).
		Return([]models.EvidenceDocument{ranked(1, "PA", 0.8), ranked(2, "PA", 0.7)}, nil)

	h := NewHandler(createTestConfig(), NewEngine(emb, store, nil, 12, createTestLogger(t)), createTestLogger(t))
	out, err := h.Execute(context.Background(), &Input{Jurisdiction: "PA", Intent: models.IntentDocumentation, Query: "ccw manual"})

	require.NoError(t, err)
	assert.Len(t, out.Documents, 2)
	store.AssertExpectations(t)
}

func TestHandler_Execute_InvalidInput(t *testing.T) {
	h := NewHandler(createTestConfig(), NewEngine(new(MockEmbedder), new(MockStore), nil, 12, createTestLogger(t)), createTestLogger(t))

	for _, in := range []*Input{nil, {Jurisdiction: "PA", Query: "  "}, {Query: "q"}} {
		_, err := h.Execute(context.Background(), in)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeInputInvalid))
	}
}
