package findproviders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	apperrors "childcare-assistant/internal/common/errors"
	"childcare-assistant/internal/common/logger"
	"childcare-assistant/internal/models"
)

// ==========================
// Mock Searcher
// ==========================

type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) SearchProviders(ctx context.Context, jurisdiction, place string, limit int) ([]models.Provider, error) {
	args := m.Called(ctx, jurisdiction, place, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Provider), args.Error(1)
}

func createTestHandler(t *testing.T, searcher ProviderSearcher) *Handler {
	return NewHandler(&Config{Limit: 10, Timeout: time.Second}, searcher, logger.NewZapAdapter(zaptest.NewLogger(t)))
}

// ==========================
// Place Tests
// ==========================

func TestPlace(t *testing.T) {
	tests := []struct {
		name      string
		cityOrZip string
		message   string
		want      string
	}{
		{"hint wins", " Erie ", "daycare in Pittsburgh 15213", "Erie"},
		{"zip token", "", "child care centers near 15213 please", "15213"},
		{"six digits is not a zip", "", "ticket 152130", ""},
		{"city after in", "", "Find daycare in Pittsburgh", "Pittsburgh"},
		{"nothing", "", "find a daycare", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Place(tt.cityOrZip, tt.message))
		})
	}
}

func TestAnswer(t *testing.T) {
	assert.Equal(t, "Here are 3 providers in 15213:", Answer(3, "15213"))
	assert.Equal(t, "I couldn’t find providers for “Nowhere”. Try a city like “Pittsburgh” or a 5-digit ZIP.", Answer(0, "Nowhere"))
}

// ==========================
// Handler Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	found := []models.Provider{
		{Name: "Little Steps", City: "Pittsburgh", Zip: "15213", State: "PA"},
		{Name: "Sunny Days", City: "Pittsburgh", Zip: "15213", State: "PA"},
	}

	tests := []struct {
		name       string
		input      *Input
		setupMocks func(*MockSearcher)
		wantErr    apperrors.ErrorCode
		wantPlace  string
		wantCount  int
		wantAnswer string
	}{
		{
			name:  "zip search",
			input: &Input{Jurisdiction: "pa", Message: "daycare near 15213"},
			setupMocks: func(m *MockSearcher) {
				m.On("SearchProviders", mock.Anything, "PA", "15213", 10).Return(found, nil)
			},
			wantPlace:  "15213",
			wantCount:  2,
			wantAnswer: "Here are 2 providers in 15213:",
		},
		{
			name:  "no place names the jurisdiction",
			input: &Input{Jurisdiction: "WV", Message: "find a daycare"},
			setupMocks: func(m *MockSearcher) {
				m.On("SearchProviders", mock.Anything, "WV", "", 10).Return(nil, nil)
			},
			wantPlace:  "WV",
			wantCount:  0,
			wantAnswer: "I couldn’t find providers for “WV”. Try a city like “Pittsburgh” or a 5-digit ZIP.",
		},
		{
			name:       "missing jurisdiction",
			input:      &Input{Message: "daycare in Erie"},
			setupMocks: func(*MockSearcher) {},
			wantErr:    apperrors.ErrCodeInputInvalid,
		},
		{
			name:  "search failure",
			input: &Input{Jurisdiction: "PA", CityOrZip: "Erie"},
			setupMocks: func(m *MockSearcher) {
				m.On("SearchProviders", mock.Anything, "PA", "Erie", 10).Return(nil, errors.New("connection refused"))
			},
			wantErr: apperrors.ErrCodeUpstreamFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := new(MockSearcher)
			tt.setupMocks(searcher)
			h := createTestHandler(t, searcher)

			out, err := h.Execute(context.Background(), tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, apperrors.Is(err, tt.wantErr))
				searcher.AssertExpectations(t)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantPlace, out.Place)
			assert.Len(t, out.Providers, tt.wantCount)
			assert.NotNil(t, out.Providers)
			assert.Equal(t, tt.wantAnswer, out.Answer)
			searcher.AssertExpectations(t)
		})
	}
}
