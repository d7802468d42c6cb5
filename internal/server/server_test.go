package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "childcare-assistant/internal/common/errors"
	"childcare-assistant/internal/common/logger"
	"childcare-assistant/internal/models"
)

// ==========================
// Mocks
// ==========================

type MockAnswerer struct {
	mock.Mock
}

func (m *MockAnswerer) Answer(ctx context.Context, req *models.ChatRequest) *models.Envelope {
	args := m.Called(ctx, req)
	return args.Get(0).(*models.Envelope)
}

type readyFunc func(ctx context.Context) error

func (f readyFunc) Ready(ctx context.Context) error { return f(ctx) }

func strPtr(s string) *string { return &s }

func newTestServer(t *testing.T, answerer Answerer, ready ReadinessChecker) http.Handler {
	return New(answerer, ready, logger.NewTestLogger(t)).Handler()
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// ==========================
// /chat
// ==========================

func TestChat_NormalizesAliases(t *testing.T) {
	answerer := new(MockAnswerer)
	answerer.On("Answer", mock.Anything, mock.MatchedBy(func(req *models.ChatRequest) bool {
		return req.Message == "how much is infant care?" &&
			req.Jurisdiction == "PA" &&
			req.Hints.SubRegionCode == "42003" &&
			req.Hints.Age == "Infant" &&
			req.Hints.Units == "weekly" &&
			req.RequestID != ""
	})).Return(&models.Envelope{Intent: models.IntentCost, Answer: strPtr("ok")})

	h := newTestServer(t, answerer, nil)
	rec := post(h, `{"query":"how much is infant care?","state":"pa","county_fips":"42003","age_group":"Infant","period":"weekly"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	answerer.AssertExpectations(t)
}

func TestChat_MessageWinsOverQueryAndInput(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "message", body: `{"message":"a","query":"b","input":"c"}`, want: "a"},
		{name: "query", body: `{"query":"b","input":"c"}`, want: "b"},
		{name: "input", body: `{"input":"c"}`, want: "c"},
		{name: "blank message falls through", body: `{"message":"  ","input":"c"}`, want: "c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body chatBody
			require.NoError(t, json.Unmarshal([]byte(tt.body), &body))
			assert.Equal(t, tt.want, body.normalize().Message)
		})
	}
}

func TestChat_KeepsCallerRequestID(t *testing.T) {
	answerer := new(MockAnswerer)
	answerer.On("Answer", mock.Anything, mock.MatchedBy(func(req *models.ChatRequest) bool {
		return req.RequestID == "abc-123"
	})).Return(&models.Envelope{Intent: models.IntentGeneral, Answer: strPtr("hi")})

	h := newTestServer(t, answerer, nil)
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hello"}`))
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
	answerer.AssertExpectations(t)
}

func TestChat_InvalidJSON(t *testing.T) {
	answerer := new(MockAnswerer)
	rec := post(newTestServer(t, answerer, nil), `{"message":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	answerer.AssertNotCalled(t, "Answer", mock.Anything, mock.Anything)
}

func TestChat_StatusMapping(t *testing.T) {
	tests := []struct {
		kind apperrors.ErrorCode
		want int
	}{
		{apperrors.ErrCodeInputInvalid, http.StatusBadRequest},
		{apperrors.ErrCodeSubRegionNotFound, http.StatusBadRequest},
		{apperrors.ErrCodePriceNotFound, http.StatusNotFound},
		{apperrors.ErrCodeParseError, http.StatusUnprocessableEntity},
		{apperrors.ErrCodeSchemaError, http.StatusUnprocessableEntity},
		{apperrors.ErrCodeUpstreamFailure, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			env := &models.Envelope{Intent: models.IntentCost, Error: "failed", Kind: string(tt.kind)}
			answerer := new(MockAnswerer)
			answerer.On("Answer", mock.Anything, mock.Anything).Return(env)

			rec := post(newTestServer(t, answerer, nil), `{"message":"x"}`)
			assert.Equal(t, tt.want, rec.Code)

			var got map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, "failed", got["error"])
			assert.NotContains(t, got, "Kind")
		})
	}

	assert.Equal(t, http.StatusOK, StatusFor(&models.Envelope{}))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(nil))
}

func TestChat_RecoversFromPanic(t *testing.T) {
	answerer := new(MockAnswerer)
	answerer.On("Answer", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		panic("boom")
	}).Return(&models.Envelope{})

	rec := post(newTestServer(t, answerer, nil), `{"message":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// ==========================
// Health, readiness, metrics
// ==========================

func TestHealthAndReady(t *testing.T) {
	var readyErr error
	h := newTestServer(t, new(MockAnswerer), readyFunc(func(context.Context) error { return readyErr }))

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	assert.Equal(t, http.StatusOK, get("/health").Code)
	assert.Equal(t, http.StatusOK, get("/ready").Code)

	readyErr = errors.New("postgres down")
	rec := get("/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "postgres down")

	metrics := get("/metrics")
	assert.Equal(t, http.StatusOK, metrics.Code)
}

func TestChat_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t, new(MockAnswerer), nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
