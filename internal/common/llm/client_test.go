package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"childcare-assistant/internal/common/config"
)

// ==========================
// Test Helper Functions
// ==========================

func newOpenAIServer(t *testing.T, captured *map[string]interface{}) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if captured != nil {
			_ = json.Unmarshal(body, captured)
		}
		w.Header().Set("Content-Type", "application/json")

		switch {
		case strings.HasSuffix(r.URL.Path, "/embeddings"):
			_, _ = w.Write([]byte(`{"object":"list","model":"text-embedding-3-large",
				"data":[{"object":"embedding","index":0,"embedding":[0.25,-0.5,1]}],
				"usage":{"prompt_tokens":3,"total_tokens":3}}`))
		case strings.HasSuffix(r.URL.Path, "/chat/completions"):
			_, _ = w.Write([]byte(`{"id":"cmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
				"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{\"answer\":\"1:4\"}"}}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func createOpenAIConfig(baseURL string) config.OpenAIConfig {
	return config.OpenAIConfig{
		APIKey:              "test-key",
		BaseURL:             baseURL,
		ChatModel:           "gpt-4o-mini",
		EmbeddingModel:      "text-embedding-3-large",
		EmbeddingDimensions: 3,
		Temperature:         0.1,
	}
}

// ==========================
// OpenAI
// ==========================

func TestOpenAI_Embed(t *testing.T) {
	var req map[string]interface{}
	srv := newOpenAIServer(t, &req)
	defer srv.Close()

	client := NewOpenAI(createOpenAIConfig(srv.URL), srv.Client())
	vec, err := client.Embed(context.Background(), "infant ratio in PA")

	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, -0.5, 1}, vec)
	assert.Equal(t, "text-embedding-3-large", req["model"])
	assert.Equal(t, "infant ratio in PA", req["input"])
	assert.EqualValues(t, 3, req["dimensions"])
	assert.Equal(t, "text-embedding-3-large", client.EmbeddingModel())
}

func TestOpenAI_Complete(t *testing.T) {
	var req map[string]interface{}
	srv := newOpenAIServer(t, &req)
	defer srv.Close()

	client := NewOpenAI(createOpenAIConfig(srv.URL), srv.Client())
	out, err := client.Complete(WithJSONOutput(context.Background()), "system prompt", "user prompt")

	require.NoError(t, err)
	assert.Equal(t, `{"answer":"1:4"}`, out)
	assert.Equal(t, "gpt-4o-mini", req["model"])
	assert.InDelta(t, 0.1, req["temperature"], 1e-9)

	msgs, ok := req["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]interface{})["role"])
	assert.Equal(t, "user", msgs[1].(map[string]interface{})["role"])

	format, ok := req["response_format"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "json_object", format["type"])
}

func TestOpenAI_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	}))
	defer srv.Close()

	client := NewOpenAI(createOpenAIConfig(srv.URL), srv.Client())
	_, err := client.Embed(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai embed")
}

// ==========================
// Anthropic
// ==========================

func TestAnthropic_Complete_ConcatenatesTextBlocks(t *testing.T) {
	var req map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &req)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-3-5-haiku-latest",
			"content":[{"type":"text","text":"{\"steps\":"},{"type":"text","text":"[]}"}],
			"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":5}}`))
	}))
	defer srv.Close()

	client := NewAnthropic(config.AnthropicConfig{
		APIKey:    "test-key",
		BaseURL:   srv.URL,
		Model:     "claude-3-5-haiku-latest",
		MaxTokens: 256,
	}, srv.Client())

	out, err := client.Complete(context.Background(), "be a guide", "how do I renew?")
	require.NoError(t, err)
	assert.Equal(t, `{"steps":[]}`, out)
	assert.EqualValues(t, 256, req["max_tokens"])
	assert.Equal(t, "claude-3-5-haiku-latest", req["model"])
}

// ==========================
// GenAI
// ==========================

func TestGenAI_Complete(t *testing.T) {
	var req map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &req)
		assert.Contains(t, r.URL.Path, "gemini-2.0-flash:generateContent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"overview\":\"Keystone STARS\"}"}]}}]}`))
	}))
	defer srv.Close()

	client, err := NewGenAI(context.Background(), config.GenAIConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "gemini-2.0-flash",
	}, srv.Client())
	require.NoError(t, err)

	out, err := client.Complete(WithJSONOutput(context.Background()), "explain", "what is keystone stars")
	require.NoError(t, err)
	assert.Equal(t, `{"overview":"Keystone STARS"}`, out)

	gen, ok := req["generationConfig"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "application/json", gen["responseMimeType"])
}

func TestNewGenAI_RequiresKey(t *testing.T) {
	_, err := NewGenAI(context.Background(), config.GenAIConfig{}, nil)
	assert.Error(t, err)
}

// ==========================
// Provider selection
// ==========================

func TestNewCompleter(t *testing.T) {
	cfg := config.APIsConfig{
		OpenAI:    createOpenAIConfig("http://localhost"),
		GenAI:     config.GenAIConfig{APIKey: "k", Model: "gemini-2.0-flash"},
		Anthropic: config.AnthropicConfig{APIKey: "k", Model: "claude", MaxTokens: 10},
	}

	tests := []struct {
		provider string
		wantType interface{}
		wantErr  bool
	}{
		{provider: "", wantType: &OpenAI{}},
		{provider: "openai", wantType: &OpenAI{}},
		{provider: "genai", wantType: &GenAI{}},
		{provider: "anthropic", wantType: &Anthropic{}},
		{provider: "llama", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg.CompletionProvider = tt.provider
			c, err := NewCompleter(context.Background(), cfg, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, c)
		})
	}
}
