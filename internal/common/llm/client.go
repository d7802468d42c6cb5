// Package llm adapts the embedding and completion SDKs to the two narrow
// interfaces the pipeline depends on.
package llm

import (
	"context"
	"fmt"
	"net/http"

	"childcare-assistant/internal/common/config"
)

// Embedder turns text into a dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Completer returns the model's raw text for a system and user prompt.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type jsonModeKey struct{}

// WithJSONOutput asks completers that support it to constrain output to a
// JSON object.
func WithJSONOutput(ctx context.Context) context.Context {
	return context.WithValue(ctx, jsonModeKey{}, true)
}

func WantsJSON(ctx context.Context) bool {
	v, _ := ctx.Value(jsonModeKey{}).(bool)
	return v
}

// NewCompleter builds the completer selected by apis.completion_provider.
func NewCompleter(ctx context.Context, cfg config.APIsConfig, httpClient *http.Client) (Completer, error) {
	switch cfg.CompletionProvider {
	case "", "openai":
		return NewOpenAI(cfg.OpenAI, httpClient), nil
	case "genai":
		return NewGenAI(ctx, cfg.GenAI, httpClient)
	case "anthropic":
		return NewAnthropic(cfg.Anthropic, httpClient), nil
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.CompletionProvider)
	}
}
