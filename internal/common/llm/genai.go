package llm

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"childcare-assistant/internal/common/config"
)

type GenAI struct {
	client *genai.Client
	model  string
}

func NewGenAI(ctx context.Context, cfg config.GenAIConfig, httpClient *http.Client) (*GenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("genai api key is required")
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if httpClient != nil {
		cc.HTTPClient = httpClient
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GenAI{client: client, model: cfg.Model}, nil
}

func (c *GenAI) Complete(ctx context.Context, system, user string) (string, error) {
	gc := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		},
		Temperature: genai.Ptr[float32](0.1),
	}
	if WantsJSON(ctx) {
		gc.ResponseMIMEType = "application/json"
	}

	resp, err := c.client.Models.GenerateContent(ctx,
		c.model,
		[]*genai.Content{
			{Parts: []*genai.Part{{Text: user}}, Role: "user"},
		},
		gc,
	)
	if err != nil {
		return "", fmt.Errorf("genai complete: %w", err)
	}
	return resp.Text(), nil
}
