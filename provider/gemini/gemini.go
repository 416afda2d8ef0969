package gemini_provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const apiVersion = "v1beta"

// client implements generation using the Gemini generateContent API
type client struct {
	sdk   *genai.Client
	model string
}

// NewGeminiClient creates a new Gemini client. An empty baseURL uses the
// public endpoint.
func NewGeminiClient(apiKey, model, baseURL string, timeout time.Duration) (*client, error) {
	cfg := &genai.ClientConfig{
		APIKey:      strings.TrimSpace(apiKey),
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{APIVersion: apiVersion},
	}
	if base := strings.TrimSpace(baseURL); base != "" {
		cfg.HTTPOptions.BaseURL = strings.TrimRight(base, "/") + "/"
	}
	if timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}
	sdk, err := genai.NewClient(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &client{sdk: sdk, model: model}, nil
}

// Complete sends one prompt. Gemini gets the system and user instructions as
// a single user turn.
func (c *client) Complete(ctx context.Context, system, user string, temperature float64, maxTokens int, jsonOutput bool) (string, error) {
	prompt := user
	if strings.TrimSpace(system) != "" {
		prompt = system + "\n\n" + user
	}
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(temperature)),
	}
	if maxTokens > 0 {
		cfg.MaxOutputTokens = int32(maxTokens)
	}
	if jsonOutput {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := c.sdk.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("gemini blocked the prompt: %s", resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("gemini returned no candidates")
	}
	return resp.Text(), nil
}
