package anthropic_provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	aoption "github.com/anthropics/anthropic-sdk-go/option"
)

const defaultMaxTokens = 8192

// client implements generation using the Anthropic messages API
type client struct {
	sdk   anthropic.Client
	model string
}

// NewAnthropicClient creates a new Anthropic client.
func NewAnthropicClient(apiKey, model, baseURL string, timeout time.Duration) *client {
	opts := []aoption.RequestOption{
		aoption.WithAPIKey(strings.TrimSpace(apiKey)),
		aoption.WithMaxRetries(0),
	}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, aoption.WithBaseURL(strings.TrimSpace(baseURL)))
	}
	if timeout > 0 {
		opts = append(opts, aoption.WithRequestTimeout(timeout))
	}
	return &client{sdk: anthropic.NewClient(opts...), model: model}
}

// Complete sends one message. The API has no JSON output mode, so
// jsonOutput relies on the instructions alone.
func (c *client) Complete(ctx context.Context, system, user string, temperature float64, maxTokens int, jsonOutput bool) (string, error) {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   int64(maxTokens),
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(user))},
		Temperature: anthropic.Float(temperature),
	}
	if strings.TrimSpace(system) != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	msg, err := c.sdk.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}
	var b strings.Builder
	for _, block := range msg.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(text.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("anthropic returned no text content")
	}
	return b.String(), nil
}
