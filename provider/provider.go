package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mohammad-safakhou/learnmap/config"
	anthropic_provider "github.com/mohammad-safakhou/learnmap/provider/anthropic"
	gemini_provider "github.com/mohammad-safakhou/learnmap/provider/gemini"
	openai_provider "github.com/mohammad-safakhou/learnmap/provider/openai"
)

// Client represents different LLM providers
type Client string

const (
	OpenAI    Client = "openai"
	Anthropic Client = "anthropic"
	Gemini    Client = "gemini"
)

// ErrMissingAPIKey is returned when no credentials were configured.
var ErrMissingAPIKey = errors.New("llm api key not configured")

// Request is a single-turn generation request.
type Request struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
	// JSON asks the provider to constrain output to a JSON document when it
	// supports that natively.
	JSON bool
}

// Provider is the interface that all LLM implementations must satisfy
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

// NewProvider creates a new LLM client based on the provided configuration
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	cfg = cfg.Normalize()
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%s: %w", cfg.Provider, ErrMissingAPIKey)
	}
	switch Client(cfg.Provider) {
	case Gemini:
		gen, err := gemini_provider.NewGeminiClient(cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return adapter{name: string(Gemini), gen: gen}, nil
	case OpenAI:
		return adapter{name: string(OpenAI), gen: openai_provider.NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.Timeout)}, nil
	case Anthropic:
		return adapter{name: string(Anthropic), gen: anthropic_provider.NewAnthropicClient(cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.Timeout)}, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.Provider)
	}
}

// generator is implemented by the concrete clients. They take plain
// arguments so that they do not import this package.
type generator interface {
	Complete(ctx context.Context, system, user string, temperature float64, maxTokens int, jsonOutput bool) (string, error)
}

type adapter struct {
	name string
	gen  generator
}

func (a adapter) Name() string { return a.name }

func (a adapter) Generate(ctx context.Context, req Request) (string, error) {
	return a.gen.Complete(ctx, req.System, req.User, req.Temperature, req.MaxTokens, req.JSON)
}
