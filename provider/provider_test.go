package provider

import (
	"errors"
	"testing"

	"github.com/mohammad-safakhou/learnmap/config"
)

func TestNewProvider(t *testing.T) {
	for _, name := range []string{"gemini", "openai", "anthropic", ""} {
		p, err := NewProvider(config.LLMConfig{Provider: name, APIKey: "key"})
		if err != nil {
			t.Fatalf("NewProvider(%q): %v", name, err)
		}
		want := name
		if want == "" {
			want = string(Gemini)
		}
		if p.Name() != want {
			t.Fatalf("expected %s provider, got %s", want, p.Name())
		}
	}
}

func TestNewProviderErrors(t *testing.T) {
	if _, err := NewProvider(config.LLMConfig{Provider: "gemini"}); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if _, err := NewProvider(config.LLMConfig{Provider: "mistral", APIKey: "key"}); err == nil {
		t.Fatalf("expected unsupported provider error")
	}
}
