package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() { _ = os.Chdir(wd) }()

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.General.Listen != ":5000" {
		t.Fatalf("unexpected listen address %q", cfg.General.Listen)
	}
	if cfg.LLM.Provider != "gemini" || cfg.LLM.Model != "gemini-2.5-flash-lite" {
		t.Fatalf("unexpected llm defaults: %+v", cfg.LLM)
	}
	if cfg.LLM.Temperature != 0.7 {
		t.Fatalf("expected temperature 0.7, got %v", cfg.LLM.Temperature)
	}
	if cfg.Validation.ReachabilityTimeout != 5*time.Second {
		t.Fatalf("expected 5s reachability timeout, got %v", cfg.Validation.ReachabilityTimeout)
	}
	if cfg.Validation.MaxResourcesPerNode != 3 {
		t.Fatalf("expected 3 resources per node, got %d", cfg.Validation.MaxResourcesPerNode)
	}
	if len(cfg.Validation.Blocklist.Domains) != len(DefaultBlockedDomains) {
		t.Fatalf("expected default blocklist, got %#v", cfg.Validation.Blocklist.Domains)
	}
	if cfg.Storage.Redis.Enabled() {
		t.Fatalf("redis should be disabled without a host")
	}
}

func TestLoadConfigFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{
  "general": {"listen": "8080"},
  "llm": {"provider": "openai", "temperature": 0.4},
  "validation": {"reachability_timeout": "2s", "blocklist": {"domains": ["www.Udemy.com"]}},
  "storage": {"redis": {"host": "cache.local"}}
}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("LEARNMAP_LLM_API_KEY", "sk-test")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.General.Listen != ":8080" {
		t.Fatalf("expected :8080, got %q", cfg.General.Listen)
	}
	if cfg.LLM.Provider != "openai" || cfg.LLM.Model != "gpt-4o-mini" || cfg.LLM.APIKey != "sk-test" {
		t.Fatalf("unexpected llm config: %+v", cfg.LLM)
	}
	if cfg.Validation.ReachabilityTimeout != 2*time.Second {
		t.Fatalf("expected 2s timeout, got %v", cfg.Validation.ReachabilityTimeout)
	}
	if len(cfg.Validation.Blocklist.Domains) != 1 || cfg.Validation.Blocklist.Domains[0] != "udemy.com" {
		t.Fatalf("unexpected blocklist: %#v", cfg.Validation.Blocklist.Domains)
	}
	if !cfg.Storage.Redis.Enabled() || cfg.Storage.Redis.Addr() != "cache.local:6379" {
		t.Fatalf("unexpected redis config: %+v", cfg.Storage.Redis)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestLLMConfigValidate(t *testing.T) {
	cfg := LLMConfig{Provider: "mistral"}.Normalize()
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected unsupported provider error")
	}
}
