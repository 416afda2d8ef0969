package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the learning map service
type Config struct {
	General    GeneralConfig    `mapstructure:"general"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Validation ValidationConfig `mapstructure:"validation"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Listen  string `mapstructure:"listen"`
	LogMode string `mapstructure:"log_mode"` // dev or prod
	Debug   bool   `mapstructure:"debug"`
}

// Normalize fills in defaults for unset general values.
func (g GeneralConfig) Normalize() GeneralConfig {
	g.Listen = strings.TrimSpace(g.Listen)
	if g.Listen == "" {
		g.Listen = ":5000"
	}
	if g.Listen[0] != ':' && !strings.Contains(g.Listen, ":") {
		g.Listen = ":" + g.Listen
	}
	g.LogMode = strings.ToLower(strings.TrimSpace(g.LogMode))
	if g.LogMode == "" {
		g.LogMode = "dev"
	}
	return g
}

// LLMConfig selects and configures the generative model provider
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"` // gemini, openai, anthropic
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

var defaultModels = map[string]string{
	"gemini":    "gemini-2.5-flash-lite",
	"openai":    "gpt-4o-mini",
	"anthropic": "claude-3-5-haiku-latest",
}

// Normalize applies provider-specific defaults.
func (c LLMConfig) Normalize() LLMConfig {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = "gemini"
	}
	c.Model = strings.TrimSpace(c.Model)
	if c.Model == "" {
		c.Model = defaultModels[c.Provider]
	}
	if c.Temperature <= 0 {
		c.Temperature = 0.7
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 8192
	}
	if c.Timeout <= 0 {
		c.Timeout = 90 * time.Second
	}
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	return c
}

// Validate checks that the provider is supported. A missing API key is not an
// error here: the server starts and reports upstream failures per request.
func (c LLMConfig) Validate() error {
	if _, ok := defaultModels[c.Provider]; !ok {
		return fmt.Errorf("llm.provider %q is not supported (gemini|openai|anthropic)", c.Provider)
	}
	if c.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be <= 2")
	}
	return nil
}

// ValidationConfig tunes the resource sanitisation pipeline.
type ValidationConfig struct {
	ReachabilityTimeout  time.Duration   `mapstructure:"reachability_timeout"`
	MaxResourcesPerNode  int             `mapstructure:"max_resources_per_node"`
	UserAgent            string          `mapstructure:"user_agent"`
	SkipReachability     bool            `mapstructure:"skip_reachability"`
	Blocklist            BlocklistConfig `mapstructure:"blocklist"`
	ReachabilityCacheTTL time.Duration   `mapstructure:"reachability_cache_ttl"`
	NegativeCacheTTL     time.Duration   `mapstructure:"negative_cache_ttl"`
}

// Normalize applies defaults for the validation pipeline.
func (c ValidationConfig) Normalize() ValidationConfig {
	if c.ReachabilityTimeout <= 0 {
		c.ReachabilityTimeout = 5 * time.Second
	}
	if c.MaxResourcesPerNode <= 0 {
		c.MaxResourcesPerNode = 3
	}
	c.UserAgent = strings.TrimSpace(c.UserAgent)
	if c.UserAgent == "" {
		c.UserAgent = "learnmap-linkcheck/1.0"
	}
	if c.ReachabilityCacheTTL <= 0 {
		c.ReachabilityCacheTTL = 10 * time.Minute
	}
	if c.NegativeCacheTTL <= 0 {
		c.NegativeCacheTTL = time.Minute
	}
	c.Blocklist = c.Blocklist.Normalize()
	return c
}

// Validate ensures validation settings are usable.
func (c ValidationConfig) Validate() error {
	if c.MaxResourcesPerNode > 10 {
		return fmt.Errorf("validation.max_resources_per_node must be <= 10")
	}
	return c.Blocklist.Validate()
}

// StorageConfig contains optional backing stores.
type StorageConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig contains Redis connection settings for the reachability cache
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether a redis host was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.Host) != ""
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	port := strings.TrimSpace(r.Port)
	if port == "" {
		port = "6379"
	}
	return fmt.Sprintf("%s:%s", strings.TrimSpace(r.Host), port)
}

func (r RedisConfig) Validate() error {
	if !r.Enabled() {
		return nil
	}
	if r.DB < 0 {
		return fmt.Errorf("storage.redis.db cannot be negative")
	}
	return nil
}

// TelemetryConfig contains tracing settings
type TelemetryConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	ServiceName  string  `mapstructure:"service_name"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	Insecure     bool    `mapstructure:"insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

// Normalize applies telemetry defaults.
func (t TelemetryConfig) Normalize() TelemetryConfig {
	t.ServiceName = strings.TrimSpace(t.ServiceName)
	if t.ServiceName == "" {
		t.ServiceName = "learnmap"
	}
	if t.SampleRatio <= 0 {
		t.SampleRatio = 0.1
	}
	if t.SampleRatio > 1 {
		t.SampleRatio = 1
	}
	return t
}

// LoadConfig loads config from file and environment. An explicit path must
// exist; when path is empty a missing config file falls back to defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.SetDefault("general.listen", ":5000")
	v.SetDefault("general.log_mode", "dev")
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.timeout", "90s")
	v.SetDefault("validation.reachability_timeout", "5s")
	v.SetDefault("validation.max_resources_per_node", 3)
	v.SetDefault("validation.blocklist.domains", DefaultBlockedDomains)
	v.SetDefault("storage.redis.port", "6379")
	v.SetDefault("storage.redis.timeout", "2s")

	if path == "" {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		if exe, err := os.Executable(); err == nil {
			exeDir := filepath.Dir(exe)
			v.AddConfigPath(exeDir)
			v.AddConfigPath(filepath.Join(exeDir, "..", "config"))
		}
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("LEARNMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only covers keys viper already knows about.
	for _, key := range []string{"llm.api_key", "llm.base_url", "llm.model", "storage.redis.host", "storage.redis.password", "telemetry.enabled", "telemetry.otlp_endpoint"} {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize applies defaults to every section.
func (c *Config) Normalize() {
	c.General = c.General.Normalize()
	c.LLM = c.LLM.Normalize()
	c.Validation = c.Validation.Normalize()
	c.Telemetry = c.Telemetry.Normalize()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	if err := c.Validation.Validate(); err != nil {
		return err
	}
	return c.Storage.Redis.Validate()
}
