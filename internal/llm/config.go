package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures an LLM provider.
type Config struct {
	Provider string

	Anthropic  ProviderConfig
	OpenAI     ProviderConfig
	Gemini     ProviderConfig
	OpenRouter ProviderConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

// ProviderConfig holds per-provider credentials.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string // OpenAI-compatible providers only
}

// RetryConfig configures backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  ProviderConfig{Model: "claude-haiku"},
		OpenAI:     ProviderConfig{Model: "gpt-4o-mini"},
		Gemini:     ProviderConfig{Model: "gemini-flash"},
		OpenRouter: ProviderConfig{Model: "google/gemini-2.0-flash-exp", BaseURL: defaultOpenRouterBaseURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv overlays TRAPZ_* environment variables on the defaults:
// TRAPZ_LLM_PROVIDER, TRAPZ_<PROVIDER>_API_KEY, TRAPZ_<PROVIDER>_MODEL and
// TRAPZ_OPENAI_BASE_URL.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	vars := []struct {
		name string
		dst  *string
	}{
		{"TRAPZ_LLM_PROVIDER", &cfg.Provider},
		{"TRAPZ_ANTHROPIC_API_KEY", &cfg.Anthropic.APIKey},
		{"TRAPZ_ANTHROPIC_MODEL", &cfg.Anthropic.Model},
		{"TRAPZ_OPENAI_API_KEY", &cfg.OpenAI.APIKey},
		{"TRAPZ_OPENAI_MODEL", &cfg.OpenAI.Model},
		{"TRAPZ_OPENAI_BASE_URL", &cfg.OpenAI.BaseURL},
		{"TRAPZ_GEMINI_API_KEY", &cfg.Gemini.APIKey},
		{"TRAPZ_GEMINI_MODEL", &cfg.Gemini.Model},
		{"TRAPZ_OPENROUTER_API_KEY", &cfg.OpenRouter.APIKey},
		{"TRAPZ_OPENROUTER_MODEL", &cfg.OpenRouter.Model},
	}
	for _, v := range vars {
		if val := os.Getenv(v.name); val != "" {
			*v.dst = val
		}
	}
	return cfg
}

// DiscoverConfig picks the first provider with a standard API key variable
// set (GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY).
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	candidates := []struct {
		env      string
		provider string
		dst      *string
	}{
		{"GEMINI_API_KEY", ProviderGemini, &cfg.Gemini.APIKey},
		{"OPENAI_API_KEY", ProviderOpenAI, &cfg.OpenAI.APIKey},
		{"ANTHROPIC_API_KEY", ProviderAnthropic, &cfg.Anthropic.APIKey},
		{"OPENROUTER_API_KEY", ProviderOpenRouter, &cfg.OpenRouter.APIKey},
	}
	for _, c := range candidates {
		if k := os.Getenv(c.env); k != "" {
			cfg.Provider = c.provider
			*c.dst = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate checks that the selected provider has an API key.
func (c Config) Validate() error {
	var key string
	switch c.Provider {
	case ProviderAnthropic:
		key = c.Anthropic.APIKey
	case ProviderOpenAI:
		key = c.OpenAI.APIKey
	case ProviderGemini:
		key = c.Gemini.APIKey
	case ProviderOpenRouter:
		key = c.OpenRouter.APIKey
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("TRAPZ_%s_API_KEY is required for the %s provider", strings.ToUpper(c.Provider), c.Provider)
	}
	return nil
}

// Configured reports whether c names a provider with credentials.
func (c Config) Configured() bool {
	return c.Provider != "" && c.Validate() == nil
}
