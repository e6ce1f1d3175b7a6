// Package provider implements the per-provider LLM clients and the
// factory that maps each registered provider key to its client.
package provider

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/joss/polyprompt/internal/config"
	"github.com/joss/polyprompt/internal/modelspec"
	"github.com/joss/polyprompt/pkg/llm"
)

// Config holds provider construction options.
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient HTTPClient
}

// ConfigOption modifies provider configuration.
type ConfigOption func(*Config)

// WithAPIKey sets the API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) { c.APIKey = key }
}

// WithBaseURL sets the base URL.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) { c.BaseURL = url }
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client HTTPClient) ConfigOption {
	return func(c *Config) { c.HTTPClient = client }
}

// Builder constructs a provider client from config.
type Builder func(cfg Config) llm.Provider

// Factory creates LLM provider clients, one builder per registered
// provider key. The mapping is closed: every modelspec.ProviderKey has
// exactly one builder.
type Factory struct {
	mu       sync.RWMutex
	cache    map[string]llm.Provider
	builders map[modelspec.ProviderKey]Builder
}

// NewFactory creates a factory with the built-in builders.
func NewFactory() *Factory {
	f := &Factory{
		cache:    make(map[string]llm.Provider),
		builders: make(map[modelspec.ProviderKey]Builder),
	}
	f.registerDefaults()
	return f
}

func (f *Factory) registerDefaults() {
	f.Register(modelspec.ProviderAnthropic, func(cfg Config) llm.Provider {
		return NewAnthropicWithClient(cfg.APIKey, cfg.BaseURL, cfg.HTTPClient)
	})
	f.Register(modelspec.ProviderOpenAI, func(cfg Config) llm.Provider {
		return NewOpenAIWithClient(cfg.APIKey, cfg.BaseURL, cfg.HTTPClient)
	})
	f.Register(modelspec.ProviderGemini, func(cfg Config) llm.Provider {
		return NewGoogleWithClient(cfg.APIKey, cfg.BaseURL, cfg.HTTPClient)
	})
	f.Register(modelspec.ProviderGroq, func(cfg Config) llm.Provider {
		return NewOpenAICompatibleWithClient("groq", "Groq", cfg.APIKey, cfg.BaseURL, groqCatalog, cfg.HTTPClient)
	})
	f.Register(modelspec.ProviderDeepSeek, func(cfg Config) llm.Provider {
		return NewOpenAICompatibleWithClient("deepseek", "DeepSeek", cfg.APIKey, cfg.BaseURL, deepseekCatalog, cfg.HTTPClient)
	})
	f.Register(modelspec.ProviderOllama, func(cfg Config) llm.Provider {
		// Local daemon, no API key; catalog comes from live listing only
		return NewOpenAICompatibleWithClient("ollama", "Ollama", cfg.APIKey, cfg.BaseURL, nil, cfg.HTTPClient)
	})
}

var groqCatalog = []llm.Model{
	{ID: "llama-3.3-70b-versatile", Name: "Llama 3.3 70B", ContextSize: 128000, InputCost: 0.59, OutputCost: 0.79},
	{ID: "llama-3.1-8b-instant", Name: "Llama 3.1 8B", ContextSize: 128000, InputCost: 0.05, OutputCost: 0.08},
	{ID: "mixtral-8x7b-32768", Name: "Mixtral 8x7B", ContextSize: 32768, InputCost: 0.24, OutputCost: 0.24},
}

var deepseekCatalog = []llm.Model{
	{ID: "deepseek-chat", Name: "DeepSeek Chat", ContextSize: 64000, InputCost: 0.27, OutputCost: 1.1},
	{ID: "deepseek-reasoner", Name: "DeepSeek Reasoner", ContextSize: 64000, InputCost: 0.55, OutputCost: 2.19},
}

// Register adds a provider builder. Allows swapping in stubs for tests.
func (f *Factory) Register(key modelspec.ProviderKey, builder Builder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[key] = builder
}

// Create returns a client instance, caching by key+config.
func (f *Factory) Create(key modelspec.ProviderKey, opts ...ConfigOption) (llm.Provider, error) {
	cfg := Config{
		HTTPClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	// Apply environment defaults
	if cfg.APIKey == "" {
		cfg.APIKey = envKey(key)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = envBaseURL(key)
	}

	cacheKey := fmt.Sprintf("%s:%s:%s", key, cfg.APIKey[:min(8, len(cfg.APIKey))], cfg.BaseURL)

	f.mu.RLock()
	if p, ok := f.cache[cacheKey]; ok {
		f.mu.RUnlock()
		return p, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()

	// Double-check after acquiring write lock
	if p, ok := f.cache[cacheKey]; ok {
		return p, nil
	}

	builder, ok := f.builders[key]
	if !ok {
		return nil, fmt.Errorf("no builder for provider: %s", key)
	}

	p := builder(cfg)
	f.cache[cacheKey] = p
	return p, nil
}

// Clear removes cached clients.
func (f *Factory) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cache = make(map[string]llm.Provider)
}

// envKey returns the configured API key for a provider.
func envKey(key modelspec.ProviderKey) string {
	e := config.Get()
	switch key {
	case modelspec.ProviderOpenAI:
		return e.OpenAIKey
	case modelspec.ProviderAnthropic:
		return e.AnthropicKey
	case modelspec.ProviderGemini:
		return e.GeminiKey
	case modelspec.ProviderGroq:
		return e.GroqKey
	case modelspec.ProviderDeepSeek:
		return e.DeepSeekKey
	case modelspec.ProviderOllama:
		return "" // local daemon, no key
	}
	return ""
}

// envBaseURL returns the configured base URL for a provider.
func envBaseURL(key modelspec.ProviderKey) string {
	e := config.Get()
	switch key {
	case modelspec.ProviderOpenAI:
		return e.OpenAIBaseURL
	case modelspec.ProviderAnthropic:
		return e.AnthropicBaseURL
	case modelspec.ProviderGroq:
		return e.GroqBaseURL
	case modelspec.ProviderDeepSeek:
		return e.DeepSeekBaseURL
	case modelspec.ProviderOllama:
		return e.OllamaBaseURL
	}
	return ""
}
