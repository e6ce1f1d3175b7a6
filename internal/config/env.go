// Package config provides centralized configuration management.
// All environment reads happen here, once, at first use.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Env holds all polyprompt environment variables.
type Env struct {
	// OpenAIKey is the OpenAI API key (OPENAI_API_KEY)
	OpenAIKey string

	// OpenAIBaseURL overrides the OpenAI API base URL (OPENAI_BASE_URL)
	OpenAIBaseURL string

	// AnthropicKey is the Anthropic API key (ANTHROPIC_API_KEY)
	AnthropicKey string

	// AnthropicBaseURL overrides the Anthropic API base URL (ANTHROPIC_BASE_URL)
	AnthropicBaseURL string

	// GeminiKey is the Gemini API key (GEMINI_API_KEY, falls back to GOOGLE_API_KEY)
	GeminiKey string

	// GroqKey is the Groq API key (GROQ_API_KEY)
	GroqKey string

	// GroqBaseURL overrides the Groq API base URL (GROQ_BASE_URL)
	GroqBaseURL string

	// DeepSeekKey is the DeepSeek API key (DEEPSEEK_API_KEY)
	DeepSeekKey string

	// DeepSeekBaseURL overrides the DeepSeek API base URL (DEEPSEEK_BASE_URL)
	DeepSeekBaseURL string

	// OllamaBaseURL is the local Ollama endpoint (OLLAMA_BASE_URL)
	OllamaBaseURL string

	// DefaultModels is the ordered fallback spec list
	// (POLYPROMPT_DEFAULT_MODELS, comma-separated raw specs). The first
	// entry for a provider is the correction fallback for that provider.
	DefaultModels []string

	// Timeout is the per-call timeout (POLYPROMPT_TIMEOUT, seconds)
	Timeout time.Duration
}

const (
	defaultModels  = "anthropic:claude-3-7-sonnet-20250219,openai:gpt-4o-mini"
	defaultTimeout = 120 * time.Second
)

var (
	env     *Env
	envOnce sync.Once
)

// Get returns the singleton environment configuration.
// Thread-safe, loads once on first call.
func Get() *Env {
	envOnce.Do(func() {
		env = &Env{
			OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
			OpenAIBaseURL:    os.Getenv("OPENAI_BASE_URL"),
			AnthropicKey:     os.Getenv("ANTHROPIC_API_KEY"),
			AnthropicBaseURL: os.Getenv("ANTHROPIC_BASE_URL"),
			GeminiKey:        firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY"),
			GroqKey:          os.Getenv("GROQ_API_KEY"),
			GroqBaseURL:      getEnvDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			DeepSeekKey:      os.Getenv("DEEPSEEK_API_KEY"),
			DeepSeekBaseURL:  getEnvDefault("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1"),
			OllamaBaseURL:    getEnvDefault("OLLAMA_BASE_URL", "http://localhost:11434/v1"),
			DefaultModels:    splitList(getEnvDefault("POLYPROMPT_DEFAULT_MODELS", defaultModels)),
			Timeout:          timeoutFromEnv(),
		}
	})
	return env
}

// Reset clears the cached environment (for testing).
func Reset() {
	envOnce = sync.Once{}
	env = nil
}

func timeoutFromEnv() time.Duration {
	v := os.Getenv("POLYPROMPT_TIMEOUT")
	if v == "" {
		return defaultTimeout
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return defaultTimeout
	}
	return time.Duration(secs) * time.Second
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Paths holds standard polyprompt directory paths.
type Paths struct {
	// Home is the polyprompt home directory (~/.polyprompt)
	Home string

	// Data is the data directory (~/.polyprompt/data)
	Data string

	// Outputs is the default response-file directory (~/.polyprompt/outputs)
	Outputs string
}

var (
	paths     *Paths
	pathsOnce sync.Once
)

// GetPaths returns the singleton paths configuration.
func GetPaths() *Paths {
	pathsOnce.Do(func() {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		ppHome := filepath.Join(home, ".polyprompt")

		paths = &Paths{
			Home:    ppHome,
			Data:    filepath.Join(ppHome, "data"),
			Outputs: filepath.Join(ppHome, "outputs"),
		}
	})
	return paths
}

// EnsureDir creates a directory if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
