package provider

import (
	"context"
	"testing"

	"github.com/joss/polyprompt/internal/modelspec"
	"github.com/joss/polyprompt/pkg/llm"
)

func TestFactory_Create(t *testing.T) {
	f := NewFactory()

	tests := []struct {
		name    string
		key     modelspec.ProviderKey
		wantID  string
		wantErr bool
	}{
		{"anthropic", modelspec.ProviderAnthropic, "anthropic", false},
		{"openai", modelspec.ProviderOpenAI, "openai", false},
		{"gemini", modelspec.ProviderGemini, "gemini", false},
		{"groq", modelspec.ProviderGroq, "groq", false},
		{"deepseek", modelspec.ProviderDeepSeek, "deepseek", false},
		{"ollama", modelspec.ProviderOllama, "ollama", false},
		{"unregistered", modelspec.ProviderKey("mystery"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := f.Create(tt.key, WithAPIKey("test-key"))
			if (err != nil) != tt.wantErr {
				t.Errorf("Create() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err == nil && p.ID() != tt.wantID {
				t.Errorf("Create().ID() = %v, want %v", p.ID(), tt.wantID)
			}
		})
	}
}

// Every registered provider has a builder: the mapping is closed and
// exhaustive.
func TestFactory_CoversRegistry(t *testing.T) {
	f := NewFactory()
	for _, c := range modelspec.All() {
		if _, err := f.Create(c.Key, WithAPIKey("test-key")); err != nil {
			t.Errorf("no builder for registered provider %s: %v", c.Key, err)
		}
	}
}

func TestFactory_Caching(t *testing.T) {
	f := NewFactory()

	p1, _ := f.Create(modelspec.ProviderAnthropic, WithAPIKey("same-key"))
	p2, _ := f.Create(modelspec.ProviderAnthropic, WithAPIKey("same-key"))

	// Should return same instance
	if p1 != p2 {
		t.Error("expected cached provider to be reused")
	}

	// Different key = different instance
	p3, _ := f.Create(modelspec.ProviderAnthropic, WithAPIKey("diff-key1"))
	if p1 == p3 {
		t.Error("expected different providers for different keys")
	}
}

func TestFactory_Register(t *testing.T) {
	f := NewFactory()

	f.Register(modelspec.ProviderOllama, func(cfg Config) llm.Provider {
		return &stubProvider{id: "stub", apiKey: cfg.APIKey}
	})

	p, err := f.Create(modelspec.ProviderOllama, WithAPIKey("test"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.ID() != "stub" {
		t.Errorf("ID() = %v, want stub", p.ID())
	}
}

func TestFactory_Clear(t *testing.T) {
	f := NewFactory()

	p1, _ := f.Create(modelspec.ProviderAnthropic, WithAPIKey("key1"))
	f.Clear()
	p2, _ := f.Create(modelspec.ProviderAnthropic, WithAPIKey("key1"))

	if p1 == p2 {
		t.Error("expected new instance after Clear()")
	}
}

// stubProvider for testing custom registration
type stubProvider struct {
	id     string
	apiKey string
}

func (s *stubProvider) ID() string          { return s.id }
func (s *stubProvider) Name() string        { return s.id }
func (s *stubProvider) Models() []llm.Model { return nil }
func (s *stubProvider) Complete(ctx context.Context, r *llm.CompleteRequest) (*llm.CompleteResponse, error) {
	return &llm.CompleteResponse{Text: "stub"}, nil
}
func (s *stubProvider) ListModels(ctx context.Context) ([]string, error) {
	return nil, llm.ErrListingUnsupported
}
