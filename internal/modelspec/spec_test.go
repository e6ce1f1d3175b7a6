package modelspec

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Spec
		wantErr error
	}{
		{"openai alias", "o:gpt-4o-mini", Spec{Provider: ProviderOpenAI, Model: "gpt-4o-mini"}, nil},
		{"openai long name", "openai:gpt-4o-mini", Spec{Provider: ProviderOpenAI, Model: "gpt-4o-mini"}, nil},
		{"case insensitive provider", "OpenAI:gpt-4o", Spec{Provider: ProviderOpenAI, Model: "gpt-4o"}, nil},
		{"uppercase alias", "A:claude-3-5-haiku", Spec{Provider: ProviderAnthropic, Model: "claude-3-5-haiku"}, nil},
		{"gemini", "g:gemini-1.5-pro", Spec{Provider: ProviderGemini, Model: "gemini-1.5-pro"}, nil},
		{"groq", "q:llama-3.1-8b-instant", Spec{Provider: ProviderGroq, Model: "llama-3.1-8b-instant"}, nil},
		{"deepseek", "deepseek:deepseek-chat", Spec{Provider: ProviderDeepSeek, Model: "deepseek-chat"}, nil},
		{"thinking budget k suffix", "anthropic:claude-3-7-sonnet-20250219:4k",
			Spec{Provider: ProviderAnthropic, Model: "claude-3-7-sonnet-20250219", ThinkingBudget: 4096}, nil},
		{"thinking budget plain int", "a:claude-3-7-sonnet-20250219:2048",
			Spec{Provider: ProviderAnthropic, Model: "claude-3-7-sonnet-20250219", ThinkingBudget: 2048}, nil},
		{"ollama tag keeps colon", "l:llama3.2:1b", Spec{Provider: ProviderOllama, Model: "llama3.2:1b"}, nil},
		{"ollama tag long name", "ollama:deepseek-r1:7b", Spec{Provider: ProviderOllama, Model: "deepseek-r1:7b"}, nil},
		{"unknown provider", "x:foo", Spec{}, ErrUnknownProvider},
		{"no model segment", "openai", Spec{}, ErrMalformedSpec},
		{"empty model segment", "openai:", Spec{}, ErrMalformedSpec},
		{"empty string", "", Spec{}, ErrMalformedSpec},
		{"bad budget", "a:claude-3-7-sonnet:abc", Spec{}, ErrInvalidThinkingBudget},
		{"negative budget", "a:claude-3-7-sonnet:-4", Spec{}, ErrInvalidThinkingBudget},
		{"zero budget", "a:claude-3-7-sonnet:0", Spec{}, ErrInvalidThinkingBudget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	raws := []string{
		"o:gpt-4o-mini",
		"anthropic:claude-3-7-sonnet-20250219:4k",
		"a:claude-3-7-sonnet-20250219:1000",
		"l:llama3.2:1b",
		"Gemini:gemini-1.5-flash",
	}

	for _, raw := range raws {
		t.Run(raw, func(t *testing.T) {
			first, err := Parse(raw)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", raw, err)
			}
			second, err := Parse(first.String())
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", first.String(), err)
			}
			if first != second {
				t.Errorf("round trip: %+v != %+v (via %q)", first, second, first.String())
			}
		})
	}
}

func TestParseAll(t *testing.T) {
	specs, err := ParseAll([]string{"o:gpt-4o", "a:claude-3-5-haiku"})
	if err != nil {
		t.Fatalf("ParseAll error = %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("ParseAll returned %d specs, want 2", len(specs))
	}

	if _, err := ParseAll([]string{"o:gpt-4o", "x:nope"}); !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("ParseAll error = %v, want ErrUnknownProvider", err)
	}
}

func TestFileLabel(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"o:gpt-4o-mini", "o_gpt-4o-mini"},
		{"a:claude-3-7-sonnet-20250219:4k", "a_claude-3-7-sonnet-20250219_4096"},
		{"l:llama3.2:1b", "l_llama3.2_1b"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			spec, err := Parse(tt.raw)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.raw, err)
			}
			if got := spec.FileLabel(); got != tt.want {
				t.Errorf("FileLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Labels must differ when only the provider or budget differs.
func TestFileLabelCollisions(t *testing.T) {
	a, _ := Parse("a:claude-3-7-sonnet-20250219")
	b, _ := Parse("a:claude-3-7-sonnet-20250219:4k")
	if a.FileLabel() == b.FileLabel() {
		t.Errorf("labels collide across budgets: %q", a.FileLabel())
	}
}

func TestLookup(t *testing.T) {
	for _, c := range All() {
		if got, ok := Lookup(c.Alias); !ok || got.Key != c.Key {
			t.Errorf("Lookup(%q) = %v, %v", c.Alias, got.Key, ok)
		}
		if got, ok := Lookup(string(c.Key)); !ok || got.Key != c.Key {
			t.Errorf("Lookup(%q) = %v, %v", c.Key, got.Key, ok)
		}
	}
	if _, ok := Lookup("nope"); ok {
		t.Error("Lookup(nope) should fail")
	}
}
