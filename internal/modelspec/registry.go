// Package modelspec parses provider-prefixed model identifiers like
// "a:claude-3-7-sonnet-20250219:4k" into structured specs and holds the
// closed registry of supported providers.
package modelspec

import "strings"

// ProviderKey identifies a supported LLM provider.
type ProviderKey string

const (
	ProviderOpenAI    ProviderKey = "openai"
	ProviderAnthropic ProviderKey = "anthropic"
	ProviderGemini    ProviderKey = "gemini"
	ProviderGroq      ProviderKey = "groq"
	ProviderDeepSeek  ProviderKey = "deepseek"
	ProviderOllama    ProviderKey = "ollama"
)

// String returns the provider's long name.
func (p ProviderKey) String() string { return string(p) }

// Capability describes what a registered provider supports.
type Capability struct {
	Key   ProviderKey
	Alias string // canonical one-letter prefix

	// SupportsThinking marks providers that accept a reasoning-token
	// budget as a trailing spec segment ("...:4k").
	SupportsThinking bool

	// SupportsListing marks providers with a live model-listing endpoint.
	// When false the validator skips correction for this provider unless
	// a static catalog stands in for the listing.
	SupportsListing bool
}

// registry is the closed provider set. Defined at process start, never
// mutated.
var registry = []Capability{
	{Key: ProviderOpenAI, Alias: "o", SupportsListing: true},
	{Key: ProviderAnthropic, Alias: "a", SupportsThinking: true, SupportsListing: true},
	{Key: ProviderGemini, Alias: "g", SupportsListing: true},
	{Key: ProviderGroq, Alias: "q", SupportsListing: true},
	{Key: ProviderDeepSeek, Alias: "d", SupportsListing: true},
	{Key: ProviderOllama, Alias: "l", SupportsListing: true},
}

var byToken = func() map[string]Capability {
	m := make(map[string]Capability, len(registry)*2)
	for _, c := range registry {
		m[string(c.Key)] = c
		m[c.Alias] = c
	}
	return m
}()

// Lookup resolves a provider token (alias or long name, case-insensitive)
// to its capability descriptor.
func Lookup(token string) (Capability, bool) {
	c, ok := byToken[strings.ToLower(token)]
	return c, ok
}

// Capabilities returns the descriptor for a known provider key.
func Capabilities(key ProviderKey) Capability {
	c, _ := byToken[string(key)]
	return c
}

// All returns the registered providers in declaration order.
func All() []Capability {
	out := make([]Capability, len(registry))
	copy(out, registry)
	return out
}
