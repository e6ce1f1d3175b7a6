// Package llm defines the provider boundary: the interface every LLM backend
// implements plus the typed errors the dispatch engine maps into outcomes.
package llm

import "context"

// Provider is the interface all LLM providers must implement
type Provider interface {
	ID() string
	Name() string

	// Models returns the provider's static model catalog.
	Models() []Model

	// Complete sends a single prompt and returns the full response text.
	Complete(ctx context.Context, req *CompleteRequest) (*CompleteResponse, error)

	// ListModels returns the model names the provider currently serves.
	// Providers without a listing endpoint return ErrListingUnsupported.
	ListModels(ctx context.Context) ([]string, error)
}

// Model describes one catalog entry.
type Model struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	ContextSize int     `json:"contextSize"`
	InputCost   float64 `json:"inputCost"`  // per 1M tokens
	OutputCost  float64 `json:"outputCost"` // per 1M tokens
}

// CompleteRequest represents a single-prompt request to the LLM
type CompleteRequest struct {
	Model          string
	Prompt         string
	MaxTokens      int
	Temperature    float64
	ThinkingBudget int // Extended thinking token budget (0 = disabled)
}

// CompleteResponse is the provider's answer to a CompleteRequest.
type CompleteResponse struct {
	Model        string
	Text         string
	InputTokens  int
	OutputTokens int
}
