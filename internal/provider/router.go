package provider

import (
	"context"

	"github.com/joss/polyprompt/internal/modelspec"
	"github.com/joss/polyprompt/pkg/llm"
)

// Router adapts the factory to the dispatch.Invoker and resolve.Lister
// boundaries: one call-capable unit per provider, safe for concurrent
// use across specs.
type Router struct {
	factory *Factory
	opts    []ConfigOption
}

// NewRouter creates a router over a fresh factory. opts apply to every
// client the router builds (used by tests to inject an HTTP stub).
func NewRouter(opts ...ConfigOption) *Router {
	return &Router{factory: NewFactory(), opts: opts}
}

// Invoke performs the remote call for one resolved spec.
func (r *Router) Invoke(ctx context.Context, spec modelspec.Spec, prompt string) (string, error) {
	p, err := r.factory.Create(spec.Provider, r.opts...)
	if err != nil {
		return "", err
	}

	resp, err := p.Complete(ctx, &llm.CompleteRequest{
		Model:          spec.Model,
		Prompt:         prompt,
		ThinkingBudget: spec.ThinkingBudget,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// ListModels returns the provider's current model names.
func (r *Router) ListModels(ctx context.Context, key modelspec.ProviderKey) ([]string, error) {
	p, err := r.factory.Create(key, r.opts...)
	if err != nil {
		return nil, err
	}
	return p.ListModels(ctx)
}

// Catalog returns the provider's static catalog.
func (r *Router) Catalog(key modelspec.ProviderKey) ([]llm.Model, error) {
	p, err := r.factory.Create(key, r.opts...)
	if err != nil {
		return nil, err
	}
	return p.Models(), nil
}
