// Package resolve validates parsed model specs against the provider's live
// model listing and silently corrects unknown names to a configured default.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/joss/polyprompt/internal/logging"
	"github.com/joss/polyprompt/internal/modelspec"
	"github.com/joss/polyprompt/pkg/llm"
)

// ErrUnresolvedModel indicates an unknown model with no configured default.
var ErrUnresolvedModel = errors.New("unresolved model")

// UnresolvedModelError wraps ErrUnresolvedModel with spec details.
type UnresolvedModelError struct {
	Provider modelspec.ProviderKey
	Model    string
}

func (e *UnresolvedModelError) Error() string {
	return fmt.Sprintf("model %q unknown to %s and no default configured for that provider", e.Model, e.Provider)
}

func (e *UnresolvedModelError) Unwrap() error { return ErrUnresolvedModel }

// Lister is the model-listing boundary. Implementations return
// llm.ErrListingUnsupported for providers without a listing endpoint.
type Lister interface {
	ListModels(ctx context.Context, key modelspec.ProviderKey) ([]string, error)
}

// listing is one provider's cached known-model set. The sync.Once
// guarantees concurrent resolvers share a single in-flight listing call.
type listing struct {
	once  sync.Once
	names map[string]struct{}
	ok    bool
}

// Resolver corrects model names against provider listings. Listings are
// fetched at most once per provider per process and are read-only after
// population.
type Resolver struct {
	lister   Lister
	defaults []modelspec.Spec
	log      *logging.Logger

	mu       sync.Mutex
	listings map[modelspec.ProviderKey]*listing
}

// New creates a resolver. defaults is the ordered fallback list; the
// first entry for a given provider wins.
func New(lister Lister, defaults []modelspec.Spec) *Resolver {
	return &Resolver{
		lister:   lister,
		defaults: defaults,
		log:      logging.New("resolve"),
		listings: make(map[modelspec.ProviderKey]*listing),
	}
}

// Resolve returns a spec whose model name the provider is expected to
// accept.
//
// When the provider's listing is unavailable the spec passes through
// unchanged: correction only happens against obtainable ground truth.
// Substitution is single-pass: the corrected name is not re-validated,
// so a default that is itself absent from the listing surfaces at first
// use rather than looping here.
func (r *Resolver) Resolve(ctx context.Context, spec modelspec.Spec) (modelspec.Spec, error) {
	l := r.listingFor(ctx, spec.Provider)
	if !l.ok {
		return spec, nil
	}
	if _, known := l.names[spec.Model]; known {
		return spec, nil
	}

	fallback, found := r.defaultFor(spec.Provider)
	if !found {
		return modelspec.Spec{}, &UnresolvedModelError{Provider: spec.Provider, Model: spec.Model}
	}

	r.log.WithSpec(spec.Provider.String(), spec.Model).Info("model_corrected", map[string]interface{}{
		"substitute": fallback,
	})
	corrected := spec
	corrected.Model = fallback
	return corrected, nil
}

// ResolveAll resolves specs in order, failing on the first fatal error.
func (r *Resolver) ResolveAll(ctx context.Context, specs []modelspec.Spec) ([]modelspec.Spec, error) {
	out := make([]modelspec.Spec, 0, len(specs))
	for _, s := range specs {
		resolved, err := r.Resolve(ctx, s)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}

// listingFor returns the provider's cached listing, populating it on
// first use.
func (r *Resolver) listingFor(ctx context.Context, key modelspec.ProviderKey) *listing {
	r.mu.Lock()
	l, exists := r.listings[key]
	if !exists {
		l = &listing{}
		r.listings[key] = l
	}
	r.mu.Unlock()

	l.once.Do(func() {
		names, err := r.lister.ListModels(ctx, key)
		if err != nil {
			if !errors.Is(err, llm.ErrListingUnsupported) {
				r.log.WithSpec(key.String(), "").Warn("listing_failed", nil, err)
			}
			return
		}
		l.names = make(map[string]struct{}, len(names))
		for _, n := range names {
			l.names[n] = struct{}{}
		}
		l.ok = true
	})
	return l
}

// defaultFor returns the first default model configured for the provider.
func (r *Resolver) defaultFor(key modelspec.ProviderKey) (string, bool) {
	for _, d := range r.defaults {
		if d.Provider == key {
			return d.Model, true
		}
	}
	return "", false
}
