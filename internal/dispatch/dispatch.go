// Package dispatch fans one prompt out to many resolved model specs
// concurrently and collects every per-spec outcome into one result.
package dispatch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joss/polyprompt/internal/logging"
	"github.com/joss/polyprompt/internal/modelspec"
	"github.com/joss/polyprompt/internal/resolve"
	"github.com/joss/polyprompt/internal/tokens"
	"github.com/joss/polyprompt/pkg/llm"
)

// Invoker is the provider boundary consumed by the dispatcher. It must be
// safe to call concurrently for different specs.
type Invoker interface {
	Invoke(ctx context.Context, spec modelspec.Spec, prompt string) (string, error)
}

// Dispatcher runs the parse -> resolve -> fan-out -> aggregate pipeline.
type Dispatcher struct {
	invoker  Invoker
	resolver *resolve.Resolver
	timeout  time.Duration
	log      *logging.Logger
}

// New creates a dispatcher with the given per-call timeout.
func New(invoker Invoker, resolver *resolve.Resolver, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		invoker:  invoker,
		resolver: resolver,
		timeout:  timeout,
		log:      logging.New("dispatch"),
	}
}

// Dispatch sends prompt to every spec in rawSpecs concurrently and waits
// for the full cohort to settle.
//
// Structural errors (empty prompt, empty list, malformed spec, unknown
// provider, unresolvable model) are returned before any goroutine starts.
// Per-unit failures never abort the cohort; they become Failure outcomes.
// The result always holds exactly one Outcome per input spec, in input
// order.
func (d *Dispatcher) Dispatch(ctx context.Context, prompt string, rawSpecs []string) (*Result, error) {
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if len(rawSpecs) == 0 {
		return nil, ErrEmptyDispatch
	}

	specs, err := modelspec.ParseAll(rawSpecs)
	if err != nil {
		return nil, err
	}
	specs, err = d.resolver.ResolveAll(ctx, specs)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	log := d.log.WithRequest(requestID)
	promptTokens := tokens.Count(prompt)
	log.Info("dispatch_start", map[string]interface{}{
		"specs":         len(specs),
		"prompt_tokens": promptTokens,
	})

	start := time.Now()
	outcomes := make([]Outcome, len(specs))
	var wg sync.WaitGroup

	for i, spec := range specs {
		wg.Add(1)
		go func(idx int, s modelspec.Spec) {
			defer wg.Done()
			outcomes[idx] = d.invokeOne(ctx, log, s, prompt)
		}(i, spec)
	}

	wg.Wait()

	res := &Result{
		RequestID:    requestID,
		Prompt:       prompt,
		Outcomes:     outcomes,
		PromptTokens: promptTokens,
	}
	sum := res.Summary()
	log.TimedEvent("dispatch_done", start, map[string]interface{}{
		"succeeded": sum.Succeeded,
		"failed":    sum.Failed,
	})
	return res, nil
}

// invokeOne runs a single unit of work under its own timeout. A unit owns
// its Outcome slot and writes it exactly once; nothing is shared with
// sibling units.
func (d *Dispatcher) invokeOne(ctx context.Context, log *logging.Logger, spec modelspec.Spec, prompt string) Outcome {
	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	text, err := d.invoker.Invoke(callCtx, spec, prompt)
	out := Outcome{Spec: spec, Duration: time.Since(start)}

	if err != nil {
		out.Err = err
		out.Kind = failureKind(callCtx, err)
		log.WithSpec(spec.Provider.String(), spec.Model).Error("call_failed", map[string]interface{}{
			"kind": string(out.Kind),
		}, err)
		return out
	}

	out.Text = text
	log.WithSpec(spec.Provider.String(), spec.Model).TimedEvent("call_ok", start, nil)
	return out
}

// failureKind classifies a unit failure, preferring the provider's typed
// kind and falling back to timeout/transport classification.
func failureKind(ctx context.Context, err error) llm.ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return llm.KindTimeout
	}
	return llm.KindOf(err)
}
