package modelspec

import (
	"errors"
	"fmt"
)

// Spec parsing errors. All are raised before any dispatch work starts.
var (
	// ErrMalformedSpec indicates the raw string is not provider:model shaped.
	ErrMalformedSpec = errors.New("malformed model spec")

	// ErrUnknownProvider indicates the provider token matches no registered provider.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrInvalidThinkingBudget indicates a bad trailing budget segment.
	ErrInvalidThinkingBudget = errors.New("invalid thinking budget")
)

// MalformedSpecError wraps ErrMalformedSpec with the offending input.
type MalformedSpecError struct {
	Raw string
}

func (e *MalformedSpecError) Error() string {
	return fmt.Sprintf("malformed model spec %q: want provider:model", e.Raw)
}

func (e *MalformedSpecError) Unwrap() error { return ErrMalformedSpec }

// UnknownProviderError wraps ErrUnknownProvider with the bad token.
type UnknownProviderError struct {
	Token string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown provider %q", e.Token)
}

func (e *UnknownProviderError) Unwrap() error { return ErrUnknownProvider }

// InvalidThinkingBudgetError wraps ErrInvalidThinkingBudget.
type InvalidThinkingBudgetError struct {
	Raw     string
	Segment string
}

func (e *InvalidThinkingBudgetError) Error() string {
	return fmt.Sprintf("invalid thinking budget %q in %q: want <int> or <int>k", e.Segment, e.Raw)
}

func (e *InvalidThinkingBudgetError) Unwrap() error { return ErrInvalidThinkingBudget }
