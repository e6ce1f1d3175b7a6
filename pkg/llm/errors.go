package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrListingUnsupported indicates the provider has no model-listing endpoint.
var ErrListingUnsupported = errors.New("model listing not supported")

// ErrorKind classifies provider call failures.
type ErrorKind string

const (
	KindTransport      ErrorKind = "transport"
	KindAuthentication ErrorKind = "authentication"
	KindRateLimited    ErrorKind = "rate_limited"
	KindRejectedModel  ErrorKind = "rejected_model"
	KindTimeout        ErrorKind = "timeout"
	KindProvider       ErrorKind = "provider"
)

// ProviderError is a typed failure from a provider call.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Status   int // HTTP status when applicable, 0 otherwise
	Message  string
}

func (e *ProviderError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: %s (%d): %s", e.Provider, e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, e.Message)
}

// NewStatusError maps an HTTP status to a typed provider error.
func NewStatusError(provider string, status int, body string) *ProviderError {
	kind := KindProvider
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = KindAuthentication
	case status == http.StatusTooManyRequests:
		kind = KindRateLimited
	case status == http.StatusNotFound:
		kind = KindRejectedModel
	}
	return &ProviderError{Provider: provider, Kind: kind, Status: status, Message: body}
}

// NewTransportError wraps a network-level failure.
func NewTransportError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: KindTransport, Message: err.Error()}
}

// KindOf extracts the error kind, defaulting to transport for untyped errors.
func KindOf(err error) ErrorKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindTransport
}
