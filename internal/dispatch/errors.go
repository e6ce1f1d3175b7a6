package dispatch

import "errors"

// Pre-flight errors. Both are raised before any unit of work starts and
// abort the whole dispatch call.
var (
	// ErrEmptyPrompt indicates the prompt text is empty.
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrEmptyDispatch indicates the spec list is empty.
	ErrEmptyDispatch = errors.New("no model specs to dispatch")
)
