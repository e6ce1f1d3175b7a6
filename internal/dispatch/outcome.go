package dispatch

import (
	"time"

	"github.com/joss/polyprompt/internal/modelspec"
	"github.com/joss/polyprompt/pkg/llm"
)

// Outcome is the terminal state of one dispatched spec: either a response
// text or a typed failure. Exactly one Outcome exists per input spec.
type Outcome struct {
	Spec     modelspec.Spec
	Text     string
	Err      error
	Kind     llm.ErrorKind
	Duration time.Duration
}

// Succeeded reports whether the unit produced a response.
func (o Outcome) Succeeded() bool { return o.Err == nil }

// Message returns the human-readable failure message, empty on success.
func (o Outcome) Message() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// FileLabel returns the filename-safe label for the outcome's spec.
func (o Outcome) FileLabel() string { return o.Spec.FileLabel() }

// Result is the aggregate of one dispatch call: one Outcome per input
// spec, in input order regardless of completion order.
type Result struct {
	RequestID string
	Prompt    string
	Outcomes  []Outcome

	// PromptTokens is a tiktoken estimate of the prompt size.
	PromptTokens int
}

// Summary holds the derived success/failure counts.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
}

// Summary derives the counts from the outcomes.
func (r *Result) Summary() Summary {
	s := Summary{Total: len(r.Outcomes)}
	for _, o := range r.Outcomes {
		if o.Succeeded() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}
