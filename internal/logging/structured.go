// Package logging provides structured JSON logging for polyprompt components.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Event represents a structured log event
type Event struct {
	Timestamp string                 `json:"ts"`
	Level     Level                  `json:"level"`
	Component string                 `json:"component"`
	Event     string                 `json:"event"`
	Request   string                 `json:"request,omitempty"`
	Provider  string                 `json:"provider,omitempty"`
	Model     string                 `json:"model,omitempty"`
	Duration  int64                  `json:"duration_ms,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
}

// Logger provides structured logging
type Logger struct {
	component string
	request   string
	provider  string
	model     string
	out       io.Writer
}

// New creates a new logger for a component
func New(component string) *Logger {
	return &Logger{component: component, out: os.Stderr}
}

// WithRequest sets the dispatch request ID context
func (l *Logger) WithRequest(request string) *Logger {
	c := *l
	c.request = request
	return &c
}

// WithSpec sets the provider/model context
func (l *Logger) WithSpec(provider, model string) *Logger {
	c := *l
	c.provider = provider
	c.model = model
	return &c
}

// SetOutput redirects log output (for testing).
func (l *Logger) SetOutput(w io.Writer) { l.out = w }

// log emits a structured log event
func (l *Logger) log(level Level, event string, extra map[string]interface{}, err error) {
	e := Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Component: l.component,
		Event:     event,
		Request:   l.request,
		Provider:  l.provider,
		Model:     l.model,
		Extra:     extra,
	}

	if err != nil {
		e.Error = err.Error()
	}

	data, _ := json.Marshal(e)
	fmt.Fprintln(l.out, string(data))
}

// Debug logs a debug event
func (l *Logger) Debug(event string, extra map[string]interface{}) {
	l.log(LevelDebug, event, extra, nil)
}

// Info logs an info event
func (l *Logger) Info(event string, extra map[string]interface{}) {
	l.log(LevelInfo, event, extra, nil)
}

// Warn logs a warning event
func (l *Logger) Warn(event string, extra map[string]interface{}, err error) {
	l.log(LevelWarn, event, extra, err)
}

// Error logs an error event
func (l *Logger) Error(event string, extra map[string]interface{}, err error) {
	l.log(LevelError, event, extra, err)
}

// TimedEvent logs an event with duration
func (l *Logger) TimedEvent(event string, start time.Time, extra map[string]interface{}) {
	e := Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     LevelInfo,
		Component: l.component,
		Event:     event,
		Request:   l.request,
		Provider:  l.provider,
		Model:     l.model,
		Duration:  time.Since(start).Milliseconds(),
		Extra:     extra,
	}

	data, _ := json.Marshal(e)
	fmt.Fprintln(l.out, string(data))
}
