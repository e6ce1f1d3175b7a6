package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/joss/polyprompt/pkg/llm"
)

func TestOpenAIComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Error("Missing or wrong Authorization header")
		}
		var body openaiRequest
		json.NewDecoder(r.Body).Decode(&body)
		if body.Model != "gpt-4o-mini" {
			t.Errorf("Model = %q", body.Model)
		}
		if len(body.Messages) != 1 || body.Messages[0].Role != "user" || body.Messages[0].Content != "ping" {
			t.Errorf("Messages = %+v", body.Messages)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"pong"}}],"usage":{"prompt_tokens":3,"completion_tokens":2}}`))
	}))
	defer server.Close()

	p := NewOpenAI("test-key", server.URL)

	resp, err := p.Complete(context.Background(), &llm.CompleteRequest{Model: "gpt-4o-mini", Prompt: "ping"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Text != "pong" {
		t.Errorf("Text = %q, want %q", resp.Text, "pong")
	}
	if resp.InputTokens != 3 || resp.OutputTokens != 2 {
		t.Errorf("usage = %d/%d", resp.InputTokens, resp.OutputTokens)
	}
}

func TestOpenAIListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":"gpt-4o"},{"id":"gpt-4o-mini"},{"id":"o1"}]}`))
	}))
	defer server.Close()

	p := NewOpenAI("test-key", server.URL)

	names, err := p.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if len(names) != 3 {
		t.Fatalf("got %d names", len(names))
	}
	// Sorted output
	if names[0] != "gpt-4o" || names[2] != "o1" {
		t.Errorf("names = %v", names)
	}
}

func TestOpenAIErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   llm.ErrorKind
	}{
		{"unauthorized", http.StatusUnauthorized, llm.KindAuthentication},
		{"forbidden", http.StatusForbidden, llm.KindAuthentication},
		{"rate limited", http.StatusTooManyRequests, llm.KindRateLimited},
		{"model not found", http.StatusNotFound, llm.KindRejectedModel},
		{"server error", http.StatusInternalServerError, llm.KindProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"error":{"message":"nope"}}`))
			}))
			defer server.Close()

			p := NewOpenAI("bad-key", server.URL)
			_, err := p.Complete(context.Background(), &llm.CompleteRequest{Model: "gpt-4o", Prompt: "hi"})
			if err == nil {
				t.Fatal("expected error")
			}
			var pe *llm.ProviderError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not *llm.ProviderError", err)
			}
			if pe.Kind != tt.want {
				t.Errorf("kind = %q, want %q", pe.Kind, tt.want)
			}
			if pe.Status != tt.status {
				t.Errorf("status = %d, want %d", pe.Status, tt.status)
			}
		})
	}
}

func TestOpenAITransportError(t *testing.T) {
	p := NewOpenAI("key", "http://127.0.0.1:1") // nothing listens here
	_, err := p.Complete(context.Background(), &llm.CompleteRequest{Model: "gpt-4o", Prompt: "hi"})
	if err == nil {
		t.Fatal("expected error")
	}
	if llm.KindOf(err) != llm.KindTransport {
		t.Errorf("kind = %q, want transport", llm.KindOf(err))
	}
}

func TestAnthropicComplete(t *testing.T) {
	var captured anthropicRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Error("Missing or wrong x-api-key header")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("Missing anthropic-version header")
		}
		json.NewDecoder(r.Body).Decode(&captured)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"type":"thinking","text":"hmm"},{"type":"text","text":"pong"}],"usage":{"input_tokens":5,"output_tokens":7}}`))
	}))
	defer server.Close()

	p := NewAnthropic("test-key", server.URL)

	resp, err := p.Complete(context.Background(), &llm.CompleteRequest{
		Model:          "claude-3-7-sonnet-20250219",
		Prompt:         "ping",
		ThinkingBudget: 4096,
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	// Only text blocks make it into the response
	if resp.Text != "pong" {
		t.Errorf("Text = %q, want %q", resp.Text, "pong")
	}
	if captured.Thinking == nil || captured.Thinking.BudgetTokens != 4096 {
		t.Errorf("thinking config = %+v", captured.Thinking)
	}
	// Temperature must be 1 when thinking is enabled
	if captured.Temperature != 1 {
		t.Errorf("temperature = %v, want 1", captured.Temperature)
	}
	if captured.MaxTokens <= 4096 {
		t.Errorf("max_tokens = %d, must exceed the thinking budget", captured.MaxTokens)
	}
}

func TestAnthropicBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{"empty uses default", "", "https://api.anthropic.com/v1/messages"},
		{"adds /messages", "http://localhost:8080", "http://localhost:8080/messages"},
		{"removes trailing slash", "http://localhost:8080/", "http://localhost:8080/messages"},
		{"keeps full path", "http://localhost:8080/v1/messages", "http://localhost:8080/v1/messages"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewAnthropic("key", tt.baseURL)
			if p.baseURL != tt.want {
				t.Errorf("baseURL = %q, want %q", p.baseURL, tt.want)
			}
		})
	}
}

func TestAnthropicListModelsStatic(t *testing.T) {
	p := NewAnthropic("key", "")
	names, err := p.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	found := false
	for _, n := range names {
		if n == "claude-3-7-sonnet-20250219" {
			found = true
		}
	}
	if !found {
		t.Error("static listing should include claude-3-7-sonnet-20250219")
	}
}

func TestGoogleComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gemini-1.5-flash:generateContent" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Error("missing api key in query")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"pong"}]}}],"usageMetadata":{"promptTokenCount":4,"candidatesTokenCount":2}}`))
	}))
	defer server.Close()

	p := NewGoogleWithClient("test-key", server.URL, server.Client())

	resp, err := p.Complete(context.Background(), &llm.CompleteRequest{Model: "gemini-1.5-flash", Prompt: "ping"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Text != "pong" {
		t.Errorf("Text = %q", resp.Text)
	}
}

func TestGoogleListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"models":[{"name":"models/gemini-1.5-pro"},{"name":"models/gemini-1.5-flash"}]}`))
	}))
	defer server.Close()

	p := NewGoogleWithClient("test-key", server.URL, server.Client())

	names, err := p.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("got %d names", len(names))
	}
	// models/ prefix stripped, sorted
	if names[0] != "gemini-1.5-flash" || names[1] != "gemini-1.5-pro" {
		t.Errorf("names = %v", names)
	}
}

func TestProviderIdentity(t *testing.T) {
	tests := []struct {
		p    llm.Provider
		id   string
		name string
	}{
		{NewOpenAI("", ""), "openai", "OpenAI"},
		{NewAnthropic("", ""), "anthropic", "Anthropic"},
		{NewGoogle(""), "gemini", "Gemini"},
		{NewOpenAICompatible("groq", "Groq", "", "https://api.groq.com/openai/v1", nil), "groq", "Groq"},
	}
	for _, tt := range tests {
		if tt.p.ID() != tt.id {
			t.Errorf("ID() = %q, want %q", tt.p.ID(), tt.id)
		}
		if tt.p.Name() != tt.name {
			t.Errorf("Name() = %q, want %q", tt.p.Name(), tt.name)
		}
	}
}
