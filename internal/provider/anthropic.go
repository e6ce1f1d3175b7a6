package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/joss/polyprompt/pkg/llm"
)

const (
	anthropicAPIURL  = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
)

type Anthropic struct {
	apiKey  string
	baseURL string
	client  HTTPClient
}

func NewAnthropic(apiKey, baseURLOverride string) *Anthropic {
	return NewAnthropicWithClient(apiKey, baseURLOverride, &http.Client{})
}

func NewAnthropicWithClient(apiKey, baseURLOverride string, client HTTPClient) *Anthropic {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	baseURL := baseURLOverride
	if baseURL == "" {
		baseURL = anthropicAPIURL
	} else {
		baseURL = strings.TrimSuffix(baseURL, "/")
		// Anthropic API uses /messages (not /v1/chat/completions like OpenAI)
		if !strings.HasSuffix(baseURL, "/messages") {
			baseURL = baseURL + "/messages"
		}
	}
	return &Anthropic{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
	}
}

func (a *Anthropic) ID() string   { return "anthropic" }
func (a *Anthropic) Name() string { return "Anthropic" }

func (a *Anthropic) Models() []llm.Model {
	return []llm.Model{
		{ID: "claude-sonnet-4-20250514", Name: "Claude Sonnet 4", ContextSize: 200000, InputCost: 3, OutputCost: 15},
		{ID: "claude-opus-4-20250514", Name: "Claude Opus 4", ContextSize: 200000, InputCost: 15, OutputCost: 75},
		{ID: "claude-3-7-sonnet-20250219", Name: "Claude 3.7 Sonnet", ContextSize: 200000, InputCost: 3, OutputCost: 15},
		{ID: "claude-3-5-sonnet-20241022", Name: "Claude 3.5 Sonnet", ContextSize: 200000, InputCost: 3, OutputCost: 15},
		{ID: "claude-3-5-haiku-20241022", Name: "Claude 3.5 Haiku", ContextSize: 200000, InputCost: 0.8, OutputCost: 4},
	}
}

// ListModels serves the static catalog; Anthropic's API has no listing
// endpoint worth a network round-trip for this set.
func (a *Anthropic) ListModels(ctx context.Context) ([]string, error) {
	models := a.Models()
	names := make([]string, 0, len(models))
	for _, m := range models {
		names = append(names, m.ID)
	}
	return names, nil
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature,omitempty"`
	Thinking    *thinkingConfig    `json:"thinking,omitempty"`
}

type thinkingConfig struct {
	Type         string `json:"type"`          // "enabled"
	BudgetTokens int    `json:"budget_tokens"` // max tokens for thinking
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (a *Anthropic) Complete(ctx context.Context, req *llm.CompleteRequest) (*llm.CompleteResponse, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 8192
	}

	body := anthropicRequest{
		Model:     req.Model,
		MaxTokens: maxTokens,
		Messages: []anthropicMessage{
			{Role: "user", Content: req.Prompt},
		},
		Temperature: req.Temperature,
	}

	// Enable extended thinking if budget > 0
	if req.ThinkingBudget > 0 {
		body.Thinking = &thinkingConfig{
			Type:         "enabled",
			BudgetTokens: req.ThinkingBudget,
		}
		// Temperature must be 1 when thinking is enabled
		body.Temperature = 1
		if maxTokens <= req.ThinkingBudget {
			body.MaxTokens = req.ThinkingBudget + maxTokens
		}
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", a.baseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, llm.NewTransportError(a.ID(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, llm.NewStatusError(a.ID(), resp.StatusCode, string(errBody))
	}

	var out anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	// Thinking blocks precede the text block; collect text only
	var text strings.Builder
	for _, c := range out.Content {
		if c.Type == "text" {
			text.WriteString(c.Text)
		}
	}

	return &llm.CompleteResponse{
		Model:        req.Model,
		Text:         text.String(),
		InputTokens:  out.Usage.InputTokens,
		OutputTokens: out.Usage.OutputTokens,
	}, nil
}

var _ llm.Provider = (*Anthropic)(nil)
