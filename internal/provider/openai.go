package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/joss/polyprompt/pkg/llm"
)

const openaiAPIURL = "https://api.openai.com/v1/chat/completions"

// OpenAI speaks the chat-completions wire format. It doubles as the
// client for every OpenAI-compatible backend (Groq, DeepSeek, Ollama)
// via NewOpenAICompatible.
type OpenAI struct {
	id      string
	name    string
	apiKey  string
	baseURL string
	client  HTTPClient
	catalog []llm.Model
}

func NewOpenAI(apiKey string, baseURLOverride string) *OpenAI {
	return NewOpenAIWithClient(apiKey, baseURLOverride, &http.Client{})
}

func NewOpenAIWithClient(apiKey string, baseURLOverride string, client HTTPClient) *OpenAI {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	baseURL := baseURLOverride
	if baseURL == "" {
		baseURL = os.Getenv("OPENAI_BASE_URL")
	}
	if baseURL == "" {
		baseURL = openaiAPIURL
	} else {
		baseURL = normalizeChatURL(baseURL)
	}
	return &OpenAI{
		id:      "openai",
		name:    "OpenAI",
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
		catalog: []llm.Model{
			{ID: "gpt-4o", Name: "GPT-4o", ContextSize: 128000, InputCost: 2.5, OutputCost: 10},
			{ID: "gpt-4o-mini", Name: "GPT-4o Mini", ContextSize: 128000, InputCost: 0.15, OutputCost: 0.6},
			{ID: "gpt-4-turbo", Name: "GPT-4 Turbo", ContextSize: 128000, InputCost: 10, OutputCost: 30},
			{ID: "o1", Name: "o1", ContextSize: 200000, InputCost: 15, OutputCost: 60},
			{ID: "o1-mini", Name: "o1 Mini", ContextSize: 128000, InputCost: 3, OutputCost: 12},
		},
	}
}

// NewOpenAICompatible builds a client for an OpenAI-compatible backend
// under its own provider identity.
func NewOpenAICompatible(id, name, apiKey, baseURL string, catalog []llm.Model) *OpenAI {
	return NewOpenAICompatibleWithClient(id, name, apiKey, baseURL, catalog, &http.Client{})
}

func NewOpenAICompatibleWithClient(id, name, apiKey, baseURL string, catalog []llm.Model, client HTTPClient) *OpenAI {
	return &OpenAI{
		id:      id,
		name:    name,
		apiKey:  apiKey,
		baseURL: normalizeChatURL(baseURL),
		client:  client,
		catalog: catalog,
	}
}

// normalizeChatURL ensures the URL ends with /v1/chat/completions.
func normalizeChatURL(baseURL string) string {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if strings.HasSuffix(baseURL, "/chat/completions") {
		return baseURL
	}
	if strings.HasSuffix(baseURL, "/v1") {
		return baseURL + "/chat/completions"
	}
	return baseURL + "/v1/chat/completions"
}

// modelsURL derives the listing endpoint from the chat endpoint.
func (o *OpenAI) modelsURL() string {
	return strings.TrimSuffix(o.baseURL, "/chat/completions") + "/models"
}

func (o *OpenAI) ID() string   { return o.id }
func (o *OpenAI) Name() string { return o.name }

func (o *OpenAI) Models() []llm.Model { return o.catalog }

type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

type openaiModelList struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (o *OpenAI) Complete(ctx context.Context, req *llm.CompleteRequest) (*llm.CompleteResponse, error) {
	body := openaiRequest{
		Model: req.Model,
		Messages: []openaiMessage{
			{Role: "user", Content: req.Prompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", o.baseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if o.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return nil, llm.NewTransportError(o.id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, llm.NewStatusError(o.id, resp.StatusCode, string(errBody))
	}

	var out openaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return nil, &llm.ProviderError{Provider: o.id, Kind: llm.KindProvider, Message: "empty choices in response"}
	}

	return &llm.CompleteResponse{
		Model:        req.Model,
		Text:         out.Choices[0].Message.Content,
		InputTokens:  out.Usage.PromptTokens,
		OutputTokens: out.Usage.CompletionTokens,
	}, nil
}

// ListModels fetches the live model list from the /models endpoint.
func (o *OpenAI) ListModels(ctx context.Context) ([]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", o.modelsURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if o.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return nil, llm.NewTransportError(o.id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, llm.NewStatusError(o.id, resp.StatusCode, string(errBody))
	}

	var list openaiModelList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode model list: %w", err)
	}

	names := make([]string, 0, len(list.Data))
	for _, m := range list.Data {
		names = append(names, m.ID)
	}
	sort.Strings(names)
	return names, nil
}

var _ llm.Provider = (*OpenAI)(nil)
