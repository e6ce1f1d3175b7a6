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

const googleAPIURL = "https://generativelanguage.googleapis.com/v1beta/models"

type Google struct {
	apiKey  string
	baseURL string
	client  HTTPClient
}

func NewGoogle(apiKey string) *Google {
	return NewGoogleWithClient(apiKey, "", &http.Client{})
}

func NewGoogleWithClient(apiKey, baseURLOverride string, client HTTPClient) *Google {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			apiKey = os.Getenv("GOOGLE_API_KEY")
		}
	}
	baseURL := baseURLOverride
	if baseURL == "" {
		baseURL = googleAPIURL
	} else {
		baseURL = strings.TrimSuffix(baseURL, "/")
	}
	return &Google{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
	}
}

func (g *Google) ID() string   { return "gemini" }
func (g *Google) Name() string { return "Gemini" }

func (g *Google) Models() []llm.Model {
	return []llm.Model{
		{ID: "gemini-2.0-flash-exp", Name: "Gemini 2.0 Flash", ContextSize: 1000000, InputCost: 0, OutputCost: 0},
		{ID: "gemini-1.5-pro", Name: "Gemini 1.5 Pro", ContextSize: 2000000, InputCost: 1.25, OutputCost: 5},
		{ID: "gemini-1.5-flash", Name: "Gemini 1.5 Flash", ContextSize: 1000000, InputCost: 0.075, OutputCost: 0.3},
		{ID: "gemini-1.5-flash-8b", Name: "Gemini 1.5 Flash 8B", ContextSize: 1000000, InputCost: 0.0375, OutputCost: 0.15},
	}
}

type googleRequest struct {
	Contents         []googleContent  `json:"contents"`
	GenerationConfig *googleGenConfig `json:"generationConfig,omitempty"`
}

type googleContent struct {
	Role  string       `json:"role"`
	Parts []googlePart `json:"parts"`
}

type googlePart struct {
	Text string `json:"text,omitempty"`
}

type googleGenConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

type googleResponse struct {
	Candidates []struct {
		Content googleContent `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

type googleModelList struct {
	Models []struct {
		Name string `json:"name"` // "models/gemini-1.5-pro"
	} `json:"models"`
}

func (g *Google) Complete(ctx context.Context, req *llm.CompleteRequest) (*llm.CompleteResponse, error) {
	body := googleRequest{
		Contents: []googleContent{
			{Role: "user", Parts: []googlePart{{Text: req.Prompt}}},
		},
	}
	if req.MaxTokens > 0 || req.Temperature > 0 {
		body.GenerationConfig = &googleGenConfig{
			MaxOutputTokens: req.MaxTokens,
			Temperature:     req.Temperature,
		}
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", g.baseURL, req.Model, g.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, llm.NewTransportError(g.ID(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, llm.NewStatusError(g.ID(), resp.StatusCode, string(errBody))
	}

	var out googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(out.Candidates) == 0 {
		return nil, &llm.ProviderError{Provider: g.ID(), Kind: llm.KindProvider, Message: "no candidates in response"}
	}

	var text strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}

	return &llm.CompleteResponse{
		Model:        req.Model,
		Text:         text.String(),
		InputTokens:  out.UsageMetadata.PromptTokenCount,
		OutputTokens: out.UsageMetadata.CandidatesTokenCount,
	}, nil
}

// ListModels fetches the live model list; names come back prefixed with
// "models/", which is stripped.
func (g *Google) ListModels(ctx context.Context) ([]string, error) {
	url := fmt.Sprintf("%s?key=%s", g.baseURL, g.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, llm.NewTransportError(g.ID(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, llm.NewStatusError(g.ID(), resp.StatusCode, string(errBody))
	}

	var list googleModelList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode model list: %w", err)
	}

	names := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		names = append(names, strings.TrimPrefix(m.Name, "models/"))
	}
	sort.Strings(names)
	return names, nil
}

var _ llm.Provider = (*Google)(nil)
