package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/matheusbnas/dashboard-financeiro-AI/internal/models"
)

const (
	groqBaseURL   = "https://api.groq.com/openai/v1"
	openaiBaseURL = "https://api.openai.com/v1"
)

// chatProvider talks to any OpenAI-compatible chat-completions endpoint.
// Groq and OpenAI differ only in base URL and default model.
type chatProvider struct {
	name    string
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func newGroqProvider(apiKey, model string) *chatProvider {
	return &chatProvider{
		name:    "groq",
		baseURL: groqBaseURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{},
	}
}

func newOpenAIProvider(apiKey, model string) *chatProvider {
	return &chatProvider{
		name:    "openai",
		baseURL: openaiBaseURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{},
	}
}

// Name returns the provider name for logging.
func (p *chatProvider) Name() string {
	return p.name
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// ClassifyBatch sends one chat-completion request for the whole batch and
// parses the JSON-array reply into per-description labels.
func (p *chatProvider) ClassifyBatch(ctx context.Context, descriptions []string, categories []models.Category) ([]string, error) {
	payload := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "user", Content: buildPrompt(descriptions, categories)},
		},
		Temperature: 0.1,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", p.name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", p.name, err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", p.name, err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return nil, fmt.Errorf("%s API error (%d): %s", p.name, resp.StatusCode, parsed.Error.Message)
		}
		return nil, fmt.Errorf("%s API returned status %d", p.name, resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty response from %s", ErrInvalidCategoryLabel, p.name)
	}

	return parseLabels(parsed.Choices[0].Message.Content, len(descriptions))
}
