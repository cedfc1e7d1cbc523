package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/matheusbnas/dashboard-financeiro-AI/internal/models"
)

// geminiProvider implements Provider on top of the Google Gemini SDK.
type geminiProvider struct {
	apiKey string
	model  string
}

func newGeminiProvider(apiKey, model string) *geminiProvider {
	return &geminiProvider{
		apiKey: apiKey,
		model:  model,
	}
}

// Name returns the provider name for logging.
func (p *geminiProvider) Name() string {
	return "gemini"
}

// ClassifyBatch sends the batch prompt through the Gemini SDK. The client is
// created per call so the batch timeout bounds connection setup too.
func (p *geminiProvider) ClassifyBatch(ctx context.Context, descriptions []string, categories []models.Category) ([]string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	defer func() { _ = client.Close() }()

	model := client.GenerativeModel(p.model)
	model.SetTemperature(0.1)

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(descriptions, categories)))
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("%w: empty response from gemini", ErrInvalidCategoryLabel)
	}

	var reply strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			reply.WriteString(string(text))
		}
	}

	return parseLabels(reply.String(), len(descriptions))
}
