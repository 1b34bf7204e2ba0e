package summarize

import (
	"context"
	"fmt"
	"strings"

	"newsbot/internal/config"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider is a Summarizer backed by the Gemini API.
type GeminiProvider struct {
	model *genai.GenerativeModel
}

// NewGeminiProvider creates a Gemini summarization provider.
func NewGeminiProvider(cfg config.GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini summarizer requires an API key. Set GEMINI_API_KEY")
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-1.5-flash-latest"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(SystemPrompt)},
	}

	return &GeminiProvider{model: model}, nil
}

// Summarize performs one content generation call.
func (p *GeminiProvider) Summarize(ctx context.Context, prompt string) (string, error) {
	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from model")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no text in model response")
	}
	return b.String(), nil
}
