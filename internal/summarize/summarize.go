// Package summarize implements the summarization adapter: a small interface
// over hosted language models with selectable providers.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"newsbot/internal/config"
	"newsbot/internal/core"
)

const (
	// SystemPrompt frames every summarization request.
	SystemPrompt = "You are a helpful news summarizer for WhatsApp."
	// MessagePromptTemplate condenses an inbound free-text message.
	MessagePromptTemplate = "Summarize this message in 2-3 sentences: %s"
	// ArticlePromptTemplate condenses one news article.
	ArticlePromptTemplate = "Summarize this article in 2-3 sentences:\n\n%s"
)

// Summarizer condenses free text with a hosted model. Callers must have a
// fallback for when the call fails; there are no retries here.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// New creates the configured summarization provider.
func New(cfg config.AI) (Summarizer, error) {
	switch cfg.Provider {
	case "", "openai":
		return NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		return NewGeminiProvider(cfg.Gemini)
	default:
		return nil, fmt.Errorf("unknown ai provider: %s. Supported: openai, gemini", cfg.Provider)
	}
}

// MessagePrompt builds the prompt for an inbound free-text message.
func MessagePrompt(text string) string {
	return fmt.Sprintf(MessagePromptTemplate, text)
}

// ArticleText joins an article's title, description and content into the
// text submitted for summarization. Absent fields collapse away.
func ArticleText(article core.Article) string {
	return strings.TrimSpace(article.Title + "\n" + article.Description + "\n" + article.Content)
}

// ArticlePrompt builds the prompt for one article.
func ArticlePrompt(article core.Article) string {
	return fmt.Sprintf(ArticlePromptTemplate, ArticleText(article))
}
