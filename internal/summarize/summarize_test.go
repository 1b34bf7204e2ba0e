package summarize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"newsbot/internal/config"
	"newsbot/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessagePrompt(t *testing.T) {
	got := MessagePrompt("What happened to tech stocks today?")
	assert.Equal(t, "Summarize this message in 2-3 sentences: What happened to tech stocks today?", got)
}

func TestArticlePrompt(t *testing.T) {
	article := core.Article{
		Title:       "Bitcoin hits new high",
		Description: "Markets rally worldwide.",
		Content:     "Full content here",
	}
	got := ArticlePrompt(article)
	assert.Equal(t, "Summarize this article in 2-3 sentences:\n\nBitcoin hits new high\nMarkets rally worldwide.\nFull content here", got)
}

func TestArticlePromptMissingFields(t *testing.T) {
	article := core.Article{Title: "Bitcoin hits new high"}
	got := ArticlePrompt(article)
	assert.Equal(t, "Summarize this article in 2-3 sentences:\n\nBitcoin hits new high", got)
}

func TestNewSelectsProvider(t *testing.T) {
	_, err := New(config.AI{Provider: "openai", OpenAI: config.OpenAIConfig{APIKey: "k"}})
	assert.NoError(t, err)

	_, err = New(config.AI{Provider: "unknown"})
	assert.Error(t, err)

	_, err = New(config.AI{Provider: "openai"})
	assert.Error(t, err, "missing API key should fail")
}

func TestOpenAIProviderSummarize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, SystemPrompt, req.Messages[0].Content)

		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "A short summary."}}]
		}`))
	}))
	t.Cleanup(srv.Close)

	provider, err := NewOpenAIProvider(config.OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
	})
	require.NoError(t, err)

	summary, err := provider.Summarize(context.Background(), "Summarize this message in 2-3 sentences: hello")
	require.NoError(t, err)
	assert.Equal(t, "A short summary.", summary)
}

func TestOpenAIProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	t.Cleanup(srv.Close)

	provider, err := NewOpenAIProvider(config.OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = provider.Summarize(context.Background(), "prompt")
	assert.Error(t, err)
}
