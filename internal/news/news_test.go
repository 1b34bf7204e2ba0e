package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"newsbot/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(config.News{
		APIKey:  "test-key",
		BaseURL: srv.URL,
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(config.News{})
	assert.Error(t, err)
}

func TestTopHeadlines(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/top-headlines", r.URL.Path)
		assert.Equal(t, "bitcoin OR ai", r.URL.Query().Get("q"))
		assert.Equal(t, "bbc-news,cnn", r.URL.Query().Get("sources"))
		assert.Equal(t, "5", r.URL.Query().Get("pageSize"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))

		_, _ = w.Write([]byte(`{
			"status": "ok",
			"articles": [
				{
					"title": "Bitcoin hits new high",
					"description": "<p>Markets <b>rally</b> worldwide.</p>",
					"content": "Full content here",
					"url": "https://example.com/btc",
					"source": {"id": "bbc-news", "name": "BBC News"}
				}
			]
		}`))
	})

	articles, err := client.TopHeadlines(context.Background(), "bitcoin OR ai", "bbc-news,cnn", 5)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Bitcoin hits new high", articles[0].Title)
	assert.Equal(t, "Markets rally worldwide.", articles[0].Description)
	assert.Equal(t, "BBC News", articles[0].Source.Name)
}

func TestTopHeadlinesEmptyFilters(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("q"))
		assert.False(t, r.URL.Query().Has("sources"))
		_, _ = w.Write([]byte(`{"status":"ok","articles":[]}`))
	})

	articles, err := client.TopHeadlines(context.Background(), "", "", 5)
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestTopHeadlinesAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid"}`))
	})

	_, err := client.TopHeadlines(context.Background(), "bitcoin", "", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apiKeyInvalid")
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "plain text", stripHTML("plain text"))
	assert.Equal(t, "Markets rally", stripHTML("<div><span>Markets</span> rally</div>"))
	assert.Equal(t, "", stripHTML(""))
}
