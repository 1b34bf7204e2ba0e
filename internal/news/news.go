// Package news implements the news fetch adapter against the NewsAPI
// top-headlines endpoint.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"newsbot/internal/config"
	"newsbot/internal/core"
	"newsbot/internal/logger"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher defines the news lookup the digest orchestrator depends on.
type Fetcher interface {
	// TopHeadlines queries headlines matching an OR-joined topic query and a
	// comma-separated source list. Either filter may be empty.
	TopHeadlines(ctx context.Context, topicsQuery, sourcesCsv string, pageSize int) ([]core.Article, error)
}

// Client is a Fetcher backed by the NewsAPI HTTP endpoint.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a NewsAPI client from configuration.
func NewClient(cfg config.News) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("news fetcher requires an API key. Set NEWS_API_KEY")
	}

	timeout := 15 * time.Second
	if cfg.Timeout != "" {
		if parsed, err := time.ParseDuration(cfg.Timeout); err == nil {
			timeout = parsed
		}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://newsapi.org/v2"
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// TopHeadlines performs a top-headlines query.
func (c *Client) TopHeadlines(ctx context.Context, topicsQuery, sourcesCsv string, pageSize int) ([]core.Article, error) {
	params := url.Values{}
	if topicsQuery != "" {
		params.Set("q", topicsQuery)
	}
	if sourcesCsv != "" {
		params.Set("sources", sourcesCsv)
	}
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("apiKey", c.apiKey)

	fullURL := c.baseURL + "/top-headlines?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create news request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute news request: %w", err)
	}
	defer resp.Body.Close()

	var apiResponse struct {
		Status   string         `json:"status"`
		Code     string         `json:"code,omitempty"`
		Message  string         `json:"message,omitempty"`
		Articles []core.Article `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse news response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || apiResponse.Status != "ok" {
		return nil, fmt.Errorf("news API error (%s): %s", apiResponse.Code, apiResponse.Message)
	}

	articles := make([]core.Article, 0, len(apiResponse.Articles))
	for _, article := range apiResponse.Articles {
		article.Description = stripHTML(article.Description)
		article.Content = stripHTML(article.Content)
		articles = append(articles, article)
	}

	logger.Info("News fetch completed", "query", topicsQuery, "sources", sourcesCsv, "articles", len(articles))

	return articles, nil
}

// stripHTML flattens markup that some outlets leave in description and
// content fields down to plain text.
func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
