// Package digest implements the daily digest orchestrator: a best-effort
// sweep over all users that fetches, summarizes and delivers news.
package digest

import (
	"context"
	"fmt"
	"strings"

	"newsbot/internal/config"
	"newsbot/internal/core"
	"newsbot/internal/logger"
	"newsbot/internal/news"
	"newsbot/internal/prefs"
	"newsbot/internal/store"
	"newsbot/internal/summarize"
	"newsbot/internal/whatsapp"

	"github.com/google/uuid"
)

const (
	header          = "📰 Your Daily News Summary"
	noArticlesNote  = "No new articles found today."
	defaultPageSize = 5
)

// Orchestrator assembles and delivers one digest per user.
type Orchestrator struct {
	users          store.UserStore
	fetcher        news.Fetcher
	summarizer     summarize.Summarizer
	sender         whatsapp.Sender
	pageSize       int
	defaultSources string
}

// New creates a digest orchestrator.
func New(users store.UserStore, fetcher news.Fetcher, summarizer summarize.Summarizer, sender whatsapp.Sender, cfg config.News) *Orchestrator {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	defaultSources := cfg.DefaultSources
	if defaultSources == "" {
		defaultSources = "bbc-news,cnn"
	}

	return &Orchestrator{
		users:          users,
		fetcher:        fetcher,
		summarizer:     summarizer,
		sender:         sender,
		pageSize:       pageSize,
		defaultSources: defaultSources,
	}
}

// Run sweeps over every user sequentially. A failing user is logged and
// skipped; only a failure to list the users at all aborts the run.
func (o *Orchestrator) Run(ctx context.Context) error {
	runID := uuid.NewString()
	logger.Info("Digest run started", "run_id", runID)

	users, err := o.users.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch users: %w", err)
	}
	logger.Info("Users fetched", "run_id", runID, "count", len(users))

	delivered := 0
	for _, user := range users {
		if err := o.sendDigest(ctx, user); err != nil {
			logger.Error("Digest delivery failed, skipping user", err, "run_id", runID, "phone", user.PhoneNumber)
			continue
		}
		delivered++
	}

	logger.Info("Digest run finished", "run_id", runID, "delivered", delivered, "total", len(users))
	return nil
}

// sendDigest builds and delivers the digest for one user.
func (o *Orchestrator) sendDigest(ctx context.Context, user core.User) error {
	topics := prefs.Normalize(user.Topics)
	sources := prefs.Normalize(user.Sources)

	query := strings.Join(topics, " OR ")
	sourcesCsv := strings.Join(sources, ",")
	if sourcesCsv == "" {
		sourcesCsv = o.defaultSources
	}

	articles, err := o.fetcher.TopHeadlines(ctx, query, sourcesCsv, o.pageSize)
	if err != nil {
		logger.Error("News fetch failed, continuing with empty list", err, "phone", user.PhoneNumber)
		articles = nil
	}

	message := o.buildMessage(ctx, topics, sources, articles)

	if err := o.sender.SendText(ctx, user.PhoneNumber, message); err != nil {
		return fmt.Errorf("failed to deliver digest: %w", err)
	}
	return nil
}

// buildMessage assembles the digest body: header, preference lines, then a
// bullet per article or the no-articles notice.
func (o *Orchestrator) buildMessage(ctx context.Context, topics, sources []string, articles []core.Article) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString("Topics: " + prefs.JoinOrDefault(topics, "(none)") + "\n")
	b.WriteString("Sources: " + prefs.JoinOrDefault(sources, "(default)") + "\n\n")

	if len(articles) == 0 {
		b.WriteString(noArticlesNote)
		return b.String()
	}

	for _, article := range articles {
		summary, err := o.summarizer.Summarize(ctx, summarize.ArticlePrompt(article))
		if err != nil {
			logger.Error("Article summarization failed, using original text", err, "url", article.URL)
			summary = summarize.ArticleText(article)
		}

		b.WriteString(fmt.Sprintf("• %s (%s)\n%s\n%s\n\n", article.Title, article.Source.Name, summary, article.URL))
	}

	return strings.TrimRight(b.String(), "\n")
}
