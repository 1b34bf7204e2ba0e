package handlers

import (
	"fmt"

	"newsbot/internal/config"
	"newsbot/internal/digest"
	"newsbot/internal/news"
	"newsbot/internal/store"
	"newsbot/internal/summarize"
	"newsbot/internal/whatsapp"

	"github.com/spf13/cobra"
)

// NewDigestCmd creates the digest command for running the daily sweep
func NewDigestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Send the daily news digest to every user",
		Long: `Run the daily digest sweep once: for every user in the store, fetch
headlines matching their topics and sources, summarize each article and
deliver the assembled digest over WhatsApp.

Per-user failures are logged and skipped; the sweep always covers all
users. Intended to be scheduled externally, e.g. via cron:

  0 8 * * * newsbot digest`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDigest(cmd)
		},
	}

	return cmd
}

func runDigest(cmd *cobra.Command) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	users, err := store.NewClient(cfg.Store)
	if err != nil {
		return err
	}
	fetcher, err := news.NewClient(cfg.News)
	if err != nil {
		return err
	}
	summarizer, err := summarize.New(cfg.AI)
	if err != nil {
		return err
	}
	sender, err := whatsapp.NewClient(cfg.WhatsApp)
	if err != nil {
		return err
	}

	orchestrator := digest.New(users, fetcher, summarizer, sender, cfg.News)
	return orchestrator.Run(cmd.Context())
}
