package handlers

import (
	"fmt"
	"os"

	"newsbot/internal/config"

	"github.com/spf13/cobra"
)

var cfgFile string

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "newsbot",
		Short: "Newsbot is a WhatsApp bot for personalized news digests.",
		Long: `Newsbot receives WhatsApp messages over a webhook, manages per-user
news preferences (topics, sources, update times) through chat commands,
and delivers daily news digests summarized by a language model.

Command grammar understood in chat:
  !<domain> [<action>][:<csv values>]

Examples:
  !topics add: bitcoin, ai
  !sources list
  !updatetime reset`,
	}

	// Initialize configuration
	cobra.OnInitialize(initConfig)

	// Add persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.newsbot.yaml)")

	// Add subcommands
	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewDigestCmd())
	rootCmd.AddCommand(NewSendCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if _, err := config.Load(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}
