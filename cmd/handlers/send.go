package handlers

import (
	"fmt"

	"newsbot/internal/config"
	"newsbot/internal/whatsapp"

	"github.com/spf13/cobra"
)

// NewSendCmd creates the send command for one-off test messages
func NewSendCmd() *cobra.Command {
	var (
		to      string
		message string
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a one-off WhatsApp message",
		Long: `Send a single text message to one recipient. Useful for verifying the
WhatsApp credentials and phone number configuration.

Example:
  newsbot send --to 48123456789 --message "Hi! Im your new news bot"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			sender, err := whatsapp.NewClient(cfg.WhatsApp)
			if err != nil {
				return err
			}

			if err := sender.SendText(cmd.Context(), to, message); err != nil {
				return fmt.Errorf("failed to send message: %w", err)
			}

			fmt.Println("Message sent successfully")
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "recipient phone number")
	cmd.Flags().StringVar(&message, "message", "Hi!\nIm your new news bot", "message body")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
