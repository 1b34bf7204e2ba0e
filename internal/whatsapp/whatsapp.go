// Package whatsapp implements the message delivery adapter for the WhatsApp
// Cloud API (Meta Graph API).
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"newsbot/internal/config"
	"newsbot/internal/logger"
)

// Sender delivers a text payload to one recipient.
type Sender interface {
	SendText(ctx context.Context, to, body string) error
}

// TextMessage is the request body for a text send.
type TextMessage struct {
	MessagingProduct string      `json:"messaging_product"`
	To               string      `json:"to"`
	Type             string      `json:"type"`
	Text             MessageText `json:"text"`
}

// MessageText carries the text body of a message.
type MessageText struct {
	Body string `json:"body"`
}

// Client is a Sender backed by the Graph API messages endpoint.
type Client struct {
	baseURL    string
	apiVersion string
	phoneID    string
	token      string
	client     *http.Client
}

// NewClient creates a WhatsApp client from configuration.
func NewClient(cfg config.WhatsApp) (*Client, error) {
	if cfg.Token == "" || cfg.PhoneID == "" {
		return nil, fmt.Errorf("whatsapp sender requires token and phone id. Set WHATSAPP_TOKEN and PHONE_NUMBER_ID")
	}

	timeout := 10 * time.Second
	if cfg.Timeout != "" {
		if parsed, err := time.ParseDuration(cfg.Timeout); err == nil {
			timeout = parsed
		}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://graph.facebook.com"
	}
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = "v20.0"
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiVersion: apiVersion,
		phoneID:    cfg.PhoneID,
		token:      cfg.Token,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

// SendText posts one text message to a recipient.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	message := TextMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             MessageText{Body: body},
	}

	encoded, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	fullURL := fmt.Sprintf("%s/%s/%s/messages", c.baseURL, c.apiVersion, c.phoneID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("failed to create send request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	logger.Info("Message sent", "to", to, "chars", len(body))
	return nil
}
