// Package store implements the preference store adapter on top of the
// Supabase PostgREST API. The users table is keyed by phone number and
// carries the three list-valued preference columns.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"newsbot/internal/config"
	"newsbot/internal/core"
	"newsbot/internal/logger"
)

// UserStore defines the operations the orchestrators need from the
// preference store.
type UserStore interface {
	// GetUser looks up a user by phone number; (nil, nil) when absent.
	GetUser(ctx context.Context, phone string) (*core.User, error)

	// InsertUser creates a record holding only the phone number.
	InsertUser(ctx context.Context, phone string) (*core.User, error)

	// GetField reads a single preference column in its raw stored shape.
	GetField(ctx context.Context, phone, field string) (json.RawMessage, error)

	// UpdateField writes a canonical list back to a preference column.
	UpdateField(ctx context.Context, phone, field string, values []string) error

	// ListUsers returns every user record.
	ListUsers(ctx context.Context) ([]core.User, error)
}

// Client is a UserStore backed by the Supabase REST endpoint.
type Client struct {
	baseURL string
	apiKey  string
	table   string
	client  *http.Client
}

// NewClient creates a Supabase store client from configuration.
func NewClient(cfg config.Store) (*Client, error) {
	if cfg.URL == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase store requires url and api key. Set SUPABASE_URL and SUPABASE_KEY")
	}

	timeout := 10 * time.Second
	if cfg.Timeout != "" {
		if parsed, err := time.ParseDuration(cfg.Timeout); err == nil {
			timeout = parsed
		}
	}

	table := cfg.Table
	if table == "" {
		table = "users"
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		table:   table,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// GetUser fetches the record for one phone number.
func (c *Client) GetUser(ctx context.Context, phone string) (*core.User, error) {
	params := url.Values{}
	params.Set("select", "*")
	params.Set("phone_number", "eq."+phone)
	params.Set("limit", "1")

	var rows []core.User
	if err := c.do(ctx, http.MethodGet, params, nil, &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", phone, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// InsertUser creates a new record with only the phone number populated.
func (c *Client) InsertUser(ctx context.Context, phone string) (*core.User, error) {
	body := []map[string]string{{"phone_number": phone}}

	var rows []core.User
	if err := c.do(ctx, http.MethodPost, url.Values{}, body, &rows); err != nil {
		return nil, fmt.Errorf("failed to insert user %s: %w", phone, err)
	}
	if len(rows) == 0 {
		return &core.User{PhoneNumber: phone}, nil
	}
	logger.Info("New user added", "phone", phone)
	return &rows[0], nil
}

// GetField reads one preference column for a user, returning the raw column
// value so the caller can normalize whatever shape the store produced.
func (c *Client) GetField(ctx context.Context, phone, field string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("select", field)
	params.Set("phone_number", "eq."+phone)
	params.Set("limit", "1")

	var rows []map[string]json.RawMessage
	if err := c.do(ctx, http.MethodGet, params, nil, &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch %s for %s: %w", field, phone, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0][field], nil
}

// UpdateField writes a preference column back as a native JSON array.
func (c *Client) UpdateField(ctx context.Context, phone, field string, values []string) error {
	params := url.Values{}
	params.Set("phone_number", "eq."+phone)

	body := map[string][]string{field: values}
	if err := c.do(ctx, http.MethodPatch, params, body, nil); err != nil {
		return fmt.Errorf("failed to update %s for %s: %w", field, phone, err)
	}
	return nil
}

// ListUsers fetches all user records for the digest sweep.
func (c *Client) ListUsers(ctx context.Context) ([]core.User, error) {
	params := url.Values{}
	params.Set("select", "*")

	var rows []core.User
	if err := c.do(ctx, http.MethodGet, params, nil, &rows); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return rows, nil
}

// do executes one PostgREST request against the users table and decodes the
// response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method string, params url.Values, body, out any) error {
	fullURL := c.baseURL + "/rest/v1/" + c.table
	if encoded := params.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("store returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
