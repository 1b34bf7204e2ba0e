package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"newsbot/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(config.WhatsApp{})
	assert.Error(t, err)
}

func TestSendText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v20.0/12345/messages", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var message TextMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&message))
		assert.Equal(t, "whatsapp", message.MessagingProduct)
		assert.Equal(t, "48123456789", message.To)
		assert.Equal(t, "text", message.Type)
		assert.Equal(t, "Hi!\nIm your new news bot", message.Text.Body)

		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.test"}]}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(config.WhatsApp{
		Token:      "test-token",
		PhoneID:    "12345",
		BaseURL:    srv.URL,
		APIVersion: "v20.0",
	})
	require.NoError(t, err)

	err = client.SendText(context.Background(), "48123456789", "Hi!\nIm your new news bot")
	require.NoError(t, err)
}

func TestSendTextErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token"}}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(config.WhatsApp{
		Token:   "bad-token",
		PhoneID: "12345",
		BaseURL: srv.URL,
	})
	require.NoError(t, err)

	err = client.SendText(context.Background(), "48123456789", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
