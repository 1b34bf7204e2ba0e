package store

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

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(config.Store{
		URL:    srv.URL,
		APIKey: "test-key",
		Table:  "users",
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(config.Store{})
	assert.Error(t, err)
}

func TestGetUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/users", r.URL.Path)
		assert.Equal(t, "eq.48123456789", r.URL.Query().Get("phone_number"))
		assert.Equal(t, "test-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		_, _ = w.Write([]byte(`[{"phone_number":"48123456789","topics":["crypto"]}]`))
	})

	user, err := client.GetUser(context.Background(), "48123456789")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "48123456789", user.PhoneNumber)
	assert.JSONEq(t, `["crypto"]`, string(user.Topics))
}

func TestGetUserAbsent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	user, err := client.GetUser(context.Background(), "48123456789")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestInsertUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		var body []map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body, 1)
		assert.Equal(t, "48123456789", body[0]["phone_number"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[{"phone_number":"48123456789"}]`))
	})

	user, err := client.InsertUser(context.Background(), "48123456789")
	require.NoError(t, err)
	assert.Equal(t, "48123456789", user.PhoneNumber)
}

func TestGetField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "topics", r.URL.Query().Get("select"))
		_, _ = w.Write([]byte(`[{"topics":"[\"crypto\",\"ai\"]"}]`))
	})

	raw, err := client.GetField(context.Background(), "48123456789", "topics")
	require.NoError(t, err)
	assert.Equal(t, `"[\"crypto\",\"ai\"]"`, string(raw))
}

func TestUpdateField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.48123456789", r.URL.Query().Get("phone_number"))

		var body map[string][]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"crypto", "ai"}, body["topics"])

		w.WriteHeader(http.StatusNoContent)
	})

	err := client.UpdateField(context.Background(), "48123456789", "topics", []string{"crypto", "ai"})
	require.NoError(t, err)
}

func TestListUsers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		_, _ = w.Write([]byte(`[{"phone_number":"1"},{"phone_number":"2"}]`))
	})

	users, err := client.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "1", users[0].PhoneNumber)
}

func TestErrorStatusSurfaced(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid api key"}`))
	})

	_, err := client.GetUser(context.Background(), "48123456789")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
