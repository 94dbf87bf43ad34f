package referral

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", &http.Client{Timeout: 2 * time.Second})
}

func TestClient_ValidCode(t *testing.T) {
	var gotCode string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/referrals/validate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		var req validateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotCode = req.Code
		_ = json.NewEncoder(w).Encode(Result{Valid: true})
	})

	res, err := c.Validate(context.Background(), "FRIEND42")
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, "FRIEND42", gotCode)
}

func TestClient_RejectedCodeIsNotAnError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(Result{Valid: false, Message: "Referral code not found"})
	})

	res, err := c.Validate(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "Referral code not found", res.Message)
}

func TestClient_ServerErrorIsTransport(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := c.Validate(context.Background(), "FRIEND42")
	assert.ErrorIs(t, err, ErrTransport)
}

func TestClient_GarbageBodyIsTransport(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	})

	_, err := c.Validate(context.Background(), "FRIEND42")
	assert.ErrorIs(t, err, ErrTransport)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, &http.Client{Timeout: time.Second})
	_, err := c.Validate(context.Background(), "FRIEND42")
	assert.ErrorIs(t, err, ErrTransport)
}
