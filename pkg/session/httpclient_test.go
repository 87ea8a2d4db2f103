package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalhub/agentkit/pkg/session"
)

func TestHTTPRenewalClient_Refresh(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		expiry := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/auth/refresh", r.URL.Path)
			assert.Equal(t, "Bearer old-token", r.Header.Get("Authorization"))

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"token":      "new-token",
				"expires_at": expiry,
			})
		}))
		t.Cleanup(srv.Close)

		client := session.NewHTTPRenewalClient(srv.URL, srv.Client())
		resp, err := client.Refresh(context.Background(), "old-token")
		require.NoError(t, err)
		assert.Equal(t, "new-token", resp.Token)
		assert.Equal(t, expiry, resp.ExpiresAt)
	})

	t.Run("non-2xx is a renewal failure", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusUnauthorized)
		}))
		t.Cleanup(srv.Close)

		client := session.NewHTTPRenewalClient(srv.URL, srv.Client())
		_, err := client.Refresh(context.Background(), "old-token")
		assert.ErrorIs(t, err, session.ErrRenewalFailed)
	})

	t.Run("malformed response body", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		t.Cleanup(srv.Close)

		client := session.NewHTTPRenewalClient(srv.URL, srv.Client())
		_, err := client.Refresh(context.Background(), "old-token")
		assert.ErrorIs(t, err, session.ErrRenewalFailed)
	})

	t.Run("empty token in response", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"token":""}`))
		}))
		t.Cleanup(srv.Close)

		client := session.NewHTTPRenewalClient(srv.URL, srv.Client())
		_, err := client.Refresh(context.Background(), "old-token")
		assert.ErrorIs(t, err, session.ErrRenewalFailed)
	})

	t.Run("honors context deadline", func(t *testing.T) {
		t.Parallel()

		block := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-block
		}))
		t.Cleanup(func() {
			close(block)
			srv.Close()
		})

		client := session.NewHTTPRenewalClient(srv.URL, srv.Client())
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := client.Refresh(ctx, "old-token")
		assert.Error(t, err)
	})
}
