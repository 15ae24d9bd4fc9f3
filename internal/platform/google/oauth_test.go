package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// newTestOAuthClient points the client at a fake Google token and userinfo server.
func newTestOAuthClient(t *testing.T, userInfo map[string]any, userInfoStatus int) *OAuthClient {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostForm.Get("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(userInfoStatus)
		_ = json.NewEncoder(w).Encode(userInfo)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := NewOAuthClient(OAuthConfig{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		RedirectURL:  "http://localhost/auth/google/callback",
	}, &http.Client{Timeout: 5 * time.Second})
	c.oauth2Config.Endpoint = oauth2.Endpoint{
		AuthURL:   srv.URL + "/auth",
		TokenURL:  srv.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
	c.userInfoURL = srv.URL + "/userinfo"
	return c
}

func TestOAuthClient_AuthCodeURL(t *testing.T) {
	t.Parallel()
	c := NewOAuthClient(OAuthConfig{ClientID: "client-1", ClientSecret: "s", RedirectURL: "http://localhost/cb"}, http.DefaultClient)

	u, err := url.Parse(c.AuthCodeURL("state-1"))
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "accounts.google.com", u.Host)
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "client-1", q.Get("client_id"))
	assert.Equal(t, "http://localhost/cb", q.Get("redirect_uri"))
	assert.Contains(t, q.Get("scope"), "email")
}

func TestOAuthClient_Exchange(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		c := newTestOAuthClient(t, map[string]any{
			"id": "g-1", "email": "a@x.com", "verified_email": true, "name": "A", "picture": "https://img/a.png",
		}, http.StatusOK)

		got, err := c.Exchange(context.Background(), "good-code")

		require.NoError(t, err)
		assert.Equal(t, Identity{Subject: "g-1", Email: "a@x.com", Name: "A", Picture: "https://img/a.png"}, got)
	})

	t.Run("bad code", func(t *testing.T) {
		t.Parallel()
		c := newTestOAuthClient(t, nil, http.StatusOK)

		_, err := c.Exchange(context.Background(), "bad-code")

		assert.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("userinfo failure", func(t *testing.T) {
		t.Parallel()
		c := newTestOAuthClient(t, map[string]any{}, http.StatusInternalServerError)

		_, err := c.Exchange(context.Background(), "good-code")

		assert.ErrorIs(t, err, ErrUserInfoFailed)
	})

	t.Run("unverified email", func(t *testing.T) {
		t.Parallel()
		c := newTestOAuthClient(t, map[string]any{"id": "g-1", "email": "a@x.com", "verified_email": false}, http.StatusOK)

		_, err := c.Exchange(context.Background(), "good-code")

		assert.ErrorIs(t, err, ErrUnverifiedEmail)
	})

	t.Run("not configured", func(t *testing.T) {
		t.Parallel()
		c := NewOAuthClient(OAuthConfig{}, http.DefaultClient)

		assert.False(t, c.Configured())
		_, err := c.Exchange(context.Background(), "good-code")
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}

func TestState(t *testing.T) {
	t.Parallel()

	a, err := NewState()
	require.NoError(t, err)
	b, err := NewState()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NoError(t, CheckState(a, a))
	assert.ErrorIs(t, CheckState(a, b), ErrStateMismatch)
	assert.ErrorIs(t, CheckState("", ""), ErrStateMismatch)
}
