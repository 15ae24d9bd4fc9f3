package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe_backend/internal/feature/auth/domain"
	"recipe_backend/internal/feature/auth/usecase"
	"recipe_backend/internal/platform/google"
)

func newGoogleRouter(h *GoogleHandler) *gin.Engine {
	router := gin.New()
	router.POST("/auth/google-signin", h.SignIn)
	router.GET("/auth/google", h.Start)
	router.GET("/auth/google/callback", h.Callback)
	return router
}

func TestGoogleHandler_SignIn(t *testing.T) {
	identity := google.Identity{Subject: "g-1", Email: "carol@example.com", Name: "Carol", Picture: "https://pic"}

	tests := []struct {
		name           string
		body           any
		verifyFunc     func(ctx context.Context, credential string) (google.Identity, error)
		googleFunc     func(ctx context.Context, id usecase.GoogleIdentity) (*usecase.Session, error)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "success",
			body: gin.H{"credential": "id-token"},
			verifyFunc: func(ctx context.Context, credential string) (google.Identity, error) {
				assert.Equal(t, "id-token", credential)
				return identity, nil
			},
			googleFunc: func(ctx context.Context, id usecase.GoogleIdentity) (*usecase.Session, error) {
				assert.Equal(t, usecase.GoogleIdentity{Email: "carol@example.com", DisplayName: "Carol", PictureURL: "https://pic"}, id)
				return testSession(), nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "failure: missing credential",
			body:           gin.H{},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    msgCredentialRequired,
		},
		{
			name: "failure: invalid credential",
			body: gin.H{"credential": "forged"},
			verifyFunc: func(ctx context.Context, credential string) (google.Identity, error) {
				return google.Identity{}, fmt.Errorf("%w: bad signature", google.ErrInvalidCredential)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    msgInvalidGoogle,
		},
		{
			name: "failure: unverified email",
			body: gin.H{"credential": "id-token"},
			verifyFunc: func(ctx context.Context, credential string) (google.Identity, error) {
				return google.Identity{}, google.ErrUnverifiedEmail
			},
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    msgInvalidGoogle,
		},
		{
			name: "failure: not configured",
			body: gin.H{"credential": "id-token"},
			verifyFunc: func(ctx context.Context, credential string) (google.Identity, error) {
				return google.Identity{}, google.ErrNotConfigured
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    msgGoogleDisabled,
		},
		{
			name: "failure: email registered with password",
			body: gin.H{"credential": "id-token"},
			verifyFunc: func(ctx context.Context, credential string) (google.Identity, error) {
				return identity, nil
			},
			googleFunc: func(ctx context.Context, id usecase.GoogleIdentity) (*usecase.Session, error) {
				return nil, domain.Validation("This email is already registered. Please log in with your password.")
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "This email is already registered. Please log in with your password.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewGoogleHandler(
				&mockAuthUsecase{GoogleFunc: tt.googleFunc},
				&mockVerifier{VerifyFunc: tt.verifyFunc},
				&mockOAuth{},
				false, nil)

			w := doJSON(newGoogleRouter(h), http.MethodPost, "/auth/google-signin", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decode(t, w)
			if tt.expectedMsg != "" {
				assert.Equal(t, tt.expectedMsg, body["message"])
			} else {
				assert.Equal(t, "access", body["accessToken"])
			}
		})
	}
}

func TestGoogleHandler_Start(t *testing.T) {
	t.Run("redirects with a state cookie", func(t *testing.T) {
		h := NewGoogleHandler(&mockAuthUsecase{}, &mockVerifier{}, &mockOAuth{configured: true}, true, nil)

		w := httptest.NewRecorder()
		newGoogleRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/google", nil))

		require.Equal(t, http.StatusFound, w.Code)
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, stateCookie, c.Name)
		assert.NotEmpty(t, c.Value)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, stateCookiePath, c.Path)

		loc, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, c.Value, loc.Query().Get("state"))
	})

	t.Run("not configured", func(t *testing.T) {
		h := NewGoogleHandler(&mockAuthUsecase{}, &mockVerifier{}, &mockOAuth{}, true, nil)

		w := httptest.NewRecorder()
		newGoogleRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/google", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, msgGoogleDisabled, decode(t, w)["message"])
	})
}

func TestGoogleHandler_Callback(t *testing.T) {
	identity := google.Identity{Subject: "g-1", Email: "carol@example.com", Name: "Carol"}

	tests := []struct {
		name           string
		cookie         string
		query          string
		exchangeFunc   func(ctx context.Context, code string) (google.Identity, error)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:   "success",
			cookie: "state-1",
			query:  "state=state-1&code=abc",
			exchangeFunc: func(ctx context.Context, code string) (google.Identity, error) {
				assert.Equal(t, "abc", code)
				return identity, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "failure: state mismatch",
			cookie:         "state-1",
			query:          "state=other&code=abc",
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    msgInvalidState,
		},
		{
			name:           "failure: no state cookie",
			query:          "state=&code=abc",
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    msgInvalidState,
		},
		{
			name:           "failure: consent denied",
			cookie:         "state-1",
			query:          "state=state-1&error=access_denied",
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    msgInvalidGoogle,
		},
		{
			name:   "failure: bad code",
			cookie: "state-1",
			query:  "state=state-1&code=stale",
			exchangeFunc: func(ctx context.Context, code string) (google.Identity, error) {
				return google.Identity{}, google.ErrInvalidCode
			},
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    msgInvalidGoogle,
		},
		{
			name:   "failure: userinfo unavailable",
			cookie: "state-1",
			query:  "state=state-1&code=abc",
			exchangeFunc: func(ctx context.Context, code string) (google.Identity, error) {
				return google.Identity{}, google.ErrUserInfoFailed
			},
			expectedStatus: http.StatusBadGateway,
			expectedMsg:    msgGoogleUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewGoogleHandler(
				&mockAuthUsecase{GoogleFunc: func(ctx context.Context, id usecase.GoogleIdentity) (*usecase.Session, error) {
					return testSession(), nil
				}},
				&mockVerifier{},
				&mockOAuth{configured: true, ExchangeFunc: tt.exchangeFunc},
				false, nil)

			req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?"+tt.query, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: stateCookie, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			newGoogleRouter(h).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decode(t, w)
			if tt.expectedMsg != "" {
				assert.Equal(t, tt.expectedMsg, body["message"])
			} else {
				assert.Equal(t, "access", body["accessToken"])
			}

			// The state cookie is single-use.
			cookies := w.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.Equal(t, stateCookie, cookies[0].Name)
			assert.Less(t, cookies[0].MaxAge, 0)
		})
	}
}
