package google

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
)

const userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// OAuthConfig holds the Google OAuth client registration.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// OAuthClient runs the authorization code flow against Google.
type OAuthClient struct {
	oauth2Config *oauth2.Config
	httpClient   *http.Client
	userInfoURL  string
}

// NewOAuthClient creates a client that makes its token and userinfo calls with httpClient.
func NewOAuthClient(cfg OAuthConfig, httpClient *http.Client) *OAuthClient {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"openid", "email", "profile"}
	}
	return &OAuthClient{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     googleoauth.Endpoint,
		},
		httpClient:  httpClient,
		userInfoURL: userInfoURL,
	}
}

// Configured reports whether the client registration is complete.
func (c *OAuthClient) Configured() bool {
	return c.oauth2Config.ClientID != "" && c.oauth2Config.ClientSecret != "" && c.oauth2Config.RedirectURL != ""
}

// AuthCodeURL returns the consent page URL carrying state.
func (c *OAuthClient) AuthCodeURL(state string) string {
	return c.oauth2Config.AuthCodeURL(state)
}

// Exchange trades an authorization code for the identity of the consenting account.
func (c *OAuthClient) Exchange(ctx context.Context, code string) (Identity, error) {
	if !c.Configured() {
		return Identity{}, ErrNotConfigured
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := c.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidCode, err)
	}
	return c.fetchUserInfo(ctx, token.AccessToken)
}

type userInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (c *OAuthClient) fetchUserInfo(ctx context.Context, accessToken string) (Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrUserInfoFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("%w: status %d", ErrUserInfoFailed, resp.StatusCode)
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrUserInfoFailed, err)
	}
	if info.Email != "" && !info.VerifiedEmail {
		return Identity{}, ErrUnverifiedEmail
	}

	return Identity{
		Subject: info.ID,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}

// NewState returns a random value for the OAuth state parameter.
func NewState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStateGenerate, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// CheckState compares the state echoed by Google with the one issued to the browser.
func CheckState(issued, echoed string) error {
	if issued == "" || subtle.ConstantTimeCompare([]byte(issued), []byte(echoed)) != 1 {
		return ErrStateMismatch
	}
	return nil
}
