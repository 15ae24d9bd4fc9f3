package di

import (
	"recipe_backend/internal/config"
	"recipe_backend/internal/platform/google"
	infrahttp "recipe_backend/internal/platform/http"
)

// NewGoogle creates the ID token verifier and the OAuth client. Both report
// google.ErrNotConfigured at request time when the client registration is missing.
func NewGoogle(cfg *config.Config) (*google.IDTokenVerifier, *google.OAuthClient) {
	httpClient := infrahttp.NewHTTPClient(cfg.Google.HTTPTimeout)
	oauth := google.NewOAuthClient(google.OAuthConfig{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.RedirectURL(),
	}, httpClient)
	return google.NewIDTokenVerifier(cfg.Google.ClientID), oauth
}
