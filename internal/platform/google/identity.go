// Package google verifies Google identities, either from a Sign-In ID token or
// through the OAuth authorization code flow.
package google

import "errors"

var (
	ErrNotConfigured     = errors.New("google: client is not configured")
	ErrInvalidCredential = errors.New("google: invalid credential")
	ErrUnverifiedEmail   = errors.New("google: account email is not verified")
	ErrInvalidCode       = errors.New("google: invalid authorization code")
	ErrUserInfoFailed    = errors.New("google: failed to fetch user info")
	ErrStateMismatch     = errors.New("google: invalid oauth state")
	ErrStateGenerate     = errors.New("google: failed to generate oauth state")
)

// Identity is the verified profile of a Google account.
// Email may be empty when the account did not share it.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}
