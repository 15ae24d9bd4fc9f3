package google

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"
)

// validateFunc matches idtoken.Validate.
type validateFunc func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// IDTokenVerifier checks Google Sign-In ID tokens against Google's public keys.
type IDTokenVerifier struct {
	clientID string
	validate validateFunc
}

// NewIDTokenVerifier returns a verifier that accepts tokens issued for clientID.
func NewIDTokenVerifier(clientID string) *IDTokenVerifier {
	return &IDTokenVerifier{clientID: clientID, validate: idtoken.Validate}
}

// Verify validates the credential's signature, expiry and audience and returns the identity in it.
func (v *IDTokenVerifier) Verify(ctx context.Context, credential string) (Identity, error) {
	if v.clientID == "" {
		return Identity{}, ErrNotConfigured
	}
	payload, err := v.validate(ctx, credential, v.clientID)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	id := Identity{
		Subject: payload.Subject,
		Email:   claimString(payload.Claims, "email"),
		Name:    claimString(payload.Claims, "name"),
		Picture: claimString(payload.Claims, "picture"),
	}
	if id.Email != "" && !claimBool(payload.Claims, "email_verified") {
		return Identity{}, ErrUnverifiedEmail
	}
	return id, nil
}

func claimString(claims map[string]any, key string) string {
	s, _ := claims[key].(string)
	return s
}

// claimBool accepts both JSON booleans and the "true" string some issuers send.
func claimBool(claims map[string]any, key string) bool {
	switch v := claims[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}
