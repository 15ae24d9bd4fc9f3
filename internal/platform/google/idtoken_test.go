package google

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func TestIDTokenVerifier_Verify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		clientID string
		payload  *idtoken.Payload
		err      error
		want     Identity
		wantErr  error
	}{
		{
			name:     "valid token",
			clientID: "client-1",
			payload: &idtoken.Payload{Subject: "g-1", Claims: map[string]any{
				"email": "a@x.com", "email_verified": true, "name": "A", "picture": "https://img/a.png",
			}},
			want: Identity{Subject: "g-1", Email: "a@x.com", Name: "A", Picture: "https://img/a.png"},
		},
		{
			name:     "no email is passed through for the caller to reject",
			clientID: "client-1",
			payload:  &idtoken.Payload{Subject: "g-1", Claims: map[string]any{"name": "A"}},
			want:     Identity{Subject: "g-1", Name: "A"},
		},
		{
			name:     "string email_verified",
			clientID: "client-1",
			payload:  &idtoken.Payload{Subject: "g-1", Claims: map[string]any{"email": "a@x.com", "email_verified": "true"}},
			want:     Identity{Subject: "g-1", Email: "a@x.com"},
		},
		{
			name:     "unverified email",
			clientID: "client-1",
			payload:  &idtoken.Payload{Subject: "g-1", Claims: map[string]any{"email": "a@x.com", "email_verified": false}},
			wantErr:  ErrUnverifiedEmail,
		},
		{
			name:     "validation failure",
			clientID: "client-1",
			err:      errors.New("idtoken: token expired"),
			wantErr:  ErrInvalidCredential,
		},
		{
			name:    "missing client id",
			wantErr: ErrNotConfigured,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := NewIDTokenVerifier(tt.clientID)
			v.validate = func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
				assert.Equal(t, "credential", token)
				assert.Equal(t, tt.clientID, audience)
				return tt.payload, tt.err
			}

			got, err := v.Verify(context.Background(), "credential")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
