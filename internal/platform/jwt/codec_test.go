package jwtmw

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"recipe_backend/internal/feature/auth/domain"
)

// TestNewCodec verifies that lifetimes default when not configured.
func TestNewCodec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		cfg         Config
		wantAccess  time.Duration
		wantRefresh time.Duration
	}{
		{"defaults", Config{AccessSecret: "a", RefreshSecret: "r"}, DefaultAccessTTL, DefaultRefreshTTL},
		{"custom", Config{AccessSecret: "a", RefreshSecret: "r", AccessTTL: time.Minute, RefreshTTL: time.Hour}, time.Minute, time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewCodec(tt.cfg)
			if c.accessTTL != tt.wantAccess {
				t.Errorf("expected access ttl %v, got %v", tt.wantAccess, c.accessTTL)
			}
			if c.refreshTTL != tt.wantRefresh {
				t.Errorf("expected refresh ttl %v, got %v", tt.wantRefresh, c.refreshTTL)
			}
		})
	}
}

// TestCodec_RoundTrip verifies that issued tokens verify to the same subject.
func TestCodec_RoundTrip(t *testing.T) {
	t.Parallel()
	c := newTestCodec()

	access, err := c.IssueAccessToken("user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	refresh, err := c.IssueRefreshToken("user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ac, err := c.VerifyAccessToken(access)
	if err != nil || ac.Subject != "user-1" {
		t.Errorf("access token: subject %q, err %v", ac.Subject, err)
	}
	rc, err := c.VerifyRefreshToken(refresh)
	if err != nil || rc.Subject != "user-1" {
		t.Errorf("refresh token: subject %q, err %v", rc.Subject, err)
	}
	if rc.Marker == "" {
		t.Error("expected a uniqueness marker")
	}
}

// TestCodec_TokensAreUnique verifies that tokens issued in the same instant differ.
func TestCodec_TokensAreUnique(t *testing.T) {
	t.Parallel()
	c := newTestCodec()
	fixed := time.Now()
	c.now = func() time.Time { return fixed }

	first, _ := c.IssueRefreshToken("user-1")
	second, _ := c.IssueRefreshToken("user-1")

	if first == second {
		t.Error("expected distinct refresh tokens")
	}
}

// TestCodec_SecretsAreIndependent verifies that each token class only verifies with its own secret.
func TestCodec_SecretsAreIndependent(t *testing.T) {
	t.Parallel()
	c := newTestCodec()

	access, _ := c.IssueAccessToken("user-1")
	refresh, _ := c.IssueRefreshToken("user-1")

	if _, err := c.VerifyRefreshToken(access); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("access token verified as refresh token: %v", err)
	}
	if _, err := c.VerifyAccessToken(refresh); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("refresh token verified as access token: %v", err)
	}

	// Equal secrets still keep the classes apart.
	same := NewCodec(Config{AccessSecret: "s", RefreshSecret: "s"})
	access, _ = same.IssueAccessToken("user-1")
	if _, err := same.VerifyRefreshToken(access); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

// TestCodec_Expired verifies that expired tokens are rejected.
func TestCodec_Expired(t *testing.T) {
	t.Parallel()
	c := NewCodec(Config{AccessSecret: "a", RefreshSecret: "r", RefreshTTL: time.Minute})
	issuedAt := time.Now()
	c.now = func() time.Time { return issuedAt }
	refresh, _ := c.IssueRefreshToken("user-1")

	c.now = func() time.Time { return issuedAt.Add(2 * time.Minute) }
	if _, err := c.VerifyRefreshToken(refresh); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

// TestCodec_Tampered verifies that a modified payload fails signature checks.
func TestCodec_Tampered(t *testing.T) {
	t.Parallel()
	c := newTestCodec()
	refresh, _ := c.IssueRefreshToken("user-1")

	forged := createTokenWithSecret("attacker", "user-2", typeRefresh, time.Hour)
	if _, err := c.VerifyRefreshToken(forged); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
	if _, err := c.VerifyRefreshToken(refresh + "x"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

// TestCodec_MissingSecret verifies that issue and verify fail with a configuration error.
func TestCodec_MissingSecret(t *testing.T) {
	t.Parallel()
	c := NewCodec(Config{})

	if _, err := c.IssueAccessToken("user-1"); !errors.Is(err, domain.ErrSecretNotConfigured) {
		t.Errorf("expected ErrSecretNotConfigured, got %v", err)
	}
	if _, err := c.IssueRefreshToken("user-1"); !errors.Is(err, domain.ErrSecretNotConfigured) {
		t.Errorf("expected ErrSecretNotConfigured, got %v", err)
	}
	if _, err := c.VerifyRefreshToken("x"); !errors.Is(err, domain.ErrSecretNotConfigured) {
		t.Errorf("expected ErrSecretNotConfigured, got %v", err)
	}
}

// TestCodec_RequiresExpiry verifies that tokens without exp are rejected.
func TestCodec_RequiresExpiry(t *testing.T) {
	t.Parallel()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1", "typ": typeRefresh})
	signed, _ := token.SignedString([]byte(testRefreshSecret))

	if _, err := newTestCodec().VerifyRefreshToken(signed); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}
