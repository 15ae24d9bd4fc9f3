// Package entity defines the domain entities for the auth feature.
package entity

import (
	"strings"
	"time"
)

// Provider identifies how an account authenticates. It is fixed at creation.
type Provider string

const (
	// ProviderRegular accounts sign in with an email and a password.
	ProviderRegular Provider = "Regular"
	// ProviderGoogle accounts are federated through Google and carry no password.
	ProviderGoogle Provider = "Google"
)

// User represents a registered user in the system.
// It contains authentication credentials and metadata for user management.
type User struct {
	// ID is the opaque unique identifier for the user. It never changes.
	ID string

	// Name is the display name, trimmed.
	Name string

	// Email is the normalized (trimmed, lower-cased) address used for authentication.
	// It must be unique across all users.
	Email string

	// PasswordHash is the bcrypt hash of the password.
	// Empty for Google accounts.
	PasswordHash string

	// Provider is set once at creation.
	Provider Provider

	// ProfilePicture is an optional URL.
	ProfilePicture string

	// RefreshTokens holds the currently valid refresh tokens, oldest first.
	RefreshTokens []string

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}

// HasPassword reports whether the user can sign in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// IsFederated reports whether the account is controlled by an external identity provider.
func (u *User) IsFederated() bool {
	return u.Provider == ProviderGoogle
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
