package usecase

import (
	"context"

	"recipe_backend/internal/feature/auth/domain/entity"
)

// UserRepository abstracts the persistence layer for user records.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create persists a new user. The refresh token set starts empty.
	// It returns ErrEmailAlreadyExists if the normalized email is taken.
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail retrieves a user by normalized email.
	// It returns ErrUserNotFound if the user does not exist.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID retrieves a user by ID.
	// It returns ErrUserNotFound if the user does not exist.
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// Update writes the mutable profile fields (name, email, password hash, picture).
	// Provider and refresh tokens are never touched.
	// It returns ErrUserNotFound or ErrEmailAlreadyExists.
	Update(ctx context.Context, user *entity.User) error

	// Delete removes the user record and everything stored inside it.
	// It returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id string) error
}

// RefreshTokenStore maintains each user's bounded, ordered set of valid refresh tokens.
// Every method is a single atomic operation on one user's set.
type RefreshTokenStore interface {
	// List returns the user's tokens, oldest first.
	List(ctx context.Context, userID string) ([]string, error)

	// Append removes every token in drop, appends token and evicts the oldest
	// entries beyond capacity. A non-positive capacity means unbounded.
	Append(ctx context.Context, userID, token string, capacity int, drop []string) error

	// Rotate replaces old with next if and only if old is currently in the set.
	// It returns ErrTokenNotMember otherwise and leaves the set untouched.
	Rotate(ctx context.Context, userID, old, next string, capacity int) error

	// Remove deletes token from whichever user's set holds it. Absent tokens are not an error.
	Remove(ctx context.Context, token string) error

	// Clear empties the user's set.
	Clear(ctx context.Context, userID string) error
}

// TokenClaims is the verified payload shared by access and refresh tokens.
type TokenClaims struct {
	Subject string
	Marker  string
}

// TokenCodec issues and verifies signed bearer tokens.
type TokenCodec interface {
	IssueAccessToken(userID string) (string, error)
	IssueRefreshToken(userID string) (string, error)
	VerifyRefreshToken(token string) (TokenClaims, error)
}

// PasswordHasher hashes and verifies plaintext passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}
