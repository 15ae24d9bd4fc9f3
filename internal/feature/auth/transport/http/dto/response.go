package dto

import "recipe_backend/internal/feature/auth/domain/entity"

// MessageRes is the body of every error and of plain confirmations.
type MessageRes struct {
	Message string `json:"message"`
}

// UserRes is the account as shown to its owner.
type UserRes struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	Provider       string `json:"provider"`
}

// PublicUserRes is the account as shown to anyone.
type PublicUserRes struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// TokenRes is a freshly issued token pair.
type TokenRes struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthRes is returned by every sign-in path.
type AuthRes struct {
	TokenRes
	User UserRes `json:"user"`
}

// NewUserRes converts an entity for its owner.
func NewUserRes(u *entity.User) UserRes {
	return UserRes{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		Provider:       string(u.Provider),
	}
}

// NewPublicUserRes converts an entity for public display.
func NewPublicUserRes(u *entity.User) PublicUserRes {
	return PublicUserRes{
		ID:             u.ID,
		Name:           u.Name,
		ProfilePicture: u.ProfilePicture,
	}
}
