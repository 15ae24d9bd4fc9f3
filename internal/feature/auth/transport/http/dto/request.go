// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
// Field checks live in the usecase so that failures come back in a fixed order with
// fixed messages; the request types carry no binding tags.
package dto

// RegisterReq is the body of POST /auth/register, as JSON or a form.
type RegisterReq struct {
	Email          string `json:"email" form:"email"`
	Password       string `json:"password" form:"password"`
	Name           string `json:"name" form:"name"`
	ProfilePicture string `json:"profilePicture" form:"profilePicture"`
}

// LoginReq is the body of POST /auth/login.
type LoginReq struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// RefreshReq is the body of POST /auth/refresh and POST /auth/logout.
type RefreshReq struct {
	RefreshToken string `json:"refreshToken" form:"refreshToken"`
}

// GoogleSigninReq carries a Google Sign-In ID token.
type GoogleSigninReq struct {
	Credential string `json:"credential" form:"credential"`
}

// UpdateProfileReq is the body of PUT /users/me. Absent fields are left unchanged.
type UpdateProfileReq struct {
	Name           *string `json:"name" form:"name"`
	Email          *string `json:"email" form:"email"`
	ProfilePicture *string `json:"profilePicture" form:"profilePicture"`
}

// ChangePasswordReq is the body of PUT /users/me/password.
type ChangePasswordReq struct {
	OldPassword string `json:"oldPassword" form:"oldPassword"`
	NewPassword string `json:"newPassword" form:"newPassword"`
}
