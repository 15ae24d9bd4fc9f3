package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"recipe_backend/internal/feature/auth/domain/entity"
	"recipe_backend/internal/feature/auth/usecase"
	"recipe_backend/internal/platform/google"
)

// mockAuthUsecase is a mock implementation of the AuthUsecase interface.
type mockAuthUsecase struct {
	RegisterFunc func(ctx context.Context, in usecase.RegisterInput) (*usecase.Session, error)
	LoginFunc    func(ctx context.Context, email, password string) (*usecase.Session, error)
	RefreshFunc  func(ctx context.Context, token string) (*usecase.TokenPair, error)
	LogoutFunc   func(ctx context.Context, token string) error
	GoogleFunc   func(ctx context.Context, identity usecase.GoogleIdentity) (*usecase.Session, error)
}

func (m *mockAuthUsecase) Register(ctx context.Context, in usecase.RegisterInput) (*usecase.Session, error) {
	return m.RegisterFunc(ctx, in)
}

func (m *mockAuthUsecase) Login(ctx context.Context, email, password string) (*usecase.Session, error) {
	return m.LoginFunc(ctx, email, password)
}

func (m *mockAuthUsecase) Refresh(ctx context.Context, token string) (*usecase.TokenPair, error) {
	return m.RefreshFunc(ctx, token)
}

func (m *mockAuthUsecase) Logout(ctx context.Context, token string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, token)
	}
	return nil // Default: success
}

func (m *mockAuthUsecase) SignInWithGoogle(ctx context.Context, identity usecase.GoogleIdentity) (*usecase.Session, error) {
	return m.GoogleFunc(ctx, identity)
}

// mockProfileUsecase is a mock implementation of the ProfileUsecase interface.
type mockProfileUsecase struct {
	GetFunc            func(ctx context.Context, id string) (*entity.User, error)
	UpdateFunc         func(ctx context.Context, id string, upd usecase.ProfileUpdate) (*entity.User, error)
	ChangePasswordFunc func(ctx context.Context, id, oldPassword, newPassword string) error
	DeleteFunc         func(ctx context.Context, id string) error
}

func (m *mockProfileUsecase) GetProfile(ctx context.Context, id string) (*entity.User, error) {
	return m.GetFunc(ctx, id)
}

func (m *mockProfileUsecase) UpdateProfile(ctx context.Context, id string, upd usecase.ProfileUpdate) (*entity.User, error) {
	return m.UpdateFunc(ctx, id, upd)
}

func (m *mockProfileUsecase) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	return m.ChangePasswordFunc(ctx, id, oldPassword, newPassword)
}

func (m *mockProfileUsecase) DeleteAccount(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

type mockVerifier struct {
	VerifyFunc func(ctx context.Context, credential string) (google.Identity, error)
}

func (m *mockVerifier) Verify(ctx context.Context, credential string) (google.Identity, error) {
	return m.VerifyFunc(ctx, credential)
}

type mockOAuth struct {
	configured   bool
	ExchangeFunc func(ctx context.Context, code string) (google.Identity, error)
}

func (m *mockOAuth) Configured() bool { return m.configured }

func (m *mockOAuth) AuthCodeURL(state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (m *mockOAuth) Exchange(ctx context.Context, code string) (google.Identity, error) {
	return m.ExchangeFunc(ctx, code)
}

func testSession() *usecase.Session {
	return &usecase.Session{
		TokenPair: usecase.TokenPair{AccessToken: "access", RefreshToken: "refresh"},
		User: &entity.User{
			ID:       "user-1",
			Name:     "Alice",
			Email:    "alice@example.com",
			Provider: entity.ProviderRegular,
		},
	}
}

// withUser simulates jwtmw.AuthRequired for handler tests.
func withUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", id)
		c.Next()
	}
}
