package adapters

import (
	"context"
	"slices"
	"sync"
	"time"

	"recipe_backend/internal/feature/auth/domain/entity"
	"recipe_backend/internal/feature/auth/usecase"
)

// userMemory keeps users and their refresh token sets in process memory.
// A single mutex serializes every operation, which makes each token set mutation atomic.
type userMemory struct {
	mu      sync.Mutex
	byID    map[string]*entity.User
	byEmail map[string]string
	now     func() time.Time
}

var (
	_ usecase.UserRepository    = (*userMemory)(nil)
	_ usecase.RefreshTokenStore = (*userMemory)(nil)
)

// NewUserMemory creates an empty in-memory store.
func NewUserMemory() *userMemory {
	return &userMemory{
		byID:    make(map[string]*entity.User),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (r *userMemory) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[u.Email]; taken {
		return usecase.ErrEmailAlreadyExists
	}
	now := r.now()
	u.CreatedAt, u.UpdatedAt = now, now
	u.RefreshTokens = nil
	stored := clone(u)
	r.byID[u.ID] = stored
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *userMemory) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, usecase.ErrUserNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *userMemory) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, usecase.ErrUserNotFound
	}
	return clone(u), nil
}

func (r *userMemory) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[u.ID]
	if !ok {
		return usecase.ErrUserNotFound
	}
	if owner, taken := r.byEmail[u.Email]; taken && owner != u.ID {
		return usecase.ErrEmailAlreadyExists
	}
	delete(r.byEmail, stored.Email)
	r.byEmail[u.Email] = u.ID

	stored.Name = u.Name
	stored.Email = u.Email
	stored.PasswordHash = u.PasswordHash
	stored.ProfilePicture = u.ProfilePicture
	stored.UpdatedAt = r.now()
	u.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *userMemory) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return usecase.ErrUserNotFound
	}
	delete(r.byEmail, u.Email)
	delete(r.byID, id)
	return nil
}

func (r *userMemory) List(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return nil, usecase.ErrUserNotFound
	}
	return slices.Clone(u.RefreshTokens), nil
}

func (r *userMemory) Append(_ context.Context, userID, token string, capacity int, drop []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return usecase.ErrUserNotFound
	}
	u.RefreshTokens = entity.AppendToken(u.RefreshTokens, token, capacity, drop...)
	return nil
}

func (r *userMemory) Rotate(_ context.Context, userID, old, next string, capacity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return usecase.ErrTokenNotMember
	}
	rest, found := entity.RemoveToken(u.RefreshTokens, old)
	if !found {
		return usecase.ErrTokenNotMember
	}
	u.RefreshTokens = entity.AppendToken(rest, next, capacity)
	return nil
}

func (r *userMemory) Remove(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if rest, found := entity.RemoveToken(u.RefreshTokens, token); found {
			u.RefreshTokens = rest
			return nil
		}
	}
	return nil
}

func (r *userMemory) Clear(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.byID[userID]; ok {
		u.RefreshTokens = nil
	}
	return nil
}

func clone(u *entity.User) *entity.User {
	c := *u
	c.RefreshTokens = slices.Clone(u.RefreshTokens)
	return &c
}
