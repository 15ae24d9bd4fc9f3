// Package adapters provides repository implementations for the auth feature.
package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"recipe_backend/internal/feature/auth/domain/entity"
	"recipe_backend/internal/feature/auth/usecase"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for a unique constraint violation.
const pgUniqueViolation = "23505"

// ErrNilUser is returned when a nil user is passed to a write method.
var ErrNilUser = errors.New("user is nil")

// userGorm is a GORM implementation of both UserRepository and RefreshTokenStore.
// Token set mutations run in a transaction that first locks the owning user row,
// so concurrent rotations of one user's set are serialized.
type userGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure userGorm implements both interfaces.
var (
	_ usecase.UserRepository    = (*userGorm)(nil)
	_ usecase.RefreshTokenStore = (*userGorm)(nil)
)

// NewUserGorm creates a new instance of userGorm for the given gorm.DB connection.
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create adds a user to the database.
// It returns usecase.ErrEmailAlreadyExists if the email is taken.
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return ErrNilUser
	}
	model := UserModelFromEntity(u)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateKey(err) {
			return usecase.ErrEmailAlreadyExists
		}
		return err
	}
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	u.RefreshTokens = nil
	return nil
}

// FindByEmail retrieves a user by normalized email.
// It returns usecase.ErrUserNotFound if the user does not exist.
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindByID retrieves a user by ID.
// It returns usecase.ErrUserNotFound if the user does not exist.
func (r *userGorm) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *userGorm) findOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	u := m.ToEntity()
	tokens, err := r.List(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.RefreshTokens = tokens
	return u, nil
}

// Update writes the mutable profile fields of the user.
func (r *userGorm) Update(ctx context.Context, u *entity.User) error {
	if u == nil {
		return ErrNilUser
	}
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{
			"name":            u.Name,
			"email":           u.Email,
			"password_hash":   u.PasswordHash,
			"profile_picture": u.ProfilePicture,
			"updated_at":      now,
		})
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return usecase.ErrEmailAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	u.UpdatedAt = now
	return nil
}

// Delete removes the user together with its refresh tokens.
func (r *userGorm) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&RefreshTokenModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&UserModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return usecase.ErrUserNotFound
		}
		return nil
	})
}

// List returns the user's refresh tokens, oldest first.
func (r *userGorm) List(ctx context.Context, userID string) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).
		Model(&RefreshTokenModel{}).
		Where("user_id = ?", userID).
		Order("id ASC").
		Pluck("token", &tokens).Error
	return tokens, err
}

// Append drops the given tokens, appends token and trims the set to capacity.
func (r *userGorm) Append(ctx context.Context, userID, token string, capacity int, drop []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockUser(tx, userID); err != nil {
			return err
		}
		if len(drop) > 0 {
			if err := tx.Where("user_id = ? AND token IN ?", userID, drop).Delete(&RefreshTokenModel{}).Error; err != nil {
				return err
			}
		}
		if err := insertToken(tx, userID, token); err != nil {
			return err
		}
		return trimTokens(tx, userID, capacity)
	})
}

// Rotate deletes old and inserts next in one transaction.
// The conditional delete is the membership check: only one of two concurrent
// rotations of the same token can see a deleted row.
func (r *userGorm) Rotate(ctx context.Context, userID, old, next string, capacity int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockUser(tx, userID); err != nil {
			if errors.Is(err, usecase.ErrUserNotFound) {
				return usecase.ErrTokenNotMember
			}
			return err
		}
		result := tx.Where("user_id = ? AND token = ?", userID, old).Delete(&RefreshTokenModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return usecase.ErrTokenNotMember
		}
		if err := insertToken(tx, userID, next); err != nil {
			return err
		}
		return trimTokens(tx, userID, capacity)
	})
}

// Remove deletes the token from whichever user holds it.
func (r *userGorm) Remove(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Where("token = ?", token).Delete(&RefreshTokenModel{}).Error
}

// Clear deletes every refresh token of the user.
func (r *userGorm) Clear(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&RefreshTokenModel{}).Error
}

// lockUser takes a row lock on the user. SQLite ignores the locking clause and
// serializes writers at the database level instead.
func lockUser(tx *gorm.DB, userID string) error {
	var m UserModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", userID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usecase.ErrUserNotFound
	}
	return err
}

func insertToken(tx *gorm.DB, userID, token string) error {
	return tx.Create(&RefreshTokenModel{
		UserID:    userID,
		Token:     token,
		CreatedAt: time.Now(),
	}).Error
}

// trimTokens evicts the oldest tokens of the user beyond capacity.
func trimTokens(tx *gorm.DB, userID string, capacity int) error {
	if capacity <= 0 {
		return nil
	}
	var ids []uint
	if err := tx.Model(&RefreshTokenModel{}).
		Where("user_id = ?", userID).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) <= capacity {
		return nil
	}
	return tx.Where("id IN ?", ids[:len(ids)-capacity]).Delete(&RefreshTokenModel{}).Error
}

// isDuplicateKey recognizes unique violations from gorm's error translation,
// from pgx directly, and from SQLite's message when translation is off.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
