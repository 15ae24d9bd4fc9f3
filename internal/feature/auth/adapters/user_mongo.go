package adapters

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"recipe_backend/internal/feature/auth/domain/entity"
	"recipe_backend/internal/feature/auth/usecase"
)

// UsersCollection is the collection holding user documents.
const UsersCollection = "users"

// userDocument is the stored form of a user. The refresh token set lives inside
// the document, so every set mutation is a single-document atomic update.
type userDocument struct {
	ID             string    `bson:"_id"`
	Name           string    `bson:"name"`
	Email          string    `bson:"email"`
	PasswordHash   string    `bson:"passwordHash,omitempty"`
	Provider       string    `bson:"provider"`
	ProfilePicture string    `bson:"profilePicture,omitempty"`
	RefreshTokens  []string  `bson:"refreshTokens"`
	CreatedAt      time.Time `bson:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt"`
}

func (d *userDocument) toEntity() *entity.User {
	return &entity.User{
		ID:             d.ID,
		Name:           d.Name,
		Email:          d.Email,
		PasswordHash:   d.PasswordHash,
		Provider:       entity.Provider(d.Provider),
		ProfilePicture: d.ProfilePicture,
		RefreshTokens:  d.RefreshTokens,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func userDocumentFromEntity(u *entity.User) *userDocument {
	tokens := u.RefreshTokens
	if tokens == nil {
		tokens = []string{}
	}
	return &userDocument{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
		Provider:       string(u.Provider),
		ProfilePicture: u.ProfilePicture,
		RefreshTokens:  tokens,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// userMongo is a MongoDB implementation of both UserRepository and RefreshTokenStore.
type userMongo struct {
	coll *mongo.Collection
	now  func() time.Time
}

var (
	_ usecase.UserRepository    = (*userMongo)(nil)
	_ usecase.RefreshTokenStore = (*userMongo)(nil)
)

// NewUserMongo creates a store over the users collection of db.
func NewUserMongo(db *mongo.Database) *userMongo {
	return &userMongo{coll: db.Collection(UsersCollection), now: time.Now}
}

// EnsureIndexes creates the unique email index and the token lookup index.
func (r *userMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "refreshTokens", Value: 1}}},
	})
	return err
}

func (r *userMongo) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return ErrNilUser
	}
	now := r.now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	u.RefreshTokens = nil

	if _, err := r.coll.InsertOne(ctx, userDocumentFromEntity(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return usecase.ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

func (r *userMongo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *userMongo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *userMongo) findOne(ctx context.Context, filter bson.D) (*entity.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *userMongo) Update(ctx context.Context, u *entity.User) error {
	if u == nil {
		return ErrNilUser
	}
	now := r.now().UTC()
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: u.ID}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "name", Value: u.Name},
			{Key: "email", Value: u.Email},
			{Key: "passwordHash", Value: u.PasswordHash},
			{Key: "profilePicture", Value: u.ProfilePicture},
			{Key: "updatedAt", Value: now},
		}}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return usecase.ErrEmailAlreadyExists
		}
		return err
	}
	if res.MatchedCount == 0 {
		return usecase.ErrUserNotFound
	}
	u.UpdatedAt = now
	return nil
}

func (r *userMongo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

func (r *userMongo) List(ctx context.Context, userID string) ([]string, error) {
	var doc struct {
		RefreshTokens []string `bson:"refreshTokens"`
	}
	err := r.coll.FindOne(ctx,
		bson.D{{Key: "_id", Value: userID}},
		options.FindOne().SetProjection(bson.D{{Key: "refreshTokens", Value: 1}}),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return doc.RefreshTokens, nil
}

func (r *userMongo) Append(ctx context.Context, userID, token string, capacity int, drop []string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: userID}},
		appendTokenPipeline(token, capacity, drop),
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

// Rotate matches the user only while old is still in the set, so the membership
// check and the replacement happen in one document update.
func (r *userMongo) Rotate(ctx context.Context, userID, old, next string, capacity int) error {
	res, err := r.coll.UpdateOne(ctx,
		rotateFilter(userID, old),
		appendTokenPipeline(next, capacity, []string{old}),
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return usecase.ErrTokenNotMember
	}
	return nil
}

func (r *userMongo) Remove(ctx context.Context, token string) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "refreshTokens", Value: token}},
		bson.D{{Key: "$pull", Value: bson.D{{Key: "refreshTokens", Value: token}}}},
	)
	return err
}

func (r *userMongo) Clear(ctx context.Context, userID string) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: userID}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "refreshTokens", Value: bson.A{}}}}},
	)
	return err
}

func rotateFilter(userID, old string) bson.D {
	return bson.D{
		{Key: "_id", Value: userID},
		{Key: "refreshTokens", Value: old},
	}
}

// appendTokenPipeline builds an update pipeline that filters drop and token out of the
// set, appends token and keeps the newest capacity entries.
func appendTokenPipeline(token string, capacity int, drop []string) mongo.Pipeline {
	excluded := make(bson.A, 0, len(drop)+1)
	for _, d := range drop {
		excluded = append(excluded, d)
	}
	excluded = append(excluded, token)

	var tokens any = bson.D{{Key: "$concatArrays", Value: bson.A{
		bson.D{{Key: "$filter", Value: bson.D{
			{Key: "input", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$refreshTokens", bson.A{}}}}},
			{Key: "as", Value: "t"},
			{Key: "cond", Value: bson.D{{Key: "$not", Value: bson.A{
				bson.D{{Key: "$in", Value: bson.A{"$$t", bson.D{{Key: "$literal", Value: excluded}}}}},
			}}}},
		}}},
		bson.D{{Key: "$literal", Value: bson.A{token}}},
	}}}
	if capacity > 0 {
		tokens = bson.D{{Key: "$slice", Value: bson.A{tokens, -capacity}}}
	}

	return mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "refreshTokens", Value: tokens},
			{Key: "updatedAt", Value: "$$NOW"},
		}}},
	}
}
