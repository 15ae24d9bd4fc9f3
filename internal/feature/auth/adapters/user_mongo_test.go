package adapters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"recipe_backend/internal/feature/auth/domain/entity"
)

// setStage returns the $set document of a single-stage pipeline.
func setStage(t *testing.T, stage bson.D) bson.D {
	t.Helper()
	require.Len(t, stage, 1)
	require.Equal(t, "$set", stage[0].Key)
	set, ok := stage[0].Value.(bson.D)
	require.True(t, ok)
	return set
}

func TestAppendTokenPipeline(t *testing.T) {
	t.Parallel()

	t.Run("bounded set is sliced to the newest entries", func(t *testing.T) {
		t.Parallel()

		pipeline := appendTokenPipeline("rt-new", 5, []string{"rt-stale"})
		require.Len(t, pipeline, 1)
		set := setStage(t, pipeline[0])

		require.Len(t, set, 2)
		assert.Equal(t, "refreshTokens", set[0].Key)
		assert.Equal(t, bson.E{Key: "updatedAt", Value: "$$NOW"}, set[1])

		slice, ok := set[0].Value.(bson.D)
		require.True(t, ok)
		require.Equal(t, "$slice", slice[0].Key)
		args, ok := slice[0].Value.(bson.A)
		require.True(t, ok)
		require.Len(t, args, 2)
		assert.Equal(t, -5, args[1])

		concat, ok := args[0].(bson.D)
		require.True(t, ok)
		assert.Equal(t, "$concatArrays", concat[0].Key)
		parts := concat[0].Value.(bson.A)
		require.Len(t, parts, 2)
		assert.Equal(t, bson.D{{Key: "$literal", Value: bson.A{"rt-new"}}}, parts[1])

		filter := parts[0].(bson.D)[0].Value.(bson.D)
		cond := filter[2].Value.(bson.D)
		in := cond[0].Value.(bson.A)[0].(bson.D)[0].Value.(bson.A)
		assert.Equal(t, bson.D{{Key: "$literal", Value: bson.A{"rt-stale", "rt-new"}}}, in[1],
			"stale tokens and the new token are filtered out before appending")
	})

	t.Run("unbounded set is not sliced", func(t *testing.T) {
		t.Parallel()

		set := setStage(t, appendTokenPipeline("rt-new", 0, nil)[0])
		tokens, ok := set[0].Value.(bson.D)
		require.True(t, ok)
		assert.Equal(t, "$concatArrays", tokens[0].Key)
	})
}

func TestRotateFilter(t *testing.T) {
	t.Parallel()

	assert.Equal(t, bson.D{
		{Key: "_id", Value: "u-1"},
		{Key: "refreshTokens", Value: "rt-old"},
	}, rotateFilter("u-1", "rt-old"))
}

func TestUserDocument_RoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	u := &entity.User{
		ID:        "u-1",
		Name:      "Alice",
		Email:     "alice@example.com",
		Provider:  entity.ProviderGoogle,
		CreatedAt: now,
		UpdatedAt: now,
	}

	doc := userDocumentFromEntity(u)
	assert.NotNil(t, doc.RefreshTokens, "token set must be stored as an empty array")

	back := doc.toEntity()
	assert.Equal(t, u.ID, back.ID)
	assert.Equal(t, u.Email, back.Email)
	assert.Equal(t, entity.ProviderGoogle, back.Provider)
	assert.Empty(t, back.RefreshTokens)
}
