// Package session stores refresh token sets outside the primary user store.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"recipe_backend/internal/feature/auth/usecase"
)

// trimScript evicts the oldest entries beyond the capacity held in local cap.
const trimScript = `
if cap > 0 then
  while redis.call('LLEN', list) > cap do
    local evicted = redis.call('LPOP', list)
    redis.call('HDEL', owners, evicted)
  end
end
`

// appendScript drops ARGV[4..] from the set, appends ARGV[2] and trims to ARGV[3].
var appendScript = redis.NewScript(`
local list, owners = KEYS[1], KEYS[2]
local uid, token, cap = ARGV[1], ARGV[2], tonumber(ARGV[3])
for i = 4, #ARGV do
  if redis.call('LREM', list, 0, ARGV[i]) > 0 then
    redis.call('HDEL', owners, ARGV[i])
  end
end
redis.call('LREM', list, 0, token)
redis.call('RPUSH', list, token)
redis.call('HSET', owners, token, uid)
` + trimScript + `
return 1
`)

// rotateScript replaces ARGV[2] with ARGV[3] and returns 0 when ARGV[2] is not in the set.
var rotateScript = redis.NewScript(`
local list, owners = KEYS[1], KEYS[2]
local uid, old, token, cap = ARGV[1], ARGV[2], ARGV[3], tonumber(ARGV[4])
if redis.call('LREM', list, 1, old) == 0 then
  return 0
end
redis.call('HDEL', owners, old)
redis.call('RPUSH', list, token)
redis.call('HSET', owners, token, uid)
` + trimScript + `
return 1
`)

// clearScript empties the set and releases every owner entry.
var clearScript = redis.NewScript(`
local list, owners = KEYS[1], KEYS[2]
local tokens = redis.call('LRANGE', list, 0, -1)
for _, t in ipairs(tokens) do
  redis.call('HDEL', owners, t)
end
redis.call('DEL', list)
return #tokens
`)

// TokenSetRedis implements usecase.RefreshTokenStore on Redis.
// Each user's set is a list ordered oldest first; a shared hash maps every stored
// token to its owner so logout can find it without the user ID.
// It does not know about users: Append for an unknown user creates the list.
type TokenSetRedis struct {
	client *redis.Client
	prefix string
}

var _ usecase.RefreshTokenStore = (*TokenSetRedis)(nil)

// NewTokenSetRedis creates a new TokenSetRedis instance.
func NewTokenSetRedis(client *redis.Client, prefix string) *TokenSetRedis {
	return &TokenSetRedis{
		client: client,
		prefix: prefix,
	}
}

// userKey returns the Redis key for a user's token list.
func (r *TokenSetRedis) userKey(userID string) string {
	return fmt.Sprintf("%s:user:%s", r.prefix, userID)
}

// ownersKey returns the Redis key of the token to owner hash.
func (r *TokenSetRedis) ownersKey() string {
	return r.prefix + ":owners"
}

// List returns the user's tokens, oldest first.
func (r *TokenSetRedis) List(ctx context.Context, userID string) ([]string, error) {
	return r.client.LRange(ctx, r.userKey(userID), 0, -1).Result()
}

// Append drops the given tokens, appends token and trims the set to capacity.
func (r *TokenSetRedis) Append(ctx context.Context, userID, token string, capacity int, drop []string) error {
	args := make([]any, 0, 3+len(drop))
	args = append(args, userID, token, strconv.Itoa(capacity))
	for _, d := range drop {
		args = append(args, d)
	}
	return appendScript.Run(ctx, r.client, []string{r.userKey(userID), r.ownersKey()}, args...).Err()
}

// Rotate replaces old with next atomically.
// It returns usecase.ErrTokenNotMember if old is not in the user's set.
func (r *TokenSetRedis) Rotate(ctx context.Context, userID, old, next string, capacity int) error {
	n, err := rotateScript.Run(ctx, r.client,
		[]string{r.userKey(userID), r.ownersKey()},
		userID, old, next, strconv.Itoa(capacity),
	).Int()
	if err != nil {
		return err
	}
	if n == 0 {
		return usecase.ErrTokenNotMember
	}
	return nil
}

// Remove deletes the token from its owner's set. Unknown tokens are ignored.
func (r *TokenSetRedis) Remove(ctx context.Context, token string) error {
	owner, err := r.client.HGet(ctx, r.ownersKey(), token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, r.userKey(owner), 0, token)
		pipe.HDel(ctx, r.ownersKey(), token)
		return nil
	})
	return err
}

// Clear deletes every token of the user.
func (r *TokenSetRedis) Clear(ctx context.Context, userID string) error {
	return clearScript.Run(ctx, r.client, []string{r.userKey(userID), r.ownersKey()}).Err()
}

// Healthcheck returns a ping-based check for HTTP health endpoints.
func Healthcheck(client *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
