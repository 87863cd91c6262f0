package utils

import (
	"context" // Context for Redis operations
	"strconv" // Integer to string conversion for session keys
	"time"    // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// SessionKey is the Redis key holding a user's active session token
func SessionKey(userID uint) string {
	return "session:user:" + strconv.Itoa(int(userID))
}

// CreateSession stores the issued token as the user's active session.
// The entry expires with the token, so stale sessions clean themselves up.
func CreateSession(ctx context.Context, rdb *redis.Client, userID uint, token string, ttl time.Duration) error {
	return rdb.Set(ctx, SessionKey(userID), token, ttl).Err()
}

// SessionToken returns the active session token for a user, if any
func SessionToken(ctx context.Context, rdb *redis.Client, userID uint) (string, bool, error) {
	val, err := rdb.Get(ctx, SessionKey(userID)).Result()
	if err == redis.Nil {
		return "", false, nil // No active session
	} else if err != nil {
		return "", false, err // Other Redis error
	}
	return val, true, nil
}

// DestroySession removes the user's active session (logout)
func DestroySession(ctx context.Context, rdb *redis.Client, userID uint) error {
	return rdb.Del(ctx, SessionKey(userID)).Err()
}
