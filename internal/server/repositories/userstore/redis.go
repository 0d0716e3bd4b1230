package userstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/users"
)

const redisKeyPrefix = "user:"

// RedisClient is the part of *redis.Client the repository needs.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// RedisRepository keeps each user as a JSON document under "user:<email>".
// SETNX gives Create its first-writer-wins semantics.
type RedisRepository struct {
	client RedisClient
}

func NewRedisRepository(client RedisClient) *RedisRepository {
	return &RedisRepository{client: client}
}

func (r *RedisRepository) Create(ctx context.Context, user *users.User) error {
	doc, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	created, err := r.client.SetNX(ctx, redisKeyPrefix+user.Email, doc, 0).Result()
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	if !created {
		return common.ErrAlreadyExists
	}
	return nil
}

func (r *RedisRepository) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	doc, err := r.client.Get(ctx, redisKeyPrefix+email).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	user := &users.User{}
	if err := json.Unmarshal(doc, user); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", email, err)
	}
	return user, nil
}
