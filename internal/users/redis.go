package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	userKeyPrefix = "user:"
)

// RedisRepository はユーザーを JSON ドキュメントとして Redis に保存します。
// 一意性は SETNX で保証します。
type RedisRepository struct {
	rdb *redis.Client
}

// NewRedisRepository は RedisRepository を作成します。
func NewRedisRepository(rdb *redis.Client) *RedisRepository {
	return &RedisRepository{rdb: rdb}
}

// FindByUsername はユーザー名で完全一致検索します。
func (r *RedisRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	if username == "" {
		return nil, nil
	}
	data, err := r.rdb.Get(ctx, userKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get user: %w", err)
	}
	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decode user %q: %w", username, err)
	}
	return &user, nil
}

// FindProfile はパスワードを除いたユーザー情報を返します。
func (r *RedisRepository) FindProfile(ctx context.Context, username string) (*Profile, error) {
	user, err := r.FindByUsername(ctx, username)
	if err != nil || user == nil {
		return nil, err
	}
	return user.Profile(), nil
}

// Insert はユーザーを新規作成します。既に存在する場合は ErrDuplicateUsername を返します。
func (r *RedisRepository) Insert(ctx context.Context, user *User) error {
	if err := prepareInsert(user); err != nil {
		return err
	}
	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}
	created, err := r.rdb.SetNX(ctx, userKey(user.Username), payload, 0).Result()
	if err != nil {
		return fmt.Errorf("redis insert user: %w", err)
	}
	if !created {
		return ErrDuplicateUsername
	}
	return nil
}

func userKey(username string) string {
	return userKeyPrefix + username
}
