package users

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrDuplicateUsername は一意制約違反を表します。
var ErrDuplicateUsername = errors.New("users: username already exists")

// Repository はユーザーストアの抽象です。
// 見つからない場合はエラーではなく nil を返します。
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindProfile(ctx context.Context, username string) (*Profile, error)
	Insert(ctx context.Context, user *User) error
}

// prepareInsert は ID と作成日時が未設定なら補完します。
func prepareInsert(user *User) error {
	if user == nil {
		return errors.New("users: user is nil")
	}
	if user.Username == "" {
		return errors.New("users: username is required")
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	return nil
}
