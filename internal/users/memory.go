package users

import (
	"context"
	"sync"
)

// MemoryRepository はプロセス内 map によるストアです（ローカル開発・テスト用）。
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewMemoryRepository は空の MemoryRepository を作成します。
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]User)}
}

func (r *MemoryRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[username]
	if !ok {
		return nil, nil
	}
	u.PasswordHash = append([]byte(nil), u.PasswordHash...)
	return &u, nil
}

func (r *MemoryRepository) FindProfile(ctx context.Context, username string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[username]
	if !ok {
		return nil, nil
	}
	return u.Profile(), nil
}

func (r *MemoryRepository) Insert(ctx context.Context, user *User) error {
	if err := prepareInsert(user); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Username]; exists {
		return ErrDuplicateUsername
	}
	stored := *user
	stored.PasswordHash = append([]byte(nil), user.PasswordHash...)
	r.users[user.Username] = stored
	return nil
}
