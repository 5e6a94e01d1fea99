package auth

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/yourusername/gotgas/internal/users"
)

// MinPasswordLength は登録時に要求するパスワードの最小文字数です。
const MinPasswordLength = 6

// Service はユーザー登録と資格情報の検証を行います。HTTP には依存しません。
type Service struct {
	repo   users.Repository
	hasher *PasswordHasher

	// 存在しないユーザーでも同じコストの比較を行うためのハッシュ
	dummyHash []byte
}

// NewService は Service を作成します。
func NewService(repo users.Repository, hasher *PasswordHasher) (*Service, error) {
	if repo == nil {
		return nil, errors.New("repo is nil")
	}
	if hasher == nil {
		return nil, errors.New("hasher is nil")
	}
	dummy, err := hasher.Hash("gotgas-unknown-user")
	if err != nil {
		return nil, err
	}
	return &Service{repo: repo, hasher: hasher, dummyHash: dummy}, nil
}

// Register はユーザーを登録します。セッションは作成しません。
func (s *Service) Register(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ValidationError(msgFieldsRequired)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ValidationError(msgPasswordTooShort)
	}

	existing, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return InternalError(msgRegisterFailed, err)
	}
	if existing != nil {
		return ConflictError(msgUsernameTaken)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if isPasswordTooLong(err) {
			return ValidationError(msgPasswordTooLong)
		}
		return InternalError(msgRegisterFailed, err)
	}

	// 事前チェックと挿入の間に競合した場合はストアの一意制約で検出する
	if err := s.repo.Insert(ctx, &users.User{Username: username, PasswordHash: hash}); err != nil {
		if errors.Is(err, users.ErrDuplicateUsername) {
			return ConflictError(msgUsernameTaken)
		}
		return InternalError(msgRegisterFailed, err)
	}
	return nil
}

// Login は資格情報を検証し、成功時に認証済みユーザー名を返します。
// 未登録ユーザーとパスワード不一致は同じエラーになります。
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ValidationError(msgFieldsRequired)
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", InternalError(msgLoginFailed, err)
	}
	if user == nil {
		s.hasher.Verify(s.dummyHash, password)
		return "", AuthenticationError(msgInvalidLogin)
	}
	if !s.hasher.Verify(user.PasswordHash, password) {
		return "", AuthenticationError(msgInvalidLogin)
	}
	return user.Username, nil
}

// Profile はログイン中ユーザーのパスワードを除いた情報を返します。
func (s *Service) Profile(ctx context.Context, username string) (*users.Profile, error) {
	profile, err := s.repo.FindProfile(ctx, username)
	if err != nil {
		return nil, InternalError(msgInternal, err)
	}
	if profile == nil {
		return nil, NotFoundError(msgUserNotFound)
	}
	return profile, nil
}
