package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher は bcrypt によるハッシュ化と検証を行います。
// ソルトは bcrypt がハッシュごとに生成します。
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher は指定コストの PasswordHasher を作成します。
// 範囲外のコストは bcrypt.DefaultCost に置き換えます。
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash はパスワードをハッシュ化します。72バイトを超える入力は ErrPasswordTooLong になります。
func (h *PasswordHasher) Hash(password string) ([]byte, error) {
	if len(password) > maxPasswordBytes {
		return nil, bcrypt.ErrPasswordTooLong
	}
	return bcrypt.GenerateFromPassword([]byte(password), h.cost)
}

// Verify は定数時間比較でパスワードを検証します。
func (h *PasswordHasher) Verify(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

// maxPasswordBytes は bcrypt が扱える入力長の上限です。
const maxPasswordBytes = 72

func isPasswordTooLong(err error) bool {
	return errors.Is(err, bcrypt.ErrPasswordTooLong)
}
