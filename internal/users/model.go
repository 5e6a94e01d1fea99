// Package users はユーザーレコードの永続化を提供します。
package users

import "time"

// User は認証に使うユーザーレコードです。
// PasswordHash は認証境界の外へ返してはいけません。
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash []byte    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile はパスワードを除いたユーザー情報です。
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile はパスワードハッシュを落とした射影を返します。
func (u *User) Profile() *Profile {
	return &Profile{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}
