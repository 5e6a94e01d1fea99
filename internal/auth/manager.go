// Package auth は認証・認可機能を提供します。
package auth

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
)

const (
	SessionCookieName  = "gotgas_session"
	sessionKeyUser     = "user"
	sessionKeyIssuedAt = "issued_at"
)

// DefaultSessionLifetime はログインからの絶対有効期限です。
const DefaultSessionLifetime = 7 * 24 * time.Hour

// ContextUserKey は、ハンドラー間でログイン済みユーザー名を共有するためのキーです。
const ContextUserKey = "auth.user"

// SessionOptions はセッションクッキーの設定です。
type SessionOptions struct {
	Secret   string
	Lifetime time.Duration
	Secure   bool
}

// NewCookieStore は署名付きクッキーのセッションストアを作成します。
// クロスオリジンで使うため Secure のときは SameSite=None にします。
func NewCookieStore(opts SessionOptions) (sessions.Store, error) {
	if opts.Secret == "" {
		return nil, errors.New("session secret is required")
	}
	store := cookie.NewStore([]byte(opts.Secret))
	store.Options(cookieOptions(opts))
	return store, nil
}

func cookieOptions(opts SessionOptions) sessions.Options {
	lifetime := opts.Lifetime
	if lifetime <= 0 {
		lifetime = DefaultSessionLifetime
	}
	sameSite := http.SameSiteNoneMode
	if !opts.Secure {
		// ブラウザは Secure なしの SameSite=None を拒否する
		sameSite = http.SameSiteLaxMode
	}
	return sessions.Options{
		Path:     "/",
		MaxAge:   int(lifetime.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: sameSite,
	}
}

// Manager は認証処理とセッション状態をまとめた構造体です。
// ログイン中ユーザーはリクエストごとのセッションクッキーだけが保持します。
type Manager struct {
	service  *Service
	options  sessions.Options
	lifetime time.Duration
	logger   *log.Logger
	now      func() time.Time
}

// NewManager は認証マネージャーを作成します。
func NewManager(service *Service, opts SessionOptions, logger *log.Logger) (*Manager, error) {
	if service == nil {
		return nil, errors.New("service is nil")
	}
	if logger == nil {
		logger = log.Default()
	}
	options := cookieOptions(opts)
	return &Manager{
		service:  service,
		options:  options,
		lifetime: time.Duration(options.MaxAge) * time.Second,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// establish は username に紐づくセッションを新たに発行します。
func (m *Manager) establish(session sessions.Session, username string) error {
	session.Clear()
	session.Options(m.options)
	session.Set(sessionKeyUser, username)
	session.Set(sessionKeyIssuedAt, m.now().Unix())
	return session.Save()
}

// destroy はセッションの認証情報を消し、クッキーを失効させます。
func (m *Manager) destroy(session sessions.Session) error {
	session.Clear()
	expired := m.options
	expired.MaxAge = -1
	session.Options(expired)
	return session.Save()
}

// authenticated はセッションが有効ならユーザー名を返します。
// 期限切れのセッションはその場で破棄します。
func (m *Manager) authenticated(session sessions.Session) (string, bool) {
	user, ok := session.Get(sessionKeyUser).(string)
	if !ok || user == "" {
		return "", false
	}

	issuedAt := readUnix(session.Get(sessionKeyIssuedAt))
	if issuedAt.IsZero() || m.now().Sub(issuedAt) > m.lifetime {
		if err := m.destroy(session); err != nil {
			m.logger.Printf("failed to clear expired session user=%s: %v", user, err)
		}
		return "", false
	}
	return user, true
}

func readUnix(v interface{}) time.Time {
	switch t := v.(type) {
	case int64:
		return time.Unix(t, 0)
	case int:
		return time.Unix(int64(t), 0)
	case float64:
		return time.Unix(int64(t), 0)
	default:
		return time.Time{}
	}
}
