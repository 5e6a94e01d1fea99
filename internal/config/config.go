// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// ストアの種類
const (
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// サーバー設定
	Port    string // APIサーバーのポート番号
	GinMode string // Ginの実行モード (debug, release, test)

	// セッション設定
	SessionSecret       string        // クッキー署名用の秘密鍵
	SessionLifetime     time.Duration // ログインからの絶対有効期限
	SessionCookieSecure bool          // Secure 属性を付けるか（SameSite=None では必須）

	// CORS設定
	CORSAllowedOrigins string // CORS許可オリジン（カンマ区切り）

	// ユーザーストア設定
	StoreDriver string // redis, postgres, memory
	RedisURL    string // Redis接続URL
	DatabaseURL string // PostgreSQL接続URL

	// パスワードハッシュ設定
	BcryptCost int

	// アクションログ設定
	ActionQueueEnabled bool          // asynq 経由で記録するか
	ActionHistorySize  int           // ユーザーごとに保持する件数
	ActionHistoryTTL   time.Duration // 履歴キーの有効期限
}

// Load は環境変数から設定を読み込みます。
// .env.local ファイルが存在する場合はそこから読み込みます。
func Load() (*Config, error) {
	loadEnvFile()

	config := &Config{
		Port:    getEnv("PORT", "5000"),
		GinMode: getEnv("GIN_MODE", "debug"),

		SessionSecret:       getEnv("SECRET_KEY", ""),
		SessionLifetime:     getEnvAsDuration("SESSION_LIFETIME", 7*24*time.Hour),
		SessionCookieSecure: getEnvAsBool("SESSION_COOKIE_SECURE", true),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreRedis)),
		RedisURL:    getEnv("REDIS_URL", "redis://127.0.0.1:6379/0"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		BcryptCost: getEnvAsInt("BCRYPT_COST", bcrypt.DefaultCost),

		ActionQueueEnabled: getEnvAsBool("ACTION_QUEUE_ENABLED", false),
		ActionHistorySize:  getEnvAsInt("ACTION_HISTORY_SIZE", 50),
		ActionHistoryTTL:   getEnvAsDuration("ACTION_HISTORY_TTL", 7*24*time.Hour),
	}

	// ローカル開発用のフォールバック。release では Validate で弾く
	if config.SessionSecret == "" && config.GinMode != "release" {
		config.SessionSecret = "secret"
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func loadEnvFile() {
	if err := godotenv.Load(".env.local"); err == nil {
		return
	}
	if err := godotenv.Load(".env"); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}

	_ = godotenv.Load(filepath.Join(parent, ".env.local"))
}

// Validate は設定の妥当性を検証します。
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreRedis, StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.SessionLifetime <= 0 {
		return fmt.Errorf("SESSION_LIFETIME must be positive")
	}
	if c.ActionHistorySize <= 0 {
		return fmt.Errorf("ACTION_HISTORY_SIZE must be positive")
	}
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	// 本番環境では秘密鍵を必須にする
	if c.GinMode == "release" {
		if c.SessionSecret == "" {
			return fmt.Errorf("SECRET_KEY is required in release mode")
		}
		if !c.SessionCookieSecure {
			return fmt.Errorf("SESSION_COOKIE_SECURE must be true in release mode")
		}
	}

	return nil
}

// AllowedOrigins は CORS 許可オリジンを配列で返します。
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSAllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します。
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt は環境変数を整数として取得します。
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool は環境変数を真偽値として取得します。
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration は "168h" 形式、または秒数として取得します。
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue
	}
	if n, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return time.Duration(n) * time.Second
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
