// Package main はAPIサーバーのエントリーポイントです。
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/gotgas/internal/actions"
	"github.com/yourusername/gotgas/internal/auth"
	"github.com/yourusername/gotgas/internal/config"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	gin.SetMode(cfg.GinMode)
	logger := log.Default()

	rdb, err := newRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer rdb.Close()

	repo, closeRepo, err := setupUserStore(context.Background(), cfg, rdb)
	if err != nil {
		log.Fatalf("Failed to set up user store: %v", err)
	}
	defer closeRepo()

	sessionOpts := auth.SessionOptions{
		Secret:   cfg.SessionSecret,
		Lifetime: cfg.SessionLifetime,
		Secure:   cfg.SessionCookieSecure,
	}
	service, err := auth.NewService(repo, auth.NewPasswordHasher(cfg.BcryptCost))
	if err != nil {
		log.Fatalf("Failed to create auth service: %v", err)
	}
	authManager, err := auth.NewManager(service, sessionOpts, logger)
	if err != nil {
		log.Fatalf("Failed to create auth manager: %v", err)
	}
	sessionStore, err := auth.NewCookieStore(sessionOpts)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}

	actionStore := actions.NewStore(rdb, cfg.ActionHistorySize, cfg.ActionHistoryTTL)
	recorder, stopActions, err := setupActions(cfg, actionStore, logger)
	if err != nil {
		log.Fatalf("Failed to set up action recorder: %v", err)
	}

	router := newRouter(cfg, sessionStore, authManager, recorder, actionStore)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting API server on %s (mode: %s, store: %s)", server.Addr, cfg.GinMode, cfg.StoreDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown: %v", err)
	}
	if err := stopActions(ctx); err != nil {
		log.Printf("action workers shutdown: %v", err)
	}
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "gotgas-api",
		"version": "0.1.0",
	})
}

// newRouter はミドルウェアとルーティングを設定したルーターを返します。
func newRouter(cfg *config.Config, store sessions.Store, authManager *auth.Manager, recorder actions.Recorder, history actions.History) *gin.Engine {
	// デフォルトミドルウェア: Logger, Recovery
	router := gin.Default()

	// CORSミドルウェアの設定（フロントエンドからクッキー付きで呼ばれる）
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins()
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Type",
		"Accept",
	}
	router.Use(cors.New(corsConfig))

	router.Use(sessions.Sessions(auth.SessionCookieName, store))

	setupRoutes(router, authManager, recorder, history)
	return router
}

// setupRoutes は認証周りと保護されたエンドポイントの配線を行います。
func setupRoutes(router *gin.Engine, authManager *auth.Manager, recorder actions.Recorder, history actions.History) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Backend is running!"})
	})
	router.GET("/health", handleHealth)

	router.POST("/register", authManager.Register)
	router.POST("/login", authManager.Login)
	router.POST("/logout", authManager.Logout)
	router.GET("/check-auth", authManager.CheckAuth)

	protected := router.Group("")
	protected.Use(authManager.RequireLogin())
	{
		protected.GET("/user-info", authManager.UserInfo)

		action := actions.ActionHandler(recorder, nil)
		protected.POST("/protected-action", action)
		// 旧フロントエンド互換のパス
		protected.POST("/button-action", action)

		protected.GET("/actions", actions.HistoryHandler(history, nil))
	}
}
