package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/murmur/config"
	"github.com/d60-Lab/murmur/internal/api/handler"
	"github.com/d60-Lab/murmur/internal/api/router"
	"github.com/d60-Lab/murmur/internal/cache"
	"github.com/d60-Lab/murmur/internal/repository"
	"github.com/d60-Lab/murmur/internal/service"
	"github.com/d60-Lab/murmur/pkg/auth"
	"github.com/d60-Lab/murmur/pkg/database"
	"github.com/d60-Lab/murmur/pkg/logger"
	"github.com/d60-Lab/murmur/pkg/tracing"
)

// @title murmur API
// @version 1.0
// @description 社交后端：发帖、关注、点赞、通知
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Mode); err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	shutdownTracer, err := tracing.Init(cfg)
	if err != nil {
		logger.Error("tracing init failed", zap.Error(err))
		os.Exit(1)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Error("database init failed", zap.Error(err))
		os.Exit(1)
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis unreachable, feed cache disabled", zap.Error(err))
			rdb = nil
		}
	}
	feedCache := cache.NewFeedCache(rdb, cfg.Redis.FeedTTL)
	unreadCache := cache.NewUnreadCache(rdb, cfg.Redis.FeedTTL)

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	murmurRepo := repository.NewMurmurRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Expire)
	notifSvc := service.NewNotificationService(notifRepo, userRepo, unreadCache)
	authSvc := service.NewAuthService(userRepo, tokens)
	userSvc := service.NewUserService(db, userRepo)
	followSvc := service.NewFollowService(db, followRepo, userRepo, notifSvc)
	murmurSvc := service.NewMurmurService(db, murmurRepo, notifSvc, feedCache)
	likeSvc := service.NewLikeService(likeRepo, murmurRepo, notifSvc)
	feedSvc := service.NewFeedService(murmurRepo, likeRepo, userRepo, feedCache)

	// 后台周期对账，修掉请求路径留下的计数漂移
	reconciler := service.NewCounterReconciler(db, 10*time.Minute)
	stopReconciler := reconciler.Start()

	h := handler.New(authSvc, userSvc, followSvc, murmurSvc, likeSvc, feedSvc, notifSvc)
	r := router.New(cfg, h, authSvc)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}
	go func() {
		logger.Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = stopReconciler(ctx)
	_ = srv.Shutdown(ctx)
	_ = shutdownTracer(ctx)
}
