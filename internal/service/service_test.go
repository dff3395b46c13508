package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/murmur/internal/model"
	"github.com/d60-Lab/murmur/internal/repository"
	"github.com/d60-Lab/murmur/pkg/auth"
	"github.com/d60-Lab/murmur/pkg/database"
)

type testEnv struct {
	db *gorm.DB

	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	murmurRepo repository.MurmurRepository
	likeRepo   repository.LikeRepository
	notifRepo  repository.NotificationRepository

	authSvc   AuthService
	userSvc   UserService
	followSvc FollowService
	murmurSvc MurmurService
	likeSvc   LikeService
	feedSvc   FeedService
	notifSvc  NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	e := &testEnv{db: db}
	e.userRepo = repository.NewUserRepository(db)
	e.followRepo = repository.NewFollowRepository(db)
	e.murmurRepo = repository.NewMurmurRepository(db)
	e.likeRepo = repository.NewLikeRepository(db)
	e.notifRepo = repository.NewNotificationRepository(db)

	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	e.notifSvc = NewNotificationService(e.notifRepo, e.userRepo, nil)
	e.authSvc = NewAuthService(e.userRepo, tokens)
	e.userSvc = NewUserService(db, e.userRepo)
	e.followSvc = NewFollowService(db, e.followRepo, e.userRepo, e.notifSvc)
	e.murmurSvc = NewMurmurService(db, e.murmurRepo, e.notifSvc, nil)
	e.likeSvc = NewLikeService(e.likeRepo, e.murmurRepo, e.notifSvc)
	e.feedSvc = NewFeedService(e.murmurRepo, e.likeRepo, e.userRepo, nil)
	return e
}

// user 直插用户，绕开 bcrypt 加速测试
func (e *testEnv) user(t *testing.T, username string) *model.User {
	t.Helper()
	u := &model.User{
		ID:          uuid.New().String(),
		Username:    username,
		Email:       fmt.Sprintf("%s@example.com", username),
		Password:    "hashed",
		DisplayName: username,
		IsActive:    true,
	}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) reloadUser(t *testing.T, id string) *model.User {
	t.Helper()
	var u model.User
	require.NoError(t, e.db.Where("id = ?", id).First(&u).Error)
	return &u
}

func (e *testEnv) reloadMurmur(t *testing.T, id string) *model.Murmur {
	t.Helper()
	var m model.Murmur
	require.NoError(t, e.db.Where("id = ?", id).First(&m).Error)
	return &m
}
