package repository

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/murmur/internal/model"
	"github.com/d60-Lab/murmur/pkg/database"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	// :memory: 库跟连接走，锁死单连接避免查到空库
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{
		ID:          uuid.New().String(),
		Username:    username,
		Email:       fmt.Sprintf("%s@example.com", username),
		Password:    "hashed",
		DisplayName: username,
		IsActive:    true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedMurmur(t *testing.T, db *gorm.DB, userID, content string, replyToID *string) *model.Murmur {
	t.Helper()
	m := &model.Murmur{
		ID:        uuid.New().String(),
		UserID:    userID,
		Content:   content,
		ReplyToID: replyToID,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}
