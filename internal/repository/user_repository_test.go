package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/d60-Lab/murmur/internal/model"
)

// 唯一键冲突要翻译成 gorm.ErrDuplicatedKey，而不是裸驱动错误
func TestUserRepository_DuplicateKeyTranslated(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	seedUser(t, db, "alice")

	dup := &model.User{
		ID:          uuid.New().String(),
		Username:    "alice",
		Email:       "other@example.com",
		Password:    "hashed",
		DisplayName: "alice",
		IsActive:    true,
	}
	err := repo.Create(ctx, dup)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
