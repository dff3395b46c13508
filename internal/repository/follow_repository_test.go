package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository_CreateIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")

	created, err := repo.Create(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, created)

	// 重复写入被唯一键兜底，不报错
	created, err = repo.Create(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, created)

	exists, err := repo.Exists(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	// 反向不存在
	exists, err = repo.Exists(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFollowRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")

	removed, err := repo.Delete(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = repo.Create(ctx, a.ID, b.ID)
	require.NoError(t, err)

	removed, err = repo.Delete(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestFollowRepository_ListOrderAndCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "hub")

	var followerIDs []string
	for i := 0; i < 3; i++ {
		f := seedUser(t, db, fmt.Sprintf("fan%d", i))
		_, err := repo.Create(ctx, f.ID, u.ID)
		require.NoError(t, err)
		followerIDs = append(followerIDs, f.ID)
		time.Sleep(5 * time.Millisecond) // 保证 created_at 可区分
	}

	cnt, err := repo.CountFollowers(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, cnt)

	edges, err := repo.ListFollowers(ctx, u.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, edges, 3)
	// 最新的边在前
	assert.Equal(t, followerIDs[2], edges[0].FollowerID)
	assert.Equal(t, followerIDs[0], edges[2].FollowerID)
}

func TestFollowRepository_DeleteAllForUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")
	c := seedUser(t, db, "carol")

	_, _ = repo.Create(ctx, a.ID, b.ID)
	_, _ = repo.Create(ctx, c.ID, a.ID)
	_, _ = repo.Create(ctx, b.ID, c.ID)

	require.NoError(t, repo.DeleteAllForUser(ctx, a.ID))

	// a 两个方向的边都没了，无关的边保留
	exists, _ := repo.Exists(ctx, a.ID, b.ID)
	assert.False(t, exists)
	exists, _ = repo.Exists(ctx, c.ID, a.ID)
	assert.False(t, exists)
	exists, _ = repo.Exists(ctx, b.ID, c.ID)
	assert.True(t, exists)
}
