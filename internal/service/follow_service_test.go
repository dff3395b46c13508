package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/murmur/internal/model"
)

func TestFollowService_RoundTrip(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")

	require.NoError(t, e.followSvc.Follow(ctx, alice.ID, bob.ID))

	following, err := e.followSvc.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	assert.EqualValues(t, 1, e.reloadUser(t, alice.ID).FollowingCount)
	assert.EqualValues(t, 1, e.reloadUser(t, bob.ID).FollowersCount)

	require.NoError(t, e.followSvc.Unfollow(ctx, alice.ID, bob.ID))

	following, err = e.followSvc.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)
	assert.EqualValues(t, 0, e.reloadUser(t, alice.ID).FollowingCount)
	assert.EqualValues(t, 0, e.reloadUser(t, bob.ID).FollowersCount)
}

func TestFollowService_SelfFollow(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")

	assert.ErrorIs(t, e.followSvc.Follow(ctx, alice.ID, alice.ID), ErrFollowSelf)
}

func TestFollowService_Conflicts(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")

	assert.ErrorIs(t, e.followSvc.Unfollow(ctx, alice.ID, bob.ID), ErrNotFollowing)

	require.NoError(t, e.followSvc.Follow(ctx, alice.ID, bob.ID))
	assert.ErrorIs(t, e.followSvc.Follow(ctx, alice.ID, bob.ID), ErrAlreadyFollowing)

	// 重复关注不会把计数刷上去
	assert.EqualValues(t, 1, e.reloadUser(t, bob.ID).FollowersCount)
}

func TestFollowService_FollowMissingUser(t *testing.T) {
	e := newTestEnv(t)
	alice := e.user(t, "alice")

	assert.ErrorIs(t, e.followSvc.Follow(context.Background(), alice.ID, "no-such-id"), ErrUserNotFound)
}

func TestFollowService_CountAfterNFollows(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")

	const n = 5
	for i := 0; i < n; i++ {
		b := e.user(t, fmt.Sprintf("target%d", i))
		require.NoError(t, e.followSvc.Follow(ctx, alice.ID, b.ID))
	}
	assert.EqualValues(t, n, e.reloadUser(t, alice.ID).FollowingCount)
}

func TestFollowService_FollowNotification(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")

	require.NoError(t, e.followSvc.Follow(ctx, alice.ID, bob.ID))

	cnt, err := e.notifSvc.UnreadCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)

	items, _, _, err := e.notifSvc.List(ctx, bob.ID, 10, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, model.NotificationFollow, items[0].Type)
	assert.Equal(t, alice.ID, items[0].ActorID)

	// 取关再关，去重复用旧行
	require.NoError(t, e.followSvc.Unfollow(ctx, alice.ID, bob.ID))
	require.NoError(t, e.followSvc.Follow(ctx, alice.ID, bob.ID))
	items, _, _, err = e.notifSvc.List(ctx, bob.ID, 10, "")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestFollowService_FollowersPaging(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	hub := e.user(t, "hub")
	for i := 0; i < 15; i++ {
		f := e.user(t, fmt.Sprintf("fan%02d", i))
		require.NoError(t, e.followSvc.Follow(ctx, f.ID, hub.ID))
	}

	users, meta, err := e.followSvc.Followers(ctx, hub.ID, 2, 10)
	require.NoError(t, err)
	assert.Len(t, users, 5)
	assert.EqualValues(t, 15, meta.Total)
	assert.False(t, meta.HasNextPage)
	assert.True(t, meta.HasPrevPage)
}
