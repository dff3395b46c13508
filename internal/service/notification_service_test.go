package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/murmur/internal/model"
)

func TestNotificationService_Dedup(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")
	m, err := e.murmurSvc.Create(ctx, bob.ID, "post", nil)
	require.NoError(t, err)

	n1, err := e.notifSvc.Notify(ctx, model.NotificationLike, bob.ID, alice.ID, &m.ID)
	require.NoError(t, err)
	require.NotNil(t, n1)

	n2, err := e.notifSvc.Notify(ctx, model.NotificationLike, bob.ID, alice.ID, &m.ID)
	require.NoError(t, err)
	require.NotNil(t, n2)
	assert.Equal(t, n1.ID, n2.ID)

	var cnt int64
	require.NoError(t, e.db.Model(&model.Notification{}).Count(&cnt).Error)
	assert.EqualValues(t, 1, cnt)
}

func TestNotificationService_SelfSuppressed(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	bob := e.user(t, "bob")
	m, err := e.murmurSvc.Create(ctx, bob.ID, "post", nil)
	require.NoError(t, err)

	n, err := e.notifSvc.Notify(ctx, model.NotificationLike, bob.ID, bob.ID, &m.ID)
	require.NoError(t, err)
	assert.Nil(t, n)

	var cnt int64
	require.NoError(t, e.db.Model(&model.Notification{}).Count(&cnt).Error)
	assert.EqualValues(t, 0, cnt)
}

func TestNotificationService_ListHasMore(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	bob := e.user(t, "bob")

	for i := 0; i < 5; i++ {
		actor := e.user(t, fmt.Sprintf("actor%d", i))
		_, err := e.notifSvc.Notify(ctx, model.NotificationFollow, bob.ID, actor.ID, nil)
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	items, hasMore, cursor, err := e.notifSvc.List(ctx, bob.ID, 3, "")
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.True(t, hasMore)
	require.NotEmpty(t, cursor)
	// actor 信息随行装配
	require.NotNil(t, items[0].Actor)
	assert.Equal(t, items[0].ActorID, items[0].Actor.ID)

	items, hasMore, cursor, err = e.notifSvc.List(ctx, bob.ID, 3, cursor)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.False(t, hasMore)
	assert.Empty(t, cursor)
}

func TestNotificationService_MarkReadScoping(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")

	n, err := e.notifSvc.Notify(ctx, model.NotificationFollow, bob.ID, alice.ID, nil)
	require.NoError(t, err)

	// 别人标记无效，未读数不变
	require.NoError(t, e.notifSvc.MarkRead(ctx, n.ID, alice.ID))
	cnt, _ := e.notifSvc.UnreadCount(ctx, bob.ID)
	assert.EqualValues(t, 1, cnt)

	require.NoError(t, e.notifSvc.MarkRead(ctx, n.ID, bob.ID))
	cnt, _ = e.notifSvc.UnreadCount(ctx, bob.ID)
	assert.EqualValues(t, 0, cnt)
}
