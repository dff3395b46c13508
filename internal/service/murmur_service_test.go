package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/murmur/internal/model"
)

func TestMurmurService_ContentValidation(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")

	_, err := e.murmurSvc.Create(ctx, alice.ID, "", nil)
	assert.ErrorIs(t, err, ErrContentLength)

	_, err = e.murmurSvc.Create(ctx, alice.ID, strings.Repeat("x", 281), nil)
	assert.ErrorIs(t, err, ErrContentLength)

	// 280 个多字节字符按 rune 计数是合法的
	m, err := e.murmurSvc.Create(ctx, alice.ID, strings.Repeat("好", 280), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
}

func TestMurmurService_RootCountsReplyDoesNot(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")

	root, err := e.murmurSvc.Create(ctx, alice.ID, "root", nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, e.reloadUser(t, alice.ID).MurmursCount)

	_, err = e.murmurSvc.Create(ctx, bob.ID, "a reply", &root.ID)
	require.NoError(t, err)

	// 回帖不计入作者 murmurs_count，父帖回帖数 +1
	assert.EqualValues(t, 0, e.reloadUser(t, bob.ID).MurmursCount)
	assert.EqualValues(t, 1, e.reloadMurmur(t, root.ID).RepliesCount)

	// 父帖作者收到 reply 通知
	items, _, _, err := e.notifSvc.List(ctx, alice.ID, 10, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, model.NotificationReply, items[0].Type)
	assert.Equal(t, bob.ID, items[0].ActorID)
}

func TestMurmurService_ReplyToMissingOrDeletedParent(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")

	missing := "no-such-id"
	_, err := e.murmurSvc.Create(ctx, alice.ID, "reply", &missing)
	assert.ErrorIs(t, err, ErrMurmurNotFound)

	root, err := e.murmurSvc.Create(ctx, alice.ID, "root", nil)
	require.NoError(t, err)
	require.NoError(t, e.murmurSvc.Delete(ctx, root.ID, alice.ID))

	// 软删的父帖视同不存在
	_, err = e.murmurSvc.Create(ctx, alice.ID, "reply", &root.ID)
	assert.ErrorIs(t, err, ErrMurmurNotFound)
}

func TestMurmurService_SoftDeleteRoot(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")

	m, err := e.murmurSvc.Create(ctx, alice.ID, "hello world", nil)
	require.NoError(t, err)
	require.NoError(t, e.likeSvc.Like(ctx, bob.ID, m.ID))

	require.NoError(t, e.murmurSvc.Delete(ctx, m.ID, alice.ID))

	// 作者计数回落，公开查找 404
	assert.EqualValues(t, 0, e.reloadUser(t, alice.ID).MurmursCount)
	_, err = e.murmurSvc.Get(ctx, m.ID)
	assert.ErrorIs(t, err, ErrMurmurNotFound)

	// 点赞边被级联清掉
	cnt, err := e.likeRepo.Count(ctx, m.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, cnt)

	// 各列表都看不到了
	items, _, err := e.feedSvc.PublicFeed(ctx, "", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, items)
	items, _, err = e.feedSvc.Search(ctx, "", "hello", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMurmurService_SoftDeleteReply(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")

	root, err := e.murmurSvc.Create(ctx, alice.ID, "root", nil)
	require.NoError(t, err)
	reply, err := e.murmurSvc.Create(ctx, bob.ID, "a reply", &root.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, e.reloadMurmur(t, root.ID).RepliesCount)

	require.NoError(t, e.murmurSvc.Delete(ctx, reply.ID, bob.ID))
	assert.EqualValues(t, 0, e.reloadMurmur(t, root.ID).RepliesCount)
	// 作者计数不受回帖删除影响
	assert.EqualValues(t, 0, e.reloadUser(t, bob.ID).MurmursCount)
}

func TestMurmurService_DeleteOwnership(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")

	m, err := e.murmurSvc.Create(ctx, alice.ID, "mine", nil)
	require.NoError(t, err)

	assert.ErrorIs(t, e.murmurSvc.Delete(ctx, m.ID, bob.ID), ErrNotOwner)
	assert.ErrorIs(t, e.murmurSvc.Delete(ctx, "no-such-id", bob.ID), ErrMurmurNotFound)
}
