package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/murmur/internal/cache"
	"github.com/d60-Lab/murmur/internal/model"
	"github.com/d60-Lab/murmur/internal/repository"
)

// NotificationService 通知扇出与查询
type NotificationService interface {
	// Notify 自触发（recipient == actor）返回 nil；同一去重键已有行时复用旧行
	Notify(ctx context.Context, typ, recipientID, actorID string, murmurID *string) (*model.Notification, error)
	// List 游标分页；over-fetch limit+1 判断 hasMore
	List(ctx context.Context, userID string, limit int, cursor string) ([]*model.Notification, bool, string, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	UnreadCount(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id, userID string) error
}

type notificationService struct {
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	unread    *cache.UnreadCache // nil 时为无缓存
}

func NewNotificationService(notifRepo repository.NotificationRepository, userRepo repository.UserRepository, unread *cache.UnreadCache) NotificationService {
	return &notificationService{notifRepo: notifRepo, userRepo: userRepo, unread: unread}
}

func (s *notificationService) Notify(ctx context.Context, typ, recipientID, actorID string, murmurID *string) (*model.Notification, error) {
	if recipientID == actorID {
		return nil, nil
	}
	n, err := s.notifRepo.FindByTuple(ctx, typ, recipientID, actorID, murmurID)
	if err == nil {
		return n, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	n, err = s.notifRepo.Create(ctx, typ, recipientID, actorID, murmurID)
	if err != nil {
		return nil, err
	}
	s.unread.Invalidate(ctx, recipientID)
	return n, nil
}

func (s *notificationService) List(ctx context.Context, userID string, limit int, cursor string) ([]*model.Notification, bool, string, error) {
	if limit < 1 { limit = 20 }
	if limit > 100 { limit = 100 }
	items, err := s.notifRepo.ListByUser(ctx, userID, limit+1, cursor)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 游标行不存在（被删或不属于该用户），按空页处理
			return []*model.Notification{}, false, "", nil
		}
		return nil, false, "", err
	}
	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}
	nextCursor := ""
	if hasMore && len(items) > 0 {
		nextCursor = items[len(items)-1].ID
	}
	if err := s.attachActors(ctx, items); err != nil {
		return nil, false, "", err
	}
	return items, hasMore, nextCursor, nil
}

func (s *notificationService) attachActors(ctx context.Context, items []*model.Notification) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, n := range items {
		if !seen[n.ActorID] {
			seen[n.ActorID] = true
			ids = append(ids, n.ActorID)
		}
	}
	actors, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[string]*model.User, len(actors))
	for _, a := range actors {
		byID[a.ID] = a
	}
	for _, n := range items {
		n.Actor = byID[n.ActorID]
	}
	return nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID string) error {
	// 别人的通知静默影响 0 行
	rows, err := s.notifRepo.MarkRead(ctx, id, userID)
	if err == nil && rows > 0 {
		s.unread.Invalidate(ctx, userID)
	}
	return err
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := s.notifRepo.MarkAllRead(ctx, userID); err != nil {
		return err
	}
	s.unread.Invalidate(ctx, userID)
	return nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	if n, ok := s.unread.Get(ctx, userID); ok {
		return n, nil
	}
	n, err := s.notifRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.unread.Set(ctx, userID, n)
	return n, nil
}

func (s *notificationService) Delete(ctx context.Context, id, userID string) error {
	rows, err := s.notifRepo.Delete(ctx, id, userID)
	if err == nil && rows > 0 {
		s.unread.Invalidate(ctx, userID)
	}
	return err
}
