package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/murmur/internal/model"
	"github.com/d60-Lab/murmur/internal/repository"
	"github.com/d60-Lab/murmur/pkg/logger"
)

// FollowService 关系链服务
type FollowService interface {
	Follow(ctx context.Context, followerID, followeeID string) error
	Unfollow(ctx context.Context, followerID, followeeID string) error
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
	Followers(ctx context.Context, userID string, page, pageSize int) ([]*model.User, PageMeta, error)
	Following(ctx context.Context, userID string, page, pageSize int) ([]*model.User, PageMeta, error)
	// RemoveAllForUser 销户清边；对端计数不在这里回调，交给对账任务
	RemoveAllForUser(ctx context.Context, userID string) error
}

type followService struct {
	db         *gorm.DB
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	notifSvc   NotificationService
}

func NewFollowService(db *gorm.DB, followRepo repository.FollowRepository, userRepo repository.UserRepository, notifSvc NotificationService) FollowService {
	return &followService{db: db, followRepo: followRepo, userRepo: userRepo, notifSvc: notifSvc}
}

// Follow 建边 + 双向计数，单事务落地；通知在事务外尽力而为
func (s *followService) Follow(ctx context.Context, followerID, followeeID string) error {
	if followerID == followeeID {
		return ErrFollowSelf
	}
	if _, err := s.userRepo.FindByID(ctx, followeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	exists, err := s.followRepo.Exists(ctx, followerID, followeeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyFollowing
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := repository.NewFollowRepository(tx).Create(ctx, followerID, followeeID)
		if err != nil {
			return err
		}
		if !created {
			// 并发下两个请求同过存在性检查，唯一键兜底
			return ErrAlreadyFollowing
		}
		users := repository.NewUserRepository(tx)
		if err := users.IncCounter(ctx, followerID, "following_count", 1); err != nil {
			return err
		}
		return users.IncCounter(ctx, followeeID, "followers_count", 1)
	})
	if err != nil {
		return err
	}
	if _, err := s.notifSvc.Notify(ctx, model.NotificationFollow, followeeID, followerID, nil); err != nil {
		logger.Warn("follow notification failed",
			zap.String("follower", followerID), zap.String("followee", followeeID), zap.Error(err))
	}
	return nil
}

func (s *followService) Unfollow(ctx context.Context, followerID, followeeID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		removed, err := repository.NewFollowRepository(tx).Delete(ctx, followerID, followeeID)
		if err != nil {
			return err
		}
		if !removed {
			return ErrNotFollowing
		}
		users := repository.NewUserRepository(tx)
		if err := users.IncCounter(ctx, followerID, "following_count", -1); err != nil {
			return err
		}
		return users.IncCounter(ctx, followeeID, "followers_count", -1)
	})
}

func (s *followService) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, followeeID)
}

func (s *followService) Followers(ctx context.Context, userID string, page, pageSize int) ([]*model.User, PageMeta, error) {
	page, pageSize, offset := normalizePage(page, pageSize)
	total, err := s.followRepo.CountFollowers(ctx, userID)
	if err != nil {
		return nil, PageMeta{}, err
	}
	edges, err := s.followRepo.ListFollowers(ctx, userID, offset, pageSize)
	if err != nil {
		return nil, PageMeta{}, err
	}
	ids := make([]string, len(edges))
	for i, e := range edges {
		ids[i] = e.FollowerID
	}
	users, err := s.resolveOrdered(ctx, ids)
	if err != nil {
		return nil, PageMeta{}, err
	}
	return users, newPageMeta(total, page, pageSize), nil
}

func (s *followService) Following(ctx context.Context, userID string, page, pageSize int) ([]*model.User, PageMeta, error) {
	page, pageSize, offset := normalizePage(page, pageSize)
	total, err := s.followRepo.CountFollowing(ctx, userID)
	if err != nil {
		return nil, PageMeta{}, err
	}
	edges, err := s.followRepo.ListFollowing(ctx, userID, offset, pageSize)
	if err != nil {
		return nil, PageMeta{}, err
	}
	ids := make([]string, len(edges))
	for i, e := range edges {
		ids[i] = e.FolloweeID
	}
	users, err := s.resolveOrdered(ctx, ids)
	if err != nil {
		return nil, PageMeta{}, err
	}
	return users, newPageMeta(total, page, pageSize), nil
}

// resolveOrdered 批量取用户并保持边的时间序
func (s *followService) resolveOrdered(ctx context.Context, ids []string) ([]*model.User, error) {
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	out := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *followService) RemoveAllForUser(ctx context.Context, userID string) error {
	return s.followRepo.DeleteAllForUser(ctx, userID)
}
