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

// LikeService 点赞服务。Toggle 是 check-then-act：两次仓储调用之间
// 存在竞态窗口，唯一键保证不会出现重复边，计数每次读都从边表重查，
// 瞬时不一致可自愈。
type LikeService interface {
	// Toggle 有赞则取消、无赞则点上；返回最终状态与重查后的计数
	Toggle(ctx context.Context, userID, murmurID string) (liked bool, count int64, err error)
	// Like 幂等：已点过不报错
	Like(ctx context.Context, userID, murmurID string) error
	// Unlike 删不存在的边返回 false，不算错误
	Unlike(ctx context.Context, userID, murmurID string) (bool, error)
	IsLiked(ctx context.Context, userID, murmurID string) (bool, error)
	Count(ctx context.Context, murmurID string) (int64, error)
}

type likeService struct {
	likeRepo   repository.LikeRepository
	murmurRepo repository.MurmurRepository
	notifSvc   NotificationService
}

func NewLikeService(likeRepo repository.LikeRepository, murmurRepo repository.MurmurRepository, notifSvc NotificationService) LikeService {
	return &likeService{likeRepo: likeRepo, murmurRepo: murmurRepo, notifSvc: notifSvc}
}

func (s *likeService) Toggle(ctx context.Context, userID, murmurID string) (bool, int64, error) {
	m, err := s.murmurRepo.FindByID(ctx, murmurID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, ErrMurmurNotFound
		}
		return false, 0, err
	}
	exists, err := s.likeRepo.Exists(ctx, userID, murmurID)
	if err != nil {
		return false, 0, err
	}
	liked := false
	if exists {
		removed, err := s.likeRepo.Delete(ctx, userID, murmurID)
		if err != nil {
			return false, 0, err
		}
		if removed {
			if err := s.murmurRepo.IncCounter(ctx, murmurID, "likes_count", -1); err != nil {
				return false, 0, err
			}
		}
	} else {
		created, err := s.likeRepo.Create(ctx, userID, murmurID)
		if err != nil {
			return false, 0, err
		}
		if created {
			if err := s.murmurRepo.IncCounter(ctx, murmurID, "likes_count", 1); err != nil {
				return false, 0, err
			}
			// 取消点赞不撤回通知
			if _, err := s.notifSvc.Notify(ctx, model.NotificationLike, m.UserID, userID, &murmurID); err != nil {
				logger.Warn("like notification failed", zap.String("murmur", murmurID), zap.Error(err))
			}
		}
		liked = true
	}
	count, err := s.likeRepo.Count(ctx, murmurID)
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

func (s *likeService) Like(ctx context.Context, userID, murmurID string) error {
	created, err := s.likeRepo.Create(ctx, userID, murmurID)
	if err != nil || !created {
		return err
	}
	return s.murmurRepo.IncCounter(ctx, murmurID, "likes_count", 1)
}

func (s *likeService) Unlike(ctx context.Context, userID, murmurID string) (bool, error) {
	removed, err := s.likeRepo.Delete(ctx, userID, murmurID)
	if err != nil || !removed {
		return false, err
	}
	if err := s.murmurRepo.IncCounter(ctx, murmurID, "likes_count", -1); err != nil {
		return true, err
	}
	return true, nil
}

func (s *likeService) IsLiked(ctx context.Context, userID, murmurID string) (bool, error) {
	return s.likeRepo.Exists(ctx, userID, murmurID)
}

func (s *likeService) Count(ctx context.Context, murmurID string) (int64, error) {
	return s.likeRepo.Count(ctx, murmurID)
}
