package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/murmur/internal/cache"
	"github.com/d60-Lab/murmur/internal/model"
	"github.com/d60-Lab/murmur/internal/repository"
	"github.com/d60-Lab/murmur/pkg/logger"
)

// MurmurService 内容服务；删除一律软删
type MurmurService interface {
	// Create replyToID 非空时为回帖：父帖回帖数 +1 并通知父帖作者，
	// 不计入作者 murmurs_count；根帖才计数
	Create(ctx context.Context, userID, content string, replyToID *string) (*model.Murmur, error)
	// Delete 软删；只有作者本人可删
	Delete(ctx context.Context, murmurID, requesterID string) error
	Get(ctx context.Context, murmurID string) (*model.Murmur, error)
	ListByUser(ctx context.Context, userID string, page, pageSize int) ([]*model.Murmur, PageMeta, error)
	ListReplies(ctx context.Context, murmurID string, page, pageSize int) ([]*model.Murmur, PageMeta, error)
}

type murmurService struct {
	db         *gorm.DB
	murmurRepo repository.MurmurRepository
	notifSvc   NotificationService
	feedCache  *cache.FeedCache // nil 时为无缓存
}

func NewMurmurService(db *gorm.DB, murmurRepo repository.MurmurRepository, notifSvc NotificationService, feedCache *cache.FeedCache) MurmurService {
	return &murmurService{db: db, murmurRepo: murmurRepo, notifSvc: notifSvc, feedCache: feedCache}
}

func (s *murmurService) Create(ctx context.Context, userID, content string, replyToID *string) (*model.Murmur, error) {
	n := utf8.RuneCountInString(content)
	if n < model.MurmurMinLen || n > model.MurmurMaxLen {
		return nil, ErrContentLength
	}

	var parent *model.Murmur
	if replyToID != nil {
		p, err := s.murmurRepo.FindByID(ctx, *replyToID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrMurmurNotFound
			}
			return nil, err
		}
		parent = p
	}

	m := &model.Murmur{
		ID:        uuid.New().String(),
		UserID:    userID,
		Content:   content,
		ReplyToID: replyToID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		murmurs := repository.NewMurmurRepository(tx)
		if err := murmurs.Create(ctx, m); err != nil {
			return err
		}
		if parent != nil {
			return murmurs.IncCounter(ctx, parent.ID, "replies_count", 1)
		}
		return repository.NewUserRepository(tx).IncCounter(ctx, userID, "murmurs_count", 1)
	})
	if err != nil {
		return nil, err
	}
	if parent != nil {
		if _, err := s.notifSvc.Notify(ctx, model.NotificationReply, parent.UserID, userID, &m.ID); err != nil {
			logger.Warn("reply notification failed", zap.String("murmur", m.ID), zap.Error(err))
		}
	} else {
		// 根帖进公共流，缓存页失效
		s.feedCache.InvalidateFeed(ctx, "public")
		s.feedCache.InvalidateFeed(ctx, "trending")
	}
	return m, nil
}

func (s *murmurService) Delete(ctx context.Context, murmurID, requesterID string) error {
	m, err := s.murmurRepo.FindByID(ctx, murmurID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMurmurNotFound
		}
		return err
	}
	if m.UserID != requesterID {
		return ErrNotOwner
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		murmurs := repository.NewMurmurRepository(tx)
		if err := murmurs.SoftDelete(ctx, murmurID); err != nil {
			return err
		}
		if m.IsReply() {
			// 父帖可能已软删，计数兜底在仓储里做
			if err := murmurs.IncCounter(ctx, *m.ReplyToID, "replies_count", -1); err != nil {
				return err
			}
		} else {
			if err := repository.NewUserRepository(tx).IncCounter(ctx, m.UserID, "murmurs_count", -1); err != nil {
				return err
			}
		}
		// 级联清掉点赞边；通知保留（取消点赞也不撤回通知，同一语义）
		_, err := repository.NewLikeRepository(tx).DeleteAllForMurmur(ctx, murmurID)
		return err
	})
	if err != nil {
		return err
	}
	if !m.IsReply() {
		s.feedCache.InvalidateFeed(ctx, "public")
		s.feedCache.InvalidateFeed(ctx, "trending")
	}
	return nil
}

func (s *murmurService) Get(ctx context.Context, murmurID string) (*model.Murmur, error) {
	m, err := s.murmurRepo.FindByID(ctx, murmurID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMurmurNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *murmurService) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]*model.Murmur, PageMeta, error) {
	page, pageSize, offset := normalizePage(page, pageSize)
	items, total, err := s.murmurRepo.ListByUser(ctx, userID, offset, pageSize)
	if err != nil {
		return nil, PageMeta{}, err
	}
	return items, newPageMeta(total, page, pageSize), nil
}

func (s *murmurService) ListReplies(ctx context.Context, murmurID string, page, pageSize int) ([]*model.Murmur, PageMeta, error) {
	page, pageSize, offset := normalizePage(page, pageSize)
	items, total, err := s.murmurRepo.ListReplies(ctx, murmurID, offset, pageSize)
	if err != nil {
		return nil, PageMeta{}, err
	}
	return items, newPageMeta(total, page, pageSize), nil
}

// TrendingWindow 热门窗口（近 24 小时）
const TrendingWindow = 24 * time.Hour
