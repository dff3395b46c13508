package service

import (
	"context"
	"time"

	"github.com/d60-Lab/murmur/internal/cache"
	"github.com/d60-Lab/murmur/internal/model"
	"github.com/d60-Lab/murmur/internal/repository"
)

// FeedService 只读装配层：组合关注关系、内容与点赞边产出各路时间线。
// 每页的点赞数和 is_liked 都从边表批量重查，不信任冗余计数。
type FeedService interface {
	// Timeline 关注的人 + 本人的根帖
	Timeline(ctx context.Context, userID string, page, pageSize int) ([]*model.Murmur, PageMeta, error)
	// PublicFeed 全站根帖；viewerID 非空时排除本人的帖子
	PublicFeed(ctx context.Context, viewerID string, page, pageSize int) ([]*model.Murmur, PageMeta, error)
	Trending(ctx context.Context, viewerID string, page, pageSize int) ([]*model.Murmur, PageMeta, error)
	Search(ctx context.Context, viewerID, q string, page, pageSize int) ([]*model.Murmur, PageMeta, error)
	// UserFeed 某用户的根帖（他人主页）
	UserFeed(ctx context.Context, viewerID, userID string, page, pageSize int) ([]*model.Murmur, PageMeta, error)
	Replies(ctx context.Context, viewerID, murmurID string, page, pageSize int) ([]*model.Murmur, PageMeta, error)
}

type feedService struct {
	murmurRepo repository.MurmurRepository
	likeRepo   repository.LikeRepository
	userRepo   repository.UserRepository
	feedCache  *cache.FeedCache // nil 时直接穿透到库
}

func NewFeedService(murmurRepo repository.MurmurRepository, likeRepo repository.LikeRepository, userRepo repository.UserRepository, feedCache *cache.FeedCache) FeedService {
	return &feedService{murmurRepo: murmurRepo, likeRepo: likeRepo, userRepo: userRepo, feedCache: feedCache}
}

func (s *feedService) Timeline(ctx context.Context, userID string, page, pageSize int) ([]*model.Murmur, PageMeta, error) {
	page, pageSize, offset := normalizePage(page, pageSize)
	items, total, err := s.murmurRepo.ListTimeline(ctx, userID, offset, pageSize)
	if err != nil {
		return nil, PageMeta{}, err
	}
	if err := s.decorate(ctx, userID, items); err != nil {
		return nil, PageMeta{}, err
	}
	return items, newPageMeta(total, page, pageSize), nil
}

func (s *feedService) PublicFeed(ctx context.Context, viewerID string, page, pageSize int) ([]*model.Murmur, PageMeta, error) {
	page, pageSize, offset := normalizePage(page, pageSize)

	// 匿名页内容与访问者无关，可整页缓存
	if viewerID == "" {
		if cached, ok := s.feedCache.GetPage(ctx, "public", page, pageSize); ok {
			return cached.Items, newPageMeta(cached.Total, page, pageSize), nil
		}
	}
	items, total, err := s.murmurRepo.ListPublic(ctx, viewerID, offset, pageSize)
	if err != nil {
		return nil, PageMeta{}, err
	}
	if err := s.decorate(ctx, viewerID, items); err != nil {
		return nil, PageMeta{}, err
	}
	if viewerID == "" {
		s.feedCache.SetPage(ctx, "public", page, pageSize, &cache.CachedPage{Items: items, Total: total})
	}
	return items, newPageMeta(total, page, pageSize), nil
}

func (s *feedService) Trending(ctx context.Context, viewerID string, page, pageSize int) ([]*model.Murmur, PageMeta, error) {
	page, pageSize, offset := normalizePage(page, pageSize)

	if viewerID == "" {
		if cached, ok := s.feedCache.GetPage(ctx, "trending", page, pageSize); ok {
			return cached.Items, newPageMeta(cached.Total, page, pageSize), nil
		}
	}
	since := time.Now().Add(-TrendingWindow)
	items, total, err := s.murmurRepo.ListTrending(ctx, since, offset, pageSize)
	if err != nil {
		return nil, PageMeta{}, err
	}
	if err := s.decorate(ctx, viewerID, items); err != nil {
		return nil, PageMeta{}, err
	}
	// 点赞不主动失效热门页，短 TTL 内允许排序滞后
	if viewerID == "" {
		s.feedCache.SetPage(ctx, "trending", page, pageSize, &cache.CachedPage{Items: items, Total: total})
	}
	return items, newPageMeta(total, page, pageSize), nil
}

func (s *feedService) Search(ctx context.Context, viewerID, q string, page, pageSize int) ([]*model.Murmur, PageMeta, error) {
	page, pageSize, offset := normalizePage(page, pageSize)
	items, total, err := s.murmurRepo.Search(ctx, q, offset, pageSize)
	if err != nil {
		return nil, PageMeta{}, err
	}
	if err := s.decorate(ctx, viewerID, items); err != nil {
		return nil, PageMeta{}, err
	}
	return items, newPageMeta(total, page, pageSize), nil
}

func (s *feedService) UserFeed(ctx context.Context, viewerID, userID string, page, pageSize int) ([]*model.Murmur, PageMeta, error) {
	page, pageSize, offset := normalizePage(page, pageSize)
	items, total, err := s.murmurRepo.ListByUser(ctx, userID, offset, pageSize)
	if err != nil {
		return nil, PageMeta{}, err
	}
	if err := s.decorate(ctx, viewerID, items); err != nil {
		return nil, PageMeta{}, err
	}
	return items, newPageMeta(total, page, pageSize), nil
}

func (s *feedService) Replies(ctx context.Context, viewerID, murmurID string, page, pageSize int) ([]*model.Murmur, PageMeta, error) {
	page, pageSize, offset := normalizePage(page, pageSize)
	items, total, err := s.murmurRepo.ListReplies(ctx, murmurID, offset, pageSize)
	if err != nil {
		return nil, PageMeta{}, err
	}
	if err := s.decorate(ctx, viewerID, items); err != nil {
		return nil, PageMeta{}, err
	}
	return items, newPageMeta(total, page, pageSize), nil
}

// decorate 批量补齐点赞数、is_liked 与作者信息：
// 每页两条聚合查询 + 一条用户查询，替代逐帖 2N 次往返
func (s *feedService) decorate(ctx context.Context, viewerID string, items []*model.Murmur) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, len(items))
	for i, m := range items {
		ids[i] = m.ID
	}
	counts, err := s.likeRepo.CountForMurmurs(ctx, ids)
	if err != nil {
		return err
	}
	var likedSet map[string]bool
	if viewerID != "" {
		likedSet, err = s.likeRepo.LikedSet(ctx, viewerID, ids)
		if err != nil {
			return err
		}
	}

	authorIDs := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, m := range items {
		if !seen[m.UserID] {
			seen[m.UserID] = true
			authorIDs = append(authorIDs, m.UserID)
		}
	}
	authors, err := s.userRepo.FindByIDs(ctx, authorIDs)
	if err != nil {
		return err
	}
	authorByID := make(map[string]*model.User, len(authors))
	for _, a := range authors {
		authorByID[a.ID] = a
	}

	for _, m := range items {
		m.LikesCount = counts[m.ID]
		if likedSet != nil {
			m.IsLikedByUser = likedSet[m.ID]
		}
		m.Author = authorByID[m.UserID]
	}
	return nil
}
