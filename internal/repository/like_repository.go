package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/murmur/internal/model"
)

type LikeRepository interface {
	// Create 写入点赞边；已存在时返回 false（复合唯一键兜底并发重复）
	Create(ctx context.Context, userID, murmurID string) (bool, error)
	// Delete 删除点赞边，返回是否真的删了一行；删不存在的边不算错误
	Delete(ctx context.Context, userID, murmurID string) (bool, error)
	Exists(ctx context.Context, userID, murmurID string) (bool, error)
	Count(ctx context.Context, murmurID string) (int64, error)
	// CountForMurmurs 批量点赞数，feed 装配用（两条查询替代 2N 条）
	CountForMurmurs(ctx context.Context, murmurIDs []string) (map[string]int64, error)
	// LikedSet 返回 murmurIDs 中该用户点过赞的子集
	LikedSet(ctx context.Context, userID string, murmurIDs []string) (map[string]bool, error)
	DeleteAllForMurmur(ctx context.Context, murmurID string) (int64, error)
	DeleteAllForUser(ctx context.Context, userID string) error
	// DeleteAllOnMurmursOf 删掉别人点在该作者帖子上的赞，销户级联用
	DeleteAllOnMurmursOf(ctx context.Context, authorID string) error
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) Create(ctx context.Context, userID, murmurID string) (bool, error) {
	l := &model.Like{ID: uuid.New().String(), UserID: userID, MurmurID: murmurID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(l)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) Delete(ctx context.Context, userID, murmurID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND murmur_id = ?", userID, murmurID).
		Delete(&model.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) Exists(ctx context.Context, userID, murmurID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND murmur_id = ?", userID, murmurID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *likeRepository) Count(ctx context.Context, murmurID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).Where("murmur_id = ?", murmurID).Count(&cnt).Error
	return cnt, err
}

func (r *likeRepository) CountForMurmurs(ctx context.Context, murmurIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(murmurIDs))
	if len(murmurIDs) == 0 {
		return out, nil
	}
	type row struct {
		MurmurID string
		Cnt      int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).Model(&model.Like{}).
		Select("murmur_id, COUNT(*) AS cnt").
		Where("murmur_id IN ?", murmurIDs).
		Group("murmur_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, rw := range rows {
		out[rw.MurmurID] = rw.Cnt
	}
	return out, nil
}

func (r *likeRepository) LikedSet(ctx context.Context, userID string, murmurIDs []string) (map[string]bool, error) {
	out := make(map[string]bool, len(murmurIDs))
	if len(murmurIDs) == 0 {
		return out, nil
	}
	var ids []string
	if err := r.db.WithContext(ctx).Model(&model.Like{}).
		Select("murmur_id").
		Where("user_id = ? AND murmur_id IN ?", userID, murmurIDs).
		Scan(&ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *likeRepository) DeleteAllForMurmur(ctx context.Context, murmurID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("murmur_id = ?", murmurID).Delete(&model.Like{})
	return res.RowsAffected, res.Error
}

func (r *likeRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Like{}).Error
}

func (r *likeRepository) DeleteAllOnMurmursOf(ctx context.Context, authorID string) error {
	sub := r.db.Model(&model.Murmur{}).Select("id").Where("user_id = ?", authorID)
	return r.db.WithContext(ctx).Where("murmur_id IN (?)", sub).Delete(&model.Like{}).Error
}
