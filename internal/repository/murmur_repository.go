package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/murmur/internal/model"
)

type MurmurRepository interface {
	Create(ctx context.Context, m *model.Murmur) error
	// FindByID 只返回未删除的行；软删行对外等同不存在
	FindByID(ctx context.Context, id string) (*model.Murmur, error)
	// FindByIDAny 连软删行一起查，仅供级联簿记使用
	FindByIDAny(ctx context.Context, id string) (*model.Murmur, error)
	SoftDelete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Murmur, int64, error)
	// ListPublic 全站根帖，excludeUserID 非空时排除该作者
	ListPublic(ctx context.Context, excludeUserID string, offset, limit int) ([]*model.Murmur, int64, error)
	ListReplies(ctx context.Context, replyToID string, offset, limit int) ([]*model.Murmur, int64, error)
	Search(ctx context.Context, q string, offset, limit int) ([]*model.Murmur, int64, error)
	// ListTrending 最近 since 之后的根帖，按点赞数降序、时间兜底
	ListTrending(ctx context.Context, since time.Time, offset, limit int) ([]*model.Murmur, int64, error)
	// ListTimeline 关注者 + 本人的根帖，按时间降序
	ListTimeline(ctx context.Context, userID string, offset, limit int) ([]*model.Murmur, int64, error)
	// IncCounter 原子调整冗余计数，减到 0 为止
	IncCounter(ctx context.Context, id, column string, delta int64) error
	DeleteAllForUser(ctx context.Context, userID string) error
	// DetachRepliesToUser 父帖作者销户后，幸存回帖的 reply_to_id 置空
	DetachRepliesToUser(ctx context.Context, userID string) error
}

type murmurRepository struct {
	db *gorm.DB
}

func NewMurmurRepository(db *gorm.DB) MurmurRepository { return &murmurRepository{db: db} }

func (r *murmurRepository) Create(ctx context.Context, m *model.Murmur) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *murmurRepository) FindByID(ctx context.Context, id string) (*model.Murmur, error) {
	var m model.Murmur
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *murmurRepository) FindByIDAny(ctx context.Context, id string) (*model.Murmur, error) {
	var m model.Murmur
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *murmurRepository) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&model.Murmur{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}

func (r *murmurRepository) listPage(base *gorm.DB, offset, limit int) ([]*model.Murmur, int64, error) {
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var res []*model.Murmur
	err := base.Order("created_at DESC").Offset(offset).Limit(limit).Find(&res).Error
	return res, total, err
}

func (r *murmurRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Murmur, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Murmur{}).
		Where("user_id = ? AND is_deleted = ? AND reply_to_id IS NULL", userID, false)
	return r.listPage(base, offset, limit)
}

func (r *murmurRepository) ListPublic(ctx context.Context, excludeUserID string, offset, limit int) ([]*model.Murmur, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Murmur{}).
		Where("is_deleted = ? AND reply_to_id IS NULL", false)
	if excludeUserID != "" {
		base = base.Where("user_id <> ?", excludeUserID)
	}
	return r.listPage(base, offset, limit)
}

func (r *murmurRepository) ListReplies(ctx context.Context, replyToID string, offset, limit int) ([]*model.Murmur, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Murmur{}).
		Where("reply_to_id = ? AND is_deleted = ?", replyToID, false)
	return r.listPage(base, offset, limit)
}

func (r *murmurRepository) Search(ctx context.Context, q string, offset, limit int) ([]*model.Murmur, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Murmur{}).
		Where("is_deleted = ?", false).
		Where("LOWER(content) LIKE ?", pattern(q))
	return r.listPage(base, offset, limit)
}

func (r *murmurRepository) ListTrending(ctx context.Context, since time.Time, offset, limit int) ([]*model.Murmur, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Murmur{}).
		Where("is_deleted = ? AND reply_to_id IS NULL AND created_at >= ?", false, since)
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var res []*model.Murmur
	err := base.Order("likes_count DESC, created_at DESC").Offset(offset).Limit(limit).Find(&res).Error
	return res, total, err
}

func (r *murmurRepository) ListTimeline(ctx context.Context, userID string, offset, limit int) ([]*model.Murmur, int64, error) {
	// 关注列表用子查询展开，避免把全部 followee id 拉回内存
	sub := r.db.Model(&model.Follow{}).Select("followee_id").Where("follower_id = ?", userID)
	base := r.db.WithContext(ctx).Model(&model.Murmur{}).
		Where("is_deleted = ? AND reply_to_id IS NULL", false).
		Where("user_id IN (?) OR user_id = ?", sub, userID)
	return r.listPage(base, offset, limit)
}

func (r *murmurRepository) IncCounter(ctx context.Context, id, column string, delta int64) error {
	q := r.db.WithContext(ctx).Model(&model.Murmur{}).Where("id = ?", id)
	if delta < 0 {
		q = q.Where(column+" >= ?", -delta)
	}
	return q.Update(column, gorm.Expr(column+" + ?", delta)).Error
}

func (r *murmurRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Murmur{}).Error
}

func (r *murmurRepository) DetachRepliesToUser(ctx context.Context, userID string) error {
	sub := r.db.Model(&model.Murmur{}).Select("id").Where("user_id = ?", userID)
	return r.db.WithContext(ctx).Model(&model.Murmur{}).
		Where("reply_to_id IN (?)", sub).
		Update("reply_to_id", nil).Error
}
