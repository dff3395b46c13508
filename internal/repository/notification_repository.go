package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/murmur/internal/model"
)

type NotificationRepository interface {
	// FindByTuple 按去重键 (type, user_id, actor_id, murmur_id) 查已有行
	FindByTuple(ctx context.Context, typ, userID, actorID string, murmurID *string) (*model.Notification, error)
	Create(ctx context.Context, typ, userID, actorID string, murmurID *string) (*model.Notification, error)
	// ListByUser 游标分页：cursor 为空取第一页，否则取 cursor 行之前（更旧）的行
	ListByUser(ctx context.Context, userID string, limit int, cursor string) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id, userID string) (int64, error)
	MarkAllRead(ctx context.Context, userID string) error
	CountUnread(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id, userID string) (int64, error)
	DeleteAllForUser(ctx context.Context, userID string) error
	DeleteAllForMurmur(ctx context.Context, murmurID string) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) tupleQuery(ctx context.Context, typ, userID, actorID string, murmurID *string) *gorm.DB {
	// 去重键未命中是常态，不让 record not found 刷错误日志
	q := r.db.WithContext(ctx).
		Session(&gorm.Session{Logger: r.db.Logger.LogMode(gormlogger.Silent)}).
		Model(&model.Notification{}).
		Where("type = ? AND user_id = ? AND actor_id = ?", typ, userID, actorID)
	if murmurID == nil {
		return q.Where("murmur_id IS NULL")
	}
	return q.Where("murmur_id = ?", *murmurID)
}

func (r *notificationRepository) FindByTuple(ctx context.Context, typ, userID, actorID string, murmurID *string) (*model.Notification, error) {
	var n model.Notification
	if err := r.tupleQuery(ctx, typ, userID, actorID, murmurID).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) Create(ctx context.Context, typ, userID, actorID string, murmurID *string) (*model.Notification, error) {
	n := &model.Notification{
		ID:       uuid.New().String(),
		Type:     typ,
		UserID:   userID,
		ActorID:  actorID,
		MurmurID: murmurID,
	}
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string, limit int, cursor string) ([]*model.Notification, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if cursor != "" {
		// 游标行本身不在结果里；(created_at, id) 双键避免同刻并列丢行
		var pivot model.Notification
		if err := r.db.WithContext(ctx).
			Where("id = ? AND user_id = ?", cursor, userID).
			First(&pivot).Error; err != nil {
			return nil, err
		}
		q = q.Where("created_at < ? OR (created_at = ? AND id < ?)", pivot.CreatedAt, pivot.CreatedAt, pivot.ID)
	}
	var res []*model.Notification
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&res).Error
	return res, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID string) (int64, error) {
	// 只允许收件人操作；别人的行影响 0 条，不报错
	res := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&cnt).Error
	return cnt, err
}

func (r *notificationRepository) Delete(ctx context.Context, id, userID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Notification{})
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? OR actor_id = ?", userID, userID).
		Delete(&model.Notification{}).Error
}

func (r *notificationRepository) DeleteAllForMurmur(ctx context.Context, murmurID string) error {
	return r.db.WithContext(ctx).Where("murmur_id = ?", murmurID).Delete(&model.Notification{}).Error
}
