package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/murmur/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.User, error)
	// Updates 局部更新资料字段
	Updates(ctx context.Context, id string, fields map[string]interface{}) error
	UpdatePassword(ctx context.Context, id, hashed string) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	Search(ctx context.Context, q string, offset, limit int) ([]*model.User, int64, error)
	// IncCounter 原子调整冗余计数；减到 0 为止，不会出现负数
	IncCounter(ctx context.Context, id, column string, delta int64) error
	Delete(ctx context.Context, id string) error
}

// pattern 大小写不敏感 LIKE 模式（sqlite/postgres 通用写法）
func pattern(q string) string { return "%" + strings.ToLower(q) + "%" }

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var res []*model.User
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&res).Error
	return res, err
}

func (r *userRepository) Updates(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, hashed string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("password", hashed).Error
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("last_login", at).Error
}

func (r *userRepository) Search(ctx context.Context, q string, offset, limit int) ([]*model.User, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.User{}).
		Where("is_active = ?", true).
		Where("LOWER(username) LIKE ? OR LOWER(display_name) LIKE ?", pattern(q), pattern(q))
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var res []*model.User
	err := base.Order("username").Offset(offset).Limit(limit).Find(&res).Error
	return res, total, err
}

func (r *userRepository) IncCounter(ctx context.Context, id, column string, delta int64) error {
	q := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id)
	if delta < 0 {
		// 防止并发/漂移下减成负数
		q = q.Where(column+" >= ?", -delta)
	}
	return q.Update(column, gorm.Expr(column+" + ?", delta)).Error
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{}).Error
}
