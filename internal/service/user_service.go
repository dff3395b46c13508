package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/murmur/internal/model"
	"github.com/d60-Lab/murmur/internal/repository"
	"github.com/d60-Lab/murmur/pkg/auth"
)

// UpdateProfileInput 资料更新入参；nil 字段不动
type UpdateProfileInput struct {
	DisplayName *string
	Avatar      *string
	Bio         *string
}

type UserService interface {
	Get(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*model.User, error)
	ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error
	Search(ctx context.Context, q string, page, pageSize int) ([]*model.User, PageMeta, error)
	Deactivate(ctx context.Context, id string) error
	// HardDelete 管理操作：物理删除账号并级联清掉 murmurs/likes/follows/notifications。
	// 其他用户的冗余计数不在这里修，留给对账任务。
	HardDelete(ctx context.Context, id string) error
}

type userService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
}

func NewUserService(db *gorm.DB, userRepo repository.UserRepository) UserService {
	return &userService{db: db, userRepo: userRepo}
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*model.User, error) {
	fields := map[string]interface{}{}
	if in.DisplayName != nil {
		fields["display_name"] = *in.DisplayName
	}
	if in.Avatar != nil {
		fields["avatar"] = *in.Avatar
	}
	if in.Bio != nil {
		fields["bio"] = *in.Bio
	}
	if len(fields) > 0 {
		if err := s.userRepo.Updates(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

func (s *userService) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(oldPassword, u.Password) {
		return ErrInvalidCredentials
	}
	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, id, hashed)
}

func (s *userService) Search(ctx context.Context, q string, page, pageSize int) ([]*model.User, PageMeta, error) {
	page, pageSize, offset := normalizePage(page, pageSize)
	items, total, err := s.userRepo.Search(ctx, q, offset, pageSize)
	if err != nil {
		return nil, PageMeta{}, err
	}
	return items, newPageMeta(total, page, pageSize), nil
}

func (s *userService) Deactivate(ctx context.Context, id string) error {
	return s.userRepo.Updates(ctx, id, map[string]interface{}{"is_active": false})
}

func (s *userService) HardDelete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		likes := repository.NewLikeRepository(tx)
		if err := likes.DeleteAllForUser(ctx, id); err != nil {
			return err
		}
		// 别人点在其帖子上的赞与挂在其帖子下的回帖引用，须在帖子删除前清理
		if err := likes.DeleteAllOnMurmursOf(ctx, id); err != nil {
			return err
		}
		if err := repository.NewFollowRepository(tx).DeleteAllForUser(ctx, id); err != nil {
			return err
		}
		if err := repository.NewNotificationRepository(tx).DeleteAllForUser(ctx, id); err != nil {
			return err
		}
		murmurs := repository.NewMurmurRepository(tx)
		if err := murmurs.DetachRepliesToUser(ctx, id); err != nil {
			return err
		}
		if err := murmurs.DeleteAllForUser(ctx, id); err != nil {
			return err
		}
		return repository.NewUserRepository(tx).Delete(ctx, id)
	})
}
