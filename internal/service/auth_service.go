package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/murmur/internal/model"
	"github.com/d60-Lab/murmur/internal/repository"
	"github.com/d60-Lab/murmur/pkg/auth"
)

// RegisterInput 注册入参（语法校验在 handler 的 binding 完成）
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	// Login 成功后更新 last_login 并签发令牌
	Login(ctx context.Context, username, password string) (string, *model.User, error)
	// Resolve 供鉴权中间件把令牌换成可用账号
	Resolve(ctx context.Context, token string) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenIssuer
}

func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenIssuer) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if _, err := s.userRepo.FindByUsername(ctx, in.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	displayName := in.DisplayName
	if displayName == "" {
		displayName = in.Username
	}
	u := &model.User{
		ID:          uuid.New().String(),
		Username:    in.Username,
		Email:       in.Email,
		Password:    hashed,
		DisplayName: displayName,
		IsActive:    true,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		// 并发注册可双双通过预检，唯一键兜底；按撞上的字段给冲突语义
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if _, e := s.userRepo.FindByUsername(ctx, in.Username); e == nil {
				return nil, ErrUsernameTaken
			}
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	u, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 不区分用户不存在和密码错误
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !auth.CheckPassword(password, u.Password) {
		return "", nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return "", nil, ErrAccountInactive
	}
	now := time.Now()
	if err := s.userRepo.TouchLastLogin(ctx, u.ID, now); err != nil {
		return "", nil, err
	}
	u.LastLogin = &now
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *authService) Resolve(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrAccountInactive
	}
	return u, nil
}
