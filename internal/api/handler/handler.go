package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/murmur/internal/service"
	"github.com/d60-Lab/murmur/pkg/response"
)

// Handler 持有各业务服务，路由层只认它
type Handler struct {
	authSvc   service.AuthService
	userSvc   service.UserService
	followSvc service.FollowService
	murmurSvc service.MurmurService
	likeSvc   service.LikeService
	feedSvc   service.FeedService
	notifSvc  service.NotificationService
}

func New(
	authSvc service.AuthService,
	userSvc service.UserService,
	followSvc service.FollowService,
	murmurSvc service.MurmurService,
	likeSvc service.LikeService,
	feedSvc service.FeedService,
	notifSvc service.NotificationService,
) *Handler {
	return &Handler{
		authSvc:   authSvc,
		userSvc:   userSvc,
		followSvc: followSvc,
		murmurSvc: murmurSvc,
		likeSvc:   likeSvc,
		feedSvc:   feedSvc,
		notifSvc:  notifSvc,
	}
}

// fail 业务错误统一映射 HTTP 状态码；未识别的错误一律 500 兜底
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrContentLength):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrMurmurNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrFollowSelf),
		errors.Is(err, service.ErrAlreadyFollowing),
		errors.Is(err, service.ErrNotFollowing),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrAccountInactive):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrNotOwner):
		response.Forbidden(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
