package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/murmur/internal/api/middleware"
	"github.com/d60-Lab/murmur/internal/model"
	"github.com/d60-Lab/murmur/internal/service"
	"github.com/d60-Lab/murmur/pkg/response"
)

type updateProfileRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=64"`
	Avatar      *string `json:"avatar" binding:"omitempty,max=256"`
	Bio         *string `json:"bio" binding:"omitempty,max=512"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=72"`
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	return page, pageSize
}

// selfProfile 本人视角的资料，补回对外隐藏的 email
type selfProfile struct {
	*model.User
	Email string `json:"email"`
}

func selfView(u *model.User) selfProfile { return selfProfile{User: u, Email: u.Email} }

// Me 当前用户资料
// @Summary 查看本人资料
// @Tags 用户
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/users/me [get]
func (h *Handler) Me(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	response.Success(c, selfView(p.User))
}

// UpdateMe 更新资料
// @Summary 更新本人资料
// @Tags 用户
// @Security BearerAuth
// @Accept json
// @Param request body updateProfileRequest true "资料"
// @Success 200 {object} response.Response
// @Router /api/v1/users/me [put]
func (h *Handler) UpdateMe(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.userSvc.UpdateProfile(c.Request.Context(), middleware.GetPrincipal(c).UserID(), service.UpdateProfileInput{
		DisplayName: req.DisplayName,
		Avatar:      req.Avatar,
		Bio:         req.Bio,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, selfView(u))
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Tags 用户
// @Security BearerAuth
// @Accept json
// @Param request body changePasswordRequest true "新旧密码"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/users/me/password [put]
func (h *Handler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.userSvc.ChangePassword(c.Request.Context(), middleware.GetPrincipal(c).UserID(), req.OldPassword, req.NewPassword); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

// GetUser 查看他人资料
// @Summary 查看用户资料
// @Tags 用户
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{user_id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	u, err := h.userSvc.Get(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, u)
}

// SearchUsers 搜索用户
// @Summary 按用户名/昵称搜索用户
// @Tags 用户
// @Param q query string true "关键词"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response
// @Router /api/v1/users [get]
func (h *Handler) SearchUsers(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.BadRequest(c, "q is required")
		return
	}
	page, pageSize := pageParams(c)
	items, meta, err := h.userSvc.Search(c.Request.Context(), q, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"list": items, "meta": meta})
}
