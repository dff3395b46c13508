package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/murmur/internal/api/middleware"
	"github.com/d60-Lab/murmur/pkg/response"
)

// Follow 关注用户
// @Summary 关注用户
// @Tags 关系链
// @Security BearerAuth
// @Param user_id path string true "被关注用户ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/users/{user_id}/follow [post]
func (h *Handler) Follow(c *gin.Context) {
	err := h.followSvc.Follow(c.Request.Context(), middleware.GetPrincipal(c).UserID(), c.Param("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Security BearerAuth
// @Param user_id path string true "被取关用户ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/users/{user_id}/follow [delete]
func (h *Handler) Unfollow(c *gin.Context) {
	err := h.followSvc.Unfollow(c.Request.Context(), middleware.GetPrincipal(c).UserID(), c.Param("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

// ListFollowers 粉丝列表
// @Summary 查询粉丝列表
// @Tags 关系链
// @Param user_id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response
// @Router /api/v1/users/{user_id}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	page, pageSize := pageParams(c)
	items, meta, err := h.followSvc.Followers(c.Request.Context(), c.Param("user_id"), page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"list": items, "meta": meta})
}

// ListFollowing 关注列表
// @Summary 查询关注列表
// @Tags 关系链
// @Param user_id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response
// @Router /api/v1/users/{user_id}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	page, pageSize := pageParams(c)
	items, meta, err := h.followSvc.Following(c.Request.Context(), c.Param("user_id"), page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"list": items, "meta": meta})
}
