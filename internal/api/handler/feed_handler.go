package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/murmur/internal/api/middleware"
	"github.com/d60-Lab/murmur/pkg/response"
)

// Timeline 关注时间线
// @Summary 关注的人 + 本人的时间线
// @Tags 信息流
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response
// @Router /api/v1/feed/timeline [get]
func (h *Handler) Timeline(c *gin.Context) {
	page, pageSize := pageParams(c)
	items, meta, err := h.feedSvc.Timeline(c.Request.Context(), middleware.GetPrincipal(c).UserID(), page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"list": items, "meta": meta})
}

// PublicFeed 公共信息流；登录用户默认不看自己的帖子
// @Summary 公共信息流
// @Tags 信息流
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response
// @Router /api/v1/feed/public [get]
func (h *Handler) PublicFeed(c *gin.Context) {
	page, pageSize := pageParams(c)
	items, meta, err := h.feedSvc.PublicFeed(c.Request.Context(), middleware.GetPrincipal(c).UserID(), page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"list": items, "meta": meta})
}

// Trending 最近 24 小时热门
// @Summary 热门 murmur
// @Tags 信息流
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response
// @Router /api/v1/feed/trending [get]
func (h *Handler) Trending(c *gin.Context) {
	page, pageSize := pageParams(c)
	items, meta, err := h.feedSvc.Trending(c.Request.Context(), middleware.GetPrincipal(c).UserID(), page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"list": items, "meta": meta})
}

// SearchMurmurs 内容搜索（大小写不敏感子串匹配）
// @Summary 搜索 murmur
// @Tags 信息流
// @Param q query string true "关键词"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response
// @Router /api/v1/murmurs/search [get]
func (h *Handler) SearchMurmurs(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.BadRequest(c, "q is required")
		return
	}
	page, pageSize := pageParams(c)
	items, meta, err := h.feedSvc.Search(c.Request.Context(), middleware.GetPrincipal(c).UserID(), q, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"list": items, "meta": meta})
}

// UserFeed 某用户的主页信息流（根帖）
// @Summary 用户主页信息流
// @Tags 信息流
// @Param user_id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response
// @Router /api/v1/users/{user_id}/murmurs [get]
func (h *Handler) UserFeed(c *gin.Context) {
	page, pageSize := pageParams(c)
	items, meta, err := h.feedSvc.UserFeed(c.Request.Context(), middleware.GetPrincipal(c).UserID(), c.Param("user_id"), page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"list": items, "meta": meta})
}
