package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/murmur/internal/api/middleware"
	"github.com/d60-Lab/murmur/pkg/response"
)

type createMurmurRequest struct {
	Content   string  `json:"content" binding:"required,notblank,min=1,max=280"`
	ReplyToID *string `json:"reply_to_id" binding:"omitempty,uuid"`
}

// CreateMurmur 发帖 / 回帖
// @Summary 发布 murmur（reply_to_id 非空时为回帖）
// @Tags 内容
// @Security BearerAuth
// @Accept json
// @Param request body createMurmurRequest true "内容"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/murmurs [post]
func (h *Handler) CreateMurmur(c *gin.Context) {
	var req createMurmurRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, err := h.murmurSvc.Create(c.Request.Context(), middleware.GetPrincipal(c).UserID(), req.Content, req.ReplyToID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, m)
}

// GetMurmur 单帖详情；软删的帖子等同不存在
// @Summary 查看 murmur
// @Tags 内容
// @Param murmur_id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/murmurs/{murmur_id} [get]
func (h *Handler) GetMurmur(c *gin.Context) {
	m, err := h.murmurSvc.Get(c.Request.Context(), c.Param("murmur_id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, m)
}

// DeleteMurmur 删帖（软删，仅作者本人）
// @Summary 删除 murmur
// @Tags 内容
// @Security BearerAuth
// @Param murmur_id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/murmurs/{murmur_id} [delete]
func (h *Handler) DeleteMurmur(c *gin.Context) {
	err := h.murmurSvc.Delete(c.Request.Context(), c.Param("murmur_id"), middleware.GetPrincipal(c).UserID())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

// ListReplies 回帖列表
// @Summary 查询回帖
// @Tags 内容
// @Param murmur_id path string true "帖子ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response
// @Router /api/v1/murmurs/{murmur_id}/replies [get]
func (h *Handler) ListReplies(c *gin.Context) {
	page, pageSize := pageParams(c)
	viewerID := middleware.GetPrincipal(c).UserID()
	items, meta, err := h.feedSvc.Replies(c.Request.Context(), viewerID, c.Param("murmur_id"), page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"list": items, "meta": meta})
}

// ToggleLike 点赞开关：已赞取消、未赞点上
// @Summary 点赞 / 取消点赞
// @Tags 互动
// @Security BearerAuth
// @Param murmur_id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/murmurs/{murmur_id}/like [post]
func (h *Handler) ToggleLike(c *gin.Context) {
	liked, count, err := h.likeSvc.Toggle(c.Request.Context(), middleware.GetPrincipal(c).UserID(), c.Param("murmur_id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"liked": liked, "likes_count": count})
}
