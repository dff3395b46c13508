package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/murmur/internal/api/middleware"
	"github.com/d60-Lab/murmur/pkg/response"
)

// ListNotifications 通知列表（游标分页）
// @Summary 查询通知
// @Tags 通知
// @Security BearerAuth
// @Param limit query int false "每页数量" default(20)
// @Param cursor query string false "游标（上一页最后一条的ID）"
// @Success 200 {object} response.Response
// @Router /api/v1/notifications [get]
func (h *Handler) ListNotifications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	cursor := c.Query("cursor")
	items, hasMore, nextCursor, err := h.notifSvc.List(c.Request.Context(), middleware.GetPrincipal(c).UserID(), limit, cursor)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"list": items, "has_more": hasMore, "next_cursor": nextCursor})
}

// UnreadCount 未读数
// @Summary 未读通知数
// @Tags 通知
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/notifications/unread-count [get]
func (h *Handler) UnreadCount(c *gin.Context) {
	cnt, err := h.notifSvc.UnreadCount(c.Request.Context(), middleware.GetPrincipal(c).UserID())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"count": cnt})
}

// MarkNotificationRead 标记已读；别人的通知静默无效
// @Summary 标记通知已读
// @Tags 通知
// @Security BearerAuth
// @Param notification_id path string true "通知ID"
// @Success 200 {object} response.Response
// @Router /api/v1/notifications/{notification_id}/read [put]
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	err := h.notifSvc.MarkRead(c.Request.Context(), c.Param("notification_id"), middleware.GetPrincipal(c).UserID())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

// MarkAllNotificationsRead 全部标记已读
// @Summary 全部标记已读
// @Tags 通知
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/notifications/read-all [put]
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	err := h.notifSvc.MarkAllRead(c.Request.Context(), middleware.GetPrincipal(c).UserID())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

// DeleteNotification 删除通知
// @Summary 删除通知
// @Tags 通知
// @Security BearerAuth
// @Param notification_id path string true "通知ID"
// @Success 200 {object} response.Response
// @Router /api/v1/notifications/{notification_id} [delete]
func (h *Handler) DeleteNotification(c *gin.Context) {
	err := h.notifSvc.Delete(c.Request.Context(), c.Param("notification_id"), middleware.GetPrincipal(c).UserID())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}
