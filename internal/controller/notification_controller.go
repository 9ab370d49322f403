package controller

import (
	"corpquiz_backend/internal/service"
	"corpquiz_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	NotificationService *service.NotificationService
}

func NewNotificationController(notificationService *service.NotificationService) *NotificationController {
	return &NotificationController{NotificationService: notificationService}
}

// ListNotifications godoc
// @Summary 我的未读通知
// @Description 只返回未读通知，按时间倒序
// @Tags 通知
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Notification} "成功"
// @Router /api/notifications [get]
func (c *NotificationController) ListNotifications(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	notifications, err := c.NotificationService.GetUnread(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, notifications)
}

// MarkRead godoc
// @Summary 标记通知已读
// @Description 单向 UNREAD 到 READ，重复标记返回 404
// @Tags 通知
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "通知ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "通知不存在或已读"
// @Router /api/notifications/{id}/read [patch]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	if err := c.NotificationService.MarkRead(id, claims.UserID); err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// DeleteNotification godoc
// @Summary 删除通知
// @Tags 通知
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "通知ID"
// @Success 200 {object} util.Response{data=service.DeleteResult} "成功"
// @Router /api/notifications/{id} [delete]
func (c *NotificationController) DeleteNotification(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	result, err := c.NotificationService.DeleteNotification(id, claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
