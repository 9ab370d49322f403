package controller

import (
	"corpquiz_backend/internal/service"
	"corpquiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AdminController 系统管理员操作
type AdminController struct {
	ReminderService *service.ReminderService
}

func NewAdminController(reminderService *service.ReminderService) *AdminController {
	return &AdminController{ReminderService: reminderService}
}

// RunReminders godoc
// @Summary 手动触发逾期测验提醒
// @Description 扫描全部测验，给超过 frequency 天未作答的成员发未读通知。后台任务每 24 小时自动跑一轮，这里供系统管理员手动补跑
// @Tags 管理
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response "成功，返回发送数量"
// @Failure 403 {object} util.Response "非系统管理员"
// @Router /api/admin/reminders/run [post]
func (c *AdminController) RunReminders(ctx *gin.Context) {
	sent, err := c.ReminderService.RunMissedQuizReminders()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"sent": sent})
}
