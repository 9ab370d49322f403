package controller

import (
	"corpquiz_backend/internal/service"
	"corpquiz_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService  *service.AnalyticsService
	MembershipService *service.MembershipService
}

func NewAnalyticsController(
	analyticsService *service.AnalyticsService,
	membershipService *service.MembershipService,
) *AnalyticsController {
	return &AnalyticsController{
		AnalyticsService:  analyticsService,
		MembershipService: membershipService,
	}
}

func (c *AnalyticsController) requireManage(ctx *gin.Context, companyID uint) bool {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return false
	}
	ok, err := c.MembershipService.CanManage(claims.UserID, companyID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return false
	}
	if !ok {
		util.Forbidden(ctx)
		return false
	}
	return true
}

// MyRating godoc
// @Summary 我的全站评分
// @Description 跨全部公司按题数加权的 0~5 评分，无作答记录时为 0
// @Tags 统计
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/analytics/rating [get]
func (c *AnalyticsController) MyRating(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	rating, err := c.AnalyticsService.UserSystemRating(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"rating": rating})
}

// UserRating godoc
// @Summary 指定用户的全站评分
// @Tags 统计
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/analytics/users/{id}/rating [get]
func (c *AnalyticsController) UserRating(ctx *gin.Context) {
	userID := util.MustParseUint(ctx.Param("id"))
	rating, err := c.AnalyticsService.UserSystemRating(userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"userId": userID, "rating": rating})
}

// CompanyMembersRatings godoc
// @Summary 公司成员平均分
// @Description 按成员拆分的加权平均分，仅所有者或管理员可见
// @Tags 统计
// @Produce  json
// @Security BearerAuth
// @Param   companyId path int true "公司ID"
// @Success 200 {object} util.Response{data=[]service.MemberRating} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/analytics/companies/{companyId}/members [get]
func (c *AnalyticsController) CompanyMembersRatings(ctx *gin.Context) {
	companyID := util.MustParseUint(ctx.Param("companyId"))
	if !c.requireManage(ctx, companyID) {
		return
	}

	ratings, err := c.AnalyticsService.CompanyMembersAverages(companyID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, ratings)
}

// MemberQuizRatings godoc
// @Summary 成员按测验拆分的平均分
// @Description 仅所有者或管理员可见
// @Tags 统计
// @Produce  json
// @Security BearerAuth
// @Param   companyId path int true "公司ID"
// @Param   userId path int true "用户ID"
// @Success 200 {object} util.Response{data=[]service.QuizRating} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/analytics/companies/{companyId}/members/{userId}/quizzes [get]
func (c *AnalyticsController) MemberQuizRatings(ctx *gin.Context) {
	companyID := util.MustParseUint(ctx.Param("companyId"))
	if !c.requireManage(ctx, companyID) {
		return
	}

	userID := util.MustParseUint(ctx.Param("userId"))
	ratings, err := c.AnalyticsService.UserQuizAverages(userID, companyID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, ratings)
}

// MyQuizRatings godoc
// @Summary 我在某公司按测验拆分的平均分
// @Tags 统计
// @Produce  json
// @Security BearerAuth
// @Param   companyId path int true "公司ID"
// @Success 200 {object} util.Response{data=[]service.QuizRating} "成功"
// @Router /api/analytics/companies/{companyId}/my-quizzes [get]
func (c *AnalyticsController) MyQuizRatings(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	companyID := util.MustParseUint(ctx.Param("companyId"))
	ratings, err := c.AnalyticsService.UserQuizAverages(claims.UserID, companyID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, ratings)
}

// MyLastCompletions godoc
// @Summary 我每个测验最近一次作答时间
// @Tags 统计
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]repository.LastCompletion} "成功"
// @Router /api/analytics/last-completions [get]
func (c *AnalyticsController) MyLastCompletions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	rows, err := c.AnalyticsService.LastCompletions(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// CompanyLastCompletions godoc
// @Summary 公司成员最近一次作答时间
// @Description 每个成员对每个测验的最近作答时间，仅所有者或管理员可见
// @Tags 统计
// @Produce  json
// @Security BearerAuth
// @Param   companyId path int true "公司ID"
// @Success 200 {object} util.Response{data=[]repository.LastCompletion} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/analytics/companies/{companyId}/last-completions [get]
func (c *AnalyticsController) CompanyLastCompletions(ctx *gin.Context) {
	companyID := util.MustParseUint(ctx.Param("companyId"))
	if !c.requireManage(ctx, companyID) {
		return
	}

	rows, err := c.AnalyticsService.CompanyLastCompletions(companyID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}
