package controller

import (
	"corpquiz_backend/internal/service"
	"corpquiz_backend/internal/util"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
)

type ExportController struct {
	ExportService     *service.ExportService
	MembershipService *service.MembershipService
}

func NewExportController(
	exportService *service.ExportService,
	membershipService *service.MembershipService,
) *ExportController {
	return &ExportController{
		ExportService:     exportService,
		MembershipService: membershipService,
	}
}

func (c *ExportController) writeExportError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrInvalidExportFormat):
		util.BadRequest(ctx, "Format must be json or csv")
	case errors.Is(err, util.ErrNoResults):
		util.NotFound(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}

func (c *ExportController) streamFile(ctx *gin.Context, file *service.ExportFile) {
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	ctx.Data(200, file.ContentType, file.Data)
}

// ExportMyResults godoc
// @Summary 导出我的答题结果
// @Description 从 48 小时快照缓存导出，支持 json 和 csv
// @Tags 导出
// @Produce  json
// @Produce  text/csv
// @Security BearerAuth
// @Param   companyId path int true "公司ID"
// @Param   format query string false "导出格式 json|csv" default(json)
// @Success 200 {file} file "导出文件"
// @Failure 400 {object} util.Response "格式不支持"
// @Failure 404 {object} util.Response "无可导出的结果"
// @Router /api/export/companies/{companyId}/my [get]
func (c *ExportController) ExportMyResults(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	companyID := util.MustParseUint(ctx.Param("companyId"))
	format := ctx.DefaultQuery("format", util.ExportJSON)

	file, err := c.ExportService.ExportUserResults(ctx.Request.Context(), companyID, claims.UserID, format)
	if err != nil {
		c.writeExportError(ctx, err)
		return
	}
	c.streamFile(ctx, file)
}

// ExportUserResults godoc
// @Summary 导出指定成员的答题结果
// @Description 仅公司所有者或管理员可导出
// @Tags 导出
// @Produce  json
// @Produce  text/csv
// @Security BearerAuth
// @Param   companyId path int true "公司ID"
// @Param   userId path int true "用户ID"
// @Param   format query string false "导出格式 json|csv" default(json)
// @Success 200 {file} file "导出文件"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "无可导出的结果"
// @Router /api/export/companies/{companyId}/users/{userId} [get]
func (c *ExportController) ExportUserResults(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	companyID := util.MustParseUint(ctx.Param("companyId"))
	canManage, err := c.MembershipService.CanManage(claims.UserID, companyID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	if !canManage {
		util.Forbidden(ctx)
		return
	}

	userID := util.MustParseUint(ctx.Param("userId"))
	format := ctx.DefaultQuery("format", util.ExportJSON)

	file, err := c.ExportService.ExportUserResults(ctx.Request.Context(), companyID, userID, format)
	if err != nil {
		c.writeExportError(ctx, err)
		return
	}
	c.streamFile(ctx, file)
}

// ExportCompanyResults godoc
// @Summary 导出公司全部答题结果
// @Description 仅公司所有者或管理员可导出
// @Tags 导出
// @Produce  json
// @Produce  text/csv
// @Security BearerAuth
// @Param   companyId path int true "公司ID"
// @Param   format query string false "导出格式 json|csv" default(json)
// @Success 200 {file} file "导出文件"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "无可导出的结果"
// @Router /api/export/companies/{companyId} [get]
func (c *ExportController) ExportCompanyResults(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	companyID := util.MustParseUint(ctx.Param("companyId"))
	canManage, err := c.MembershipService.CanManage(claims.UserID, companyID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	if !canManage {
		util.Forbidden(ctx)
		return
	}

	format := ctx.DefaultQuery("format", util.ExportJSON)
	file, err := c.ExportService.ExportCompanyResults(ctx.Request.Context(), companyID, format)
	if err != nil {
		c.writeExportError(ctx, err)
		return
	}
	c.streamFile(ctx, file)
}
