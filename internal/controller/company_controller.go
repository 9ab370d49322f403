package controller

import (
	"corpquiz_backend/internal/model"
	"corpquiz_backend/internal/service"
	"corpquiz_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type CompanyController struct {
	CompanyService    *service.CompanyService
	MembershipService *service.MembershipService
}

func NewCompanyController(
	companyService *service.CompanyService,
	membershipService *service.MembershipService,
) *CompanyController {
	return &CompanyController{
		CompanyService:    companyService,
		MembershipService: membershipService,
	}
}

// CreateCompanyRequest 创建公司请求体
// swagger:model CreateCompanyRequest
type CreateCompanyRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Site        string `json:"site"`
	City        string `json:"city"`
	Country     string `json:"country"`
	IsVisible   *bool  `json:"isVisible"`
}

// CreateCompany godoc
// @Summary 创建公司
// @Description 当前用户自动成为公司所有者
// @Tags 公司
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CreateCompanyRequest true "公司信息"
// @Success 201 {object} util.Response{data=model.Company} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/companies [post]
func (c *CompanyController) CreateCompany(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateCompanyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	company := &model.Company{
		Name:        req.Name,
		Description: req.Description,
		Site:        req.Site,
		City:        req.City,
		Country:     req.Country,
		IsVisible:   true,
	}
	if req.IsVisible != nil {
		company.IsVisible = *req.IsVisible
	}

	if err := c.CompanyService.CreateCompany(claims.UserID, company); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, company)
}

// ListCompanies godoc
// @Summary 公司列表
// @Description 分页返回对外可见的公司
// @Tags 公司
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码" default(1)
// @Param   perPage query int false "每页数量" default(10)
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/companies [get]
func (c *CompanyController) ListCompanies(ctx *gin.Context) {
	page, perPage := pagination(ctx)
	companies, total, err := c.CompanyService.GetVisibleCompanies(page, perPage)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.NewPageResponse(companies, total, page, perPage))
}

// MyCompanies godoc
// @Summary 我拥有的公司
// @Tags 公司
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码" default(1)
// @Param   perPage query int false "每页数量" default(10)
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/companies/my [get]
func (c *CompanyController) MyCompanies(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, perPage := pagination(ctx)
	companies, total, err := c.CompanyService.GetMyCompanies(claims.UserID, page, perPage)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.NewPageResponse(companies, total, page, perPage))
}

// GetCompany godoc
// @Summary 公司详情
// @Tags 公司
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "公司ID"
// @Success 200 {object} util.Response{data=model.Company} "成功"
// @Failure 404 {object} util.Response "公司不存在"
// @Router /api/companies/{id} [get]
func (c *CompanyController) GetCompany(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	company, err := c.CompanyService.GetCompanyByID(id)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, company)
}

// UpdateCompany godoc
// @Summary 更新公司信息
// @Description 仅所有者可修改
// @Tags 公司
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "公司ID"
// @Param   body body service.UpdateCompanyInput true "更新字段"
// @Success 200 {object} util.Response{data=model.Company} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "公司不存在"
// @Router /api/companies/{id} [put]
func (c *CompanyController) UpdateCompany(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.UpdateCompanyInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	company, err := c.CompanyService.UpdateCompany(claims.UserID, id, input)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, company)
}

// DeleteCompany godoc
// @Summary 删除公司
// @Description 仅所有者可删除，连带清理测验与成员关系
// @Tags 公司
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "公司ID"
// @Success 200 {object} util.Response{data=service.DeleteResult} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/companies/{id} [delete]
func (c *CompanyController) DeleteCompany(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	result, err := c.CompanyService.DeleteCompany(claims.UserID, id)
	if err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// ListMembers godoc
// @Summary 公司成员列表
// @Description 分页返回公司全部成员，仅成员可见
// @Tags 公司
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "公司ID"
// @Param   page query int false "页码" default(1)
// @Param   perPage query int false "每页数量" default(10)
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Failure 403 {object} util.Response "非公司成员"
// @Router /api/companies/{id}/members [get]
func (c *CompanyController) ListMembers(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	companyID := util.MustParseUint(ctx.Param("id"))
	isMember, err := c.MembershipService.IsMember(claims.UserID, companyID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if !isMember {
		util.Forbidden(ctx)
		return
	}

	page, perPage := pagination(ctx)
	users, total, err := c.MembershipService.GetCompanyMembers(companyID, page, perPage)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.NewPageResponse(users, total, page, perPage))
}

// ListAdmins godoc
// @Summary 公司管理员列表
// @Tags 公司
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "公司ID"
// @Param   page query int false "页码" default(1)
// @Param   perPage query int false "每页数量" default(10)
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Failure 403 {object} util.Response "非公司成员"
// @Router /api/companies/{id}/admins [get]
func (c *CompanyController) ListAdmins(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	companyID := util.MustParseUint(ctx.Param("id"))
	isMember, err := c.MembershipService.IsMember(claims.UserID, companyID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if !isMember {
		util.Forbidden(ctx)
		return
	}

	page, perPage := pagination(ctx)
	users, total, err := c.MembershipService.GetCompanyAdmins(companyID, page, perPage)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.NewPageResponse(users, total, page, perPage))
}
