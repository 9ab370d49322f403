package controller

import (
	"corpquiz_backend/internal/service"
	"corpquiz_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

// MembershipController 用户与公司之间关系状态机的 HTTP 入口：
// 申请、邀请、成员与管理员
type MembershipController struct {
	MembershipService *service.MembershipService
	CompanyService    *service.CompanyService
}

func NewMembershipController(
	membershipService *service.MembershipService,
	companyService *service.CompanyService,
) *MembershipController {
	return &MembershipController{
		MembershipService: membershipService,
		CompanyService:    companyService,
	}
}

func (c *MembershipController) writeActionError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrNotFound), errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrNotPending):
		util.BadRequest(ctx, "Action is not pending")
	case errors.Is(err, util.ErrAlreadyRelated):
		util.Error(ctx, 409, "An active request, invite or membership already exists")
	case errors.Is(err, util.ErrOwnerAsTarget):
		util.BadRequest(ctx, "Company owner cannot be the target of this action")
	case errors.Is(err, util.ErrOwnerCannotLeave):
		util.BadRequest(ctx, "Company owner cannot leave their own company")
	case errors.Is(err, util.ErrNotMember):
		util.BadRequest(ctx, "User is not a member of this company")
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}

// requireManage 校验当前用户能管理该公司（所有者或管理员）
func (c *MembershipController) requireManage(ctx *gin.Context, companyID uint) (uint, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return 0, false
	}
	ok, err := c.MembershipService.CanManage(claims.UserID, companyID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return 0, false
	}
	if !ok {
		util.Forbidden(ctx)
		return 0, false
	}
	return claims.UserID, true
}

// CreateRequest godoc
// @Summary 申请加入公司
// @Tags 成员关系
// @Produce  json
// @Security BearerAuth
// @Param   companyId path int true "公司ID"
// @Success 201 {object} util.Response{data=model.Action} "创建成功"
// @Failure 400 {object} util.Response "所有者不能申请自己的公司"
// @Failure 409 {object} util.Response "已存在有效关系"
// @Router /api/companies/{companyId}/requests [post]
func (c *MembershipController) CreateRequest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	companyID := util.MustParseUint(ctx.Param("companyId"))
	action, err := c.MembershipService.CreateRequest(claims.UserID, companyID)
	if err != nil {
		c.writeActionError(ctx, err)
		return
	}
	util.Created(ctx, action)
}

// InviteRequest 邀请请求体
// swagger:model InviteRequest
type InviteRequest struct {
	UserID uint `json:"userId" binding:"required"`
}

// CreateInvite godoc
// @Summary 邀请用户加入公司
// @Description 仅所有者或管理员可发出邀请
// @Tags 成员关系
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   companyId path int true "公司ID"
// @Param   body body InviteRequest true "被邀请用户"
// @Success 201 {object} util.Response{data=model.Action} "创建成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 409 {object} util.Response "已存在有效关系"
// @Router /api/companies/{companyId}/invites [post]
func (c *MembershipController) CreateInvite(ctx *gin.Context) {
	companyID := util.MustParseUint(ctx.Param("companyId"))
	if _, ok := c.requireManage(ctx, companyID); !ok {
		return
	}

	var req InviteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	action, err := c.MembershipService.CreateInvite(companyID, req.UserID)
	if err != nil {
		c.writeActionError(ctx, err)
		return
	}
	util.Created(ctx, action)
}

// CancelRequest godoc
// @Summary 撤回自己的加入申请
// @Tags 成员关系
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "申请ID"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "申请已处理"
// @Router /api/actions/{id}/cancel-request [patch]
func (c *MembershipController) CancelRequest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	if err := c.MembershipService.CancelRequest(id, claims.UserID); err != nil {
		c.writeActionError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// resolveCompanyAction 公司侧处理申请/邀请的公共路径：
// 先按 action 找到公司，再做管理权限校验
func (c *MembershipController) resolveCompanyAction(ctx *gin.Context, handle func(actionID uint) error) {
	id := util.MustParseUint(ctx.Param("id"))
	action, err := c.MembershipService.GetAction(id)
	if err != nil {
		c.writeActionError(ctx, err)
		return
	}
	if _, ok := c.requireManage(ctx, action.CompanyID); !ok {
		return
	}
	if err := handle(id); err != nil {
		c.writeActionError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// AcceptRequest godoc
// @Summary 接受加入申请
// @Description 申请原子地转为成员关系，仅所有者或管理员可操作
// @Tags 成员关系
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "申请ID"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "申请已处理"
// @Router /api/actions/{id}/accept-request [patch]
func (c *MembershipController) AcceptRequest(ctx *gin.Context) {
	c.resolveCompanyAction(ctx, c.MembershipService.AcceptRequest)
}

// RejectRequest godoc
// @Summary 拒绝加入申请
// @Tags 成员关系
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "申请ID"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "申请已处理"
// @Router /api/actions/{id}/reject-request [patch]
func (c *MembershipController) RejectRequest(ctx *gin.Context) {
	c.resolveCompanyAction(ctx, c.MembershipService.RejectRequest)
}

// CancelInvite godoc
// @Summary 撤回邀请
// @Tags 成员关系
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "邀请ID"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "邀请已处理"
// @Router /api/actions/{id}/cancel-invite [patch]
func (c *MembershipController) CancelInvite(ctx *gin.Context) {
	c.resolveCompanyAction(ctx, c.MembershipService.CancelInvite)
}

// AcceptInvite godoc
// @Summary 接受邀请
// @Description 仅被邀请人本人可操作
// @Tags 成员关系
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "邀请ID"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "邀请已处理"
// @Router /api/actions/{id}/accept-invite [patch]
func (c *MembershipController) AcceptInvite(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	if err := c.MembershipService.AcceptInvite(id, claims.UserID); err != nil {
		c.writeActionError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// RejectInvite godoc
// @Summary 拒绝邀请
// @Tags 成员关系
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "邀请ID"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "邀请已处理"
// @Router /api/actions/{id}/reject-invite [patch]
func (c *MembershipController) RejectInvite(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	if err := c.MembershipService.RejectInvite(id, claims.UserID); err != nil {
		c.writeActionError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// LeaveCompany godoc
// @Summary 退出公司
// @Description 所有者不能退出自己的公司
// @Tags 成员关系
// @Produce  json
// @Security BearerAuth
// @Param   companyId path int true "公司ID"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "非成员或所有者"
// @Router /api/companies/{companyId}/leave [delete]
func (c *MembershipController) LeaveCompany(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	companyID := util.MustParseUint(ctx.Param("companyId"))
	if err := c.MembershipService.LeaveCompany(claims.UserID, companyID); err != nil {
		c.writeActionError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"companyId": companyID})
}

// RemoveMember godoc
// @Summary 移除公司成员
// @Description 仅所有者或管理员可操作，不能移除所有者
// @Tags 成员关系
// @Produce  json
// @Security BearerAuth
// @Param   companyId path int true "公司ID"
// @Param   userId path int true "目标用户ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/companies/{companyId}/members/{userId} [delete]
func (c *MembershipController) RemoveMember(ctx *gin.Context) {
	companyID := util.MustParseUint(ctx.Param("companyId"))
	actorID, ok := c.requireManage(ctx, companyID)
	if !ok {
		return
	}

	targetID := util.MustParseUint(ctx.Param("userId"))
	if targetID == actorID {
		util.BadRequest(ctx, "Use the leave endpoint to remove yourself")
		return
	}

	if err := c.MembershipService.RemoveUser(companyID, targetID); err != nil {
		c.writeActionError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"userId": targetID})
}

// requireOwner 管理员任免只开放给公司所有者
func (c *MembershipController) requireOwner(ctx *gin.Context, companyID uint) bool {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return false
	}
	isOwner, err := c.CompanyService.IsOwner(claims.UserID, companyID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return false
	}
	if !isOwner {
		util.Forbidden(ctx)
		return false
	}
	return true
}

// AddAdmin godoc
// @Summary 任命公司管理员
// @Description 仅所有者可操作，目标必须已是成员
// @Tags 成员关系
// @Produce  json
// @Security BearerAuth
// @Param   companyId path int true "公司ID"
// @Param   userId path int true "目标用户ID"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "目标非成员"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/companies/{companyId}/admins/{userId} [post]
func (c *MembershipController) AddAdmin(ctx *gin.Context) {
	companyID := util.MustParseUint(ctx.Param("companyId"))
	if !c.requireOwner(ctx, companyID) {
		return
	}

	targetID := util.MustParseUint(ctx.Param("userId"))
	if err := c.MembershipService.AddAdmin(companyID, targetID); err != nil {
		c.writeActionError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"userId": targetID})
}

// RemoveAdmin godoc
// @Summary 撤销公司管理员
// @Tags 成员关系
// @Produce  json
// @Security BearerAuth
// @Param   companyId path int true "公司ID"
// @Param   userId path int true "目标用户ID"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "目标非成员"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/companies/{companyId}/admins/{userId} [delete]
func (c *MembershipController) RemoveAdmin(ctx *gin.Context) {
	companyID := util.MustParseUint(ctx.Param("companyId"))
	if !c.requireOwner(ctx, companyID) {
		return
	}

	targetID := util.MustParseUint(ctx.Param("userId"))
	if err := c.MembershipService.RemoveAdmin(companyID, targetID); err != nil {
		c.writeActionError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"userId": targetID})
}

// MyRequests godoc
// @Summary 我发出的加入申请
// @Tags 成员关系
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Action} "成功"
// @Router /api/actions/requests/my [get]
func (c *MembershipController) MyRequests(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	actions, err := c.MembershipService.RequestsForUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, actions)
}

// MyInvites godoc
// @Summary 我收到的邀请
// @Tags 成员关系
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Action} "成功"
// @Router /api/actions/invites/my [get]
func (c *MembershipController) MyInvites(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	actions, err := c.MembershipService.InvitesForUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, actions)
}

// CompanyRequests godoc
// @Summary 公司收到的加入申请
// @Description 仅所有者或管理员可见
// @Tags 成员关系
// @Produce  json
// @Security BearerAuth
// @Param   companyId path int true "公司ID"
// @Success 200 {object} util.Response{data=[]model.Action} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/companies/{companyId}/requests [get]
func (c *MembershipController) CompanyRequests(ctx *gin.Context) {
	companyID := util.MustParseUint(ctx.Param("companyId"))
	if _, ok := c.requireManage(ctx, companyID); !ok {
		return
	}

	actions, err := c.MembershipService.RequestsForCompany(companyID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, actions)
}

// CompanyInvites godoc
// @Summary 公司发出的邀请
// @Description 仅所有者或管理员可见
// @Tags 成员关系
// @Produce  json
// @Security BearerAuth
// @Param   companyId path int true "公司ID"
// @Success 200 {object} util.Response{data=[]model.Action} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/companies/{companyId}/invites [get]
func (c *MembershipController) CompanyInvites(ctx *gin.Context) {
	companyID := util.MustParseUint(ctx.Param("companyId"))
	if _, ok := c.requireManage(ctx, companyID); !ok {
		return
	}

	actions, err := c.MembershipService.InvitesForCompany(companyID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, actions)
}
