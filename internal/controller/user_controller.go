package controller

import (
	"corpquiz_backend/internal/service"
	"corpquiz_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

func pagination(ctx *gin.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(ctx.DefaultQuery("perPage", "10"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}
	return page, perPage
}

// ListUsers godoc
// @Summary 用户列表
// @Description 分页返回全部用户
// @Tags 用户
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码" default(1)
// @Param   perPage query int false "每页数量" default(10)
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	page, perPage := pagination(ctx)
	users, total, err := c.UserService.GetUsers(page, perPage)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.NewPageResponse(users, total, page, perPage))
}

// GetUser godoc
// @Summary 用户详情
// @Tags 用户
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	user, err := c.UserService.GetUserByID(id)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

// GetUserByUsername godoc
// @Summary 按用户名查询用户
// @Tags 用户
// @Produce  json
// @Security BearerAuth
// @Param   username path string true "用户名"
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/users/username/{username} [get]
func (c *UserController) GetUserByUsername(ctx *gin.Context) {
	user, err := c.UserService.GetUserByUsername(ctx.Param("username"))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

// UpdateUser godoc
// @Summary 更新用户资料
// @Description 只允许本人更新，密码给出时重新加密
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "用户ID"
// @Param   body body service.UpdateUserInput true "更新字段"
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/users/{id} [put]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.UpdateUserInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	targetID := util.MustParseUint(ctx.Param("id"))
	user, err := c.UserService.UpdateUser(claims.UserID, targetID, input)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrUsernameRegistered):
			util.Error(ctx, 409, "该用户名已被注册")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

// DeleteUser godoc
// @Summary 注销用户
// @Description 只允许本人注销，连带清理关系记录与通知
// @Tags 用户
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response{data=service.DeleteResult} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	targetID := util.MustParseUint(ctx.Param("id"))
	result, err := c.UserService.DeleteUser(claims.UserID, targetID)
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
