package controller

import (
	"corpquiz_backend/internal/service"
	"corpquiz_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService         *service.QuizService
	QuizTakingService   *service.QuizTakingService
	MembershipService   *service.MembershipService
	NotificationService *service.NotificationService
}

func NewQuizController(
	quizService *service.QuizService,
	quizTakingService *service.QuizTakingService,
	membershipService *service.MembershipService,
	notificationService *service.NotificationService,
) *QuizController {
	return &QuizController{
		QuizService:         quizService,
		QuizTakingService:   quizTakingService,
		MembershipService:   membershipService,
		NotificationService: notificationService,
	}
}

func (c *QuizController) writeQuizError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrTooFewQuestions):
		util.BadRequest(ctx, "Quiz must have at least 2 questions")
	case errors.Is(err, util.ErrTooFewOptions):
		util.BadRequest(ctx, "Each question must have at least 2 options")
	default:
		util.LogInternalError(ctx, err)
	}
}

// requireManage 测验的增删改只开放给公司所有者和管理员
func (c *QuizController) requireManage(ctx *gin.Context, companyID uint) bool {
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

// requireMember 测验的查看与作答开放给全体成员
func (c *QuizController) requireMember(ctx *gin.Context, companyID uint) (uint, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return 0, false
	}
	ok, err := c.MembershipService.IsMember(claims.UserID, companyID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return 0, false
	}
	if !ok {
		util.Forbidden(ctx)
		return 0, false
	}
	return claims.UserID, true
}

// CreateQuiz godoc
// @Summary 创建测验
// @Description 整棵 测验-题目-选项 树在一个事务里落库；至少 2 道题，每题至少 2 个选项。创建成功后给公司全体成员发通知。
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   companyId path int true "公司ID"
// @Param   body body service.QuizInput true "测验内容"
// @Success 201 {object} util.Response{data=model.Quiz} "创建成功"
// @Failure 400 {object} util.Response "校验失败"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/companies/{companyId}/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	companyID := util.MustParseUint(ctx.Param("companyId"))
	if !c.requireManage(ctx, companyID) {
		return
	}

	var input service.QuizInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.CreateQuiz(companyID, input)
	if err != nil {
		c.writeQuizError(ctx, err)
		return
	}

	// 通知失败不影响创建结果，服务内部已记日志
	_ = c.NotificationService.NotifyQuizCreated(companyID, quiz.ID)

	util.Created(ctx, quiz)
}

// ListQuizzes godoc
// @Summary 公司测验列表
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   companyId path int true "公司ID"
// @Success 200 {object} util.Response{data=[]model.Quiz} "成功"
// @Failure 403 {object} util.Response "非公司成员"
// @Router /api/companies/{companyId}/quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	companyID := util.MustParseUint(ctx.Param("companyId"))
	if _, ok := c.requireMember(ctx, companyID); !ok {
		return
	}

	quizzes, err := c.QuizService.GetCompanyQuizzes(companyID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// GetQuiz godoc
// @Summary 测验详情
// @Description 返回测验及其全部题目和选项
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=model.Quiz} "成功"
// @Failure 403 {object} util.Response "非公司成员"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	quiz, err := c.QuizService.GetQuiz(id)
	if err != nil {
		c.writeQuizError(ctx, err)
		return
	}
	if _, ok := c.requireMember(ctx, quiz.CompanyID); !ok {
		return
	}
	util.Success(ctx, quiz)
}

// ListQuestions godoc
// @Summary 测验题目列表
// @Description 返回测验全部题目及选项
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=[]model.Question} "成功"
// @Failure 403 {object} util.Response "非公司成员"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quizzes/{id}/questions [get]
func (c *QuizController) ListQuestions(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	companyID, err := c.QuizService.CompanyOfQuiz(id)
	if err != nil {
		c.writeQuizError(ctx, err)
		return
	}
	if _, ok := c.requireMember(ctx, companyID); !ok {
		return
	}

	questions, err := c.QuizService.GetQuestions(id)
	if err != nil {
		c.writeQuizError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// UpdateQuiz godoc
// @Summary 更新测验
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Param   body body service.UpdateQuizInput true "更新字段"
// @Success 200 {object} util.Response{data=model.Quiz} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quizzes/{id} [put]
func (c *QuizController) UpdateQuiz(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	companyID, err := c.QuizService.CompanyOfQuiz(id)
	if err != nil {
		c.writeQuizError(ctx, err)
		return
	}
	if !c.requireManage(ctx, companyID) {
		return
	}

	var input service.UpdateQuizInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.UpdateQuiz(id, input)
	if err != nil {
		c.writeQuizError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// DeleteQuiz godoc
// @Summary 删除测验
// @Description 连同题目和选项一并删除
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=service.DeleteResult} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/quizzes/{id} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	companyID, err := c.QuizService.CompanyOfQuiz(id)
	if err != nil {
		c.writeQuizError(ctx, err)
		return
	}
	if !c.requireManage(ctx, companyID) {
		return
	}

	result, err := c.QuizService.DeleteQuiz(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// UpdateQuestionRequest 题目更新请求体
// swagger:model UpdateQuestionRequest
type UpdateQuestionRequest struct {
	Text string `json:"text" binding:"required"`
}

// UpdateQuestion godoc
// @Summary 更新题目
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "题目ID"
// @Param   body body UpdateQuestionRequest true "题目内容"
// @Success 200 {object} util.Response{data=model.Question} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/questions/{id} [put]
func (c *QuizController) UpdateQuestion(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	companyID, err := c.QuizService.CompanyOfQuestion(id)
	if err != nil {
		c.writeQuizError(ctx, err)
		return
	}
	if !c.requireManage(ctx, companyID) {
		return
	}

	var req UpdateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuizService.UpdateQuestion(id, req.Text)
	if err != nil {
		c.writeQuizError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// DeleteQuestion godoc
// @Summary 删除题目
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "题目ID"
// @Success 200 {object} util.Response{data=service.DeleteResult} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/questions/{id} [delete]
func (c *QuizController) DeleteQuestion(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	companyID, err := c.QuizService.CompanyOfQuestion(id)
	if err != nil {
		c.writeQuizError(ctx, err)
		return
	}
	if !c.requireManage(ctx, companyID) {
		return
	}

	result, err := c.QuizService.DeleteQuestion(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// UpdateOptionRequest 选项更新请求体
// swagger:model UpdateOptionRequest
type UpdateOptionRequest struct {
	Text      string `json:"text"`
	IsCorrect *bool  `json:"isCorrect"`
}

// UpdateOption godoc
// @Summary 更新选项
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "选项ID"
// @Param   body body UpdateOptionRequest true "选项内容"
// @Success 200 {object} util.Response{data=model.Option} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "选项不存在"
// @Router /api/options/{id} [put]
func (c *QuizController) UpdateOption(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	companyID, err := c.QuizService.CompanyOfOption(id)
	if err != nil {
		c.writeQuizError(ctx, err)
		return
	}
	if !c.requireManage(ctx, companyID) {
		return
	}

	var req UpdateOptionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	option, err := c.QuizService.UpdateOption(id, req.Text, req.IsCorrect)
	if err != nil {
		c.writeQuizError(ctx, err)
		return
	}
	util.Success(ctx, option)
}

// DeleteOption godoc
// @Summary 删除选项
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "选项ID"
// @Success 200 {object} util.Response{data=service.DeleteResult} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/options/{id} [delete]
func (c *QuizController) DeleteOption(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	companyID, err := c.QuizService.CompanyOfOption(id)
	if err != nil {
		c.writeQuizError(ctx, err)
		return
	}
	if !c.requireManage(ctx, companyID) {
		return
	}

	result, err := c.QuizService.DeleteOption(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// TakeQuizRequest 作答请求体：题目 ID 到所选选项 ID 的映射
// swagger:model TakeQuizRequest
type TakeQuizRequest struct {
	Answers map[uint]uint `json:"answers" binding:"required"`
}

// TakeQuiz godoc
// @Summary 参加测验
// @Description 按选项 ID 评分；结果写入日志并缓存 48 小时，返回本次得分和刷新后的公司/全站评分
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Param   body body TakeQuizRequest true "答案"
// @Success 200 {object} util.Response{data=service.TakeQuizResult} "成功"
// @Failure 403 {object} util.Response "非公司成员"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quizzes/{id}/take [post]
func (c *QuizController) TakeQuiz(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	companyID, err := c.QuizService.CompanyOfQuiz(id)
	if err != nil {
		c.writeQuizError(ctx, err)
		return
	}
	userID, ok := c.requireMember(ctx, companyID)
	if !ok {
		return
	}

	var req TakeQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizTakingService.TakeQuiz(ctx.Request.Context(), id, userID, req.Answers)
	if err != nil {
		c.writeQuizError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
