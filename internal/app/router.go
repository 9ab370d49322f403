package app

import (
	"corpquiz_backend/docs"
	"corpquiz_backend/internal/config"
	"corpquiz_backend/internal/middleware"
	"corpquiz_backend/internal/model"

	"corpquiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/auth/me", c.auth.Me)

		// 用户
		authGroup.GET("/users", c.user.ListUsers)
		authGroup.GET("/users/:id", c.user.GetUser)
		authGroup.GET("/users/username/:username", c.user.GetUserByUsername)
		authGroup.PUT("/users/:id", c.user.UpdateUser)
		authGroup.DELETE("/users/:id", c.user.DeleteUser)

		// 公司
		authGroup.POST("/companies", c.company.CreateCompany)
		authGroup.GET("/companies", c.company.ListCompanies)
		authGroup.GET("/companies/my", c.company.MyCompanies)
		authGroup.GET("/companies/:companyId", c.company.GetCompany)
		authGroup.PUT("/companies/:companyId", c.company.UpdateCompany)
		authGroup.DELETE("/companies/:companyId", c.company.DeleteCompany)
		authGroup.GET("/companies/:companyId/members", c.company.ListMembers)
		authGroup.GET("/companies/:companyId/admins", c.company.ListAdmins)

		// 成员关系状态机
		authGroup.POST("/companies/:companyId/requests", c.membership.CreateRequest)
		authGroup.GET("/companies/:companyId/requests", c.membership.CompanyRequests)
		authGroup.POST("/companies/:companyId/invites", c.membership.CreateInvite)
		authGroup.GET("/companies/:companyId/invites", c.membership.CompanyInvites)
		authGroup.DELETE("/companies/:companyId/leave", c.membership.LeaveCompany)
		authGroup.DELETE("/companies/:companyId/members/:userId", c.membership.RemoveMember)
		authGroup.POST("/companies/:companyId/admins/:userId", c.membership.AddAdmin)
		authGroup.DELETE("/companies/:companyId/admins/:userId", c.membership.RemoveAdmin)
		authGroup.GET("/actions/requests/my", c.membership.MyRequests)
		authGroup.GET("/actions/invites/my", c.membership.MyInvites)
		authGroup.PATCH("/actions/:id/cancel-request", c.membership.CancelRequest)
		authGroup.PATCH("/actions/:id/accept-request", c.membership.AcceptRequest)
		authGroup.PATCH("/actions/:id/reject-request", c.membership.RejectRequest)
		authGroup.PATCH("/actions/:id/cancel-invite", c.membership.CancelInvite)
		authGroup.PATCH("/actions/:id/accept-invite", c.membership.AcceptInvite)
		authGroup.PATCH("/actions/:id/reject-invite", c.membership.RejectInvite)

		// 测验
		authGroup.POST("/companies/:companyId/quizzes", c.quiz.CreateQuiz)
		authGroup.GET("/companies/:companyId/quizzes", c.quiz.ListQuizzes)
		authGroup.GET("/quizzes/:id", c.quiz.GetQuiz)
		authGroup.GET("/quizzes/:id/questions", c.quiz.ListQuestions)
		authGroup.PUT("/quizzes/:id", c.quiz.UpdateQuiz)
		authGroup.DELETE("/quizzes/:id", c.quiz.DeleteQuiz)
		authGroup.POST("/quizzes/:id/take", c.quiz.TakeQuiz)
		authGroup.PUT("/questions/:id", c.quiz.UpdateQuestion)
		authGroup.DELETE("/questions/:id", c.quiz.DeleteQuestion)
		authGroup.PUT("/options/:id", c.quiz.UpdateOption)
		authGroup.DELETE("/options/:id", c.quiz.DeleteOption)

		// 统计
		authGroup.GET("/analytics/rating", c.analytics.MyRating)
		authGroup.GET("/analytics/users/:id/rating", c.analytics.UserRating)
		authGroup.GET("/analytics/last-completions", c.analytics.MyLastCompletions)
		authGroup.GET("/analytics/companies/:companyId/members", c.analytics.CompanyMembersRatings)
		authGroup.GET("/analytics/companies/:companyId/members/:userId/quizzes", c.analytics.MemberQuizRatings)
		authGroup.GET("/analytics/companies/:companyId/my-quizzes", c.analytics.MyQuizRatings)
		authGroup.GET("/analytics/companies/:companyId/last-completions", c.analytics.CompanyLastCompletions)

		// 通知
		authGroup.GET("/notifications", c.notification.ListNotifications)
		authGroup.PATCH("/notifications/:id/read", c.notification.MarkRead)
		authGroup.DELETE("/notifications/:id", c.notification.DeleteNotification)

		// 导出
		authGroup.GET("/export/companies/:companyId", c.export.ExportCompanyResults)
		authGroup.GET("/export/companies/:companyId/my", c.export.ExportMyResults)
		authGroup.GET("/export/companies/:companyId/users/:userId", c.export.ExportUserResults)
	}

	// 3. 系统管理员路由
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleAdmin))
	{
		adminGroup.POST("/reminders/run", c.admin.RunReminders)
	}
}
