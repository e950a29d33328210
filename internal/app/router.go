package app

import (
	"docqa_backend/internal/config"
	"docqa_backend/internal/middleware"
	"docqa_backend/internal/model"
	"docqa_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerMemberRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.GET("/verify", c.auth.Verify)
		public.POST("/login", c.auth.Login)
		public.POST("/forgot-password", c.auth.ForgotPassword)
		public.POST("/reset-password", c.auth.ResetPassword)
	}
}

func (a *App) registerMemberRoutes(rg *gin.RouterGroup, c *controllers) {
	// 问答与测验
	rg.POST("/get_answer", c.qa.GetAnswer)
	rg.POST("/get_test", c.qa.GetQuiz)
	rg.POST("/check_test", c.qa.CheckQuiz)
	rg.POST("/send_feedback", c.qa.SendFeedback)

	// 竞赛排行榜
	rg.GET("/leaderboard", c.contest.Leaderboard)
	rg.GET("/my_leaderboard", c.contest.MyLeaderboard)

	// 文档管理
	docks := rg.Group("/docks")
	{
		docks.GET("/my", c.document.MyDocs)
		docks.POST("/change", c.document.Change)
		docks.POST("/add_data", c.document.AddData)
		docks.DELETE("/delete", c.document.Delete)

		// 上传和全量列表仅限管理员
		docks.POST("/upload", middleware.RoleMiddleware(model.Admin), c.document.Upload)
		docks.GET("/all", middleware.RoleMiddleware(model.Admin), c.document.AllDocs)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/requests", c.admin.PendingRequests)
		admin.POST("/requests/:id/accept", c.admin.AcceptRequest)
		admin.POST("/requests/:id/reject", c.admin.RejectRequest)

		admin.GET("/feedbacks", c.admin.Feedbacks)
		admin.POST("/feedbacks/:id/viewed", c.admin.MarkFeedbackViewed)

		admin.GET("/tokens", c.admin.Tokens)
	}
}
