package routes

import (
	"MoodMuseGo/controllers"
	"MoodMuseGo/middleware"
	"MoodMuseGo/services"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, aestheticService *services.AestheticService, store services.SessionStore) {
	authController := controllers.AuthController{}
	userController := controllers.UserController{}
	aestheticController := controllers.NewAestheticController(aestheticService, store)

	// 公开路由（无需认证）
	public := r.Group("/api")
	{
		public.POST("/auth/google", authController.GoogleLogin)
		public.POST("/auth/apple", authController.AppleLogin)
		public.POST("/auth/test-user", authController.CreateTestUser)
		public.GET("/mood-suggestions", aestheticController.GetMoodSuggestions)
		public.GET("/sessions/:id", aestheticController.GetSession)
	}

	// 可选认证路由：匿名也可生成，有令牌时会话关联用户
	optional := r.Group("/api")
	optional.Use(middleware.OptionalAuthMiddleware())
	{
		optional.POST("/generate-aesthetic", aestheticController.GenerateAesthetic)
	}

	// 需要认证的路由
	private := r.Group("/api")
	private.Use(middleware.AuthMiddleware())
	{
		private.GET("/my-sessions", aestheticController.GetMySessions)
		private.GET("/user", userController.GetUser)
	}

	// 内部路由组（仅限服务器内部调用）
	internal := r.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware())
	{
		internal.GET("/cache/purge-session", aestheticController.PurgeSessionCache)
	}

	// 测试路由
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
}
