package app

import (
	"quiz_backend/docs"
	"quiz_backend/internal/config"
	"quiz_backend/internal/controller"
	"quiz_backend/internal/middleware"
	"quiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 页面
	a.registerPageRoutes(router, c, cfg)

	// 2. 公共接口(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 3. 需要登录的接口
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(a.services.auth, cfg.Session.CookieName))
	{
		authGroup.POST("/logout", c.auth.Logout)
		authGroup.GET("/quiz", c.quiz.StartQuiz)
		authGroup.POST("/quiz", c.quiz.SubmitQuiz)
		authGroup.GET("/quiz/results/:id", c.quiz.GetResult)
		authGroup.GET("/history", c.history.GetHistory)
	}

	router.NoRoute(middleware.OptionalAuth(a.services.auth, cfg.Session.CookieName), controller.NotFound)
}

func (a *App) registerPageRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	optional := middleware.OptionalAuth(a.services.auth, cfg.Session.CookieName)
	router.GET("/", optional, controller.HomePage)
	router.GET("/signup/", optional, c.auth.SignupPage)
	router.POST("/signup/", c.auth.SignupSubmit)
	router.GET("/login/", optional, c.auth.LoginPage)
	router.POST("/login/", c.auth.LoginSubmit)

	pages := router.Group("/")
	pages.Use(middleware.LoginRequired(a.services.auth, cfg.Session.CookieName))
	{
		pages.GET("/logout/", c.auth.LogoutPage)
		pages.POST("/logout/", c.auth.LogoutPage)
		pages.GET("/quiz/", c.quiz.QuizPage)
		pages.POST("/quiz/", c.quiz.QuizSubmit)
		pages.GET("/quiz/results/:id/", c.quiz.ResultPage)
		pages.GET("/history/", c.history.HistoryPage)
	}
}
