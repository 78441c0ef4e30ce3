package app

import (
	"quizgenie_backend/internal/middleware"
	"quizgenie_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/quizzes", c.quiz.Discover)
		public.GET("/tags", c.quiz.Tags)
		public.GET("/quizzes/:id", c.quiz.Get)
		public.GET("/quizzes/:id/details", c.quiz.Details)
		public.GET("/stats", c.analytics.PlatformStats)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.GET("/verify-token", c.auth.VerifyToken)

		authGroup.POST("/generate-quiz", c.quiz.Generate)
		authGroup.PUT("/quizzes/:id", c.quiz.Update)
		authGroup.GET("/quizzes/created", c.quiz.ListCreated)
		authGroup.GET("/quizzes/taken", c.quiz.ListTaken)

		authGroup.POST("/submit-quiz", c.attempt.Submit)
		authGroup.GET("/attempts/user/recent", c.attempt.Recent)
		authGroup.GET("/attempts/:quizId", c.attempt.QuizHistory)
		authGroup.GET("/quiz/:id/attempts", c.attempt.QuizAttempts)
		authGroup.GET("/quiz/:id/analytics", c.analytics.QuizAnalytics)

		authGroup.GET("/user/data", c.user.Data)
	}
}
