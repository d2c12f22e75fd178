package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/quanghuy/intelliquiz-backend/controllers"
	"github.com/quanghuy/intelliquiz-backend/middleware"
	"github.com/quanghuy/intelliquiz-backend/models"
	"github.com/quanghuy/intelliquiz-backend/ws"
)

func SetupRouter(r *gin.Engine, db *gorm.DB) *gin.Engine {
	lecturer := string(models.RoleLecturer)
	student := string(models.RoleStudent)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", middleware.DBMiddleware(db), controllers.HealthCheck)

	api := r.Group("/api")
	api.Use(middleware.DBMiddleware(db))

	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/logingoogle", controllers.GoogleLogin)
		auth.POST("/change-password", middleware.AuthMiddleware(), controllers.ChangePassword)
	}

	users := api.Group("/users")
	{
		users.Use(middleware.AuthMiddleware())
		users.GET("/me", controllers.GetCurrentUser)
		users.PATCH("/me", controllers.UpdateCurrentUser)
	}

	materials := api.Group("/materials")
	{
		materials.POST("/upload", middleware.RequireRoles(lecturer), controllers.UploadMaterial)
		materials.GET("", middleware.RequireRoles(lecturer), controllers.GetMaterials)
		materials.GET("/:id", middleware.AuthMiddleware(), controllers.GetMaterialDetail)
		materials.DELETE("/:id", middleware.RequireRoles(lecturer), controllers.DeleteMaterial)
	}

	quizzes := api.Group("/quizzes")
	{
		// authoring
		quizzes.POST("", middleware.RequireRoles(lecturer), controllers.CreateQuiz)
		quizzes.GET("/my-quizzes", middleware.RequireRoles(lecturer), controllers.GetMyQuizzes)
		quizzes.PATCH("/:id", middleware.RequireRoles(lecturer), controllers.UpdateQuiz)
		quizzes.PATCH("/:id/publish", middleware.RequireRoles(lecturer), controllers.PublishQuiz)
		quizzes.DELETE("/:id", middleware.RequireRoles(lecturer), controllers.DeleteQuiz)

		// catalog
		quizzes.GET("/published", controllers.GetPublishedQuizzes)
		quizzes.GET("/:id", middleware.OptionalAuthMiddleware(), controllers.GetQuizDetail)

		// sessions
		quizzes.POST("/session/start", middleware.RequireRoles(student), controllers.StartQuizSession)
		quizzes.POST("/answer", middleware.RequireRoles(student), controllers.AnswerQuestion)
		quizzes.GET("/session/:id", middleware.AuthMiddleware(), controllers.GetQuizSession)
		quizzes.POST("/session/:id/submit", middleware.RequireRoles(student), controllers.SubmitQuizSession)
		quizzes.POST("/session/:id/video", middleware.RequireRoles(student), controllers.UploadSessionVideo)
	}

	ai := api.Group("/ai/questions")
	{
		ai.POST("/generate", middleware.RequireRoles(lecturer), controllers.GenerateQuestions)
		ai.GET("/:quizId/:materialId", middleware.RequireRoles(lecturer), controllers.GetGeneratedQuestions)
	}

	results := api.Group("/results")
	{
		results.Use(middleware.AuthMiddleware())
		results.GET("/my-results", controllers.GetMyResults)
		results.GET("/quiz/:quizId", controllers.GetQuizResults)
		results.GET("/quiz/:quizId/export", controllers.ExportQuizResults)
		results.GET("/:quizId/:studentId", controllers.GetResultDetails)
	}

	videos := api.Group("/videos")
	{
		videos.Use(middleware.AuthMiddleware())
		videos.GET("/:id", controllers.GetVideoSubmission)
	}

	r.GET("/ws/material/:id", ws.HandleMaterialWebSocket)
	r.GET("/ws/status", ws.HandleGlobalWebSocket)

	return r
}
