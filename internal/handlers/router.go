package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/brightpath-edu/assessment-engine/internal/services"
	"github.com/brightpath-edu/assessment-engine/internal/utils"
)

type HandlerManager struct {
	attemptHandler *AttemptHandler
	gradeHandler   *GradeHandler
	goalHandler    *GoalHandler
	xpHandler      *XPHandler
	exportHandler  *ExportHandler
}

func NewHandlerManager(
	attemptService services.AttemptService,
	gradeService services.GradeService,
	goalService services.GoalService,
	xpService services.XPService,
	exportService services.ExportService,
	validator *utils.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		attemptHandler: NewAttemptHandler(attemptService, validator, logger),
		gradeHandler:   NewGradeHandler(gradeService, validator, logger),
		goalHandler:    NewGoalHandler(goalService, validator, logger),
		xpHandler:      NewXPHandler(xpService, logger),
		exportHandler:  NewExportHandler(exportService, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Quiz routes
		quizzes := v1.Group("/quizzes")
		{
			quizzes.POST("", hm.attemptHandler.CreateQuiz)
			quizzes.GET("", hm.attemptHandler.ListQuizzes)
			quizzes.GET("/:id", hm.attemptHandler.GetQuiz)
			quizzes.DELETE("/:id", hm.attemptHandler.DeleteQuiz)
		}

		// Attempt routes
		attempts := v1.Group("/attempts")
		{
			attempts.POST("/start", hm.attemptHandler.StartAttempt)
			attempts.GET("/:id", hm.attemptHandler.GetAttempt)
			attempts.GET("/student/:student_id", hm.attemptHandler.GetAttemptsByStudent)

			// Live session routes
			attempts.GET("/sessions/:session_id", hm.attemptHandler.GetSession)
			attempts.POST("/sessions/:session_id/answer", hm.attemptHandler.SubmitAnswer)
			attempts.POST("/sessions/:session_id/advance", hm.attemptHandler.Advance)
			attempts.POST("/sessions/:session_id/retreat", hm.attemptHandler.Retreat)
			attempts.POST("/sessions/:session_id/submit", hm.attemptHandler.SubmitAttempt)
		}

		// Grade routes
		grades := v1.Group("/grades")
		{
			grades.PUT("/courses/:course_id/weights", hm.gradeHandler.SetWeights)
			grades.GET("/courses/:course_id/weights", hm.gradeHandler.GetWeights)
			grades.POST("/items", hm.gradeHandler.AddGradebookItem)
			grades.GET("/courses/:course_id/students/:student_id/items", hm.gradeHandler.ListGradebookItems)
			grades.POST("/courses/:course_id/students/:student_id/compute", hm.gradeHandler.ComputeGrade)
			grades.GET("/courses/:course_id/students/:student_id", hm.gradeHandler.GetLatestGrade)
			grades.GET("/courses/:course_id/students/:student_id/history", hm.gradeHandler.GetGradeHistory)
		}

		// Goal routes
		goals := v1.Group("/goals")
		{
			goals.PUT("/courses/:course_id/students/:student_id", hm.goalHandler.SetGoal)
			goals.GET("/courses/:course_id/students/:student_id", hm.goalHandler.GetGoal)
			goals.DELETE("/courses/:course_id/students/:student_id", hm.goalHandler.DeleteGoal)
			goals.GET("/courses/:course_id/students/:student_id/projection", hm.goalHandler.GetProjection)
		}

		// XP routes
		v1.GET("/xp/students/:student_id", hm.xpHandler.GetProfile)

		// Export routes
		v1.GET("/exports/courses/:course_id/students/:student_id/report-card", hm.exportHandler.ExportReportCard)
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "assessment-engine",
		})
	})
}
