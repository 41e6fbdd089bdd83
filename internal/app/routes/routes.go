package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yaqubtawab/siwes-backend/internal/app/controllers"
	"github.com/yaqubtawab/siwes-backend/internal/app/models"
	"github.com/yaqubtawab/siwes-backend/internal/app/models/dto"
	"github.com/yaqubtawab/siwes-backend/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	logbookController *controllers.LogbookController,
	supervisorController *controllers.SupervisorController,
	clearanceController *controllers.ClearanceController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/profile", authController.Me)
		authenticated.POST("/auth/logout", authController.Logout)

		// Logbook routes (student role)
		logbook := authenticated.Group("/logbook")
		logbook.Use(authMiddleware.RoleRequired(string(models.RoleStudent)))
		{
			logbook.GET("", logbookController.ListEntries)
			logbook.POST("", logbookController.CreateEntry)
			logbook.GET("/stats", logbookController.GetStats)
			logbook.GET("/:id", logbookController.GetEntry)
			logbook.PUT("/:id", logbookController.UpdateEntry)
			logbook.POST("/:id/submit", logbookController.SubmitEntry)
			logbook.DELETE("/:id", logbookController.DeleteEntry)
		}

		// Supervisor routes (either supervisor role)
		supervisor := authenticated.Group("/supervisor")
		supervisor.Use(authMiddleware.RoleRequired(
			string(models.RoleSupervisorIndustry),
			string(models.RoleSupervisorSchool),
		))
		{
			supervisor.GET("/students", supervisorController.AssignedStudents)
			supervisor.GET("/students/:id/progress", supervisorController.StudentProgress)
			supervisor.GET("/reviews/pending", supervisorController.PendingReviews)
			supervisor.GET("/entries", supervisorController.AllStudentEntries)
			supervisor.POST("/entries/:id/review", supervisorController.ReviewEntry)
			supervisor.GET("/stats", supervisorController.Stats)
		}

		// Clearance routes
		clearance := authenticated.Group("/clearance")
		{
			clearance.GET("/students/:id", clearanceController.GetStudentClearance)

			clearanceSchoolOnly := clearance.Group("")
			clearanceSchoolOnly.Use(authMiddleware.RoleRequired(string(models.RoleSupervisorSchool)))
			{
				clearanceSchoolOnly.GET("/ready", clearanceController.Ready)
				clearanceSchoolOnly.POST("/students/:id/clear", clearanceController.ClearStudent)
			}
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})

	// Swagger routes are set up in bootstrap.go already
}
