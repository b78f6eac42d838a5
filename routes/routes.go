package routes

import (
	"github.com/gin-gonic/gin"

	"planhub/controllers"
	"planhub/middleware"
)

// SetupRoutes configures all application routes
func SetupRoutes(r *gin.Engine) {
	// Public routes (no authentication required)
	public := r.Group("/api")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/login", controllers.Login)
			auth.POST("/register", controllers.Register)
		}
	}

	// Protected routes (authentication required)
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/auth/refresh", controllers.RefreshToken)

		protected.GET("/profile", controllers.GetProfile)
		protected.PUT("/profile", controllers.UpdateProfile)
		protected.POST("/profile/change-password", controllers.ChangePassword)

		// Projects
		projects := protected.Group("/projects")
		{
			projects.POST("", middleware.ManagerAuthMiddleware(), controllers.CreateProject)
			projects.GET("", controllers.GetProjects)
			projects.GET("/:id", controllers.GetProjectByID)
			projects.PUT("/:id", controllers.UpdateProject)
			projects.PATCH("/:id/status", controllers.UpdateProjectStatus)
			projects.DELETE("/:id", middleware.AdminAuthMiddleware(), controllers.DeleteProject)
			projects.GET("/:id/summary", controllers.GetProjectSummary)

			// Tasks
			projects.POST("/:id/tasks", controllers.CreateTask)
			projects.GET("/:id/tasks", controllers.GetProjectTasks)
			projects.GET("/:id/tasks/:taskId", controllers.GetTaskByID)
			projects.PUT("/:id/tasks/:taskId", controllers.UpdateTask)
			projects.PUT("/:id/tasks/:taskId/status", controllers.UpdateTaskStatus)
			projects.DELETE("/:id/tasks/:taskId", controllers.DeleteTask)

			// Milestones
			projects.POST("/:id/milestones", controllers.CreateMilestone)
			projects.GET("/:id/milestones", controllers.GetProjectMilestones)
			projects.PUT("/:id/milestones/:milestoneId", controllers.UpdateMilestone)
			projects.PUT("/:id/milestones/:milestoneId/status", controllers.UpdateMilestoneStatus)
			projects.DELETE("/:id/milestones/:milestoneId", controllers.DeleteMilestone)

			// Budget items
			projects.POST("/:id/budget-items", controllers.CreateBudgetItem)
			projects.GET("/:id/budget-items", controllers.GetProjectBudgetItems)
			projects.PUT("/:id/budget-items/:itemId", controllers.UpdateBudgetItem)
			projects.DELETE("/:id/budget-items/:itemId", controllers.DeleteBudgetItem)

			// Stakeholders
			projects.POST("/:id/stakeholders", controllers.CreateStakeholder)
			projects.GET("/:id/stakeholders", controllers.GetProjectStakeholders)
			projects.PUT("/:id/stakeholders/:stakeholderId", controllers.UpdateStakeholder)
			projects.DELETE("/:id/stakeholders/:stakeholderId", controllers.DeleteStakeholder)

			// Members
			projects.POST("/:id/members", controllers.AddProjectMember)
			projects.GET("/:id/members", controllers.GetProjectMembers)
			projects.PUT("/:id/members/:memberId", controllers.UpdateProjectMember)
			projects.DELETE("/:id/members/:memberId", controllers.RemoveProjectMember)

			// Files
			projects.POST("/:id/files", controllers.UploadProjectFile)
			projects.GET("/:id/files", controllers.GetProjectFiles)
			projects.DELETE("/:id/files/:fileId", controllers.DeleteProjectFile)

			// Time entries and calendar
			projects.POST("/:id/time-entries", controllers.CreateTimeEntry)
			projects.GET("/:id/time-entries", controllers.GetProjectTimeEntries)
			projects.DELETE("/:id/time-entries/:entryId", controllers.DeleteTimeEntry)
			projects.GET("/:id/calendar", controllers.GetWeekCalendar)

			// Activity feed
			projects.GET("/:id/activity", controllers.GetProjectActivity)
		}

		// Entity timeline across projects
		protected.GET("/activity/:entityType/:entityId", controllers.GetEntityHistory)

		// Crew (admin/manager only)
		crew := protected.Group("/crew")
		crew.Use(middleware.ManagerAuthMiddleware())
		{
			crew.POST("", controllers.CreateCrewMember)
			crew.GET("", controllers.GetCrewMembers)
			crew.GET("/:id", controllers.GetCrewMemberByID)
			crew.PUT("/:id", controllers.UpdateCrewMember)
			crew.DELETE("/:id", controllers.DeleteCrewMember)
		}

		// Ad-hoc requests
		requests := protected.Group("/requests")
		{
			requests.POST("", controllers.CreateAdHocRequest)
			requests.GET("", controllers.GetAdHocRequests)
			requests.PUT("/:id", controllers.UpdateAdHocRequest)
			requests.PUT("/:id/status", middleware.ManagerAuthMiddleware(), controllers.UpdateAdHocRequestStatus)
			requests.DELETE("/:id", middleware.ManagerAuthMiddleware(), controllers.DeleteAdHocRequest)
		}
	}
}
