package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/edulink/mentorhub/internal/app/controllers"
	"github.com/edulink/mentorhub/internal/app/models"
	"github.com/edulink/mentorhub/internal/app/models/dto"
	"github.com/edulink/mentorhub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	problemController *controllers.ProblemController,
	chatController *controllers.ChatController,
	eventController *controllers.EventController,
	knowledgeController *controllers.KnowledgeController,
	announcementController *controllers.AnnouncementController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	})

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		users := authenticated.Group("/users")
		{
			users.GET("/me", userController.GetProfile)
			users.PUT("/me", userController.UpdateProfile)
			users.PUT("/me/skills", userController.UpdateSkills)
		}

		authenticated.GET("/mentors", userController.ListMentors)

		problems := authenticated.Group("/problems")
		{
			problems.POST("", problemController.Create)
			problems.GET("", problemController.List)
			problems.GET("/:id", problemController.GetByID)
			problems.PATCH("/:id", problemController.Update)
			problems.GET("/:id/mentors", problemController.MatchingMentors)
			problems.GET("/:id/messages", chatController.GetMessages)
			problems.POST("/:id/messages", chatController.SendMessage)

			// Taking a problem requires the MENTOR role
			mentorOnly := problems.Group("")
			mentorOnly.Use(authMiddleware.RoleRequired(models.RoleMentor))
			{
				mentorOnly.POST("/:id/assign", problemController.Assign)
			}
		}

		events := authenticated.Group("/events")
		{
			events.POST("", eventController.Create)
			events.GET("", eventController.List)
			events.DELETE("/:id", eventController.Delete)
			events.POST("/:id/register", eventController.Register)
		}

		knowledge := authenticated.Group("/knowledge")
		{
			knowledge.POST("", knowledgeController.Create)
			knowledge.GET("", knowledgeController.List)
			knowledge.GET("/:id", knowledgeController.GetByID)
			knowledge.GET("/:id/job", knowledgeController.JobStatus)
		}

		announcements := authenticated.Group("/announcements")
		{
			announcements.GET("", announcementController.List)
			announcements.POST("", announcementController.Create)
			announcements.POST("/technews/refresh", announcementController.RefreshTechNews)
		}
	}
}
