package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/responsehub/backend/internal/auth"
	"github.com/responsehub/backend/internal/cache"
	"github.com/responsehub/backend/internal/controllers"
	"github.com/responsehub/backend/internal/middleware"
	"github.com/responsehub/backend/internal/repository"
	"github.com/responsehub/backend/internal/services"
)

const Version = "1.0.0"

// Dependencies is everything the HTTP layer needs from the process.
type Dependencies struct {
	Repo              repository.Repository
	Tokens            *auth.TokenManager
	Revocations       cache.RevocationStore
	StrictTransitions bool
}

// SetupRoutes configures all application routes
func SetupRoutes(r *gin.Engine, deps Dependencies) {
	// Initialize services
	authService := services.NewAuthService(deps.Repo, deps.Tokens, deps.Revocations)
	incidentService := services.NewIncidentService(deps.Repo)
	volunteerService := services.NewVolunteerService(deps.Repo)
	assignmentService := services.NewAssignmentService(deps.Repo, deps.StrictTransitions)

	// Initialize controllers
	authController := controllers.NewAuthController(authService)
	incidentController := controllers.NewIncidentController(incidentService)
	volunteerController := controllers.NewVolunteerController(volunteerService)
	assignmentController := controllers.NewAssignmentController(assignmentService)

	r.GET("/health", healthHandler(deps.Repo))

	api := r.Group("/api")
	{
		requireAuth := middleware.AuthMiddleware(authService)

		// Auth routes
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authController.Register)
			authRoutes.POST("/login", authController.Login)
			authRoutes.GET("/profile", requireAuth, authController.Profile)
			authRoutes.POST("/logout", requireAuth, authController.Logout)
		}

		// Protected routes
		protected := api.Group("/")
		protected.Use(requireAuth)
		{
			incidents := protected.Group("/incidents")
			{
				incidents.GET("", incidentController.List)
				incidents.POST("", incidentController.Create)
				incidents.GET("/:id", incidentController.Get)
				incidents.PUT("/:id", incidentController.Update)
				incidents.DELETE("/:id", incidentController.Delete)
			}

			volunteers := protected.Group("/volunteers")
			{
				volunteers.GET("", volunteerController.List)
				volunteers.POST("", volunteerController.Create)
				volunteers.GET("/:userId", volunteerController.Get)
				volunteers.PUT("/:userId", volunteerController.Update)
			}

			assignments := protected.Group("/assignments")
			{
				assignments.GET("", assignmentController.List)
				assignments.POST("", assignmentController.Create)
				assignments.GET("/:id", assignmentController.Get)
				assignments.PUT("/:id", assignmentController.Update)
				assignments.DELETE("/:id", assignmentController.Delete)
			}
		}
	}
}

func healthHandler(repo repository.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeStatus := "ok"
		var storeError string
		if err := repo.Ping(c.Request.Context()); err != nil {
			storeStatus = "error"
			storeError = err.Error()
		}

		overallStatus := "ok"
		statusCode := http.StatusOK
		if storeStatus != "ok" {
			overallStatus = "error"
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, gin.H{
			"status":    overallStatus,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   Version,
			"services": gin.H{
				"database": gin.H{
					"status": storeStatus,
					"error":  storeError,
				},
			},
		})
	}
}
