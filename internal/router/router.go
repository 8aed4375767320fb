// Package router wires repositories, services and handlers into a gin engine.
package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/authz"
	"github.com/yukikurage/task-tracker-api/internal/config"
	"github.com/yukikurage/task-tracker-api/internal/handlers"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/validation"
	"gorm.io/gorm"
)

// New builds the HTTP engine for cfg backed by db.
func New(cfg *config.Config, db *gorm.DB) (*gin.Engine, error) {
	if err := validation.Register(); err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authService, err := services.NewAuthService(userRepo, cfg.Token.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}
	tokens := auth.NewTokenService(cfg.Token.JWTSecret, cfg.Token.TTL, cfg.Token.Issuer)
	resolver := auth.NewResolver(tokens, userRepo)
	guard := authz.NewGuard(projectRepo)

	authHandler := handlers.NewAuthHandler(authService, tokens)
	projectHandler := handlers.NewProjectHandler(services.NewProjectService(projectRepo, userRepo, guard))
	taskHandler := handlers.NewTaskHandler(services.NewTaskService(taskRepo, projectRepo, userRepo, guard))

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task Tracker API is running",
		})
	})

	requireAuth := middleware.RequireAuth(resolver)

	api := r.Group("/api")
	{
		// Auth routes
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/signup", authHandler.Signup)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PATCH("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.GET("/:id/collaborators", projectHandler.ListCollaborators)
			projects.POST("/:id/collaborators", projectHandler.AddCollaborator)
			projects.PATCH("/:id/collaborators/:user_id", projectHandler.UpdateCollaborator)
			projects.DELETE("/:id/collaborators/:user_id", projectHandler.RemoveCollaborator)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}
	}

	return r, nil
}
