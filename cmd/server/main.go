package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mfernan/user-tasks-api/internal/config"
	"github.com/mfernan/user-tasks-api/internal/database"
	"github.com/mfernan/user-tasks-api/internal/handlers"
	"github.com/mfernan/user-tasks-api/internal/middleware"
	"github.com/mfernan/user-tasks-api/internal/repository"
	"github.com/mfernan/user-tasks-api/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to the store selected by DATABASE_URL
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Wire repositories, services and handlers around the single DB handle
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	userService := services.NewUserService(userRepo)
	taskService := services.NewTaskService(taskRepo, userRepo)

	userHandler := handlers.NewUserHandler(userService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Initialize Gin router
	r := gin.Default()
	r.Use(middleware.RequestID())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	if cfg.CORSAllowedOrigins == "" || cfg.CORSAllowedOrigins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = strings.Split(cfg.CORSAllowedOrigins, ",")
	}
	r.Use(cors.New(corsConfig))

	// Root and health endpoints
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Welcome to the User Tasks API",
		})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "User Tasks API is running",
		})
	})

	// User routes
	users := r.Group("/users")
	{
		users.POST("", userHandler.CreateUser)
		users.GET("", userHandler.ListUsers)
		users.GET("/:id", userHandler.GetUser)
		users.GET("/:id/details", userHandler.GetUserDetails)
		users.PUT("/:id", userHandler.UpdateUser)
		users.PATCH("/:id/premium", userHandler.PromoteUser)
		users.DELETE("/:id", userHandler.DeleteUser)
		users.POST("/:id/tasks", taskHandler.CreateTaskForUser)
		users.GET("/:id/tasks", taskHandler.ListUserTasks)
	}

	// Task routes
	tasks := r.Group("/tasks")
	{
		tasks.GET("", taskHandler.ListTasks)
		tasks.GET("/:id", taskHandler.GetTask)
		tasks.PUT("/:id", taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
	}

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Server starting on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
