package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "todoapi/internal/app"
	"todoapi/internal/bootstrap"
	"todoapi/internal/repository"
	"todoapi/internal/transport/http/handler"
	"todoapi/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.CORS(app.Config.App.AllowOrigins))

	userRepo := repository.NewUserRepository(app.DB)
	taskRepo := repository.NewTaskRepository(app.DB)
	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireHour)*time.Hour,
	)
	taskService := appsvc.NewTaskService(taskRepo)

	healthHandler := handler.NewHealthHandler(app)
	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)

	router.GET("/", healthHandler.Root)
	router.GET("/health", healthHandler.Check)

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/signup", authHandler.Signup)
	authGroup.POST("/signin", authHandler.Signin)
	authGroup.POST("/signout", authHandler.Signout)
	authGroup.GET("/me", middleware.Auth(app.Config.Auth.JWTSecret), authHandler.Me)

	// The :user_id segment is only an authorization check; data access is
	// always keyed by the token subject.
	taskGroup := api.Group("/:user_id/tasks")
	taskGroup.Use(middleware.Auth(app.Config.Auth.JWTSecret), middleware.RequireUserMatch())
	taskGroup.GET("", taskHandler.List)
	taskGroup.POST("", taskHandler.Create)
	taskGroup.GET("/:task_id", taskHandler.Get)
	taskGroup.PUT("/:task_id", taskHandler.Update)
	taskGroup.DELETE("/:task_id", taskHandler.Delete)

	return router
}
