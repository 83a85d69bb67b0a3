package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/circuitboard-backend/internal/http/handlers"
	"github.com/yungbote/circuitboard-backend/internal/http/middleware"
)

type RouterConfig struct {
	AllowOrigins   []string
	AuthMiddleware *middleware.AuthMiddleware
	CircuitHandler *handlers.CircuitHandler
	ContentHandler *handlers.ContentHandler
	ChatHandler    *handlers.ChatHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	{
		api.POST("/circuits", cfg.CircuitHandler.Create)
		api.GET("/circuits", cfg.CircuitHandler.List)
		api.GET("/circuits/:id", cfg.CircuitHandler.Get)
		api.PUT("/circuits/:id", cfg.CircuitHandler.Update)
		api.DELETE("/circuits/:id", cfg.CircuitHandler.Delete)

		api.POST("/circuits/:id/content", cfg.ContentHandler.Upload)
		api.POST("/circuits/:id/content/transcribe", cfg.ContentHandler.Transcribe)
		api.GET("/circuits/:id/content", cfg.ContentHandler.ListActive)
		api.POST("/content/:id/archive", cfg.ContentHandler.Archive)
		api.GET("/content/:id/download", cfg.ContentHandler.Download)

		api.POST("/circuits/:id/chat", cfg.ChatHandler.Respond)
	}

	return router
}
