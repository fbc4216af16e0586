package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/minigolf/internal/api/handlers"
	"github.com/playmatatu/minigolf/internal/config"
	"github.com/playmatatu/minigolf/internal/game"
	"github.com/playmatatu/minigolf/internal/middleware"
)

// Services bundles what the route handlers depend on
type Services struct {
	Tracks  handlers.TrackStore
	Authors handlers.AuthorStore
	Courses *game.CourseService
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, svc Services, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Next()
		})
		log.Println("[DEV MODE] no-cache headers enabled for all routes")
	}

	auth := middleware.AuthMiddleware(cfg)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)
		v1.POST("/auth/login", handlers.Login(svc.Authors, cfg))

		v1.POST("/stroke", handlers.CalculateStroke)

		codec := v1.Group("/codec")
		{
			codec.POST("/compress", handlers.CompressData)
			codec.POST("/decompress", handlers.DecompressData)
		}

		tracks := v1.Group("/tracks")
		{
			tracks.GET("", handlers.ListTracks(svc.Tracks))
			tracks.POST("", auth, handlers.UploadTrack(svc.Tracks, cfg))
			tracks.GET("/:id", handlers.GetTrack(svc.Tracks))
			tracks.GET("/:id/map", handlers.GetTrackMap(svc.Courses))
			tracks.GET("/:id/tile", handlers.GetTile(svc.Courses))
			tracks.GET("/:id/magnets/force", handlers.GetMagnetForce(svc.Courses))
			tracks.POST("/:id/ratings", handlers.RateTrack(svc.Tracks, svc.Courses))
			tracks.POST("/:id/record", auth, handlers.PostRecord(svc.Tracks, svc.Courses))
			tracks.GET("/:id/ws", middleware.WebSocketCORSCheck(cfg), handlers.HandleTrackWebSocket(svc.Courses))
		}
	}
}
