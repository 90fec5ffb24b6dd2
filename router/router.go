package router

import (
	"StreamVault/internal/handler"
	"StreamVault/utils"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the HTTP routing table. Playback endpoints are
// public; management endpoints require a bearer token.
func SetupRouter() *gin.Engine {
	r := gin.Default()
	r.Use(utils.CORSMiddleware())

	api := r.Group("/api")
	{
		api.POST("/login", handler.Login)

		api.GET("/videos/:id", handler.GetVideo)
		api.GET("/videos/:id/status", handler.GetVideoStatus)
		api.GET("/videos/:id/stream", handler.StreamVideo)
		api.GET("/videos/:id/thumbnail", handler.GetThumbnail)
		api.POST("/videos/:id/progress", handler.UpdateProgress)
		api.GET("/videos/:id/progress", handler.GetProgress)

		auth := api.Group("", utils.AuthMiddleware())
		{
			auth.POST("/videos", handler.CreateVideo)
			auth.GET("/videos", handler.ListVideos)
			auth.DELETE("/videos/:id", handler.DeleteVideo)
			auth.POST("/videos/:id/upload", handler.UploadVideo)
			auth.GET("/videos/:id/url", handler.GetVideoURL)
			auth.GET("/videos/:id/stats", handler.GetVideoStats)
		}
	}
	return r
}
