package handler

import (
	"StreamVault/internal/dto"
	"StreamVault/internal/service"
	"StreamVault/utils"

	"github.com/gin-gonic/gin"
)

// CreateVideo registers a new video record awaiting its upload.
func CreateVideo(c *gin.Context) {
	var req dto.CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, err)
		return
	}
	video, err := service.CreateVideo(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, video)
}

// ListVideos returns a filtered page of videos.
func ListVideos(c *gin.Context) {
	var req dto.VideoListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.Fail(c, err)
		return
	}
	videos, total, err := service.ListVideos(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	utils.Success(c, dto.VideoListResponse{
		Videos:   videos,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetVideo returns the full video record.
func GetVideo(c *gin.Context) {
	video, err := service.GetVideoById(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, video)
}

// GetVideoStatus returns the lifecycle state and processing progress.
func GetVideoStatus(c *gin.Context) {
	video, err := service.GetVideoById(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{
		"video_id":            video.ID,
		"status":              video.Status,
		"processing_progress": video.ProcessingProgress,
		"error_message":       video.ErrorMessage,
		"uploaded_at":         video.UploadedAt,
		"processed_at":        video.ProcessedAt,
	})
}

// DeleteVideo removes a video and its stored objects.
func DeleteVideo(c *gin.Context) {
	if err := service.DeleteVideo(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{"deleted": true})
}

// GetVideoStats returns viewing statistics for a video.
func GetVideoStats(c *gin.Context) {
	stats, err := service.GetVideoStatistics(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, stats)
}
