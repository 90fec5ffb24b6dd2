package handler

import (
	"StreamVault/config"
	"StreamVault/internal/service"
	"StreamVault/internal/task"
	"StreamVault/utils"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// StreamVideo serves the video payload, honoring single byte ranges.
// Every request also counts as a view for its session.
func StreamVideo(c *gin.Context) {
	videoID := c.Param("id")
	sessionID := c.GetHeader("X-Session-ID")
	if sessionID == "" {
		sessionID = utils.GetToken()
	}

	data, contentType, err := service.StreamContent(c.Request.Context(), videoID)
	if err != nil {
		respondError(c, err)
		return
	}

	err = service.RecordView(
		c.Request.Context(),
		videoID,
		sessionID,
		c.Query("user_id"),
		c.ClientIP(),
		c.Request.UserAgent(),
	)
	if err != nil {
		log.Println("record view failed:", err)
	}

	total := int64(len(data))
	c.Header("Accept-Ranges", "bytes")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Header("X-Session-ID", sessionID)

	start, end, ok := service.ParseRange(c.GetHeader("Range"), total)
	if !ok {
		c.Data(http.StatusOK, contentType, data)
		return
	}
	c.Header("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, total))
	c.Data(http.StatusPartialContent, contentType, data[start:end+1])
}

// GetThumbnail serves the thumbnail JPEG. When no thumbnail exists yet
// for a completed video, a thumbnail job is enqueued and the request
// answered with 202.
func GetThumbnail(c *gin.Context) {
	videoID := c.Param("id")
	data, err := service.GetThumbnailContent(c.Request.Context(), videoID)
	if err == nil {
		c.Header("Cache-Control", "public, max-age=3600")
		c.Data(http.StatusOK, "image/jpeg", data)
		return
	}

	var notFound *service.NotFoundError
	if errors.As(err, &notFound) {
		video, getErr := service.GetVideoById(c.Request.Context(), videoID)
		if getErr != nil {
			respondError(c, getErr)
			return
		}
		if video.IsReady() {
			if qErr := task.EnqueueThumbnail(c.Request.Context(), videoID); qErr != nil {
				respondError(c, qErr)
				return
			}
			c.JSON(http.StatusAccepted, gin.H{"code": 0, "msg": "thumbnail generation scheduled"})
			return
		}
	}
	respondError(c, err)
}

// GetVideoURL returns a presigned direct download URL.
func GetVideoURL(c *gin.Context) {
	expiry := config.AppConfig.PresignDefaultTTL
	if raw := c.Query("expires_in"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			utils.Fail(c, errors.New("expires_in must be a positive number of seconds"))
			return
		}
		expiry = time.Duration(seconds) * time.Second
	}
	url, err := service.GetPresignedURL(c.Request.Context(), c.Param("id"), expiry)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{
		"url":        url,
		"expires_in": int(expiry.Seconds()),
	})
}
