package handler

import (
	"StreamVault/internal/dto"
	"StreamVault/internal/service"
	"StreamVault/utils"
	"errors"

	"github.com/gin-gonic/gin"
)

// UpdateProgress saves the playback position reported by a viewer.
func UpdateProgress(c *gin.Context) {
	var req dto.ProgressUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, err)
		return
	}
	resp, err := service.UpdateProgress(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, resp)
}

// GetProgress returns the saved playback position for a session.
// Sessions that never reported progress get a zeroed response.
func GetProgress(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		sessionID = c.GetHeader("X-Session-ID")
	}
	if sessionID == "" {
		utils.Fail(c, errors.New("session_id is required"))
		return
	}
	resp, err := service.GetProgress(c.Request.Context(), c.Param("id"), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	if resp == nil {
		resp = &dto.ProgressResponse{VideoID: c.Param("id")}
	}
	utils.Success(c, resp)
}
