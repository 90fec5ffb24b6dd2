package handler

import (
	"StreamVault/internal/dto"
	"StreamVault/internal/service"
	"StreamVault/model"
	"StreamVault/utils"

	"github.com/gin-gonic/gin"
)

// UploadVideo receives the multipart payload for a pending video and
// streams it into object storage.
func UploadVideo(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.Fail(c, err)
		return
	}
	defer file.Close()

	session, err := service.BeginUpload(c.Request.Context(), c.Param("id"), file)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, dto.UploadResponse{
		VideoID:         c.Param("id"),
		UploadSessionID: session.ID,
		SessionToken:    session.SessionToken,
		Status:          model.StatusProcessing,
	})
}
