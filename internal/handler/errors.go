package handler

import (
	"StreamVault/internal/service"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError maps the service error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var (
		validation *service.ValidationError
		conflict   *service.ConflictError
		notFound   *service.NotFoundError
		notReady   *service.NotReadyError
		storageErr *service.StorageError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(validation.Status, gin.H{"code": -1, "msg": validation.Msg})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"code": -1, "msg": conflict.Msg})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"code": -1, "msg": notFound.Msg})
	case errors.As(err, &notReady):
		c.JSON(http.StatusNotFound, gin.H{"code": -1, "msg": notReady.Msg})
	case errors.As(err, &storageErr):
		log.Println("storage error:", err)
		c.JSON(http.StatusBadGateway, gin.H{"code": -1, "msg": "storage unavailable"})
	default:
		log.Println("internal error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": -1, "msg": "internal error"})
	}
}
