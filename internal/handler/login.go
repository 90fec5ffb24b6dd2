package handler

import (
	"StreamVault/internal/dto"
	"StreamVault/internal/service"
	"StreamVault/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Login authenticates an operator and issues a bearer token.
func Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, err)
		return
	}
	user, ok := service.Users.AuthenticateUser(req.Username, req.Password)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": -1, "msg": "invalid username or password"})
		return
	}
	token, err := utils.GenerateToken(user.Username, user.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   24 * 3600,
		Username:    user.Username,
		Role:        user.Role,
	})
}
