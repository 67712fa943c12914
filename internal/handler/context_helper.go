package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/vqdung71104/student-management-sub001/internal/middleware"
	"github.com/vqdung71104/student-management-sub001/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.Claims(c)
}
