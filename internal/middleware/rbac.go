package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/vqdung71104/student-management-sub001/internal/models"
	appErrors "github.com/vqdung71104/student-management-sub001/pkg/errors"
	"github.com/vqdung71104/student-management-sub001/pkg/response"
)

// RequireRoles only admits callers holding one of the roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// StudentScope admits the request when the caller may act for the student
// named by the path parameter. Requests without claims pass through so the
// routes keep working with auth disabled.
func StudentScope(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			c.Next()
			return
		}
		if !claims.CanActFor(c.Param(param)) {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "cannot act for another student"))
			c.Abort()
			return
		}
		c.Next()
	}
}
