package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mindhaven/utils"
)

// SessionAuthMiddleware verifies the viewer's session token and stores the
// viewer ID in the request context. Token issuance and refresh belong to the
// external session service.
func SessionAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		viewerID, err := utils.ExtractViewerIDFromToken(tokenString)
		if err != nil || viewerID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		c.Set("viewerID", viewerID)
		c.Next()
	}
}
