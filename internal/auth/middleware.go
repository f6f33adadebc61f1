package auth

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/Aawaiz-Soomro/LibraDB/pkg/database"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/models"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and re-reads the account row on
// every request, so a member whose approval was revoked after login loses
// access immediately rather than at token expiry.
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}
		token := parts[1]

		if h.isBlacklisted(token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token revoked"})
			return
		}

		claims, err := utils.ValidateJWT(token, h.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		var role string
		var approved bool
		err = database.DB.QueryRow(`SELECT role, approved FROM users WHERE id = ?`, claims.UserID).
			Scan(&role, &approved)
		if err == sql.ErrNoRows {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Account no longer exists"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if role == models.RoleMember && !approved {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account not approved"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_role", role)
		c.Next()
	}
}

// RequireRole allows the request through only for callers with the given
// role. Must run after AuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("user_role") != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}
