package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quanghuy/intelliquiz-backend/utils"
)

// authenticate verifies the bearer token and stores the claims in the
// context. Aborts with 401 and returns false on any failure.
func authenticate(c *gin.Context) bool {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		utils.RespondError(c, http.StatusUnauthorized, "No token provided")
		c.Abort()
		return false
	}

	// "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid Authorization header")
		c.Abort()
		return false
	}

	claims, err := utils.VerifyToken(parts[1])
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
		c.Abort()
		return false
	}

	c.Set("user_id", claims.UserID)
	c.Set("email", claims.Email)
	c.Set("role", claims.Role)
	return true
}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware parses the bearer token when one is present and
// valid, and lets the request through anonymously otherwise. For routes that
// show more to an authenticated caller but are public to read.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Next()
			return
		}

		claims, err := utils.VerifyToken(parts[1])
		if err != nil {
			c.Next()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireRoles gates a route to the listed roles, authenticating first.
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			return
		}

		role := c.GetString("role")
		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}

		utils.RespondError(c, http.StatusForbidden, "Access denied")
		c.Abort()
	}
}
