package middleware

import (
	"net/http"
	"strings"

	"mindful-backend/models"
	"mindful-backend/utils"

	"github.com/gin-gonic/gin"
)

// bearerToken accepts "Bearer <jwt>", a bare "<jwt>" and either form wrapped in quotes.
func bearerToken(header string) (string, bool) {
	header = strings.Trim(header, "\"' ")
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		header = "Bearer " + header
	}

	parts := strings.Fields(header)
	if len(parts) != 2 {
		return "", false
	}
	return strings.Trim(parts[1], "\"' "), true
}

// authenticate validates the bearer token and stores user_id and role on the context.
// It aborts with 401 and reports false when the caller is not authenticated.
func authenticate(c *gin.Context) bool {
	header := c.GetHeader("Authorization")
	if header == "" {
		utils.SendError(c, http.StatusUnauthorized, "Authorization header missing")
		return false
	}

	token, ok := bearerToken(header)
	if !ok {
		utils.SendError(c, http.StatusUnauthorized, "Invalid authorization format, expected: Bearer <token>")
		return false
	}

	claims, err := utils.DecodeJWT(token)
	if err != nil {
		utils.SendError(c, http.StatusUnauthorized, "Invalid or expired token")
		return false
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		utils.SendError(c, http.StatusUnauthorized, "User not found in token")
		return false
	}

	c.Set("user_id", userID)
	if role, ok := claims["role"]; ok {
		c.Set("role", role)
	}
	return true
}

// JWTAuth requires a valid bearer token and exposes user_id and role to handlers.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if authenticate(c) {
			c.Next()
		}
	}
}

// AdminAuth is JWTAuth restricted to the ADMIN role.
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			return
		}

		role, exists := c.Get("role")
		if !exists {
			utils.SendError(c, http.StatusUnauthorized, "Role not found in token")
			return
		}
		if role != string(models.AdminRole) {
			utils.SendError(c, http.StatusForbidden, "Access denied: admin role required")
			return
		}

		c.Next()
	}
}
