package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tjgxx/DayZPDAServerTemplate/database"
	"github.com/tjgxx/DayZPDAServerTemplate/utils"
)

// TokenRevoked reports whether the token was denylisted by a logout. Always
// false when Redis is not configured.
func TokenRevoked(ctx context.Context, token string) bool {
	if database.RDB == nil {
		return false
	}
	exists, err := database.RDB.Exists(ctx, "denylist:"+token).Result()
	return err == nil && exists > 0
}

// AuthMiddleware authenticates requests: 401 when no token is presented,
// 403 when the token is malformed, expired or denylisted. The PDA client
// sends the bare token while the web client uses a Bearer prefix, so both
// forms are accepted.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		token := authHeader
		if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
			token = parts[1]
		}

		if TokenRevoked(c.Request.Context(), token) {
			utils.Forbidden(c, "token has been revoked")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			utils.Forbidden(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("token", token)
		c.Next()
	}
}

func GetUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

func GetToken(c *gin.Context) string {
	return c.GetString("token")
}
