package middleware

import (
	"MoodMuseGo/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 认证中间件，未认证请求直接拒绝
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			return
		}

		// 解析 JWT
		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			return
		}

		// 将 uid 存储在 gin.Context 中
		c.Set("uid", claims.UserID)
		c.Next()
	}
}

// OptionalAuthMiddleware 可选认证中间件
// 携带有效令牌时记录 uid，匿名请求照常放行
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString != "" {
			if claims, err := utils.ParseToken(tokenString); err == nil {
				c.Set("uid", claims.UserID)
			}
		}
		c.Next()
	}
}
