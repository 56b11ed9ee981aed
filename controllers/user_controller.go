package controllers

import (
	"net/http"

	"MoodMuseGo/config"
	"MoodMuseGo/models"
	"github.com/gin-gonic/gin"
)

type UserController struct{}

// GetUser 获取当前用户信息
func (uc *UserController) GetUser(c *gin.Context) {
	userID, exists := c.Get("uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	userIDStr, ok := userID.(string)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "用户ID格式错误"})
		return
	}

	var user models.User
	if err := config.DB.Where("id = ?", userIDStr).First(&user).Error; err != nil {
		config.Logger.Errorw("数据库查询失败",
			"error", err,
			"userID", userIDStr,
		)
		c.JSON(http.StatusNotFound, gin.H{"error": "用户未找到"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": models.UserResponse{
			ID:       user.ID,
			Username: user.GetDisplayName(),
			Avatar:   user.Avatar,
			Email:    user.Email,
		},
	})
}
