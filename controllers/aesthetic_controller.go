package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"MoodMuseGo/config"
	"MoodMuseGo/models"
	"MoodMuseGo/services"

	"github.com/gin-gonic/gin"
)

// 会话缓存有效期
const sessionCacheTTL = time.Hour

type AestheticController struct {
	service *services.AestheticService
	store   services.SessionStore
}

func NewAestheticController(service *services.AestheticService, store services.SessionStore) *AestheticController {
	return &AestheticController{
		service: service,
		store:   store,
	}
}

// GenerateAesthetic 处理美学内容生成请求
// 认证可选：携带有效令牌时会话关联用户，否则创建匿名会话
func (ac *AestheticController) GenerateAesthetic(c *gin.Context) {
	var req models.GenerateAestheticRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request",
			"error":   err.Error(),
		})
		return
	}

	// 可选认证中间件写入的 uid，匿名请求不存在
	var userID *string
	if uid, exists := c.Get("uid"); exists {
		if uidStr, ok := uid.(string); ok && uidStr != "" {
			userID = &uidStr
		}
	}

	result, err := ac.service.GenerateAesthetic(c.Request.Context(), req, userID)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "Invalid request",
				"error":   validationErr.Error(),
			})
			return
		}

		config.Logger.Errorw("生成美学内容失败",
			"error", err,
			"mood", req.Mood,
			"userID", userID,
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to generate aesthetic content. Please check your OpenAI API key and try again.",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSession 按ID查询会话，优先读Redis缓存
func (ac *AestheticController) GetSession(c *gin.Context) {
	id := c.Param("id")

	cacheKey := "mood_session:" + id
	if config.RedisClient != nil {
		if cached, err := config.RedisClient.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			var session models.MoodSession
			if err := json.Unmarshal([]byte(cached), &session); err == nil {
				c.JSON(http.StatusOK, session)
				return
			}
		}
	}

	session, err := ac.store.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to fetch session",
			"error":   err.Error(),
		})
		return
	}

	// 会话创建后不会再变化，可以安全缓存
	if config.RedisClient != nil {
		if data, err := json.Marshal(session); err == nil {
			if err := config.RedisClient.Set(c.Request.Context(), cacheKey, data, sessionCacheTTL).Err(); err != nil {
				config.Logger.Errorw("缓存会话失败", "error", err, "sessionID", id)
			}
		}
	}

	c.JSON(http.StatusOK, session)
}

// GetMySessions 查询当前用户的全部会话
func (ac *AestheticController) GetMySessions(c *gin.Context) {
	uid, exists := c.Get("uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	sessions, err := ac.store.ListByUser(c.Request.Context(), uid.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to fetch sessions",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// PurgeSessionCache 清除指定会话的Redis缓存（仅限内部调用）
func (ac *AestheticController) PurgeSessionCache(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少会话ID"})
		return
	}

	if config.RedisClient == nil {
		c.JSON(http.StatusOK, gin.H{"message": "缓存未启用"})
		return
	}

	if err := config.RedisClient.Del(c.Request.Context(), "mood_session:"+id).Err(); err != nil {
		config.Logger.Errorw("清除会话缓存失败", "error", err, "sessionID", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "清除缓存失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "缓存已清除"})
}

// GetMoodSuggestions 返回静态情绪建议列表
func (ac *AestheticController) GetMoodSuggestions(c *gin.Context) {
	suggestions := []models.MoodSuggestion{
		{Emoji: "😊", Mood: "happy", Description: "Bright and cheerful"},
		{Emoji: "😌", Mood: "dreamy", Description: "Soft and ethereal"},
		{Emoji: "😏", Mood: "baddie", Description: "Confident and fierce"},
		{Emoji: "🥺", Mood: "soft", Description: "Gentle and tender"},
		{Emoji: "🌙", Mood: "mysterious", Description: "Dark and enigmatic"},
		{Emoji: "💕", Mood: "romantic", Description: "Love and sweetness"},
		{Emoji: "⚡", Mood: "energetic", Description: "Bold and vibrant"},
		{Emoji: "🌸", Mood: "peaceful", Description: "Calm and serene"},
		{Emoji: "🔥", Mood: "fierce", Description: "Strong and powerful"},
		{Emoji: "🌻", Mood: "vintage", Description: "Nostalgic and classic"},
		{Emoji: "✨", Mood: "ethereal", Description: "Magical and otherworldly"},
		{Emoji: "🍂", Mood: "cozy", Description: "Warm and comfortable"},
	}
	c.JSON(http.StatusOK, suggestions)
}
