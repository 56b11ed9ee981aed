package models

// GenerateAestheticRequest 生成美学内容请求结构体
type GenerateAestheticRequest struct {
	Mood         string `json:"mood" binding:"required"`
	MoodEmoji    string `json:"moodEmoji"`
	JournalEntry string `json:"journalEntry" binding:"required"`
}
