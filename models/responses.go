package models

// AestheticResponse 生成美学内容响应结构体
// 面向展示层的投影，不回传 userId 和 journalEntry
type AestheticResponse struct {
	SessionID string    `json:"sessionId"`
	Outfit    Outfit    `json:"outfit"`
	Moodboard Moodboard `json:"moodboard"`
	Poem      string    `json:"poem"`
	Playlist  Playlist  `json:"playlist"`
}

// MoodSuggestion 情绪建议结构体
type MoodSuggestion struct {
	Emoji       string `json:"emoji"`
	Mood        string `json:"mood"`
	Description string `json:"description"`
}

// UserResponse 用户响应结构体
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Email    string `json:"email"`
}
