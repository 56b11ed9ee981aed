package models

import "time"

// MoodSession 情绪日记会话模型
type MoodSession struct {
	ID                 string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID             *string   `gorm:"type:varchar(50);index" json:"userId"` // 匿名会话为空
	Mood               string    `gorm:"type:varchar(50)" json:"mood"`
	MoodEmoji          string    `gorm:"type:varchar(20)" json:"moodEmoji"`
	JournalEntry       string    `gorm:"type:text" json:"journalEntry"`
	GeneratedOutfit    Outfit    `gorm:"type:json" json:"generatedOutfit"`
	GeneratedMoodboard Moodboard `gorm:"type:json" json:"generatedMoodboard"`
	GeneratedPoem      string    `gorm:"type:text" json:"generatedPoem"`
	GeneratedPlaylist  Playlist  `gorm:"type:json" json:"generatedPlaylist"`
	CreatedAt          time.Time `json:"createdAt"`
}

func (MoodSession) TableName() string {
	return "mood_sessions"
}
