package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Outfit AI生成的穿搭内容
type Outfit struct {
	StyleName        string       `json:"styleName"`
	Description      string       `json:"description"`
	ColorPalette     []string     `json:"colorPalette"`
	InstagramCaption string       `json:"instagramCaption"`
	ImagePrompt      string       `json:"imagePrompt"`
	Image            *OutfitImage `json:"image,omitempty"` // 图片生成失败时为空
}

// OutfitImage 穿搭配图
type OutfitImage struct {
	URL string `json:"url"`
}

// Moodboard AI生成的情绪板内容
type Moodboard struct {
	Theme         string   `json:"theme"`
	Elements      []string `json:"elements"`
	ColorScheme   []string `json:"colorScheme"`
	AestheticTags []string `json:"aestheticTags"`
}

// Playlist AI生成的歌单内容
type Playlist struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Tracks      []Track `json:"tracks"`
}

// Track 歌单中的单曲
type Track struct {
	Artist   string `json:"artist"`
	Song     string `json:"song"`
	Duration string `json:"duration"`
}

// 以下实现 driver.Valuer 和 sql.Scanner，生成内容以JSON列存储

func (o Outfit) Value() (driver.Value, error) {
	return json.Marshal(o)
}

func (o *Outfit) Scan(value interface{}) error {
	return scanJSON(value, o)
}

func (m Moodboard) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *Moodboard) Scan(value interface{}) error {
	return scanJSON(value, m)
}

func (p Playlist) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *Playlist) Scan(value interface{}) error {
	return scanJSON(value, p)
}

func scanJSON(value interface{}, dest interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	case nil:
		return nil
	default:
		return fmt.Errorf("无法解析JSON列: %T", value)
	}
}
