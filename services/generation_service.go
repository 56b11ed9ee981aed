package services

import (
	"context"
	"encoding/json"
	"fmt"

	"MoodMuseGo/models"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/tmc/langchaingo/llms"
)

// Generator 生成客户端接口
// 前四个为必需内容生成，失败会中止整个请求；图片生成为尽力而为
type Generator interface {
	GenerateOutfit(ctx context.Context, mood, journalEntry string) (*models.Outfit, error)
	GenerateMoodboard(ctx context.Context, mood, journalEntry string) (*models.Moodboard, error)
	GeneratePoem(ctx context.Context, mood, journalEntry string) (string, error)
	GeneratePlaylist(ctx context.Context, mood, journalEntry string) (*models.Playlist, error)
	GenerateOutfitImage(ctx context.Context, imagePrompt string) (*models.OutfitImage, error)
}

// GenerationService 基于OpenAI的生成客户端实现
type GenerationService struct {
	client *OpenAIClient
}

func NewGenerationService(client *OpenAIClient) *GenerationService {
	return &GenerationService{
		client: client,
	}
}

// GenerateOutfit 根据情绪和日记生成穿搭
func (s *GenerationService) GenerateOutfit(ctx context.Context, mood, journalEntry string) (*models.Outfit, error) {
	prompt := fmt.Sprintf(`Based on the mood "%s" and this journal entry: "%s", create a fashion outfit that matches this aesthetic.

Respond with JSON in this exact format:
{
  "styleName": "aesthetic name for the outfit",
  "description": "detailed description of the outfit pieces",
  "colorPalette": ["#hex1", "#hex2", "#hex3", "#hex4"],
  "instagramCaption": "trendy caption with emojis",
  "imagePrompt": "detailed prompt for AI image generation of the outfit"
}`, mood, journalEntry)

	content, err := s.generateJSON(ctx,
		"You are a fashion stylist AI that creates trendy, aesthetic outfits based on moods and emotions. Focus on Gen Z and millennial fashion trends.",
		prompt)
	if err != nil {
		return nil, err
	}

	var outfit models.Outfit
	if err := json.Unmarshal([]byte(content), &outfit); err != nil {
		return nil, fmt.Errorf("解析穿搭响应失败: %v", err)
	}

	// 防御性校验响应结构
	if outfit.StyleName == "" || outfit.Description == "" || outfit.ImagePrompt == "" {
		return nil, fmt.Errorf("穿搭响应缺少必要字段")
	}
	if len(outfit.ColorPalette) == 0 {
		return nil, fmt.Errorf("穿搭响应缺少色板")
	}

	return &outfit, nil
}

// GenerateMoodboard 根据情绪和日记生成情绪板
func (s *GenerationService) GenerateMoodboard(ctx context.Context, mood, journalEntry string) (*models.Moodboard, error) {
	prompt := fmt.Sprintf(`Based on the mood "%s" and this journal entry: "%s", create a visual moodboard concept.

Respond with JSON in this exact format:
{
  "theme": "overall theme name",
  "elements": ["element1", "element2", "element3", "element4", "element5", "element6"],
  "colorScheme": ["#hex1", "#hex2", "#hex3", "#hex4"],
  "aestheticTags": ["tag1", "tag2", "tag3", "tag4", "tag5"]
}`, mood, journalEntry)

	content, err := s.generateJSON(ctx,
		"You are a visual designer AI that creates aesthetic moodboards. Focus on dreamy, artistic, and trendy visual elements.",
		prompt)
	if err != nil {
		return nil, err
	}

	var moodboard models.Moodboard
	if err := json.Unmarshal([]byte(content), &moodboard); err != nil {
		return nil, fmt.Errorf("解析情绪板响应失败: %v", err)
	}

	if moodboard.Theme == "" || len(moodboard.Elements) == 0 || len(moodboard.ColorScheme) == 0 {
		return nil, fmt.Errorf("情绪板响应缺少必要字段")
	}

	return &moodboard, nil
}

// GeneratePoem 根据情绪和日记生成诗歌，返回纯文本
// 返回内容约定以 "Title:" 行开头，展示层自行解析
func (s *GenerationService) GeneratePoem(ctx context.Context, mood, journalEntry string) (string, error) {
	prompt := fmt.Sprintf(`Based on the mood "%s" and this journal entry: "%s", write a beautiful, dreamy poem that captures the essence of these emotions. Make it romantic, aesthetic, and meaningful. The poem should be 2-3 stanzas with a poetic title.

Format the response as:
Title: [poem title]

[poem content with line breaks]`, mood, journalEntry)

	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart("You are a romantic poet AI that writes beautiful, aesthetic poetry. Focus on emotions, nature, dreams, and beauty. Write in a style that resonates with Gen Z aesthetics.")},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	response, err := s.client.Chat.GenerateContent(ctx, messages, llms.WithTemperature(0.7))
	if err != nil {
		return "", fmt.Errorf("生成诗歌失败: %v", err)
	}

	if len(response.Choices) == 0 || response.Choices[0].Content == "" {
		return "", fmt.Errorf("未生成有效诗歌内容")
	}

	return response.Choices[0].Content, nil
}

// GeneratePlaylist 根据情绪和日记生成歌单
func (s *GenerationService) GeneratePlaylist(ctx context.Context, mood, journalEntry string) (*models.Playlist, error) {
	prompt := fmt.Sprintf(`Based on the mood "%s" and this journal entry: "%s", create a curated music playlist that matches this vibe.

Respond with JSON in this exact format:
{
  "name": "playlist name with emojis",
  "description": "short description of the playlist vibe",
  "tracks": [
    {"artist": "Artist Name", "song": "Song Title", "duration": "3:25"},
    {"artist": "Artist Name", "song": "Song Title", "duration": "4:12"}
  ]
}

Include 8-12 real songs that match the mood. Focus on indie, pop, alternative, and dreamy genres popular with Gen Z.`, mood, journalEntry)

	content, err := s.generateJSON(ctx,
		"You are a music curator AI that creates aesthetic playlists. Focus on indie, alternative, pop, and dreamy music that matches emotional aesthetics.",
		prompt)
	if err != nil {
		return nil, err
	}

	var playlist models.Playlist
	if err := json.Unmarshal([]byte(content), &playlist); err != nil {
		return nil, fmt.Errorf("解析歌单响应失败: %v", err)
	}

	if playlist.Name == "" || len(playlist.Tracks) == 0 {
		return nil, fmt.Errorf("歌单响应缺少必要字段")
	}

	return &playlist, nil
}

// GenerateOutfitImage 根据穿搭提示词生成配图
func (s *GenerationService) GenerateOutfitImage(ctx context.Context, imagePrompt string) (*models.OutfitImage, error) {
	response, err := s.client.Images.Generate(ctx, openaigo.ImageGenerateParams{
		Model:   openaigo.ImageModel(s.client.ImageModel),
		Prompt:  fmt.Sprintf("Fashion outfit photo: %s. Style: aesthetic, dreamy, high-quality fashion photography, soft lighting, trendy Gen Z fashion", imagePrompt),
		N:       openaigo.Int(1),
		Size:    openaigo.ImageGenerateParamsSize1024x1024,
		Quality: openaigo.ImageGenerateParamsQualityStandard,
	})
	if err != nil {
		return nil, fmt.Errorf("生成穿搭配图失败: %v", err)
	}

	if len(response.Data) == 0 || response.Data[0].URL == "" {
		return nil, fmt.Errorf("未返回有效图片URL")
	}

	return &models.OutfitImage{URL: response.Data[0].URL}, nil
}

// generateJSON 以json_object模式调用聊天模型并返回原始内容
func (s *GenerationService) generateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(userPrompt)},
		},
	}

	response, err := s.client.JSONChat.GenerateContent(ctx, messages, llms.WithTemperature(0.7))
	if err != nil {
		return "", err
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("未生成有效内容")
	}

	return response.Choices[0].Content, nil
}
