package services

import (
	"fmt"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIClient 聚合文本生成和图片生成两类客户端
// JSONChat 强制json_object输出，用于结构化内容；Chat 用于纯文本（诗歌）
type OpenAIClient struct {
	JSONChat   llms.Model
	Chat       llms.Model
	Images     openaigo.ImageService
	ImageModel string
}

func NewOpenAIClient(apiKey, apiEndpoint, chatModel, imageModel string) (*OpenAIClient, error) {
	jsonOpts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(chatModel),
		openai.WithResponseFormat(&openai.ResponseFormat{
			Type: "json_object",
		}),
	}
	textOpts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(chatModel),
	}
	imageOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if apiEndpoint != "" {
		jsonOpts = append(jsonOpts, openai.WithBaseURL(apiEndpoint))
		textOpts = append(textOpts, openai.WithBaseURL(apiEndpoint))
		imageOpts = append(imageOpts, option.WithBaseURL(apiEndpoint))
	}

	jsonChat, err := openai.New(jsonOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI json client: %w", err)
	}

	chat, err := openai.New(textOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI text client: %w", err)
	}

	return &OpenAIClient{
		JSONChat:   jsonChat,
		Chat:       chat,
		Images:     openaigo.NewClient(imageOpts...).Images,
		ImageModel: imageModel,
	}, nil
}
