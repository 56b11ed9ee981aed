package services

import (
	"context"
	"sync"

	"MoodMuseGo/config"
	"MoodMuseGo/models"
)

// AestheticService 美学内容编排服务
// 负责将一次情绪日记输入变成完整的、已持久化的生成结果
type AestheticService struct {
	generator Generator
	store     SessionStore
	wg        sync.WaitGroup
}

func NewAestheticService(generator Generator, store SessionStore) *AestheticService {
	return &AestheticService{
		generator: generator,
		store:     store,
	}
}

// GenerateAesthetic 编排一次完整的美学内容生成
// userID 为认证用户ID，匿名调用传nil
//
// 流程：校验输入 -> 并发生成四项必需内容（全部成功才继续）->
// 基于穿搭提示词生成配图（失败仅记录日志）-> 持久化 -> 返回展示投影
func (s *AestheticService) GenerateAesthetic(ctx context.Context, req models.GenerateAestheticRequest, userID *string) (*models.AestheticResponse, error) {
	// 入口校验，任何生成调用之前完成
	if req.Mood == "" {
		return nil, &ValidationError{Field: "mood"}
	}
	if req.JournalEntry == "" {
		return nil, &ValidationError{Field: "journalEntry"}
	}

	// 并发生成四项必需内容，相互之间无依赖
	var (
		outfit    *models.Outfit
		moodboard *models.Moodboard
		poem      string
		playlist  *models.Playlist

		outfitErr    error
		moodboardErr error
		poemErr      error
		playlistErr  error
	)

	// join 使用每次调用自己的 WaitGroup，s.wg 仅用于优雅关闭时的全局等待
	var join sync.WaitGroup
	spawn := func(f func()) {
		join.Add(1)
		s.wg.Add(1)
		go func() {
			defer join.Done()
			defer s.wg.Done()
			f()
		}()
	}

	spawn(func() {
		outfit, outfitErr = s.generator.GenerateOutfit(ctx, req.Mood, req.JournalEntry)
	})
	spawn(func() {
		moodboard, moodboardErr = s.generator.GenerateMoodboard(ctx, req.Mood, req.JournalEntry)
	})
	spawn(func() {
		poem, poemErr = s.generator.GeneratePoem(ctx, req.Mood, req.JournalEntry)
	})
	spawn(func() {
		playlist, playlistErr = s.generator.GeneratePlaylist(ctx, req.Mood, req.JournalEntry)
	})
	join.Wait()

	// 四项内容全部必需，任一失败则整体失败，不持久化任何内容
	// 已发出的兄弟调用不会被取消，其结果被丢弃
	if outfitErr != nil {
		return nil, &GenerationError{Step: "outfit", Err: outfitErr}
	}
	if moodboardErr != nil {
		return nil, &GenerationError{Step: "moodboard", Err: moodboardErr}
	}
	if poemErr != nil {
		return nil, &GenerationError{Step: "poem", Err: poemErr}
	}
	if playlistErr != nil {
		return nil, &GenerationError{Step: "playlist", Err: playlistErr}
	}

	// 配图依赖穿搭结果，失败不影响整体流程，仅记录日志
	image, imageErr := s.generator.GenerateOutfitImage(ctx, outfit.ImagePrompt)
	if imageErr != nil {
		config.Logger.Errorw("生成穿搭配图失败",
			"error", imageErr,
			"mood", req.Mood,
		)
	} else {
		outfit.Image = image
	}

	session := &models.MoodSession{
		UserID:             userID,
		Mood:               req.Mood,
		MoodEmoji:          req.MoodEmoji,
		JournalEntry:       req.JournalEntry,
		GeneratedOutfit:    *outfit,
		GeneratedMoodboard: *moodboard,
		GeneratedPoem:      poem,
		GeneratedPlaylist:  *playlist,
	}

	if err := s.store.Create(ctx, session); err != nil {
		return nil, &PersistenceError{Err: err}
	}

	return &models.AestheticResponse{
		SessionID: session.ID,
		Outfit:    *outfit,
		Moodboard: *moodboard,
		Poem:      poem,
		Playlist:  *playlist,
	}, nil
}

// Wait 用于优雅关闭，等待未完成的生成调用
func (s *AestheticService) Wait() {
	s.wg.Wait()
}
