package services

import (
	"context"
	"errors"
	"time"

	"MoodMuseGo/models"
	"MoodMuseGo/utils"

	"gorm.io/gorm"
)

// SessionStore 情绪会话存储接口
type SessionStore interface {
	Create(ctx context.Context, session *models.MoodSession) error
	GetByID(ctx context.Context, id string) (*models.MoodSession, error)
	ListByUser(ctx context.Context, userID string) ([]models.MoodSession, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*models.MoodSession, error)
}

// GormSessionStore 基于gorm的会话存储实现
type GormSessionStore struct {
	db *gorm.DB
}

func NewGormSessionStore(db *gorm.DB) *GormSessionStore {
	return &GormSessionStore{db: db}
}

// Create 创建会话，写入时分配ID和创建时间
func (s *GormSessionStore) Create(ctx context.Context, session *models.MoodSession) error {
	if session.ID == "" {
		session.ID = utils.GenerateID()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	return s.db.WithContext(ctx).Create(session).Error
}

// GetByID 按ID查询会话
func (s *GormSessionStore) GetByID(ctx context.Context, id string) (*models.MoodSession, error) {
	var session models.MoodSession
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// ListByUser 按用户查询会话，最新的在前
func (s *GormSessionStore) ListByUser(ctx context.Context, userID string) ([]models.MoodSession, error) {
	var sessions []models.MoodSession
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// Update 部分字段更新，生成流程不使用
func (s *GormSessionStore) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.MoodSession, error) {
	session, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(session).Updates(fields).Error; err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}
