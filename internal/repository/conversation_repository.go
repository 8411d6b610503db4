package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"askgpt/internal/model"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) Create(conversation *model.Conversation) error {
	if err := r.db.Create(conversation).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSessionID
		}
		return fmt.Errorf("create conversation failed: %w", err)
	}
	return nil
}

func (r *ConversationRepository) GetBySessionID(sessionID string) (*model.Conversation, error) {
	var conversation model.Conversation
	if err := r.db.Where("session_id = ?", sessionID).First(&conversation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query conversation by session id failed: %w", err)
	}
	return &conversation, nil
}

func (r *ConversationRepository) ListByProjectID(projectID uint) ([]model.Conversation, error) {
	var conversations []model.Conversation
	if err := r.db.Where("project_id = ?", projectID).Order("created_at DESC").Find(&conversations).Error; err != nil {
		return nil, fmt.Errorf("list conversations failed: %w", err)
	}
	return conversations, nil
}

// ErrDuplicateSessionID reports a lost race on the session_id unique index.
var ErrDuplicateSessionID = errors.New("session id already exists")
