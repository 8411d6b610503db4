package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"askgpt/internal/model"
)

type PromptHistoryRepository struct {
	db *gorm.DB
}

func NewPromptHistoryRepository(db *gorm.DB) *PromptHistoryRepository {
	return &PromptHistoryRepository{db: db}
}

func (r *PromptHistoryRepository) Create(record *model.PromptHistory) error {
	if err := r.db.Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicatePrompt
		}
		return fmt.Errorf("create prompt history failed: %w", err)
	}
	return nil
}

func (r *PromptHistoryRepository) FindByHash(conversationID uint, promptHash string) (*model.PromptHistory, error) {
	var record model.PromptHistory
	err := r.db.Where("conversation_id = ? AND prompt_hash = ?", conversationID, promptHash).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query prompt history by hash failed: %w", err)
	}
	return &record, nil
}

func (r *PromptHistoryRepository) ListByConversationID(conversationID uint, limit int) ([]model.PromptHistory, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	var records []model.PromptHistory
	err := r.db.Where("conversation_id = ?", conversationID).Order("created_at ASC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list prompt history failed: %w", err)
	}
	return records, nil
}

// ListRecentByConversationID returns the newest records first, capped at limit.
// Callers that feed the LLM context reverse it back into chronological order.
func (r *PromptHistoryRepository) ListRecentByConversationID(conversationID uint, limit int) ([]model.PromptHistory, error) {
	if limit <= 0 {
		limit = 20
	}

	var records []model.PromptHistory
	err := r.db.Where("conversation_id = ?", conversationID).Order("created_at DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list recent prompt history failed: %w", err)
	}
	return records, nil
}

// ErrDuplicatePrompt reports a lost race on the (conversation, prompt hash)
// unique index.
var ErrDuplicatePrompt = errors.New("prompt already answered in conversation")
