package model

import "time"

// UsageRecord is written asynchronously by the usage worker, one row per
// billable answer.
type UsageRecord struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	ProjectID       uint      `gorm:"not null;index" json:"project_id"`
	ConversationID  uint      `gorm:"not null" json:"conversation_id"`
	PromptHistoryID uint      `gorm:"not null" json:"prompt_history_id"`
	Credits         int       `gorm:"not null" json:"credits"`
	CreatedAt       time.Time `json:"created_at"`
}

// UsageEvent is the queue payload that precedes a UsageRecord.
type UsageEvent struct {
	UserID          uint `json:"user_id"`
	ProjectID       uint `json:"project_id"`
	ConversationID  uint `json:"conversation_id"`
	PromptHistoryID uint `json:"prompt_history_id"`
	Credits         int  `json:"credits"`
}
