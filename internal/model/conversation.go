package model

import "time"

// Conversation is one chat thread inside a project. It is created lazily on
// the first prompt of a session and identified across requests by SessionID,
// an opaque string chosen by the caller or generated server-side. The unique
// index on SessionID makes concurrent first-prompt requests collapse onto a
// single row.
type Conversation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"not null;index" json:"project_id"`
	SessionID string    `gorm:"size:64;not null;uniqueIndex" json:"session_id"`
	Name      string    `gorm:"size:512;not null" json:"name"`
	CreatedBy *uint     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}
