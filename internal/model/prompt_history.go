package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// PromptHistory is an immutable record of one answered prompt. The composite
// unique index on (conversation_id, prompt_hash) makes repeated identical
// prompts within a conversation idempotent-by-content: a second insert for
// the same hash fails and the existing row is returned instead.
type PromptHistory struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID uint      `gorm:"not null;index;uniqueIndex:uniq_conversation_prompt,priority:1" json:"conversation_id"`
	Prompt         string    `gorm:"type:text;not null" json:"prompt"`
	PromptHash     string    `gorm:"size:64;not null;uniqueIndex:uniq_conversation_prompt,priority:2" json:"-"`
	Response       string    `gorm:"type:text;not null" json:"response"`
	CreatedAt      time.Time `json:"created_at"`
}

// HashPrompt returns the hex SHA-256 of the trimmed prompt text. Leading and
// trailing whitespace never changes the answer, so it never changes the key.
func HashPrompt(prompt string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(prompt)))
	return hex.EncodeToString(sum[:])
}
