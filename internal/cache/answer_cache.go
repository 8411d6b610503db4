package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"askgpt/internal/model"
)

// AnswerCache keeps the most recently served answers in redis, keyed by
// conversation and prompt hash, so repeated identical prompts skip the
// database lookup. Records are immutable, so there is no invalidation path;
// entries just age out.
type AnswerCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewAnswerCache(client *redisv9.Client, ttl time.Duration) *AnswerCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AnswerCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *AnswerCache) Get(ctx context.Context, conversationID uint, promptHash string) (*model.PromptHistory, bool, error) {
	key := c.answerKey(conversationID, promptHash)
	raw, err := c.client.Get(ctx, key).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get answer failed: %w", err)
	}

	var record model.PromptHistory
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached answer failed: %w", err)
	}
	return &record, true, nil
}

func (c *AnswerCache) Set(ctx context.Context, record *model.PromptHistory) error {
	key := c.answerKey(record.ConversationID, record.PromptHash)
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal answer cache failed: %w", err)
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set answer failed: %w", err)
	}
	return nil
}

func (c *AnswerCache) answerKey(conversationID uint, promptHash string) string {
	return fmt.Sprintf("ask:answer:%d:%s", conversationID, promptHash)
}
