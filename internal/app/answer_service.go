package app

import (
	"context"
	"errors"
	"strings"

	"askgpt/internal/ai"
	"askgpt/internal/model"
	"askgpt/internal/repository"
)

// AnswerService produces the answer for one prompt. It feeds the LLM the
// conversation's recent prompt/answer pairs, persists the resulting
// PromptHistory row and returns it.
type AnswerService struct {
	histories  PromptHistoryStore
	llmClient  *ai.OpenAICompatibleClient
	llm        ai.ChatConfig
	maxContext int
}

func NewAnswerService(histories PromptHistoryStore, llm ai.ChatConfig, maxContext int) *AnswerService {
	if maxContext <= 0 {
		maxContext = 20
	}
	return &AnswerService{
		histories:  histories,
		llmClient:  ai.NewOpenAICompatibleClient(),
		llm:        llm,
		maxContext: maxContext,
	}
}

func (s *AnswerService) Answer(ctx context.Context, conversation *model.Conversation, prompt string, isNewConversation bool) (*model.PromptHistory, error) {
	messages, err := s.buildPromptMessages(conversation.ID, prompt, isNewConversation)
	if err != nil {
		return nil, err
	}

	content, err := s.llmClient.Complete(ctx, s.llm, messages)
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		content = "The model returned an empty response."
	}

	record := &model.PromptHistory{
		ConversationID: conversation.ID,
		Prompt:         prompt,
		PromptHash:     model.HashPrompt(prompt),
		Response:       content,
	}
	if err := s.histories.Create(record); err != nil {
		if errors.Is(err, repository.ErrDuplicatePrompt) {
			// A concurrent request answered the same prompt first; its row is
			// the canonical one.
			return s.histories.FindByHash(conversation.ID, record.PromptHash)
		}
		return nil, err
	}
	return record, nil
}

func (s *AnswerService) buildPromptMessages(conversationID uint, currentPrompt string, isNewConversation bool) ([]ai.ChatMessage, error) {
	var recent []model.PromptHistory
	if !isNewConversation {
		var err error
		recent, err = s.histories.ListRecentByConversationID(conversationID, s.maxContext)
		if err != nil {
			return nil, err
		}
		// Newest-first from the store, chronological for the model.
		for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
			recent[i], recent[j] = recent[j], recent[i]
		}
	}

	messages := make([]ai.ChatMessage, 0, 2*len(recent)+2)
	messages = append(messages, ai.ChatMessage{
		Role:    "system",
		Content: "You are a concise and helpful AI assistant answering questions about the user's project.",
	})
	for _, item := range recent {
		messages = append(messages, ai.ChatMessage{
			Role:    "user",
			Content: item.Prompt,
		})
		messages = append(messages, ai.ChatMessage{
			Role:    "assistant",
			Content: item.Response,
		})
	}
	messages = append(messages, ai.ChatMessage{
		Role:    "user",
		Content: strings.TrimSpace(currentPrompt),
	})
	return messages, nil
}
