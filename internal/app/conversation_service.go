package app

import "askgpt/internal/model"

type ConversationLister interface {
	ConversationStore
	ListByProjectID(projectID uint) ([]model.Conversation, error)
}

// ConversationService serves the read-only conversation surface: listing a
// project's conversations and replaying a conversation's prompt history.
// Both are owner-gated the same way the ask flow is.
type ConversationService struct {
	projects      ProjectStore
	conversations ConversationLister
	histories     PromptHistoryStore
}

func NewConversationService(projects ProjectStore, conversations ConversationLister, histories PromptHistoryStore) *ConversationService {
	return &ConversationService{
		projects:      projects,
		conversations: conversations,
		histories:     histories,
	}
}

func (s *ConversationService) ListByProject(userID, projectID uint) ([]model.Conversation, error) {
	if userID == 0 || projectID == 0 {
		return nil, ErrInvalidInput
	}

	project, err := s.projects.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	if project.UserID != userID {
		return nil, ErrNotProjectOwner
	}

	return s.conversations.ListByProjectID(projectID)
}

func (s *ConversationService) History(userID uint, sessionID string, limit int) ([]model.PromptHistory, error) {
	if userID == 0 || sessionID == "" {
		return nil, ErrInvalidInput
	}

	conversation, err := s.conversations.GetBySessionID(sessionID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}

	project, err := s.projects.GetByID(conversation.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrConversationNotFound
	}
	if project.UserID != userID {
		return nil, ErrNotProjectOwner
	}

	return s.histories.ListByConversationID(conversation.ID, limit)
}
