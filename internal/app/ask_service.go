package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"askgpt/internal/model"
	"askgpt/internal/pkg/logger"
	"askgpt/internal/repository"
)

const (
	creditsExhaustedUpgradeMessage = "You have exhausted your current query credits. Upgrade your plan to keep chatting and experience personalized AI!"
	creditsExhaustedSupportMessage = "You have exhausted your current query credits. Please contact support for further assistance."
)

type ProjectStore interface {
	GetByID(id uint) (*model.Project, error)
}

type ConversationStore interface {
	GetBySessionID(sessionID string) (*model.Conversation, error)
	Create(conversation *model.Conversation) error
}

type PromptHistoryStore interface {
	Create(record *model.PromptHistory) error
	FindByHash(conversationID uint, promptHash string) (*model.PromptHistory, error)
	ListByConversationID(conversationID uint, limit int) ([]model.PromptHistory, error)
	ListRecentByConversationID(conversationID uint, limit int) ([]model.PromptHistory, error)
}

type UserStore interface {
	Create(user *model.User) error
	GetByUsername(username string) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	GetByID(id uint) (*model.User, error)
}

type AnswerProvider interface {
	Answer(ctx context.Context, conversation *model.Conversation, prompt string, isNewConversation bool) (*model.PromptHistory, error)
}

type UsageEventPublisher interface {
	Publish(ctx context.Context, event model.UsageEvent) error
}

type AnswerCache interface {
	Get(ctx context.Context, conversationID uint, promptHash string) (*model.PromptHistory, bool, error)
	Set(ctx context.Context, record *model.PromptHistory) error
}

type AskInput struct {
	UserID    uint
	ProjectID uint
	SessionID string
	Prompt    string
}

type AskResult struct {
	ID        uint
	CreatedAt time.Time
	Response  string
	SessionID string
	Cached    bool
}

// AskService runs the ask-me-anything request flow: a fixed sequence of
// gates, each terminal on first failure. Project lookup, ownership, chat
// flag, prompt presence, conversation resolution, duplicate-prompt
// short-circuit, owner quota, then delegation to the answer provider.
type AskService struct {
	projects      ProjectStore
	conversations ConversationStore
	histories     PromptHistoryStore
	users         UserStore
	billing       *BillingService
	answers       AnswerProvider
	usage         UsageEventPublisher
	answerCache   AnswerCache
}

func NewAskService(
	projects ProjectStore,
	conversations ConversationStore,
	histories PromptHistoryStore,
	users UserStore,
	billing *BillingService,
	answers AnswerProvider,
	usage UsageEventPublisher,
	answerCache AnswerCache,
) *AskService {
	return &AskService{
		projects:      projects,
		conversations: conversations,
		histories:     histories,
		users:         users,
		billing:       billing,
		answers:       answers,
		usage:         usage,
		answerCache:   answerCache,
	}
}

func (s *AskService) Ask(ctx context.Context, input AskInput) (*AskResult, error) {
	project, err := s.projects.GetByID(input.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	if project.UserID != input.UserID {
		return nil, ErrNotProjectOwner
	}

	if !project.IsChatActive {
		return nil, ErrChatInactive
	}

	prompt := strings.TrimSpace(input.Prompt)
	if prompt == "" {
		return nil, ErrPromptMissing
	}

	conversation, isNew, err := s.resolveConversation(input, project)
	if err != nil {
		return nil, err
	}

	promptHash := model.HashPrompt(prompt)
	if existing, err := s.lookupAnswer(ctx, conversation.ID, promptHash); err != nil {
		return nil, err
	} else if existing != nil {
		return &AskResult{
			ID:        existing.ID,
			CreatedAt: existing.CreatedAt,
			Response:  existing.Response,
			SessionID: conversation.SessionID,
			Cached:    true,
		}, nil
	}

	if err := s.checkQuota(project.UserID, conversation.SessionID); err != nil {
		return nil, err
	}

	record, err := s.answers.Answer(ctx, conversation, prompt, isNew)
	if err != nil {
		return nil, &AnswerFailedError{
			Message:   err.Error(),
			SessionID: conversation.SessionID,
		}
	}

	if s.answerCache != nil {
		if err := s.answerCache.Set(ctx, record); err != nil {
			logger.Log.Warn("prime answer cache failed", zap.Error(err))
		}
	}
	if s.usage != nil {
		event := model.UsageEvent{
			UserID:          project.UserID,
			ProjectID:       project.ID,
			ConversationID:  conversation.ID,
			PromptHistoryID: record.ID,
			Credits:         1,
		}
		if err := s.usage.Publish(ctx, event); err != nil {
			logger.Log.Error("publish usage event failed",
				zap.Uint("user_id", project.UserID),
				zap.Uint("prompt_history_id", record.ID),
				zap.Error(err))
		}
	}

	return &AskResult{
		ID:        record.ID,
		CreatedAt: record.CreatedAt,
		Response:  record.Response,
		SessionID: conversation.SessionID,
	}, nil
}

// resolveConversation reuses the conversation the session id points at, or
// creates one named after the prompt. Creation happens before the quota gate,
// so a request that later fails on credits still leaves the conversation row
// behind; the returned session id keeps that row reachable.
func (s *AskService) resolveConversation(input AskInput, project *model.Project) (*model.Conversation, bool, error) {
	if input.SessionID != "" {
		conversation, err := s.conversations.GetBySessionID(input.SessionID)
		if err != nil {
			return nil, false, err
		}
		if conversation != nil {
			return conversation, false, nil
		}
	}

	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	createdBy := input.UserID
	conversation := &model.Conversation{
		ProjectID: project.ID,
		SessionID: sessionID,
		Name:      input.Prompt,
		CreatedBy: &createdBy,
	}
	if err := s.conversations.Create(conversation); err != nil {
		if errors.Is(err, repository.ErrDuplicateSessionID) {
			// Lost the race against a concurrent first prompt; the winner's
			// row is the conversation.
			existing, lookupErr := s.conversations.GetBySessionID(sessionID)
			if lookupErr != nil {
				return nil, false, lookupErr
			}
			if existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, err
	}
	return conversation, true, nil
}

// lookupAnswer checks redis first, then the persisted history. A cache
// failure is logged and falls through to the database; it never fails the
// request.
func (s *AskService) lookupAnswer(ctx context.Context, conversationID uint, promptHash string) (*model.PromptHistory, error) {
	if s.answerCache != nil {
		cached, hit, err := s.answerCache.Get(ctx, conversationID, promptHash)
		if err != nil {
			logger.Log.Warn("answer cache lookup failed", zap.Error(err))
		} else if hit {
			return cached, nil
		}
	}

	record, err := s.histories.FindByHash(conversationID, promptHash)
	if err != nil {
		return nil, err
	}
	if record != nil && s.answerCache != nil {
		if err := s.answerCache.Set(ctx, record); err != nil {
			logger.Log.Warn("prime answer cache failed", zap.Error(err))
		}
	}
	return record, nil
}

func (s *AskService) checkQuota(ownerID uint, sessionID string) error {
	owner, err := s.users.GetByID(ownerID)
	if err != nil {
		return err
	}
	if owner == nil {
		return ErrProjectNotFound
	}

	message := creditsExhaustedUpgradeMessage
	if s.billing.IsPremiumMonthly(s.billing.PlanStatus(owner)) {
		message = creditsExhaustedSupportMessage
	}

	if owner.QueryCredits <= 0 {
		return &QuotaExceededError{
			Message:   message,
			SessionID: sessionID,
		}
	}
	return nil
}
