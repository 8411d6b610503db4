package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"askgpt/internal/model"
	"askgpt/internal/repository"
)

type fakeProjectStore struct {
	projects map[uint]*model.Project
}

func newFakeProjectStore(projects ...*model.Project) *fakeProjectStore {
	s := &fakeProjectStore{projects: make(map[uint]*model.Project)}
	for _, p := range projects {
		s.projects[p.ID] = p
	}
	return s
}

func (s *fakeProjectStore) GetByID(id uint) (*model.Project, error) {
	return s.projects[id], nil
}

func (s *fakeProjectStore) Create(project *model.Project) error {
	project.ID = uint(len(s.projects) + 1)
	s.projects[project.ID] = project
	return nil
}

func (s *fakeProjectStore) ListByUserID(userID uint) ([]model.Project, error) {
	var out []model.Project
	for _, p := range s.projects {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakeProjectStore) SetChatActive(id uint, active bool) error {
	if p, ok := s.projects[id]; ok {
		p.IsChatActive = active
	}
	return nil
}

type fakeConversationStore struct {
	bySession map[string]*model.Conversation
	nextID    uint
	created   int

	// raceOnCreate simulates losing the session_id unique-index race: the
	// next Create fails with ErrDuplicateSessionID and this conversation
	// becomes visible as the winner.
	raceOnCreate *model.Conversation
}

func newFakeConversationStore(conversations ...*model.Conversation) *fakeConversationStore {
	s := &fakeConversationStore{bySession: make(map[string]*model.Conversation), nextID: 100}
	for _, conv := range conversations {
		s.bySession[conv.SessionID] = conv
	}
	return s
}

func (s *fakeConversationStore) GetBySessionID(sessionID string) (*model.Conversation, error) {
	return s.bySession[sessionID], nil
}

func (s *fakeConversationStore) Create(conversation *model.Conversation) error {
	if s.raceOnCreate != nil {
		winner := s.raceOnCreate
		s.raceOnCreate = nil
		s.bySession[winner.SessionID] = winner
		return repository.ErrDuplicateSessionID
	}
	if _, exists := s.bySession[conversation.SessionID]; exists {
		return repository.ErrDuplicateSessionID
	}
	s.nextID++
	conversation.ID = s.nextID
	conversation.CreatedAt = time.Now()
	s.bySession[conversation.SessionID] = conversation
	s.created++
	return nil
}

func (s *fakeConversationStore) ListByProjectID(projectID uint) ([]model.Conversation, error) {
	var out []model.Conversation
	for _, conv := range s.bySession {
		if conv.ProjectID == projectID {
			out = append(out, *conv)
		}
	}
	return out, nil
}

type fakePromptHistoryStore struct {
	records []*model.PromptHistory
	nextID  uint
}

func newFakePromptHistoryStore(records ...*model.PromptHistory) *fakePromptHistoryStore {
	return &fakePromptHistoryStore{records: records, nextID: 1000}
}

func (s *fakePromptHistoryStore) Create(record *model.PromptHistory) error {
	for _, existing := range s.records {
		if existing.ConversationID == record.ConversationID && existing.PromptHash == record.PromptHash {
			return repository.ErrDuplicatePrompt
		}
	}
	s.nextID++
	record.ID = s.nextID
	record.CreatedAt = time.Now()
	s.records = append(s.records, record)
	return nil
}

func (s *fakePromptHistoryStore) FindByHash(conversationID uint, promptHash string) (*model.PromptHistory, error) {
	for _, record := range s.records {
		if record.ConversationID == conversationID && record.PromptHash == promptHash {
			return record, nil
		}
	}
	return nil, nil
}

func (s *fakePromptHistoryStore) ListByConversationID(conversationID uint, limit int) ([]model.PromptHistory, error) {
	var out []model.PromptHistory
	for _, record := range s.records {
		if record.ConversationID == conversationID {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (s *fakePromptHistoryStore) ListRecentByConversationID(conversationID uint, limit int) ([]model.PromptHistory, error) {
	return s.ListByConversationID(conversationID, limit)
}

type fakeUserStore struct {
	users map[uint]*model.User
}

func newFakeUserStore(users ...*model.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[uint]*model.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Create(user *model.User) error {
	user.ID = uint(len(s.users) + 1)
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) GetByUsername(username string) (*model.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) GetByEmail(email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) GetByID(id uint) (*model.User, error) {
	return s.users[id], nil
}

type spyAnswerProvider struct {
	calls    int
	response string
	err      error

	lastPrompt string
	lastIsNew  bool
}

func (p *spyAnswerProvider) Answer(_ context.Context, conversation *model.Conversation, prompt string, isNewConversation bool) (*model.PromptHistory, error) {
	p.calls++
	p.lastPrompt = prompt
	p.lastIsNew = isNewConversation
	if p.err != nil {
		return nil, p.err
	}
	return &model.PromptHistory{
		ID:             777,
		ConversationID: conversation.ID,
		Prompt:         prompt,
		PromptHash:     model.HashPrompt(prompt),
		Response:       p.response,
		CreatedAt:      time.Now(),
	}, nil
}

type fakeUsagePublisher struct {
	events []model.UsageEvent
	err    error
}

func (p *fakeUsagePublisher) Publish(_ context.Context, event model.UsageEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

type fakeAnswerCache struct {
	entries map[string]*model.PromptHistory
	getErr  error
}

func newFakeAnswerCache() *fakeAnswerCache {
	return &fakeAnswerCache{entries: make(map[string]*model.PromptHistory)}
}

func (c *fakeAnswerCache) key(conversationID uint, promptHash string) string {
	return fmt.Sprintf("%d:%s", conversationID, promptHash)
}

func (c *fakeAnswerCache) Get(_ context.Context, conversationID uint, promptHash string) (*model.PromptHistory, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	record, ok := c.entries[c.key(conversationID, promptHash)]
	return record, ok, nil
}

func (c *fakeAnswerCache) Set(_ context.Context, record *model.PromptHistory) error {
	c.entries[c.key(record.ConversationID, record.PromptHash)] = record
	return nil
}

var errProviderDown = errors.New("llm response status 500: upstream unavailable")
