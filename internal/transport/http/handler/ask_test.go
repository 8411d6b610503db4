package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"askgpt/internal/app"
	"askgpt/internal/model"
	"askgpt/internal/transport/http/middleware"
)

type stubProjects struct{ project *model.Project }

func (s *stubProjects) GetByID(id uint) (*model.Project, error) {
	if s.project != nil && s.project.ID == id {
		return s.project, nil
	}
	return nil, nil
}

type stubConversations struct {
	bySession map[string]*model.Conversation
}

func (s *stubConversations) GetBySessionID(sessionID string) (*model.Conversation, error) {
	return s.bySession[sessionID], nil
}

func (s *stubConversations) Create(conversation *model.Conversation) error {
	conversation.ID = uint(len(s.bySession) + 1)
	conversation.CreatedAt = time.Now()
	s.bySession[conversation.SessionID] = conversation
	return nil
}

type stubHistories struct{ records []*model.PromptHistory }

func (s *stubHistories) Create(record *model.PromptHistory) error {
	s.records = append(s.records, record)
	return nil
}

func (s *stubHistories) FindByHash(conversationID uint, promptHash string) (*model.PromptHistory, error) {
	for _, record := range s.records {
		if record.ConversationID == conversationID && record.PromptHash == promptHash {
			return record, nil
		}
	}
	return nil, nil
}

func (s *stubHistories) ListByConversationID(uint, int) ([]model.PromptHistory, error) {
	return nil, nil
}

func (s *stubHistories) ListRecentByConversationID(uint, int) ([]model.PromptHistory, error) {
	return nil, nil
}

type stubUsers struct{ user *model.User }

func (s *stubUsers) Create(*model.User) error { return nil }
func (s *stubUsers) GetByUsername(string) (*model.User, error) {
	return nil, nil
}
func (s *stubUsers) GetByEmail(string) (*model.User, error) { return nil, nil }
func (s *stubUsers) GetByID(id uint) (*model.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, nil
}

type stubProvider struct {
	histories *stubHistories
	response  string
	err       error
	calls     int
}

func (p *stubProvider) Answer(_ context.Context, conversation *model.Conversation, prompt string, _ bool) (*model.PromptHistory, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	record := &model.PromptHistory{
		ID:             uint(300 + p.calls),
		ConversationID: conversation.ID,
		Prompt:         prompt,
		PromptHash:     model.HashPrompt(prompt),
		Response:       p.response,
		CreatedAt:      time.Now(),
	}
	if err := p.histories.Create(record); err != nil {
		return nil, err
	}
	return record, nil
}

type askTestEnv struct {
	router   *gin.Engine
	provider *stubProvider
}

func newAskTestEnv(owner *model.User, project *model.Project) *askTestEnv {
	gin.SetMode(gin.TestMode)

	histories := &stubHistories{}
	provider := &stubProvider{histories: histories, response: "Our refund policy lasts 30 days."}
	askService := app.NewAskService(
		&stubProjects{project: project},
		&stubConversations{bySession: make(map[string]*model.Conversation)},
		histories,
		&stubUsers{user: owner},
		app.NewBillingService("premium_monthly"),
		provider,
		nil,
		nil,
	)

	router := gin.New()
	router.POST("/api/v1/ask", func(c *gin.Context) {
		// Stand-in for the JWT middleware.
		c.Set(middleware.ContextUserIDKey, owner.ID)
	}, NewAskHandler(askService).Ask)

	return &askTestEnv{router: router, provider: provider}
}

func (e *askTestEnv) do(t *testing.T, body map[string]interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	return rec, parsed
}

func TestAskEndpointSuccessShape(t *testing.T) {
	owner := &model.User{ID: 7, QueryCredits: 10}
	env := newAskTestEnv(owner, &model.Project{ID: 42, UserID: 7, IsChatActive: true})

	rec, body := env.do(t, map[string]interface{}{"id": 42, "prompt": "What is your refund policy?"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Our refund policy lasts 30 days.", body["response"])
	assert.NotEmpty(t, body["session_id"])
	assert.NotEmpty(t, body["id"])
	assert.NotEmpty(t, body["created_at"])
}

func TestAskEndpointInvalidProject(t *testing.T) {
	owner := &model.User{ID: 7, QueryCredits: 10}
	env := newAskTestEnv(owner, &model.Project{ID: 42, UserID: 7, IsChatActive: true})

	rec, body := env.do(t, map[string]interface{}{"id": 999, "prompt": "hello"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Invalid project", body["message"])
	assert.NotContains(t, body, "session_id")
}

func TestAskEndpointNotAuthorized(t *testing.T) {
	owner := &model.User{ID: 7, QueryCredits: 10}
	env := newAskTestEnv(owner, &model.Project{ID: 42, UserID: 8, IsChatActive: true})

	rec, body := env.do(t, map[string]interface{}{"id": 42, "prompt": "hello"})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Not authorized", body["message"])
}

func TestAskEndpointChatInactive(t *testing.T) {
	owner := &model.User{ID: 7, QueryCredits: 10}
	env := newAskTestEnv(owner, &model.Project{ID: 42, UserID: 7, IsChatActive: false})

	rec, body := env.do(t, map[string]interface{}{"id": 42, "prompt": "hello"})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "The chat bot is not active yet.", body["message"])
}

func TestAskEndpointMissingPrompt(t *testing.T) {
	owner := &model.User{ID: 7, QueryCredits: 10}
	env := newAskTestEnv(owner, &model.Project{ID: 42, UserID: 7, IsChatActive: true})

	rec, body := env.do(t, map[string]interface{}{"id": 42, "prompt": "   "})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing prompt message.", body["message"])
}

func TestAskEndpointQuotaExhaustedCarriesSessionID(t *testing.T) {
	owner := &model.User{ID: 7, QueryCredits: 0}
	env := newAskTestEnv(owner, &model.Project{ID: 42, UserID: 7, IsChatActive: true})

	rec, body := env.do(t, map[string]interface{}{"id": 42, "prompt": "hello"})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "error", body["status"])
	assert.Contains(t, body["message"], "exhausted your current query credits")
	assert.NotEmpty(t, body["session_id"])
	assert.Zero(t, env.provider.calls)
}

func TestAskEndpointServiceFailure(t *testing.T) {
	owner := &model.User{ID: 7, QueryCredits: 10}
	env := newAskTestEnv(owner, &model.Project{ID: 42, UserID: 7, IsChatActive: true})
	env.provider.err = errors.New("llm response status 500: upstream unavailable")

	rec, body := env.do(t, map[string]interface{}{"id": 42, "prompt": "hello"})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "llm response status 500: upstream unavailable", body["message"])
	assert.NotEmpty(t, body["session_id"])
}

func TestAskEndpointSessionContinuity(t *testing.T) {
	owner := &model.User{ID: 7, QueryCredits: 10}
	env := newAskTestEnv(owner, &model.Project{ID: 42, UserID: 7, IsChatActive: true})

	_, first := env.do(t, map[string]interface{}{"id": 42, "prompt": "first question"})
	sessionID := first["session_id"].(string)

	rec, second := env.do(t, map[string]interface{}{
		"id":         42,
		"prompt":     "first question",
		"session_id": sessionID,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sessionID, second["session_id"])
	assert.Equal(t, first["id"], second["id"])
	assert.Equal(t, first["response"], second["response"])
	assert.Equal(t, 1, env.provider.calls, "identical prompt must be served from history")
}
