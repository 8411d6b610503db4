package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"askgpt/internal/app"
	"askgpt/internal/pkg/monitoring"
)

// AskHandler exposes the ask-me-anything endpoint. Unlike the rest of the
// API it does not use the code/message/data envelope: the response shape is
// part of the public contract of this endpoint, a flat object with a
// "success" or "error" status.
type AskHandler struct {
	askService *app.AskService
}

type AskRequest struct {
	ID        uint   `json:"id"`
	Prompt    string `json:"prompt"`
	SessionID string `json:"session_id"`
}

func NewAskHandler(askService *app.AskService) *AskHandler {
	return &AskHandler{askService: askService}
}

func (h *AskHandler) Ask(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"message": "invalid token payload",
			"status":  "error",
		})
		return
	}

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "invalid request payload",
			"status":  "error",
		})
		return
	}

	result, err := h.askService.Ask(c.Request.Context(), app.AskInput{
		UserID:    userID,
		ProjectID: req.ID,
		SessionID: req.SessionID,
		Prompt:    req.Prompt,
	})
	if err != nil {
		h.writeAskError(c, err)
		return
	}

	outcome := "success"
	if result.Cached {
		outcome = "cached"
	}
	monitoring.AskCounter.WithLabelValues(outcome).Inc()

	c.JSON(http.StatusOK, gin.H{
		"id":         result.ID,
		"created_at": result.CreatedAt,
		"response":   result.Response,
		"status":     "success",
		"session_id": result.SessionID,
	})
}

func (h *AskHandler) writeAskError(c *gin.Context, err error) {
	var quotaErr *app.QuotaExceededError
	var answerErr *app.AnswerFailedError

	switch {
	case errors.Is(err, app.ErrProjectNotFound):
		monitoring.AskCounter.WithLabelValues("project_not_found").Inc()
		c.JSON(http.StatusNotFound, gin.H{
			"message": "Invalid project",
			"status":  "error",
		})
	case errors.Is(err, app.ErrNotProjectOwner):
		monitoring.AskCounter.WithLabelValues("not_authorized").Inc()
		c.JSON(http.StatusForbidden, gin.H{
			"message": "Not authorized",
			"status":  "error",
		})
	case errors.Is(err, app.ErrChatInactive):
		monitoring.AskCounter.WithLabelValues("chat_inactive").Inc()
		c.JSON(http.StatusForbidden, gin.H{
			"message": "The chat bot is not active yet.",
			"status":  "error",
		})
	case errors.Is(err, app.ErrPromptMissing):
		monitoring.AskCounter.WithLabelValues("prompt_missing").Inc()
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Missing prompt message.",
			"status":  "error",
		})
	case errors.As(err, &quotaErr):
		monitoring.AskCounter.WithLabelValues("quota_exhausted").Inc()
		c.JSON(http.StatusForbidden, gin.H{
			"message":    quotaErr.Message,
			"status":     "error",
			"session_id": quotaErr.SessionID,
		})
	case errors.As(err, &answerErr):
		monitoring.AskCounter.WithLabelValues("answer_failed").Inc()
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"message":    answerErr.Message,
			"status":     "error",
			"session_id": answerErr.SessionID,
		})
	default:
		monitoring.AskCounter.WithLabelValues("internal_error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "ask request failed",
			"status":  "error",
		})
	}
}
