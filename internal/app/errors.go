package app

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUsernameExists    = errors.New("username already exists")
	ErrEmailExists       = errors.New("email already exists")
	ErrInvalidCredential = errors.New("invalid username or password")

	ErrProjectNotFound = errors.New("project not found")
	ErrNotProjectOwner = errors.New("caller is not the project owner")
	ErrChatInactive    = errors.New("chat bot is not active")
	ErrPromptMissing   = errors.New("prompt message is missing")

	ErrConversationNotFound = errors.New("conversation not found")
)

// QuotaExceededError terminates an ask request whose project owner has no
// query credits left. It carries the session id so the caller can resume the
// same conversation after topping up.
type QuotaExceededError struct {
	Message   string
	SessionID string
}

func (e *QuotaExceededError) Error() string { return e.Message }

// AnswerFailedError wraps a failure from the answer provider. The provider's
// message is passed through verbatim; the session id lets the caller retry in
// the same conversation.
type AnswerFailedError struct {
	Message   string
	SessionID string
}

func (e *AnswerFailedError) Error() string { return e.Message }
