package client

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"docuchat/internal/model"
)

// TurnState is the state of the latest chat turn: Composing -> Sent -> Succeeded or Failed.
type TurnState int

const (
	TurnComposing TurnState = iota
	TurnSent
	TurnSucceeded
	TurnFailed
)

func (s TurnState) String() string {
	switch s {
	case TurnComposing:
		return "composing"
	case TurnSent:
		return "sent"
	case TurnSucceeded:
		return "succeeded"
	case TurnFailed:
		return "failed"
	default:
		return "unknown"
	}
}

const (
	// ApologyMessage is the assistant turn recorded when a send fails.
	ApologyMessage = "Sorry, I encountered an error processing your message. Please try again."
	emptyReply     = "I'm sorry, I couldn't process your request."
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrTurnInFlight = errors.New("a message is already being sent")
)

// Conversation is the in-memory transcript of one session. Nothing is persisted.
type Conversation struct {
	client    *Client
	sessionID string
	now       func() time.Time

	mu       sync.Mutex
	state    TurnState
	messages []model.ChatMessage
}

// NewConversation starts an empty transcript for the session.
func (c *Client) NewConversation(sessionID string) *Conversation {
	return &Conversation{client: c, sessionID: sessionID, now: time.Now}
}

// Send records the user turn, sends it, and records the assistant turn. The returned error is
// only for misuse; backend failures come back as a ChatResult with Success false, after the
// apology has been appended.
func (cv *Conversation) Send(ctx context.Context, text string) (model.ChatResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.ChatResult{}, ErrEmptyMessage
	}

	cv.mu.Lock()
	if cv.state == TurnSent {
		cv.mu.Unlock()
		return model.ChatResult{}, ErrTurnInFlight
	}
	cv.state = TurnSent
	cv.appendLocked(model.RoleUser, text)
	cv.mu.Unlock()

	res := cv.client.SendChatMessage(ctx, cv.sessionID, text)

	cv.mu.Lock()
	defer cv.mu.Unlock()
	if res.Success {
		reply := res.Response
		if reply == "" {
			reply = emptyReply
		}
		cv.appendLocked(model.RoleAssistant, reply)
		cv.state = TurnSucceeded
	} else {
		cv.appendLocked(model.RoleAssistant, ApologyMessage)
		cv.state = TurnFailed
	}
	return res, nil
}

func (cv *Conversation) appendLocked(role model.Role, content string) {
	cv.messages = append(cv.messages, model.ChatMessage{
		ID:        uuid.NewString(),
		Content:   content,
		Role:      role,
		Timestamp: cv.now(),
	})
}

func (cv *Conversation) State() TurnState {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	return cv.state
}

// Messages returns a copy of the transcript, oldest first.
func (cv *Conversation) Messages() []model.ChatMessage {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	out := make([]model.ChatMessage, len(cv.messages))
	copy(out, cv.messages)
	return out
}
