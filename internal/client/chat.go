package client

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"docuchat/internal/model"
)

// SendChatMessage sends one utterance for the session and normalizes whatever shape the
// backend answers with. Failures resolve to a result with Success false.
func (c *Client) SendChatMessage(ctx context.Context, sessionID, text string) model.ChatResult {
	if sessionID == "" {
		return chatFailure(errSessionUnavailable)
	}

	path := "/api/chat/" + url.PathEscape(sessionID) + "?" + url.Values{"query": {text}}.Encode()
	body, err := c.do(ctx, http.MethodPost, path, nil, "application/json")
	if err != nil {
		c.log.Warn("chat request failed", zap.String("session_id", sessionID), zap.Error(err))
		return chatFailure(err)
	}

	payload := ParseChatPayload(body)
	if payload.Kind == Unknown {
		c.log.Debug("unrecognized chat response shape", zap.String("session_id", sessionID), zap.Int("bytes", len(body)))
	}
	return model.ChatResult{
		Success:  true,
		Message:  "Message sent successfully",
		Response: payload.Text(),
	}
}

func chatFailure(err error) model.ChatResult {
	return model.ChatResult{Message: "Failed to send message: " + err.Error()}
}
