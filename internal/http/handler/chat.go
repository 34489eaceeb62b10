package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"docuchat/internal/model"
	"docuchat/internal/service"
)

// Chat godoc
// @Summary  Ask a question about the session's documents
// @Tags     chat
// @Produce  json
// @Param    sessionId path  string true "Session UUID"
// @Param    query     query string true "The user's message"
// @Success  200 {object} model.ChatResult
// @Failure  400 {object} errorPayload
// @Router   /api/chat/{sessionId} [post]
func Chat(chat service.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Params("sessionId")
		if !validSessionID(sessionID) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_SESSION", "session id must be a UUID")
		}
		query := strings.TrimSpace(c.Query("query"))
		if getValidator().Var(query, "required") != nil {
			return writeError(c, fiber.StatusBadRequest, "EMPTY_QUERY", "query is required")
		}

		reply, err := chat.Reply(c.UserContext(), sessionID, query)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(model.ChatResult{
			Success:  true,
			Message:  "Response generated successfully",
			Response: reply.Content,
		})
	}
}
