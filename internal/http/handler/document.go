package handler

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"docuchat/internal/filepolicy"
	"docuchat/internal/model"
	"docuchat/internal/service"
)

// UploadDocument godoc
// @Summary  Upload one document into a session
// @Tags     documents
// @Accept   multipart/form-data
// @Produce  json
// @Param    sessionId path     string true "Session UUID"
// @Param    file      formData file   true "PDF, DOCX or TXT, at most 10 MiB"
// @Success  201 {object} model.UploadResponse
// @Failure  400 {object} errorPayload
// @Failure  413 {object} errorPayload
// @Failure  415 {object} errorPayload
// @Router   /api/upload-document/{sessionId} [post]
func UploadDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Params("sessionId")
		if !validSessionID(sessionID) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_SESSION", "session id must be a UUID")
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		ct := filepolicy.MediaType(fh.Header.Get("Content-Type"))
		if ct == "" || ct == "application/octet-stream" {
			ct = filepolicy.ContentTypeFor(fh.Filename)
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		doc, err := docs.Upload(c.UserContext(), sessionID, f, fh.Filename, ct, fh.Size)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(model.UploadResponse{
			Success:   true,
			Message:   "Successfully uploaded 1 document(s)",
			FileCount: 1,
			Document:  doc,
		})
	}
}

// ListDocuments godoc
// @Summary  List a session's documents, newest first
// @Tags     documents
// @Produce  json
// @Param    sessionId path  string true  "Session UUID"
// @Param    limit     query int    false "Page size (1-100)" default(10)
// @Param    offset    query int    false "Offset" default(0)
// @Success  200 {object} model.DocumentList
// @Failure  400 {object} errorPayload
// @Router   /api/documents/{sessionId} [get]
func ListDocuments(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Params("sessionId")
		if !validSessionID(sessionID) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_SESSION", "session id must be a UUID")
		}

		limit, err := queryInt(c, "limit", 10)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := queryInt(c, "offset", 0)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}
		switch firstInvalidField(pageParams{Limit: limit, Offset: offset}) {
		case "":
		case "Limit":
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "limit must be between 1 and 100")
		default:
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "offset must not be negative")
		}

		res, err := docs.List(c.UserContext(), sessionID, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// DocumentDownloadURL godoc
// @Summary  Presigned download URL for one of the session's documents
// @Tags     documents
// @Produce  json
// @Param    sessionId path string true "Session UUID"
// @Param    id        path string true "Document UUID"
// @Success  200 {object} model.DownloadLink
// @Failure  404 {object} errorPayload
// @Router   /api/documents/{sessionId}/{id}/download [get]
func DocumentDownloadURL(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Params("sessionId")
		if !validSessionID(sessionID) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_SESSION", "session id must be a UUID")
		}
		id := c.Params("id")
		if getValidator().Var(id, "required,uuid") != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		url, err := docs.DownloadURL(c.UserContext(), sessionID, id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(model.DownloadLink{URL: url})
	}
}

// PurgeSession godoc
// @Summary  Delete every document and the conversation of a session
// @Tags     sessions
// @Produce  json
// @Param    sessionId path string true "Session UUID"
// @Success  200 {object} model.PurgeResult
// @Failure  400 {object} errorPayload
// @Router   /api/session/{sessionId} [delete]
func PurgeSession(docs service.DocumentService, chat service.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Params("sessionId")
		if !validSessionID(sessionID) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_SESSION", "session id must be a UUID")
		}

		removed, err := docs.PurgeSession(c.UserContext(), sessionID)
		if err != nil {
			return writeServiceError(c, err)
		}
		if err := chat.Forget(c.UserContext(), sessionID); err != nil {
			return writeServiceError(c, fmt.Errorf("forget conversation: %w", err))
		}
		return c.JSON(model.PurgeResult{
			Status:  "success",
			Message: fmt.Sprintf("Removed %d document(s) and the conversation history", removed),
			Removed: removed,
		})
	}
}

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
