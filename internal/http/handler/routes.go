package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"docuchat/internal/model"
	"docuchat/internal/service"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	DB        *sql.DB
	Documents service.DocumentService
	Chat      service.ChatService
	Cleaner   Cleaner
	Version   string
}

// Endpoints lists the public API routes, as reported by GET /api/.
func Endpoints() []model.Endpoint {
	return []model.Endpoint{
		{Path: "/api/", Method: fiber.MethodGet, Description: "API information"},
		{Path: "/api/health", Method: fiber.MethodGet, Description: "Health check"},
		{Path: "/api/upload-document/{sessionId}", Method: fiber.MethodPost, Description: "Upload a document (PDF, DOCX, TXT) to a session"},
		{Path: "/api/documents/{sessionId}", Method: fiber.MethodGet, Description: "List a session's documents"},
		{Path: "/api/documents/{sessionId}/{id}/download", Method: fiber.MethodGet, Description: "Presigned download URL for a document"},
		{Path: "/api/chat/{sessionId}", Method: fiber.MethodPost, Description: "Chat about a session's documents (query parameter: query)"},
		{Path: "/api/session/{sessionId}", Method: fiber.MethodDelete, Description: "Delete a session's documents and conversation"},
		{Path: "/api/cleanup", Method: fiber.MethodPost, Description: "Remove expired documents now"},
		{Path: "/api/cleanup/status", Method: fiber.MethodGet, Description: "Retention sweep status"},
	}
}

// RegisterRoutes attaches the HTTP routes to app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")
	api.Get("/", APIInfo(d.Version))
	api.Get("/health", HealthCheck(d.DB))

	api.Post("/upload-document/:sessionId", UploadDocument(d.Documents))
	api.Get("/documents/:sessionId", ListDocuments(d.Documents))
	api.Get("/documents/:sessionId/:id/download", DocumentDownloadURL(d.Documents))
	api.Delete("/session/:sessionId", PurgeSession(d.Documents, d.Chat))

	api.Post("/chat/:sessionId", Chat(d.Chat))

	api.Post("/cleanup", RunCleanup(d.Cleaner))
	api.Get("/cleanup/status", CleanupStatus(d.Cleaner))
}
