package handler

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"docuchat/internal/database"
	"docuchat/internal/http/middleware"
	"docuchat/internal/model"
)

// HealthCheck godoc
// @Summary  Readiness probe
// @Tags     system
// @Produce  json
// @Success  200 {object} model.HealthStatus
// @Failure  503 {object} errorPayload
// @Router   /api/health [get]
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := database.Ping(c.UserContext(), db, 2*time.Second); err != nil {
			c.Locals(middleware.ErrorLocalKey, err)
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.JSON(model.HealthStatus{Status: "ok"})
	}
}

// LivenessProbe answers 200 as long as the process serves requests.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// APIInfo godoc
// @Summary  API description and route list
// @Tags     system
// @Produce  json
// @Success  200 {object} model.APIInfo
// @Router   /api/ [get]
func APIInfo(version string) fiber.Handler {
	info := model.APIInfo{
		Message:     "DocuChat API",
		Version:     version,
		Description: "Upload documents to a session and chat about their content.",
		Endpoints:   Endpoints(),
	}
	return func(c *fiber.Ctx) error {
		return c.JSON(info)
	}
}
