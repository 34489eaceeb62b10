package handler

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"docuchat/internal/model"
)

// Cleaner runs and reports the document retention sweep.
type Cleaner interface {
	RunOnce(ctx context.Context) (int, error)
	Status() model.CleanupStatus
}

// RunCleanup godoc
// @Summary  Remove documents older than the retention window now
// @Tags     maintenance
// @Produce  json
// @Success  200 {object} model.PurgeResult
// @Router   /api/cleanup [post]
func RunCleanup(cl Cleaner) fiber.Handler {
	return func(c *fiber.Ctx) error {
		removed, err := cl.RunOnce(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(model.PurgeResult{
			Status:  "success",
			Message: fmt.Sprintf("Removed %d expired document(s)", removed),
			Removed: removed,
		})
	}
}

// CleanupStatus godoc
// @Summary  Retention sweep status
// @Tags     maintenance
// @Produce  json
// @Success  200 {object} model.CleanupStatus
// @Router   /api/cleanup/status [get]
func CleanupStatus(cl Cleaner) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(cl.Status())
	}
}
