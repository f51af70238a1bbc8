package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/StreamNestTV/StreamNest/internal/pkg/metrics/counter"
	"github.com/StreamNestTV/StreamNest/internal/pkg/usercontext"
)

// HandleFlushExportCounters drains the pending Redis export counters into the
// playlist_tokens table. Admin only; wired behind RequireAdmin in the router.
func HandleFlushExportCounters(c *fiber.Ctx) error {
	if err := counter.FlushAll(); err != nil {
		log.Printf("export counter flush failed (requested by %s): %v", usercontext.GetUsername(c), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "counter flush failed"})
	}
	log.Printf("export counters flushed by %s", usercontext.GetUsername(c))
	return c.JSON(fiber.Map{"status": "ok"})
}
