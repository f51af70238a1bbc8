package router

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/storage/redis"

	"github.com/StreamNestTV/StreamNest/app/controllers"
	"github.com/StreamNestTV/StreamNest/internal/pkg/env"
	"github.com/StreamNestTV/StreamNest/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Storage: newLimiterStorage(),
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// API v1 routes, authenticated via user API key
	v1 := api.Group("/v1", middleware.APIKeyAuthMiddleware())
	v1.Post("/devices", controllers.HandleRegisterDevice)
	v1.Get("/devices", controllers.HandleListDevices)
	v1.Get("/devices/:mac/token", controllers.HandleGetDeviceToken)
	v1.Post("/devices/:mac/token/rotate", controllers.HandleRotateDeviceToken)

	admin := v1.Group("/admin", middleware.RequireAdmin)
	admin.Post("/counters/flush", controllers.HandleFlushExportCounters)
}

// newLimiterStorage backs the rate limiter with Redis so limits hold across
// instances sharing the cache server.
func newLimiterStorage() *redis.Storage {
	port, err := strconv.Atoi(env.GetEnv("CACHE_PORT", "6379"))
	if err != nil {
		port = 6379
	}
	return redis.New(redis.Config{
		Host: env.GetEnv("CACHE_HOST", "localhost"),
		Port: port,
	})
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
