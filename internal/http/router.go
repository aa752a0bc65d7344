package http

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/poe-manager/backend/internal/config"
	"github.com/poe-manager/backend/internal/http/handlers"
	"github.com/poe-manager/backend/internal/middleware"
	"github.com/poe-manager/backend/internal/rbac"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	poeHandler *handlers.PoeHandler,
	auditHandler *handlers.AuditHandler,
	reviewHandler *handlers.ReviewHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	if rdb != nil {
		api.Use(middleware.RateLimitMiddleware(rdb, cfg.RateLimitPerMin, time.Minute))
	}

	// Auth (public)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/register", authHandler.Register)

	// Protected endpoints. Role policy is enforced here, at the same boundary
	// that invokes the lifecycle engine.
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/me", authHandler.Me)
	protected.Put("/session/establishment", authHandler.SetEstablishment)

	// Documents
	protected.Get("/poes", middleware.RequirePermission(rbac.PermViewPoes), poeHandler.List)
	protected.Get("/poes/pending", middleware.RequirePermission(rbac.PermViewPoes), poeHandler.ListPending)
	protected.Get("/poes/:id", middleware.RequirePermission(rbac.PermViewPoes), poeHandler.Get)
	protected.Get("/poes/:id/history", middleware.RequirePermission(rbac.PermViewPoes), poeHandler.History)
	protected.Get("/poes/:id/export", middleware.RequirePermission(rbac.PermViewPoes), poeHandler.Export)
	protected.Post("/poes", middleware.RequirePermission(rbac.PermCreatePoe), poeHandler.Create)
	protected.Put("/poes/:id", middleware.RequirePermission(rbac.PermEditPoe), poeHandler.Update)
	protected.Post("/poes/:id/approve", middleware.RequirePermission(rbac.PermApprovePoe), poeHandler.Approve)
	protected.Post("/poes/:id/reject", middleware.RequirePermission(rbac.PermRejectPoe), poeHandler.Reject)
	protected.Delete("/poes/:id", middleware.RequirePermission(rbac.PermDeletePoe), poeHandler.Delete)

	// Review suggestions and attachment helper
	protected.Post("/poes/:id/suggestions", middleware.RequirePermission(rbac.PermViewPoes), reviewHandler.Suggestions)
	protected.Post("/attachments/resolve", middleware.RequirePermission(rbac.PermCreatePoe), reviewHandler.ResolveAttachment)

	// Audit trail
	protected.Get("/audit", middleware.RequirePermission(rbac.PermViewPoes), auditHandler.List)

	// User administration
	protected.Get("/users", middleware.RequirePermission(rbac.PermManageUsers), userHandler.List)
	protected.Patch("/users/:id/active", middleware.RequirePermission(rbac.PermManageUsers), userHandler.SetActive)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
