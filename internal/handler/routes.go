package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// readinessTimeout ограничивает проверку одной зависимости
const readinessTimeout = 2 * time.Second

// ReadinessCheck проверяет одну зависимость
type ReadinessCheck func(ctx context.Context) error

// Handlers собирает всё, что нужно маршрутизатору
type Handlers struct {
	Webhook  *WebhookHandler
	Messages *MessageHandler
	Admin    *AdminHandler
	Domains  *DomainHandler
	Sessions SessionChecker
	Checks   map[string]ReadinessCheck
	Logger   *zap.Logger
}

// SetupRoutes настраивает middleware и все маршруты
func SetupRoutes(app *fiber.App, h Handlers) {
	// Подключаем middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type,X-Cron-Secret",
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// @Summary Проверка работоспособности
	// @Tags system
	// @Produce json
	// @Success 200 {object} map[string]string
	// @Router /health [get]
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/readyz", readiness(h.Checks, h.Logger))

	api := app.Group("/api")

	// Почтовый ящик
	api.Post("/webhook", h.Webhook.Receive)
	api.Get("/inbox", h.Messages.GetInbox)
	api.Get("/download", h.Messages.Download)

	// Публичные настройки и домены
	api.Get("/retention", h.Admin.GetRetention)
	api.Get("/domains", h.Domains.GetDomains)
	api.Get("/domain-expiration", h.Domains.GetExpiration)
	api.Get("/cron/domain-expiration", h.Domains.RefreshExpirations)

	requireAdmin := RequireAdmin(h.Sessions)
	api.Post("/settings", requireAdmin, h.Admin.UpdateSettings)

	// Админка
	api.Post("/admin/auth", h.Admin.Login)
	admin := api.Group("/admin", requireAdmin)
	admin.Get("/retention", h.Admin.GetRetention)
	admin.Post("/retention", h.Admin.SetRetention)
	admin.Get("/stats", h.Admin.GetStats)
	admin.Get("/telegram", h.Admin.GetTelegram)
	admin.Post("/telegram", h.Admin.UpdateTelegram)
	admin.Get("/domains", h.Admin.GetDomains)
	admin.Post("/domains", h.Admin.UpdateDomains)
}

// readiness отвечает 503, если хоть одна зависимость недоступна
func readiness(checks map[string]ReadinessCheck, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := fiber.Map{}
		ready := true
		for name, check := range checks {
			ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
			err := check(ctx)
			cancel()
			if err != nil {
				ready = false
				status[name] = "unavailable"
				log.Warn("Readiness check failed", zap.String("dependency", name), zap.Error(err))
				continue
			}
			status[name] = "ok"
		}

		if !ready {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "checks": status})
		}
		return c.JSON(fiber.Map{"status": "ok", "checks": status})
	}
}
