package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/maoshanman/durian-order-bot/internal/config"
	"github.com/maoshanman/durian-order-bot/internal/handlers"
	"github.com/maoshanman/durian-order-bot/internal/middleware"
)

// Handlers groups everything SetupRoutes mounts. WhatsApp is nil when the Telegram transport is active.
type Handlers struct {
	Health   *handlers.HealthHandler
	Admin    *handlers.AdminHandler
	WhatsApp *handlers.WhatsAppHandler
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, cfg *config.Config, h Handlers) {
	app.Get("/", h.Health.Overview)
	app.Get("/health", h.Health.Check)

	// ========== ADMIN ROUTES ==========
	admin := app.Group("/admin", middleware.RequireBearerToken(cfg.AdminAPIToken))
	admin.Get("/orders", h.Admin.GetOrders)
	if cfg.AdminAPIToken == "" {
		log.Warn().Msg("⚠️  ADMIN_API_TOKEN not set, /admin is unauthenticated")
	}

	if h.WhatsApp == nil {
		return
	}

	// ========== WEBHOOK ROUTES ==========
	webhooks := app.Group("/webhook")
	if cfg.IsDevelopment() || cfg.DisableWebhookValidation {
		webhooks.Post("/whatsapp", h.WhatsApp.HandleWebhook)
		log.Warn().Msg("⚠️  WhatsApp webhook validation DISABLED")
	} else {
		webhooks.Post("/whatsapp", middleware.ValidateTwilioSignature(cfg.TwilioAuthToken), h.WhatsApp.HandleWebhook)
	}

	// ========== TEST ROUTES (Development Only) ==========
	if cfg.IsDevelopment() {
		app.Post("/test/whatsapp", h.WhatsApp.HandleTestWebhook)
	}
}
