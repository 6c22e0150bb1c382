package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/maoshanman/durian-order-bot/internal/services"
)

const pingTimeout = 3 * time.Second

// Pinger is implemented by stores that can check their backend connection
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	Version   string
	Transport string
	Storage   string
	sessions  *services.SessionStore
	pinger    Pinger
}

// NewHealthHandler creates a new health handler. pinger may be nil.
func NewHealthHandler(version, transport, storage string, sessions *services.SessionStore, pinger Pinger) *HealthHandler {
	return &HealthHandler{
		Version:   version,
		Transport: transport,
		Storage:   storage,
		sessions:  sessions,
		pinger:    pinger,
	}
}

// Overview describes the running service
func (h *HealthHandler) Overview(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service":   "Durian Order Bot",
		"version":   h.Version,
		"status":    "healthy",
		"transport": h.Transport,
		"storage":   h.Storage,
		"sessions":  h.sessions.Stats(),
		"endpoints": fiber.Map{
			"health":  "/health",
			"orders":  "/admin/orders",
			"webhook": "/webhook/whatsapp",
		},
	})
}

// Check returns 503 when the store cannot be reached
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := "healthy"
	code := fiber.StatusOK
	storeOK := true

	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), pingTimeout)
		defer cancel()
		if err := h.pinger.Ping(ctx); err != nil {
			status = "unhealthy"
			code = fiber.StatusServiceUnavailable
			storeOK = false
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"version":  h.Version,
		"sessions": h.sessions.Count(),
		"services": fiber.Map{
			"storage": storeOK,
		},
	})
}
