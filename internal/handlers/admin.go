package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/maoshanman/durian-order-bot/internal/services"
)

const maxAdminOrders = 500

// AdminHandler serves read-only order views for operators
type AdminHandler struct {
	query *services.OrderQuery
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(query *services.OrderQuery) *AdminHandler {
	return &AdminHandler{query: query}
}

// GetOrders returns the last n orders (default 5), oldest first
func (h *AdminHandler) GetOrders(c *fiber.Ctx) error {
	n := c.QueryInt("n", services.DefaultLastOrders)
	if n <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "n must be a positive integer",
		})
	}
	if n > maxAdminOrders {
		n = maxAdminOrders
	}

	records, err := h.query.LastN(c.UserContext(), n)
	if err != nil {
		kind := services.Kind(err)
		log.Error().Err(err).Str("kind", kind).Msg("Failed to fetch orders")

		status := fiber.StatusInternalServerError
		if kind == "timeout" {
			status = fiber.StatusGatewayTimeout
		}
		return c.Status(status).JSON(fiber.Map{
			"error": "Failed to fetch orders",
			"kind":  kind,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(records),
		"orders":  records,
		"summary": services.FormatOrders(n, records),
	})
}
