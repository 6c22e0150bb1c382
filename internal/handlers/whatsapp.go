package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog/log"

	"github.com/maoshanman/durian-order-bot/internal/services"
)

// WhatsAppHandler handles Twilio WhatsApp webhook requests
type WhatsAppHandler struct {
	bot        *services.BotService
	dispatcher *services.Dispatcher
	sender     services.Sender
}

// NewWhatsAppHandler creates a new WhatsApp handler. A nil sender only logs replies.
func NewWhatsAppHandler(bot *services.BotService, dispatcher *services.Dispatcher, sender services.Sender) *WhatsAppHandler {
	return &WhatsAppHandler{
		bot:        bot,
		dispatcher: dispatcher,
		sender:     sender,
	}
}

// TwilioWebhookPayload represents an incoming WhatsApp message from Twilio
type TwilioWebhookPayload struct {
	MessageSid string `form:"MessageSid"`
	AccountSid string `form:"AccountSid"`
	From       string `form:"From"` // whatsapp:+6591234567
	To         string `form:"To"`
	Body       string `form:"Body"`
	NumMedia   string `form:"NumMedia"`
}

// HandleWebhook processes one incoming message and sends the reply through Twilio
func (h *WhatsAppHandler) HandleWebhook(c *fiber.Ctx) error {
	var payload TwilioWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Warn().Err(err).Msg("Error parsing webhook")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	// status callbacks carry no body
	if payload.Body == "" || payload.From == "" {
		return c.SendStatus(fiber.StatusOK)
	}

	// parsed values alias fasthttp's pooled buffer; sessions outlive the request
	from := utils.CopyString(services.StripWhatsAppPrefix(payload.From))
	body := utils.CopyString(payload.Body)
	log.Debug().Str("user_id", from).Str("sid", payload.MessageSid).Msg("📱 WhatsApp message received")

	ctx := context.WithoutCancel(c.UserContext())
	h.dispatcher.Do(from, func() {
		reply := h.process(ctx, from, body)
		if reply == "" {
			return
		}
		if h.sender == nil {
			log.Info().Str("user_id", from).Msg("📤 Reply not sent, Twilio not configured")
			return
		}
		if err := h.sender.Send(ctx, from, reply); err != nil {
			log.Error().Err(err).Str("user_id", from).Msg("❌ Failed to send WhatsApp response")
		}
	})

	return c.SendStatus(fiber.StatusOK)
}

// TestWebhookPayload is the JSON body accepted by the development test endpoint
type TestWebhookPayload struct {
	From    string `json:"from"`
	Message string `json:"message"`
}

// HandleTestWebhook runs a message through the bot and returns the reply instead of sending it
func (h *WhatsAppHandler) HandleTestWebhook(c *fiber.Ctx) error {
	var payload TestWebhookPayload
	if err := c.BodyParser(&payload); err != nil || payload.From == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test payload",
		})
	}

	log.Debug().Str("user_id", payload.From).Msg("🧪 Test webhook received")

	from := utils.CopyString(payload.From)
	message := utils.CopyString(payload.Message)

	var reply string
	h.dispatcher.Do(from, func() {
		reply = h.process(c.UserContext(), from, message)
	})

	return c.JSON(fiber.Map{
		"success":  true,
		"response": reply,
	})
}

func (h *WhatsAppHandler) process(ctx context.Context, from, body string) string {
	reply, err := h.bot.ProcessMessage(ctx, from, body)
	if err != nil {
		log.Error().Err(err).Str("user_id", from).Msg("❌ Error processing message")
		return services.MsgGenericError
	}
	return reply
}
