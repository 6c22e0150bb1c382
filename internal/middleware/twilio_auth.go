package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go/client"
)

// ValidateTwilioSignature validates that the webhook request is from Twilio
func ValidateTwilioSignature(authToken string) fiber.Handler {
	validator := client.NewRequestValidator(authToken)

	return func(c *fiber.Ctx) error {
		signature := c.Get("X-Twilio-Signature")
		if signature == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing Twilio signature",
			})
		}

		params := make(map[string]string)
		c.Request().PostArgs().VisitAll(func(key, value []byte) {
			params[string(key)] = string(value)
		})

		if !validator.Validate(fullURL(c), params, signature) {
			log.Warn().Str("path", c.Path()).Msg("⛔ Invalid Twilio signature")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid signature",
			})
		}

		return c.Next()
	}
}

// fullURL rebuilds the URL Twilio signed. Cloud Run terminates TLS in front of us.
func fullURL(c *fiber.Ctx) string {
	protocol := "https"
	if c.Protocol() == "http" && c.Get("X-Forwarded-Proto") != "https" {
		protocol = "http"
	}
	return fmt.Sprintf("%s://%s%s", protocol, c.Hostname(), c.OriginalURL())
}
