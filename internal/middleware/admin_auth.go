package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
)

// RequireBearerToken rejects requests whose Authorization header does not carry token.
// An empty token disables the check.
func RequireBearerToken(token string) fiber.Handler {
	return keyauth.New(keyauth.Config{
		Next: func(c *fiber.Ctx) bool {
			return token == ""
		},
		KeyLookup:  "header:" + fiber.HeaderAuthorization,
		AuthScheme: "Bearer",
		Validator: func(c *fiber.Ctx, key string) (bool, error) {
			if subtle.ConstantTimeCompare([]byte(key), []byte(token)) == 1 {
				return true, nil
			}
			return false, keyauth.ErrMissingOrMalformedAPIKey
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		},
	})
}
