package middlewares

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

const apiKeyHeader = "X-Api-Key"

// RequireAPIKey guards the admin routes. Only a privileged actor holding the
// configured key may initiate authorization, trigger syncs, or edit product
// links.
func RequireAPIKey(apiKey string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		provided := ctx.Get(apiKeyHeader)
		if apiKey == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			return fiber.ErrForbidden
		}
		return ctx.Next()
	}
}
