package auth

import "github.com/gofiber/fiber/v2"

// HeaderName is the request header carrying the API key.
const HeaderName = "X-Api-Key"

// Config holds settings for the API key middleware.
type Config struct {
	// ApiKey is the expected key. Empty disables the check.
	ApiKey string
}

// New returns a middleware that rejects requests without the configured
// API key. With no key configured the middleware passes everything through.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.ApiKey == "" {
			return c.Next()
		}
		if c.Get(HeaderName) != cfg.ApiKey {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or missing API key",
			})
		}
		return c.Next()
	}
}
