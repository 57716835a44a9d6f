package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// CORSConfig controls which origin is allowed.
type CORSConfig struct {
	AllowedOrigin string // exact frontend origin; "" allows any
}

// CORS applies the cross-origin headers and short-circuits preflight.
func CORS(cfg CORSConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		allow := cfg.AllowedOrigin
		if allow == "" {
			allow = origin
		}
		if origin != "" && (cfg.AllowedOrigin == "" || origin == cfg.AllowedOrigin) {
			c.Set(fiber.HeaderAccessControlAllowOrigin, allow)
			c.Set(fiber.HeaderAccessControlAllowCredentials, "true")
			c.Set(fiber.HeaderAccessControlAllowHeaders, "Origin, Content-Type, Accept, Authorization")
			c.Set(fiber.HeaderAccessControlAllowMethods, "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	}
}
