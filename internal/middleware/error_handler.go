package middleware

import (
	"proact-backend/internal/pkg/apperr"
	"proact-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the global error handler. Application errors keep their
// message and mapped status; everything else becomes a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		return response.Error(c, e.Message, e.Code, nil)
	}
	ae := apperr.From(err)
	return response.Error(c, ae.Message, ae.StatusCode(), nil)
}
