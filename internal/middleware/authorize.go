package middleware

import (
	"proact-backend/internal/pkg/constants"
	"proact-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthorizePermission checks the authenticated identity's role against the
// permission-role map. 401 when unauthenticated, 403 when the role is not
// allowed.
func AuthorizePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ident := CurrentUser(c)
		if ident == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if _, ok := constants.PermissionRoles[permission]; !ok {
			return response.Error(c, "Permission configuration error", 500, nil)
		}
		if !constants.AllowedRole(permission, ident.Role) {
			return response.Error(c, "Forbidden: Access denied", 403, nil)
		}
		return c.Next()
	}
}

// RequireRole allows only the listed roles through.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ident := CurrentUser(c)
		if ident == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		for _, r := range roles {
			if ident.Role == r {
				return c.Next()
			}
		}
		return response.Error(c, "Forbidden: Access denied", 403, nil)
	}
}
