package auth

import (
	authsvc "proact-backend/internal/auth"
	"proact-backend/internal/middleware"
	"proact-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	Service *authsvc.Service
}

// Register POST /api/v1/auth/register
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req authsvc.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	user, err := h.Service.Register(c.Context(), req)
	if err != nil {
		return response.FromError(c, err)
	}
	token, err := h.Service.IssueToken(user)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Account created", fiber.Map{"user": user, "token": token}, nil)
}

// Login POST /api/v1/auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req authsvc.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest, nil)
	}
	user, token, err := h.Service.Login(c.Context(), req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Login successful", fiber.Map{"user": user, "token": token}, nil)
}

// Me GET /api/v1/auth/me
func (h *Handlers) Me(c *fiber.Ctx) error {
	ident := middleware.CurrentUser(c)
	if ident == nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	return response.Success(c, "Authenticated", fiber.Map{"user": ident}, nil)
}
