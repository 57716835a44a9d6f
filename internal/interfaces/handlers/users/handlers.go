package users

import (
	usersvc "proact-backend/internal/application/user"
	"proact-backend/internal/middleware"
	"proact-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers holds dependencies for user profile endpoints.
type Handlers struct {
	Service *usersvc.Service
}

// ViewProfile GET /api/v1/users/me
func (h *Handlers) ViewProfile(c *fiber.Ctx) error {
	ident := middleware.CurrentUser(c)
	user, err := h.Service.Get(c.Context(), ident.ID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Profile retrieved", fiber.Map{"user": user}, nil)
}

// UpdateProfile PUT /api/v1/users/me
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	ident := middleware.CurrentUser(c)
	var req usersvc.UpdateInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	user, err := h.Service.Update(c.Context(), ident.ID, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Profile updated", fiber.Map{"user": user}, nil)
}

// UpdateRoleRequest body for role changes.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// UpdateRole PATCH /api/v1/users/:userId/role
func (h *Handlers) UpdateRole(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return response.Error(c, "Invalid user id", fiber.StatusBadRequest, nil)
	}
	var req UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	user, err := h.Service.UpdateRole(c.Context(), userID, req.Role)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Role updated", fiber.Map{"user": user}, nil)
}

// ListContractors GET /api/v1/users/contractors
func (h *Handlers) ListContractors(c *fiber.Ctx) error {
	contractors, err := h.Service.ListContractors(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Contractors retrieved", fiber.Map{"contractors": contractors}, nil)
}
