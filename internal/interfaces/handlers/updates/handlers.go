package updates

import (
	updatesvc "proact-backend/internal/application/updates"
	"proact-backend/internal/middleware"
	"proact-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers holds dependencies for project update endpoints.
type Handlers struct {
	Service *updatesvc.Service
}

// Create POST /api/v1/projects/:projectId/updates
func (h *Handlers) Create(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return response.Error(c, "Invalid project id", fiber.StatusBadRequest, nil)
	}
	ident := middleware.CurrentUser(c)
	var req updatesvc.CreateInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	update, err := h.Service.Create(c.Context(), projectID, ident.ID, ident.Role, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Update posted", fiber.Map{"update": update}, nil)
}

// List GET /api/v1/projects/:projectId/updates
func (h *Handlers) List(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return response.Error(c, "Invalid project id", fiber.StatusBadRequest, nil)
	}
	updates, err := h.Service.List(c.Context(), projectID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Updates retrieved", fiber.Map{"updates": updates}, fiber.Map{"count": len(updates)})
}

// Edit PUT /api/v1/projects/:projectId/updates/:updateId
func (h *Handlers) Edit(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return response.Error(c, "Invalid project id", fiber.StatusBadRequest, nil)
	}
	updateID, err := uuid.Parse(c.Params("updateId"))
	if err != nil {
		return response.Error(c, "Invalid update id", fiber.StatusBadRequest, nil)
	}
	ident := middleware.CurrentUser(c)
	var req updatesvc.EditInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	update, err := h.Service.Edit(c.Context(), projectID, updateID, ident.ID, ident.Role, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Update edited", fiber.Map{"update": update}, nil)
}

// Delete DELETE /api/v1/projects/:projectId/updates/:updateId
func (h *Handlers) Delete(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return response.Error(c, "Invalid project id", fiber.StatusBadRequest, nil)
	}
	updateID, err := uuid.Parse(c.Params("updateId"))
	if err != nil {
		return response.Error(c, "Invalid update id", fiber.StatusBadRequest, nil)
	}
	ident := middleware.CurrentUser(c)
	if err := h.Service.Delete(c.Context(), projectID, updateID, ident.ID, ident.Role); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Update deleted", nil, nil)
}
