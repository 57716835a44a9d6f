package reports

import (
	reportsvc "proact-backend/internal/application/reports"
	"proact-backend/internal/middleware"
	"proact-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers holds dependencies for corruption report endpoints.
type Handlers struct {
	Service *reportsvc.Service
}

// Create POST /api/v1/projects/:projectId/reports
func (h *Handlers) Create(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return response.Error(c, "Invalid project id", fiber.StatusBadRequest, nil)
	}
	ident := middleware.CurrentUser(c)
	var req reportsvc.CreateInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	report, err := h.Service.Create(c.Context(), projectID, ident.ID, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Report filed", fiber.Map{"report": report}, nil)
}

// List GET /api/v1/projects/:projectId/reports
func (h *Handlers) List(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return response.Error(c, "Invalid project id", fiber.StatusBadRequest, nil)
	}
	reports, err := h.Service.ListForProject(c.Context(), projectID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Reports retrieved", fiber.Map{"reports": reports}, fiber.Map{"count": len(reports)})
}

// ListMine GET /api/v1/reports — every report across the caller's projects.
func (h *Handlers) ListMine(c *fiber.Ctx) error {
	ident := middleware.CurrentUser(c)
	reports, err := h.Service.ListForGovernment(c.Context(), ident.ID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Reports retrieved", fiber.Map{"reports": reports}, fiber.Map{"count": len(reports)})
}

// Get GET /api/v1/reports/:reportId
func (h *Handlers) Get(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("reportId"))
	if err != nil {
		return response.Error(c, "Invalid report id", fiber.StatusBadRequest, nil)
	}
	report, err := h.Service.Get(c.Context(), reportID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Report retrieved", fiber.Map{"report": report}, nil)
}

// UpdateStatus PATCH /api/v1/reports/:reportId/status
func (h *Handlers) UpdateStatus(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("reportId"))
	if err != nil {
		return response.Error(c, "Invalid report id", fiber.StatusBadRequest, nil)
	}
	ident := middleware.CurrentUser(c)
	var req reportsvc.StatusInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	report, err := h.Service.UpdateStatus(c.Context(), reportID, ident.ID, ident.Role, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Report status updated", fiber.Map{"report": report}, nil)
}
