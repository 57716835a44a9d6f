package analysis

import (
	analysissvc "proact-backend/internal/application/analysis"
	"proact-backend/internal/middleware"
	"proact-backend/internal/pkg/constants"
	"proact-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers holds dependencies for analysis endpoints.
type Handlers struct {
	Service *analysissvc.Service
}

// GetProjectAnalysis GET /api/v1/projects/:projectId/analysis
// Restricted to the owning government, the assigned contractor and admins.
func (h *Handlers) GetProjectAnalysis(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return response.Error(c, "Invalid project id", fiber.StatusBadRequest, nil)
	}
	ident := middleware.CurrentUser(c)
	doc, err := h.Service.GetProjectAnalysis(c.Context(), projectID, ident.ID, ident.Role)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Project analysis retrieved", fiber.Map{"analysis": doc}, nil)
}

// GetAggregateAnalysis GET /api/v1/analysis/aggregate
// Governments read their own rollup; admins may pass ?governmentId=.
func (h *Handlers) GetAggregateAnalysis(c *fiber.Ctx) error {
	ident := middleware.CurrentUser(c)
	governmentID := ident.ID
	if q := c.Query("governmentId"); q != "" {
		if ident.Role != constants.RoleAdmin {
			return response.Error(c, "Only admins may query another government", fiber.StatusForbidden, nil)
		}
		id, err := uuid.Parse(q)
		if err != nil {
			return response.Error(c, "Invalid government id", fiber.StatusBadRequest, nil)
		}
		governmentID = id
	}
	doc, err := h.Service.GetAggregateAnalysis(c.Context(), governmentID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Aggregate analysis retrieved", fiber.Map{"analysis": doc}, nil)
}
