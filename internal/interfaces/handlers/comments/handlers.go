package comments

import (
	commentsvc "proact-backend/internal/application/comments"
	"proact-backend/internal/middleware"
	"proact-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers holds dependencies for comment endpoints.
type Handlers struct {
	Service *commentsvc.Service
}

// Create POST /api/v1/projects/:projectId/comments
func (h *Handlers) Create(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return response.Error(c, "Invalid project id", fiber.StatusBadRequest, nil)
	}
	ident := middleware.CurrentUser(c)
	var req commentsvc.CreateInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	comment, err := h.Service.Create(c.Context(), projectID, ident.ID, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Comment posted", fiber.Map{"comment": comment}, nil)
}

// List GET /api/v1/projects/:projectId/comments
func (h *Handlers) List(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return response.Error(c, "Invalid project id", fiber.StatusBadRequest, nil)
	}
	comments, err := h.Service.ListForProject(c.Context(), projectID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Comments retrieved", fiber.Map{"comments": comments}, fiber.Map{"count": len(comments)})
}

// Delete DELETE /api/v1/comments/:commentId
func (h *Handlers) Delete(c *fiber.Ctx) error {
	commentID, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return response.Error(c, "Invalid comment id", fiber.StatusBadRequest, nil)
	}
	ident := middleware.CurrentUser(c)
	if err := h.Service.Delete(c.Context(), commentID, ident.ID, ident.Role); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Comment deleted", nil, nil)
}
