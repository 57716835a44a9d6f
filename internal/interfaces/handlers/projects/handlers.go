package projects

import (
	"context"

	projsvc "proact-backend/internal/application/projects"
	"proact-backend/internal/middleware"
	"proact-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers holds dependencies for project endpoints.
type Handlers struct {
	Service *projsvc.Service
}

func projectID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("projectId"))
}

// Create POST /api/v1/projects
func (h *Handlers) Create(c *fiber.Ctx) error {
	ident := middleware.CurrentUser(c)
	var req projsvc.CreateInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	project, err := h.Service.Create(c.Context(), ident.ID, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Project created", fiber.Map{"project": project}, nil)
}

// List GET /api/v1/projects
func (h *Handlers) List(c *fiber.Ctx) error {
	var governmentID, contractorID *uuid.UUID
	if q := c.Query("governmentId"); q != "" {
		id, err := uuid.Parse(q)
		if err != nil {
			return response.Error(c, "Invalid government id", fiber.StatusBadRequest, nil)
		}
		governmentID = &id
	}
	if q := c.Query("contractorId"); q != "" {
		id, err := uuid.Parse(q)
		if err != nil {
			return response.Error(c, "Invalid contractor id", fiber.StatusBadRequest, nil)
		}
		contractorID = &id
	}
	projects, err := h.Service.List(c.Context(), governmentID, contractorID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Projects retrieved", fiber.Map{"projects": projects}, fiber.Map{"count": len(projects)})
}

// Get GET /api/v1/projects/:projectId
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := projectID(c)
	if err != nil {
		return response.Error(c, "Invalid project id", fiber.StatusBadRequest, nil)
	}
	viewerID := uuid.Nil
	if ident := middleware.CurrentUser(c); ident != nil {
		viewerID = ident.ID
	}
	project, err := h.Service.Get(c.Context(), id, viewerID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Project retrieved", fiber.Map{"project": project}, nil)
}

// Update PUT /api/v1/projects/:projectId
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := projectID(c)
	if err != nil {
		return response.Error(c, "Invalid project id", fiber.StatusBadRequest, nil)
	}
	ident := middleware.CurrentUser(c)
	var req projsvc.UpdateInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	project, err := h.Service.Update(c.Context(), id, ident.ID, ident.Role, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Project updated", fiber.Map{"project": project}, nil)
}

// Delete DELETE /api/v1/projects/:projectId
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := projectID(c)
	if err != nil {
		return response.Error(c, "Invalid project id", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.Delete(c.Context(), id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Project deleted", nil, nil)
}

// Like POST /api/v1/projects/:projectId/like
func (h *Handlers) Like(c *fiber.Ctx) error {
	return h.voteEndpoint(c, h.Service.Like, "Project liked")
}

// Dislike POST /api/v1/projects/:projectId/dislike
func (h *Handlers) Dislike(c *fiber.Ctx) error {
	return h.voteEndpoint(c, h.Service.Dislike, "Project disliked")
}

// Unlike DELETE /api/v1/projects/:projectId/like
func (h *Handlers) Unlike(c *fiber.Ctx) error {
	return h.voteEndpoint(c, h.Service.Unlike, "Like removed")
}

// Undislike DELETE /api/v1/projects/:projectId/dislike
func (h *Handlers) Undislike(c *fiber.Ctx) error {
	return h.voteEndpoint(c, h.Service.Undislike, "Dislike removed")
}

func (h *Handlers) voteEndpoint(c *fiber.Ctx, op func(ctx context.Context, projectID, userID uuid.UUID) (*projsvc.VoteCounts, error), message string) error {
	id, err := projectID(c)
	if err != nil {
		return response.Error(c, "Invalid project id", fiber.StatusBadRequest, nil)
	}
	ident := middleware.CurrentUser(c)
	votes, err := op(c.Context(), id, ident.ID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, message, fiber.Map{"votes": votes}, nil)
}
