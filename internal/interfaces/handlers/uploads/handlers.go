package uploads

import (
	uploadsvc "proact-backend/internal/application/uploads"
	"proact-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers holds dependencies for upload endpoints.
type Handlers struct {
	Service *uploadsvc.Service
}

// SignRequest body for requesting a signed upload URL.
type SignRequest struct {
	Bucket   string `json:"bucket"`
	FileName string `json:"fileName"`
}

// Sign POST /api/v1/uploads/sign
func (h *Handlers) Sign(c *fiber.Ctx) error {
	var req SignRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	result, err := h.Service.GetSignedUploadURL(c.Context(), req.Bucket, req.FileName)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Upload URL created", fiber.Map{"upload": result}, nil)
}
