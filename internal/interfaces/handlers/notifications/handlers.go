package notifications

import (
	notifsvc "proact-backend/internal/application/notifications"
	"proact-backend/internal/middleware"
	"proact-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers holds dependencies for notification endpoints.
type Handlers struct {
	Service *notifsvc.Service
}

// List GET /api/v1/notifications?unread=true
func (h *Handlers) List(c *fiber.Ctx) error {
	ident := middleware.CurrentUser(c)
	unreadOnly := c.Query("unread") == "true"
	items, err := h.Service.ListForUser(c.Context(), ident.ID, unreadOnly)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Notifications retrieved", fiber.Map{"notifications": items}, fiber.Map{"count": len(items)})
}

// MarkRead PATCH /api/v1/notifications/:notificationId/read
func (h *Handlers) MarkRead(c *fiber.Ctx) error {
	notificationID, err := uuid.Parse(c.Params("notificationId"))
	if err != nil {
		return response.Error(c, "Invalid notification id", fiber.StatusBadRequest, nil)
	}
	ident := middleware.CurrentUser(c)
	if err := h.Service.MarkRead(c.Context(), notificationID, ident.ID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Notification marked as read", nil, nil)
}
