package health

import (
	"proact-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Handlers holds the probes for the health endpoint.
type Handlers struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

// Check GET /health/json — reports connectivity of the database and Redis.
func (h *Handlers) Check(c *fiber.Ctx) error {
	status := fiber.Map{"database": "ok", "redis": "ok"}
	healthy := true

	if h.DB != nil {
		if sqlDB, err := h.DB.DB(); err != nil {
			status["database"] = err.Error()
			healthy = false
		} else if err := sqlDB.Ping(); err != nil {
			status["database"] = err.Error()
			healthy = false
		}
	} else {
		status["database"] = "not configured"
	}

	if h.Rdb != nil {
		if err := h.Rdb.Ping(c.Context()).Err(); err != nil {
			status["redis"] = err.Error()
			healthy = false
		}
	} else {
		status["redis"] = "not configured"
	}

	if !healthy {
		return response.Error(c, "Service degraded", fiber.StatusServiceUnavailable, status)
	}
	return response.Success(c, "Service healthy", status, nil)
}
