package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const traceHeader = "X-Trace-Id"
const traceLocal = "trace_id"

// Tracing tags every request with a trace ID and echoes it on the
// response. An inbound X-Trace-Id is reused when it parses as a UUID, so
// the frontend can correlate a chain of calls.
func Tracing() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := c.Get(traceHeader)
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.New().String()
		}
		c.Locals(traceLocal, traceID)
		c.Set(traceHeader, traceID)
		return c.Next()
	}
}

// GetTraceID returns the request's trace ID, empty when tracing is not
// installed.
func GetTraceID(c *fiber.Ctx) string {
	if id, ok := c.Locals(traceLocal).(string); ok {
		return id
	}
	return ""
}
