package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// NewTraceIDMiddleware puts a trace id into the request context. Incoming
// X-Trace-Id headers are honoured so gateway-assigned ids survive; otherwise a
// fresh one is generated. Domain events publish with this id.
func NewTraceIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := strings.TrimSpace(c.Get("X-Trace-Id"))
		if traceID == "" {
			traceID = uuid.New().String()
		}

		userCtx := c.UserContext()
		if userCtx == nil {
			userCtx = context.Background()
		}

		userCtx = context.WithValue(userCtx, "TraceID", traceID)

		c.SetUserContext(userCtx)
		c.Set("X-Trace-Id", traceID)
		return c.Next()
	}
}
