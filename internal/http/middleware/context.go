package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestContext gives each request a user context derived from base, so
// cancelling base (server shutdown) cancels in-flight store calls. A positive
// timeout also bounds every request. The context is cancelled once the
// handler chain returns.
func RequestContext(base context.Context, timeout time.Duration) fiber.Handler {
	if base == nil {
		base = context.Background()
	}
	return func(c *fiber.Ctx) error {
		var (
			ctx    context.Context
			cancel context.CancelFunc
		)
		if timeout > 0 {
			ctx, cancel = context.WithTimeout(base, timeout)
		} else {
			ctx, cancel = context.WithCancel(base)
		}
		defer cancel()

		c.SetUserContext(ctx)
		return c.Next()
	}
}
