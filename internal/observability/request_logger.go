package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request and feeds request metrics.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		status := c.Response().StatusCode()
		route, method := RouteLabels(c)
		metrics.RecordRequest(route, method, status, elapsed)

		logger.Info("request",
			zap.String("method", method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", elapsed),
		)
		return err
	}
}

// RouteLabels returns the matched route template and the method as owned strings.
// The raw path can carry link tokens, and fiber recycles the buffers behind both
// values once the handler returns.
func RouteLabels(c *fiber.Ctx) (route, method string) {
	return utils.CopyString(c.Route().Path), utils.CopyString(c.Method())
}
