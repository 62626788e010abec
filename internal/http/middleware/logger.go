package middleware

import (
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tradedesk/internal/logging"
)

// Logger logs one line per request with request_id, method, path, status and
// latency in milliseconds.
func Logger(log *zap.Logger) fiber.Handler {
	if log == nil {
		log = logging.Nop()
	}

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		rid := logging.RequestID(c.UserContext())
		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		log.Info("http_request",
			zap.String("request_id", rid),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Float64("latency", float64(time.Since(start).Microseconds())/1000),
		)
		return err
	}
}

// LoggerWithWriter is Logger writing JSON lines to w.
func LoggerWithWriter(w io.Writer) fiber.Handler {
	return Logger(logging.NewWithWriter(w, "http"))
}
