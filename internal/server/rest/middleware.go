package rest

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

func (s *HTTPServer) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	s.logger.Debug(c.UserContext(), "request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return err
}

// errorHandler maps fiber errors to their status and anything else to 500
// without leaking the cause.
func (s *HTTPServer) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(APIResponse{Message: fe.Message})
	}

	s.logger.Error(c.UserContext(), "request failed", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(APIResponse{Message: "internal error"})
}
