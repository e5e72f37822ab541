package handlers

import (
	"errors"
	"log/slog"

	"notesphere/services"
	"notesphere/validator"

	"github.com/gofiber/fiber/v2"
)

func success(c *fiber.Ctx, message string, data fiber.Map) error {
	return c.JSON(envelope(true, message, data))
}

func created(c *fiber.Ctx, message string, data fiber.Map) error {
	return c.Status(fiber.StatusCreated).JSON(envelope(true, message, data))
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(envelope(false, message, nil))
}

func badRequest(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusBadRequest, message)
}

func envelope(ok bool, message string, data fiber.Map) fiber.Map {
	body := fiber.Map{"success": ok, "message": message}
	for k, v := range data {
		body[k] = v
	}
	return body
}

// respondError maps service errors onto HTTP statuses. Client-facing
// messages come only from our own error taxonomy; anything else is logged
// with request context and reported as a generic server error.
func respondError(c *fiber.Ctx, err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return badRequest(c, validationErrs.Error())
	}

	switch {
	case errors.Is(err, services.ErrValidation):
		return badRequest(c, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		return fail(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return fail(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict):
		return fail(c, fiber.StatusConflict, err.Error())
	}

	requestID := ""
	if id, ok := c.Locals("requestID").(string); ok {
		requestID = id
	}

	slog.Error("server error",
		"request_id", requestID,
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	)

	return fail(c, fiber.StatusInternalServerError, "Internal server error")
}
