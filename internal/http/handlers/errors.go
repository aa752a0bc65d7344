package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/poe-manager/backend/internal/http/dto"
	"github.com/poe-manager/backend/internal/models"
	"github.com/poe-manager/backend/internal/repositories"
	"github.com/poe-manager/backend/internal/services"
)

// serviceError maps domain errors onto HTTP responses. Validation errors keep
// their field keys so forms can surface them inline.
func serviceError(c *fiber.Ctx, err error) error {
	var validation models.ValidationErrors
	if errors.As(err, &validation) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error:  "Por favor, corrija los errores en el formulario.",
			Fields: validation,
		})
	}

	switch {
	case errors.Is(err, services.ErrAuthFailed):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrPoeNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrEmptyReason), errors.Is(err, services.ErrInvalidRole):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, repositories.ErrDuplicateUsername), errors.Is(err, repositories.ErrDuplicateEmail):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
}
