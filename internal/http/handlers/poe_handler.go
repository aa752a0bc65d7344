package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/poe-manager/backend/internal/exporter"
	"github.com/poe-manager/backend/internal/http/dto"
	"github.com/poe-manager/backend/internal/middleware"
	"github.com/poe-manager/backend/internal/services"
	"go.uber.org/zap"
)

type PoeHandler struct {
	poeService  *services.PoeService
	authService *services.AuthService
	log         *zap.Logger
}

func NewPoeHandler(poeService *services.PoeService, authService *services.AuthService, log *zap.Logger) *PoeHandler {
	return &PoeHandler{poeService: poeService, authService: authService, log: log}
}

// establishmentScope resolves the filter: an explicit query parameter wins,
// otherwise the session's current establishment applies.
func (h *PoeHandler) establishmentScope(c *fiber.Ctx) *string {
	if v := c.Query("establishment"); v != "" {
		return &v
	}
	return h.authService.CurrentEstablishment()
}

func (h *PoeHandler) List(c *fiber.Ctx) error {
	poes := h.poeService.List(h.establishmentScope(c))
	return c.JSON(dto.SuccessResponse{OK: true, Data: poes})
}

func (h *PoeHandler) ListPending(c *fiber.Ctx) error {
	poes := h.poeService.ListPending(h.establishmentScope(c))
	return c.JSON(dto.SuccessResponse{OK: true, Data: poes})
}

func (h *PoeHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid poe id"})
	}

	poe, err := h.poeService.Get(id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: poe})
}

func (h *PoeHandler) History(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid poe id"})
	}

	poe, err := h.poeService.Get(id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: poe.History})
}

func (h *PoeHandler) Create(c *fiber.Ctx) error {
	var req dto.SavePoeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	actor := middleware.GetUsername(c)
	poe, err := h.poeService.Create(c.Context(), req.PoeInput, actor, req.Action == dto.ActionSubmit)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: poe})
}

func (h *PoeHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid poe id"})
	}

	var req dto.SavePoeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	actor := middleware.GetUsername(c)
	poe, err := h.poeService.Update(c.Context(), id, req.PoeInput, actor, req.Action == dto.ActionSubmit)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: poe})
}

func (h *PoeHandler) Approve(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid poe id"})
	}

	poe, err := h.poeService.Approve(c.Context(), id, middleware.GetUsername(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: poe})
}

func (h *PoeHandler) Reject(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid poe id"})
	}

	var req dto.RejectPoeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	poe, err := h.poeService.Reject(c.Context(), id, middleware.GetUsername(c), req.Reason)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: poe})
}

// Delete removes a document. A missing target reports ok without touching
// anything, matching the repository's silent no-op contract.
func (h *PoeHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid poe id"})
	}

	removed, err := h.poeService.Delete(c.Context(), id, middleware.GetUsername(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: fiber.Map{"deleted": removed}})
}

func (h *PoeHandler) Export(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid poe id"})
	}

	poe, err := h.poeService.Get(id)
	if err != nil {
		return serviceError(c, err)
	}

	data, err := exporter.ExportJSON(poe)
	if err != nil {
		return serviceError(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", exporter.Filename(poe)))
	return c.Send(data)
}
