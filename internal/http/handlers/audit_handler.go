package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/poe-manager/backend/internal/http/dto"
	"github.com/poe-manager/backend/internal/repositories"
	"go.uber.org/zap"
)

type AuditHandler struct {
	auditRepo *repositories.AuditRepo
	log       *zap.Logger
}

func NewAuditHandler(auditRepo *repositories.AuditRepo, log *zap.Logger) *AuditHandler {
	return &AuditHandler{auditRepo: auditRepo, log: log}
}

// List returns the trail newest first.
func (h *AuditHandler) List(c *fiber.Ctx) error {
	limit, offset := 50, 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: h.auditRepo.List(limit, offset)})
}
