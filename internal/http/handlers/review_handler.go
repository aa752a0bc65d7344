package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/poe-manager/backend/internal/attachments"
	"github.com/poe-manager/backend/internal/http/dto"
	"github.com/poe-manager/backend/internal/services"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	poeService *services.PoeService
	review     *services.ReviewClient
	resolver   *attachments.Resolver
	log        *zap.Logger
}

func NewReviewHandler(poeService *services.PoeService, review *services.ReviewClient, resolver *attachments.Resolver, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{poeService: poeService, review: review, resolver: resolver, log: log}
}

// Suggestions asks the external text-generation service for an improvement
// report. Any failure surfaces as the generic retry message and never touches
// document state.
func (h *ReviewHandler) Suggestions(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid poe id"})
	}

	poe, err := h.poeService.Get(id)
	if err != nil {
		return serviceError(c, err)
	}

	suggestions, err := h.review.GenerateSuggestions(c.Context(), poe)
	if err != nil {
		h.log.Warn("review suggestions failed", zap.Int("poe_id", id), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Error: services.ReviewUnavailableMessage})
	}

	return c.JSON(dto.SuggestionsResponse{Suggestions: suggestions})
}

// ResolveAttachment suggests a display name for an attachment URL.
func (h *ReviewHandler) ResolveAttachment(c *fiber.Ctx) error {
	var req dto.ResolveAttachmentRequest
	if err := c.BodyParser(&req); err != nil || req.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "url is required"})
	}

	name, err := h.resolver.ResolveName(c.Context(), req.URL)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Error: "no se pudo resolver el nombre del adjunto"})
	}
	return c.JSON(dto.ResolveAttachmentResponse{Name: name})
}
