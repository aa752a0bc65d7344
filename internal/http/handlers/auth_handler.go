package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/poe-manager/backend/internal/http/dto"
	"github.com/poe-manager/backend/internal/middleware"
	"github.com/poe-manager/backend/internal/rbac"
	"github.com/poe-manager/backend/internal/services"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *services.AuthService
	log         *zap.Logger
}

func NewAuthHandler(authService *services.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	user, token, err := h.authService.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.AuthResponse{Token: token, User: user.Public()})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.Context(), middleware.GetUsername(c)); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "username, email y password son obligatorios"})
	}

	user, err := h.authService.Register(c.Context(), req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: user.Public()})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	role := middleware.GetRole(c)
	return c.JSON(dto.MeResponse{
		User: fiber.Map{
			"id":       middleware.GetUserID(c),
			"username": middleware.GetUsername(c),
			"role":     role,
		},
		Permissions:          rbac.PermittedOperations(role),
		CurrentEstablishment: h.authService.CurrentEstablishment(),
	})
}

func (h *AuthHandler) SetEstablishment(c *fiber.Ctx) error {
	var req dto.SetEstablishmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	if err := h.authService.SetCurrentEstablishment(c.Context(), req.Establishment); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
