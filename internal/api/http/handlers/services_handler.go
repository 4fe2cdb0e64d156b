package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/shop-at/authentication-service/internal/api/dto"
	"github.com/shop-at/authentication-service/internal/service"
)

// ServicesHandler exposes token endpoints for internal services.
type ServicesHandler struct {
	auth *service.AuthService
}

// NewServicesHandler constructs handler.
func NewServicesHandler(authService *service.AuthService) *ServicesHandler {
	return &ServicesHandler{auth: authService}
}

// IssueToken handles POST /auth/services/token.
func (h *ServicesHandler) IssueToken(c *fiber.Ctx) error {
	var req dto.ServiceTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.ServiceName == "" || req.Secret == "" {
		return fiber.NewError(http.StatusBadRequest, "service_name and secret required")
	}

	_, token, exp, err := h.auth.IssueServiceToken(c.UserContext(), req.ServiceName, req.Secret)
	if err != nil {
		return mapAuthError(err)
	}

	resp := dto.ServiceTokenResponse{Token: token}
	if !exp.IsZero() {
		resp.ExpiresAt = &exp
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": resp})
}

// Validate handles POST /auth/services/validate.
func (h *ServicesHandler) Validate(c *fiber.Ctx) error {
	var req dto.ValidateServiceTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Token == "" || req.ServiceName == "" {
		return fiber.NewError(http.StatusBadRequest, "token and service_name required")
	}

	if err := h.auth.ValidateServiceToken(c.UserContext(), req.Token, req.ServiceName); err != nil {
		return mapAuthError(err)
	}
	return c.JSON(fiber.Map{"data": validResponse(c)})
}
