package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/shop-at/authentication-service/internal/api/dto"
	"github.com/shop-at/authentication-service/internal/domain"
	"github.com/shop-at/authentication-service/internal/service"
)

// UsersHandler exposes token endpoints for end-users.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Login handles POST /auth/users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	user, pair, err := h.auth.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return mapAuthError(err)
	}
	return c.JSON(userTokensResponse(user, pair))
}

// Refresh handles POST /auth/users/refresh.
func (h *UsersHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.RefreshToken == "" {
		return fiber.NewError(http.StatusBadRequest, "email and refresh_token required")
	}

	user, pair, err := h.auth.RefreshTokens(c.UserContext(), req.Email, req.RefreshToken)
	if err != nil {
		return mapAuthError(err)
	}
	return c.JSON(userTokensResponse(user, pair))
}

// Validate handles POST /auth/tokens/validate.
func (h *UsersHandler) Validate(c *fiber.Ctx) error {
	var req dto.ValidateUserTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Token == "" || req.TokenType == "" || req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "token, token_type, email required")
	}

	if err := h.auth.ValidateUserToken(c.UserContext(), req.Token, req.TokenType, req.Email); err != nil {
		return mapAuthError(err)
	}
	return c.JSON(fiber.Map{"data": validResponse(c)})
}

func userTokensResponse(user *domain.User, pair *domain.TokenPair) fiber.Map {
	return fiber.Map{
		"data": fiber.Map{
			"user": fiber.Map{
				"id":    user.ID,
				"name":  user.Name,
				"email": user.Email,
			},
			"auth": dto.TokenPairResponse{
				AccessToken:      pair.AccessToken,
				RefreshToken:     pair.RefreshToken,
				AccessExpiresAt:  pair.AccessExpiresAt,
				RefreshExpiresAt: pair.RefreshExpiresAt,
			},
		},
	}
}
