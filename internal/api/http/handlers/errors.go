package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/shop-at/authentication-service/internal/api/dto"
	"github.com/shop-at/authentication-service/internal/auth"
	"github.com/shop-at/authentication-service/internal/service"
	apperrors "github.com/shop-at/authentication-service/pkg/util/errorutil"
)

func mapAuthError(err error) error {
	switch {
	case auth.IsValidationError(err):
		return auth.AsDomainError(err)
	case errors.Is(err, service.ErrInvalidCredentials):
		return apperrors.NewUnauthorized("invalid credentials")
	case errors.Is(err, service.ErrUnknownPrincipal):
		return apperrors.NewUnauthorized("unknown principal")
	case errors.Is(err, service.ErrPrincipalInactive):
		return apperrors.NewForbidden("principal inactive")
	case errors.Is(err, service.ErrUnknownTokenKind):
		return apperrors.NewValidationError("unsupported token_type", map[string]any{
			"allowed": []string{"AccessToken", "RefreshToken"},
		})
	default:
		return apperrors.MapError(err)
	}
}

func validResponse(c *fiber.Ctx) dto.ValidationResponse {
	resp := dto.ValidationResponse{Valid: true}
	if principal, ok := auth.PrincipalFromContext(c); ok && principal.Service != nil {
		resp.CheckedBy = principal.Service.ServiceName
	}
	return resp
}
