package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/shop-at/authentication-service/internal/domain"
	"github.com/shop-at/authentication-service/internal/repository"
	apperrors "github.com/shop-at/authentication-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated calling service.
type Principal struct {
	Service *domain.ServiceRegistry
}

// ServiceAuthMiddleware admits requests carrying a valid service token.
type ServiceAuthMiddleware struct {
	tokens   *TokenService
	services repository.ServiceRepository
}

// NewServiceAuthMiddleware constructs middleware.
func NewServiceAuthMiddleware(tokens *TokenService, services repository.ServiceRepository) *ServiceAuthMiddleware {
	return &ServiceAuthMiddleware{tokens: tokens, services: services}
}

// Handle enforces service authentication for protected routes.
func (m *ServiceAuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.Signer().Parse(parts[1])
	if err != nil {
		return AsDomainError(err)
	}
	if claims.ServiceName == "" {
		return AsDomainError(ErrInvalidServiceName)
	}

	service, err := m.services.GetByName(c.UserContext(), claims.ServiceName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("service not registered")
		}
		return apperrors.MapError(err)
	}
	if !service.Active {
		return apperrors.NewForbidden("service inactive")
	}

	if err := m.tokens.ValidateServiceToken(parts[1], *service); err != nil {
		return AsDomainError(err)
	}

	c.Locals(principalKey, &Principal{Service: service})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated service.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// AsDomainError converts a token validation failure into a 401 DomainError.
// Other errors pass through unchanged.
func AsDomainError(err error) error {
	reason, ok := Reason(err)
	if !ok {
		return err
	}
	return apperrors.NewTokenRejected(reason, err)
}
