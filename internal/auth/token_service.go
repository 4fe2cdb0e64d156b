package auth

import (
	"fmt"
	"time"

	"github.com/shop-at/authentication-service/internal/domain"
)

// Options switch on the checks that are disabled by default.
type Options struct {
	// VerifyUserID compares the user_id claim with the expected user.
	VerifyUserID bool
	// VerifyServiceID embeds serviceId in service tokens and compares it.
	VerifyServiceID bool
	// ServiceTokenTTL, when positive, gives service tokens an exp claim
	// that is enforced on validation.
	ServiceTokenTTL time.Duration
	Clock           Clock
}

// TokenService issues and validates user and service tokens. It is
// immutable after construction and safe for concurrent use.
type TokenService struct {
	signer *Signer
	clock  Clock
	opts   Options
}

// NewTokenService builds a service over the shared signing secret.
func NewTokenService(secret []byte, opts Options) (*TokenService, error) {
	signer, err := NewSigner(secret)
	if err != nil {
		return nil, err
	}
	if opts.ServiceTokenTTL < 0 {
		return nil, fmt.Errorf("invalid service token ttl: %s", opts.ServiceTokenTTL)
	}
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	return &TokenService{signer: signer, clock: clock, opts: opts}, nil
}

// Signer exposes the underlying signer for callers that only need the claims.
func (s *TokenService) Signer() *Signer {
	return s.signer
}

// IssueAccessToken signs a 6 hour access token for the user.
func (s *TokenService) IssueAccessToken(user domain.User) (string, time.Time, error) {
	return s.issueUserToken(user, domain.TokenKindAccess, AccessTokenTTL)
}

// IssueRefreshToken signs a 7 day refresh token for the user.
func (s *TokenService) IssueRefreshToken(user domain.User) (string, time.Time, error) {
	return s.issueUserToken(user, domain.TokenKindRefresh, RefreshTokenTTL)
}

// IssueServiceToken signs a token for a registered service. The returned
// expiry is zero unless a service token TTL is configured.
func (s *TokenService) IssueServiceToken(service domain.ServiceRegistry) (string, time.Time, error) {
	now := s.clock.Now()
	claims := &TokenClaims{
		ServiceName: service.ServiceName,
		IssuedAt:    toMillis(now),
		Issuer:      Issuer,
		TokenType:   string(domain.TokenKindService),
	}
	if s.opts.VerifyServiceID {
		claims.ServiceID = service.ID
	}

	var expiresAt time.Time
	if s.opts.ServiceTokenTTL > 0 {
		expiresAt = now.Add(s.opts.ServiceTokenTTL)
		claims.ExpiresAt = toMillis(expiresAt)
	}

	token, err := s.signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (s *TokenService) issueUserToken(user domain.User, kind domain.TokenKind, ttl time.Duration) (string, time.Time, error) {
	now := s.clock.Now()
	expiresAt := now.Add(ttl)
	claims := &TokenClaims{
		UserID:    user.ID,
		Email:     user.Email,
		Roles:     RoleUser,
		IssuedAt:  toMillis(now),
		ExpiresAt: toMillis(expiresAt),
		Issuer:    Issuer,
		TokenType: string(kind),
	}

	token, err := s.signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// ValidateUserToken checks a user token against the expected user and kind.
// It returns nil when the token is valid, otherwise the first failing rule.
func (s *TokenService) ValidateUserToken(token string, kind domain.TokenKind, user domain.User) error {
	claims, err := s.signer.Parse(token)
	if err != nil {
		return err
	}

	if s.opts.VerifyUserID && claims.UserID != user.ID {
		return ErrInvalidUserID
	}
	if claims.Email != user.Email {
		return ErrInvalidEmail
	}
	if claims.TokenType != string(kind) {
		return ErrInvalidTokenType
	}
	if claims.Issuer != Issuer {
		return ErrInvalidIssuer
	}
	if claims.Roles != RoleUser {
		return ErrInvalidRoles
	}
	if s.expired(claims) {
		return ErrExpired
	}
	return nil
}

// ValidateServiceToken checks a service token against the expected service.
// Service tokens carry no exp claim unless a service token TTL is configured.
func (s *TokenService) ValidateServiceToken(token string, service domain.ServiceRegistry) error {
	claims, err := s.signer.Parse(token)
	if err != nil {
		return err
	}

	if claims.ServiceName != service.ServiceName {
		return ErrInvalidServiceName
	}
	if s.opts.VerifyServiceID && claims.ServiceID != service.ID {
		return ErrInvalidServiceID
	}
	if claims.TokenType != string(domain.TokenKindService) {
		return ErrInvalidTokenType
	}
	if claims.Issuer != Issuer {
		return ErrInvalidIssuer
	}
	if s.opts.ServiceTokenTTL > 0 && s.expired(claims) {
		return ErrExpired
	}
	return nil
}

// expired treats a missing exp as expired; user tokens always carry one.
func (s *TokenService) expired(claims *TokenClaims) bool {
	if !claims.HasExpiry() {
		return true
	}
	return claims.ExpiresAt < toMillis(s.clock.Now())
}
