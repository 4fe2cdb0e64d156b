package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/shop-at/authentication-service/internal/auth"
	"github.com/shop-at/authentication-service/internal/config"
	"github.com/shop-at/authentication-service/internal/domain"
	"github.com/shop-at/authentication-service/internal/events"
	"github.com/shop-at/authentication-service/internal/observability"
	"github.com/shop-at/authentication-service/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPrincipalInactive  = errors.New("principal inactive")
	ErrUnknownPrincipal   = errors.New("unknown principal")
	ErrUnknownTokenKind   = errors.New("unknown token type")
)

const validOutcome = "VALID"

// AuthService issues and validates tokens for stored users and services.
type AuthService struct {
	users    repository.UserRepository
	services repository.ServiceRepository
	tokens   *auth.TokenService
	events   events.Dispatcher
	metrics  *observability.Metrics
	logger   *zap.Logger
	clock    auth.Clock
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	ServiceRepo repository.ServiceRepository
	Events      events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
	Clock       auth.Clock
}

// NewAuthService builds the service and its token service from config.
func NewAuthService(cfg config.Config, deps AuthDependencies) (*AuthService, error) {
	clock := deps.Clock
	if clock == nil {
		clock = auth.SystemClock{}
	}
	tokens, err := auth.NewTokenService([]byte(cfg.Auth.JWTSecret), auth.Options{
		VerifyUserID:    cfg.Auth.VerifyUserID,
		VerifyServiceID: cfg.Auth.VerifyServiceID,
		ServiceTokenTTL: cfg.Auth.ServiceTokenTTL(),
		Clock:           clock,
	})
	if err != nil {
		return nil, err
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dispatcher := deps.Events
	if dispatcher == nil {
		dispatcher = events.NewInMemoryDispatcher()
	}

	return &AuthService{
		users:    deps.UserRepo,
		services: deps.ServiceRepo,
		tokens:   tokens,
		events:   dispatcher,
		metrics:  deps.Metrics,
		logger:   logger,
		clock:    clock,
	}, nil
}

// TokenService exposes the underlying token service for middleware usage.
func (s *AuthService) TokenService() *auth.TokenService {
	return s.tokens
}

// LoginUser authenticates an end-user and issues an access/refresh pair.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error) {
	user, err := s.activeUser(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUnknownPrincipal) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if err := auth.CompareSecret(user.PasswordHash, password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, *user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// RefreshTokens exchanges a valid refresh token for a new pair.
func (s *AuthService) RefreshTokens(ctx context.Context, email, refreshToken string) (*domain.User, *domain.TokenPair, error) {
	user, err := s.activeUser(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if err := s.checkUserToken(ctx, refreshToken, domain.TokenKindRefresh, *user); err != nil {
		return nil, nil, err
	}

	pair, err := s.issuePair(ctx, *user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// ValidateUserToken checks a user token of the given type against the user
// registered under email.
func (s *AuthService) ValidateUserToken(ctx context.Context, token, tokenType, email string) error {
	kind, ok := domain.ParseTokenKind(tokenType)
	if !ok || kind == domain.TokenKindService {
		return ErrUnknownTokenKind
	}
	user, err := s.lookupUser(ctx, email)
	if err != nil {
		return err
	}
	return s.checkUserToken(ctx, token, kind, *user)
}

// IssueServiceToken authenticates a registered service by its secret and
// issues a service token.
func (s *AuthService) IssueServiceToken(ctx context.Context, serviceName, secret string) (*domain.ServiceRegistry, string, time.Time, error) {
	svc, err := s.lookupService(ctx, serviceName)
	if err != nil {
		if errors.Is(err, ErrUnknownPrincipal) {
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}
	if !svc.Active {
		return nil, "", time.Time{}, ErrPrincipalInactive
	}
	if err := auth.CompareSecret(svc.SecretHash, secret); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, exp, err := s.tokens.IssueServiceToken(*svc)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	s.recordIssued(ctx, domain.TokenKindService, events.Subject{ServiceName: svc.ServiceName}, exp)
	return svc, token, exp, nil
}

// ValidateServiceToken checks a service token against the registered service.
func (s *AuthService) ValidateServiceToken(ctx context.Context, token, serviceName string) error {
	svc, err := s.lookupService(ctx, serviceName)
	if err != nil {
		return err
	}

	subject := events.Subject{ServiceName: svc.ServiceName}
	err = s.tokens.ValidateServiceToken(token, *svc)
	s.recordValidation(ctx, domain.TokenKindService, subject, err)
	return err
}

func (s *AuthService) issuePair(ctx context.Context, user domain.User) (*domain.TokenPair, error) {
	access, accessExp, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.tokens.IssueRefreshToken(user)
	if err != nil {
		return nil, err
	}

	subject := events.Subject{UserID: user.ID, Email: user.Email}
	s.recordIssued(ctx, domain.TokenKindAccess, subject, accessExp)
	s.recordIssued(ctx, domain.TokenKindRefresh, subject, refreshExp)

	return &domain.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *AuthService) checkUserToken(ctx context.Context, token string, kind domain.TokenKind, user domain.User) error {
	err := s.tokens.ValidateUserToken(token, kind, user)
	s.recordValidation(ctx, kind, events.Subject{UserID: user.ID, Email: user.Email}, err)
	return err
}

func (s *AuthService) activeUser(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.lookupUser(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.Status != domain.UserStatusActive {
		return nil, ErrPrincipalInactive
	}
	return user, nil
}

func (s *AuthService) lookupUser(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnknownPrincipal
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) lookupService(ctx context.Context, name string) (*domain.ServiceRegistry, error) {
	svc, err := s.services.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnknownPrincipal
		}
		return nil, err
	}
	return svc, nil
}

func (s *AuthService) recordIssued(ctx context.Context, kind domain.TokenKind, subject events.Subject, expiresAt time.Time) {
	s.metrics.RecordIssued(string(kind))

	payload := issuedPayload(expiresAt)
	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTokenIssued,
		TokenKind: kind,
		Subject:   subject,
		Timestamp: s.clock.Now().UTC(),
		Payload:   payload,
	})
}

func (s *AuthService) recordValidation(ctx context.Context, kind domain.TokenKind, subject events.Subject, err error) {
	if err == nil {
		s.metrics.RecordValidation(string(kind), validOutcome)
		return
	}
	reason, ok := auth.Reason(err)
	if !ok {
		return
	}
	s.metrics.RecordValidation(string(kind), reason)
	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTokenRejected,
		TokenKind: kind,
		Subject:   subject,
		Timestamp: s.clock.Now().UTC(),
		Payload:   events.TokenRejectedPayload{Reason: reason},
	})
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}

// issuedPayload omits a zero expiry.
func issuedPayload(expiresAt time.Time) events.TokenIssuedPayload {
	if expiresAt.IsZero() {
		return events.TokenIssuedPayload{}
	}
	exp := expiresAt.UTC()
	return events.TokenIssuedPayload{ExpiresAt: &exp}
}
