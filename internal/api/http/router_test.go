package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/shop-at/authentication-service/internal/api/http/handlers"
	"github.com/shop-at/authentication-service/internal/auth"
	"github.com/shop-at/authentication-service/internal/config"
	"github.com/shop-at/authentication-service/internal/domain"
	"github.com/shop-at/authentication-service/internal/observability"
	"github.com/shop-at/authentication-service/internal/service"
)

type memUsers map[string]domain.User

func (m memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := m[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

type memServices map[string]domain.ServiceRegistry

func (m memServices) GetByName(_ context.Context, name string) (*domain.ServiceRegistry, error) {
	s, ok := m[name]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &s, nil
}

func newTestApp(t *testing.T) (*fiber.App, *observability.Metrics) {
	t.Helper()

	pwHash, err := auth.HashSecret("pw", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	secretHash, err := auth.HashSecret("s3cret", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	users := memUsers{"a@x.com": {ID: "42", Name: "Ada", Email: "a@x.com", PasswordHash: pwHash, Status: domain.UserStatusActive}}
	services := memServices{"order-service": {ID: "7", ServiceName: "order-service", SecretHash: secretHash, Active: true}}
	metrics := observability.NewMetrics()
	logger := zap.NewNop()

	cfg := config.Config{Auth: config.AuthConfig{JWTSecret: "router-test-secret-0123456789abcdef"}}
	authService, err := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:    users,
		ServiceRepo: services,
		Metrics:     metrics,
		Logger:      logger,
	})
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("authentication-service", "test", nil, nil),
		Users:          handlers.NewUsersHandler(authService),
		Services:       handlers.NewServicesHandler(authService),
		Metrics:        handlers.NewMetricsHandler(metrics),
		AuthMiddleware: auth.NewServiceAuthMiddleware(authService.TokenService(), services),
	})
	return app, metrics
}

func doJSON(t *testing.T, app *fiber.App, method, path, bearer string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && err != io.EOF {
		t.Fatalf("decode %s %s: %v", method, path, err)
	}
	return resp.StatusCode, out
}

func errorCode(body map[string]any) string {
	errBody, _ := body["error"].(map[string]any)
	code, _ := errBody["code"].(string)
	return code
}

func TestTokenFlowOverHTTP(t *testing.T) {
	app, metrics := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/auth/users/login", "", map[string]string{"email": "a@x.com", "password": "pw"})
	if status != http.StatusOK {
		t.Fatalf("login status %d: %v", status, body)
	}
	authBody := body["data"].(map[string]any)["auth"].(map[string]any)
	access := authBody["access_token"].(string)
	refresh := authBody["refresh_token"].(string)

	status, body = doJSON(t, app, http.MethodPost, "/auth/services/token", "", map[string]string{"service_name": "order-service", "secret": "s3cret"})
	if status != http.StatusCreated {
		t.Fatalf("service token status %d: %v", status, body)
	}
	data := body["data"].(map[string]any)
	serviceToken := data["token"].(string)
	if _, ok := data["expires_at"]; ok {
		t.Fatal("service token response must not carry an expiry")
	}

	validate := map[string]string{"token": access, "token_type": "AccessToken", "email": "a@x.com"}
	if status, body = doJSON(t, app, http.MethodPost, "/auth/tokens/validate", "", validate); status != http.StatusUnauthorized {
		t.Fatalf("validation without service token should be rejected, got %d", status)
	}

	status, body = doJSON(t, app, http.MethodPost, "/auth/tokens/validate", serviceToken, validate)
	if status != http.StatusOK || body["data"].(map[string]any)["valid"] != true {
		t.Fatalf("validate status %d: %v", status, body)
	}
	if checkedBy := body["data"].(map[string]any)["checked_by"]; checkedBy != "order-service" {
		t.Fatalf("checked_by = %v, want order-service", checkedBy)
	}

	confused := map[string]string{"token": refresh, "token_type": "AccessToken", "email": "a@x.com"}
	status, body = doJSON(t, app, http.MethodPost, "/auth/tokens/validate", serviceToken, confused)
	if status != http.StatusUnauthorized || errorCode(body) != "INVALID_TOKEN_TYPE" {
		t.Fatalf("expected INVALID_TOKEN_TYPE, got %d %v", status, body)
	}

	status, body = doJSON(t, app, http.MethodPost, "/auth/services/validate", serviceToken, map[string]string{"token": serviceToken, "service_name": "order-service"})
	if status != http.StatusOK {
		t.Fatalf("service validate status %d: %v", status, body)
	}

	status, body = doJSON(t, app, http.MethodPost, "/auth/users/refresh", "", map[string]string{"email": "a@x.com", "refresh_token": refresh})
	if status != http.StatusOK {
		t.Fatalf("refresh status %d: %v", status, body)
	}

	snap := metrics.Snapshot()
	if snap.Issued["AccessToken"] != 2 || snap.Issued["serviceToken"] != 1 {
		t.Fatalf("unexpected issued counters %v", snap.Issued)
	}
	if snap.Validations["AccessToken|INVALID_TOKEN_TYPE"] != 1 {
		t.Fatalf("unexpected validation counters %v", snap.Validations)
	}
}

func TestHTTPErrors(t *testing.T) {
	app, _ := newTestApp(t)

	cases := []struct {
		name       string
		path       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{"bad credentials", "/auth/users/login", map[string]string{"email": "a@x.com", "password": "nope"}, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"missing fields", "/auth/users/login", map[string]string{"email": "a@x.com"}, http.StatusBadRequest, "BAD_REQUEST"},
		{"bad service secret", "/auth/services/token", map[string]string{"service_name": "order-service", "secret": "x"}, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"garbage refresh", "/auth/users/refresh", map[string]string{"email": "a@x.com", "refresh_token": "junk"}, http.StatusUnauthorized, "SIGNATURE_OR_FORMAT"},
		{"unknown route", "/nope", map[string]string{}, http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := doJSON(t, app, http.MethodPost, tc.path, "", tc.body)
			if status != tc.wantStatus || errorCode(body) != tc.wantCode {
				t.Fatalf("got %d %v, want %d %s", status, body, tc.wantStatus, tc.wantCode)
			}
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, http.MethodGet, "/health/live", "", nil)
	if status != http.StatusOK || body["status"] != "alive" {
		t.Fatalf("live: %d %v", status, body)
	}

	status, body = doJSON(t, app, http.MethodGet, "/health/ready", "", nil)
	if status != http.StatusServiceUnavailable || errorCode(body) != "DEPENDENCY_UNAVAILABLE" {
		t.Fatalf("ready without dependencies: %d %v", status, body)
	}

	status, body = doJSON(t, app, http.MethodGet, "/metrics", "", nil)
	if status != http.StatusOK {
		t.Fatalf("metrics: %d %v", status, body)
	}
	if _, ok := body["requests"]; !ok {
		t.Fatalf("metrics missing requests: %v", body)
	}
}
