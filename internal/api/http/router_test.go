package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/membership-hub/membership-service/internal/api/http/handlers"
	"github.com/membership-hub/membership-service/internal/auth"
	"github.com/membership-hub/membership-service/internal/config"
	"github.com/membership-hub/membership-service/internal/domain"
	"github.com/membership-hub/membership-service/internal/notification"
	"github.com/membership-hub/membership-service/internal/repository"
	"github.com/membership-hub/membership-service/internal/service"
)

type captureDispatcher struct {
	sent []notification.Message
}

func (d *captureDispatcher) Send(_ context.Context, msg notification.Message) error {
	d.sent = append(d.sent, msg)
	return nil
}

type testServer struct {
	app      *fiber.App
	staff    *repository.MemoryStaffRepository
	notifier *captureDispatcher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	staffRepo := repository.NewMemoryStaffRepository()
	memberRepo := repository.NewMemoryMemberRepository()
	notifier := &captureDispatcher{}
	hasher := auth.NewHasher(bcrypt.MinCost)
	tokens := auth.NewTokenManager("test-secret", "membership-test", time.Hour, 15*time.Minute)

	cfg := config.Config{Auth: config.AuthConfig{OTPTTL: 15 * time.Minute}}
	authService := service.NewAuthService(cfg, service.AuthDependencies{
		StaffRepo: staffRepo,
		Hasher:    hasher,
		Tokens:    tokens,
		Notifier:  notifier,
		Logger:    logger,
	})

	hash, err := hasher.Hash("admin-pass")
	require.NoError(t, err)
	require.NoError(t, staffRepo.Create(context.Background(), &domain.StaffAccount{
		Name: "Admin", Email: "admin@x.com", Role: domain.StaffRoleAdmin, PasswordHash: hash,
	}))

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger)})
	RegisterMiddlewares(app, logger, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("membership-test", "test", nil),
		Auth:           handlers.NewAuthHandler(authService),
		Staff:          handlers.NewStaffHandler(authService),
		Members:        handlers.NewMemberHandler(service.NewMemberService(memberRepo, notifier, logger)),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
	})
	return &testServer{app: app, staff: staffRepo, notifier: notifier}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp.StatusCode, decoded
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	status, body := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, status, "login body: %v", body)
	data := body["data"].(map[string]any)
	return data["auth"].(map[string]any)["token"].(string)
}

func errorCode(body map[string]any) string {
	envelope, _ := body["error"].(map[string]any)
	code, _ := envelope["code"].(string)
	return code
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alive", body["status"])

	status, body = s.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", body["status"])
}

func TestAdminCreatesStaff(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.login(t, "admin@x.com", "admin-pass")

	status, body := s.do(t, http.MethodPost, "/api/staff", adminToken,
		map[string]string{"name": "A", "email": "a@x.com", "role": "staff"})
	require.Equal(t, http.StatusCreated, status, "body: %v", body)
	data := body["data"].(map[string]any)
	assert.Equal(t, true, data["credentials_sent"])
	staff := data["staff"].(map[string]any)
	assert.Equal(t, "a@x.com", staff["email"])
	assert.NotContains(t, staff, "password_hash")

	stored, err := s.staff.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	require.Len(t, s.notifier.sent, 1)
	assert.Equal(t, []string{"a@x.com"}, s.notifier.sent[0].To)

	status, body = s.do(t, http.MethodPost, "/api/staff", adminToken,
		map[string]string{"name": "A", "email": "a@x.com"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE_EMAIL", errorCode(body))
}

func TestStaffRoutesRequireAdmin(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.login(t, "admin@x.com", "admin-pass")

	status, _ := s.do(t, http.MethodPost, "/api/staff", adminToken, map[string]string{"name": "S", "email": "s@x.com"})
	require.Equal(t, http.StatusCreated, status)
	password := ""
	for _, msg := range s.notifier.sent {
		if msg.To[0] == "s@x.com" {
			_, after, found := bytes.Cut([]byte(msg.Body), []byte("Password: "))
			require.True(t, found)
			password = string(after[:16])
		}
	}
	staffToken := s.login(t, "s@x.com", password)

	status, body := s.do(t, http.MethodGet, "/api/staff", staffToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(body))

	status, _ = s.do(t, http.MethodPost, "/api/staff", staffToken, map[string]string{})
	assert.Equal(t, http.StatusForbidden, status, "role gate precedes validation")

	status, body = s.do(t, http.MethodGet, "/api/staff", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))

	status, body = s.do(t, http.MethodGet, "/api/staff", adminToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"], 2)
}

func TestSuspensionBlocksLogin(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.login(t, "admin@x.com", "admin-pass")

	status, body := s.do(t, http.MethodPost, "/api/staff", adminToken, map[string]string{"name": "S", "email": "s@x.com"})
	require.Equal(t, http.StatusCreated, status)
	id := body["data"].(map[string]any)["staff"].(map[string]any)["id"].(string)

	status, _ = s.do(t, http.MethodPatch, "/api/staff/"+id+"/suspension", adminToken, map[string]bool{"suspended": true})
	require.Equal(t, http.StatusOK, status)

	status, body = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "s@x.com", "password": "whatever"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "SUSPENDED", errorCode(body))

	status, _ = s.do(t, http.MethodDelete, "/api/staff/"+id, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = s.do(t, http.MethodDelete, "/api/staff/"+id, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestPasswordResetOverHTTP(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, http.MethodPost, "/api/auth/password/forgot", "", map[string]string{"email": "admin@x.com"})
	require.Equal(t, http.StatusOK, status)
	require.Len(t, s.notifier.sent, 1)
	body := s.notifier.sent[0].Body
	idx := bytes.Index([]byte(body), []byte("code is "))
	require.GreaterOrEqual(t, idx, 0)
	otp := body[idx+len("code is ") : idx+len("code is ")+6]

	status, resp := s.do(t, http.MethodPost, "/api/auth/password/verify-otp", "", map[string]string{"email": "admin@x.com", "otp": otp})
	require.Equal(t, http.StatusOK, status, "body: %v", resp)
	token := resp["data"].(map[string]any)["token"].(string)

	status, resp = s.do(t, http.MethodPost, "/api/auth/password/verify-otp", "", map[string]string{"email": "admin@x.com", "otp": otp})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_OR_EXPIRED_OTP", errorCode(resp))

	status, _ = s.do(t, http.MethodPost, "/api/auth/password/reset", "", map[string]string{"token": token, "new_password": "NewPass1"})
	require.Equal(t, http.StatusOK, status)
	s.login(t, "admin@x.com", "NewPass1")

	status, resp = s.do(t, http.MethodPost, "/api/auth/password/forgot", "", map[string]string{"email": "nobody@x.com"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(resp))
}

func TestChangePasswordRequiresSession(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, http.MethodPost, "/api/auth/password/change", "",
		map[string]string{"current_password": "admin-pass", "new_password": "Changed1"})
	assert.Equal(t, http.StatusUnauthorized, status)

	token := s.login(t, "admin@x.com", "admin-pass")
	status, resp := s.do(t, http.MethodPost, "/api/auth/password/change", token,
		map[string]string{"current_password": "nope", "new_password": "Changed1"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(resp))

	status, _ = s.do(t, http.MethodPost, "/api/auth/password/change", token,
		map[string]string{"current_password": "admin-pass", "new_password": "Changed1"})
	assert.Equal(t, http.StatusOK, status)
	s.login(t, "admin@x.com", "Changed1")
}

func TestMemberEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "admin@x.com", "admin-pass")

	status, _ := s.do(t, http.MethodGet, "/api/members/list", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := s.do(t, http.MethodPost, "/api/members/add", token, map[string]string{
		"name": "Grace", "email": "grace@x.com", "phone": "555-0100", "date_of_birth": "1985-06-02",
	})
	require.Equal(t, http.StatusCreated, status, "body: %v", body)
	member := body["data"].(map[string]any)
	assert.Equal(t, "1985-06-02", member["date_of_birth"])
	assert.Equal(t, "Active", member["membership_status"])
	id := member["id"].(string)

	status, body = s.do(t, http.MethodPut, "/api/members/update/"+id, token, map[string]string{"phone": "555-0199"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "555-0199", body["data"].(map[string]any)["phone"])

	status, body = s.do(t, http.MethodGet, "/api/members/list", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"], 1)

	status, _ = s.do(t, http.MethodPost, "/api/members/send-email", token,
		map[string]string{"email": "grace@x.com", "subject": "Hi", "message": "Hello"})
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodDelete, "/api/members/delete/"+id, token, nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestValidationAndUnknownRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "admin@x.com", "admin-pass")

	status, body := s.do(t, http.MethodPost, "/api/members/add", token, map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
	details := body["error"].(map[string]any)["details"].(map[string]any)["fields"].(map[string]any)
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "email")

	status, body = s.do(t, http.MethodPost, "/api/auth/password/verify-otp", "", map[string]string{"email": "admin@x.com", "otp": "12ab"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, body = s.do(t, http.MethodGet, "/api/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}
