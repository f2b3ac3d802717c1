package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sebuszqo/BudgetManager/internal/auth"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/application"
	"github.com/sebuszqo/BudgetManager/internal/budgeting/infrastructure"
	budgeting "github.com/sebuszqo/BudgetManager/internal/budgeting/interfaces"
	"github.com/sebuszqo/BudgetManager/internal/events"
	"github.com/sebuszqo/BudgetManager/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "0b0c2d3e-0000-4000-8000-000000000001"

type stubHealth struct {
	status string
}

func (h stubHealth) Health(context.Context) map[string]string {
	return map[string]string{"status": h.status}
}

type stubUserService struct{}

func (stubUserService) Register(context.Context, string, string, string) (*user.User, error) {
	return nil, errors.New("not implemented")
}

func (stubUserService) GetUserByID(_ context.Context, id string) (*user.User, error) {
	if id != testUserID {
		return nil, user.ErrUserNotFound
	}
	return &user.User{ID: testUserID, Email: "jan@example.com", HashToken: "hash"}, nil
}

func (stubUserService) RotateHashToken(context.Context, string) error {
	return nil
}

func (stubUserService) GetUserByEmail(context.Context, string) (*user.User, error) {
	return nil, user.ErrUserNotFound
}

func newTestServer(t *testing.T, health string) (*Server, auth.JWTManagerInterface) {
	t.Helper()
	store := infrastructure.NewMockStore(testUserID)
	publisher := events.NoopPublisher{}
	handlers := budgeting.NewHandlers(budgeting.Services{
		Budgets:     application.NewBudgetService(store.Budgets(), store.Categories(), store.Users(), store, publisher),
		Periods:     application.NewPeriodService(store.Periods(), publisher),
		Deposits:    application.NewDepositService(store.Deposits(), store.Entities(), store.Budgets(), store, publisher),
		Entities:    application.NewEntityService(store.Entities(), publisher),
		Categories:  application.NewCategoryService(store.Categories(), store.Budgets(), publisher),
		Predictions: application.NewPredictionService(store.Predictions(), store.Periods(), store.Categories(), publisher),
	}, budgeting.RespondJSON, budgeting.RespondError)

	jwtManager := auth.NewJWTManager("test-secret")
	authService := auth.NewAuthService(stubUserService{}, jwtManager)
	server := NewServer(
		auth.NewHandler(authService, false),
		authService,
		user.NewHandler(stubUserService{}, auth.UserIDFromContext),
		handlers,
		auth.NewLoginLimiter(2),
		stubHealth{status: health},
		zerolog.Nop(),
	)
	server.RegisterRoutes()
	return server, jwtManager
}

func TestServer_Ready(t *testing.T) {
	for status, want := range map[string]int{"up": http.StatusOK, "down": http.StatusServiceUnavailable} {
		server, _ := newTestServer(t, status)
		rr := httptest.NewRecorder()
		server.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/ready", nil))
		assert.Equal(t, want, rr.Code, status)
		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	}
}

func TestServer_NotFound(t *testing.T) {
	server, _ := newTestServer(t, "up")
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestServer_ProtectedRoutesRequireToken(t *testing.T) {
	server, jwtManager := newTestServer(t, "up")

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/protected/budgets", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	token, err := jwtManager.GenerateAccessJWT(testUserID, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/protected/budgets", strings.NewReader(`{"name":"Home"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/protected/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "jan@example.com")
}

func TestServer_LoginIsRateLimited(t *testing.T) {
	server, _ := newTestServer(t, "up")

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"jan@example.com","password":"x"}`))
		req.RemoteAddr = "198.51.100.4:5000"
		rr := httptest.NewRecorder()
		server.Handler().ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
}

func TestServer_LogoutRequiresRefreshToken(t *testing.T) {
	server, _ := newTestServer(t, "up")

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/refresh/token", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Refresh token is required")

	rr = httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	assert.NotEqual(t, http.StatusOK, rr.Code)
}

func TestServer_RecoversFromPanics(t *testing.T) {
	server, _ := newTestServer(t, "up")
	server.database = panickingHealth{}

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/ready", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

type panickingHealth struct{}

func (panickingHealth) Health(context.Context) map[string]string {
	panic("database handle is nil")
}
