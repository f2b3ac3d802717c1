package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sebuszqo/BudgetManager/internal/auth"
	budgeting "github.com/sebuszqo/BudgetManager/internal/budgeting/interfaces"
	"github.com/sebuszqo/BudgetManager/internal/logger"
	"github.com/sebuszqo/BudgetManager/internal/user"
)

// HealthChecker reports the state of a backing service.
type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

type Server struct {
	router         http.Handler
	authHandler    *auth.Handler
	userHandler    *user.Handler
	authService    auth.Service
	budgetHandlers *budgeting.Handlers
	loginLimiter   *auth.LoginLimiter
	database       HealthChecker
	log            zerolog.Logger
}

func NewServer(
	authHandler *auth.Handler,
	authService auth.Service,
	userHandler *user.Handler,
	budgetHandlers *budgeting.Handlers,
	loginLimiter *auth.LoginLimiter,
	database HealthChecker,
	log zerolog.Logger,
) *Server {
	return &Server{
		authHandler:    authHandler,
		authService:    authService,
		userHandler:    userHandler,
		budgetHandlers: budgetHandlers,
		loginLimiter:   loginLimiter,
		database:       database,
		log:            log,
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	budgeting.RespondError(w, http.StatusNotFound, "Path not found")
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	health := s.database.Health(ctx)
	if health["status"] != "up" {
		log := logger.FromContext(r.Context())
		log.Warn().Str("error", health["error"]).Msg("Readiness check failed")
		budgeting.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	budgeting.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) RegisterRoutes() {
	// Public routes
	publicRoutes := http.NewServeMux()
	publicRoutes.Handle("POST /api/register", http.HandlerFunc(s.userHandler.HandleRegister))
	publicRoutes.Handle("POST /api/auth/login", s.loginLimiter.Middleware(http.HandlerFunc(s.authHandler.HandleLogin)))
	publicRoutes.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))

	// Protected routes (using JWT Access Token Middleware)
	protectedRoutes := http.NewServeMux()
	protectedRoutes.Handle("GET /api/protected/profile",
		s.authService.JWTAccessTokenMiddleware()(http.HandlerFunc(s.userHandler.HandleGetUserProfile)))
	s.budgetHandlers.RegisterRoutes(protectedRoutes, s.authService.JWTAccessTokenMiddleware())

	// Refresh token routes
	refreshTokenRoutes := http.NewServeMux()
	refreshTokenRoutes.Handle("PUT /api/refresh/token",
		s.authService.JWTRefreshTokenMiddleware()(http.HandlerFunc(s.authHandler.RefreshAccessToken)))
	refreshTokenRoutes.Handle("DELETE /api/refresh/token",
		s.authService.JWTRefreshTokenMiddleware()(http.HandlerFunc(s.authHandler.HandleLogout)))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/api/", publicRoutes)
	mainRouter.Handle("/api/protected/", protectedRoutes)
	mainRouter.Handle("/api/refresh/", refreshTokenRoutes)
	mainRouter.Handle("/", http.HandlerFunc(notFoundHandler))

	var handler http.Handler = mainRouter
	handler = logger.Recovery(s.log)(handler)
	handler = logger.Middleware(s.log)(handler)
	handler = logger.RequestID(handler)
	s.router = handler
}

func (s *Server) Handler() http.Handler {
	return s.router
}
