package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/sebuszqo/BudgetManager/internal/logger"
	"github.com/sebuszqo/BudgetManager/internal/user"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInternalError        = errors.New("internal Server Error")
	ErrTooManyLoginAttempts = errors.New("too many login attempts, try again later")
)

type Service interface {
	Login(ctx context.Context, email, password string) (*user.User, string, string, error)
	RefreshAccessToken(ctx context.Context, userID string) (string, string, error)
	Logout(ctx context.Context, userID string) error
	JWTRefreshTokenMiddleware() func(http.Handler) http.Handler
	JWTAccessTokenMiddleware() func(http.Handler) http.Handler
}

type service struct {
	userService user.Service
	jwtManager  JWTManagerInterface
}

func NewAuthService(userService user.Service, jwtManager JWTManagerInterface) Service {
	return &service{
		userService: userService,
		jwtManager:  jwtManager,
	}
}

// Login returns the user with a new access token and refresh token.
func (s *service) Login(ctx context.Context, email, password string) (*user.User, string, string, error) {
	log := logger.FromContext(ctx)

	existingUser, err := s.userService.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		log.Error().Err(err).Msg("Failed to load user for login")
		return nil, "", "", ErrInternalError
	}
	if !doPasswordsMatch(existingUser.PasswordHash, password) {
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.issueTokens(existingUser)
	if err != nil {
		log.Error().Err(err).Msg("Failed to issue tokens")
		return nil, "", "", ErrInternalError
	}

	log.Info().Str("user_id", existingUser.ID).Msg("User logged in")
	return existingUser, accessToken, refreshToken, nil
}

func (s *service) issueTokens(u *user.User) (string, string, error) {
	accessToken, err := s.jwtManager.GenerateAccessJWT(u.ID, defaultJWTDuration)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshJWT(u.ID, u.HashToken, defaultJWTRefreshDuration)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// RefreshAccessToken requests are already checked in refresh token middleware
func (s *service) RefreshAccessToken(ctx context.Context, userID string) (string, string, error) {
	existingUser, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return "", "", ErrUserNotFound
		}
		return "", "", ErrInternalError
	}

	accessToken, refreshToken, err := s.issueTokens(existingUser)
	if err != nil {
		return "", "", ErrInternalError
	}
	return accessToken, refreshToken, nil
}

// Logout rotates the user's hash token so no refresh token issued before stays usable.
func (s *service) Logout(ctx context.Context, userID string) error {
	if err := s.userService.RotateHashToken(ctx, userID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return ErrUserNotFound
		}
		log := logger.FromContext(ctx)
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to rotate hash token")
		return ErrInternalError
	}
	return nil
}

func doPasswordsMatch(hashedPassword, currPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(currPassword))
	return err == nil
}
