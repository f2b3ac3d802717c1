package user

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
	"github.com/sebuszqo/BudgetManager/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxEmailLength    = 254
	minEmailLength    = 3
	maxNameLength     = 128
	minPasswordLength = 5
	bcryptCost        = 12
)

var (
	ErrInvalidEmail       = errors.New("email address is not valid")
	ErrEmailLength        = fmt.Errorf("email address is too long or too short, max length: %d, min length: %d", maxEmailLength, minEmailLength)
	ErrNameLength         = fmt.Errorf("name is too long, max length: %d", maxNameLength)
	ErrPasswordTooShort   = fmt.Errorf("password is too short, min length: %d", minPasswordLength)
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInternalError      = errors.New("internal Server Error")
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	HashToken    string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Service interface {
	Register(ctx context.Context, email, name, password string) (*User, error)
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	RotateHashToken(ctx context.Context, userID string) error
}

type service struct {
	repo Repository
}

func NewUserService(repo Repository) Service {
	return &service{repo: repo}
}

func hashPassword(password string) (string, error) {
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(hashedPasswordBytes), err
}

// generateHashToken returns the per-user secret refresh tokens are bound to.
func generateHashToken() (string, error) {
	token := make([]byte, 32)
	if _, err := rand.Read(token); err != nil {
		return "", fmt.Errorf("could not generate hash token: %w", err)
	}
	return hex.EncodeToString(token), nil
}

func validateEmailAddress(email string) error {
	if len(email) > maxEmailLength || len(email) <= minEmailLength {
		return ErrEmailLength
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// IsValidationError reports errors caused by the registration payload.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrEmailLength) ||
		errors.Is(err, ErrNameLength) ||
		errors.Is(err, ErrPasswordTooShort)
}

func (s *service) Register(ctx context.Context, email, name, password string) (*User, error) {
	log := logger.FromContext(ctx)
	email = strings.TrimSpace(strings.ToLower(email))

	if err := validateEmailAddress(email); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return nil, ErrNameLength
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	existingUser, err := s.repo.getUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		log.Error().Err(err).Msg("Failed to look up user by email")
		return nil, ErrInternalError
	}
	if existingUser != nil {
		return nil, ErrEmailAlreadyExists
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password")
		return nil, ErrInternalError
	}
	hashToken, err := generateHashToken()
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate hash token")
		return nil, ErrInternalError
	}

	now := time.Now().UTC()
	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		HashToken:    hashToken,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.createUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, err
		}
		log.Error().Err(err).Msg("Failed to create user")
		return nil, ErrInternalError
	}

	log.Info().Str("user_id", user.ID).Msg("User registered")
	return user, nil
}

func (s *service) GetUserByID(ctx context.Context, userID string) (*User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrUserNotFound
	}
	return s.repo.getUserByID(ctx, userID)
}

func (s *service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.getUserByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
}

// RotateHashToken replaces the user's hash token, invalidating every refresh token issued so far.
func (s *service) RotateHashToken(ctx context.Context, userID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return ErrUserNotFound
	}
	hashToken, err := generateHashToken()
	if err != nil {
		return err
	}
	return s.repo.updateHashToken(ctx, userID, hashToken)
}
