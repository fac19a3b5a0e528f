package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/skillkhoj/backend/internal/app/models"
	"github.com/skillkhoj/backend/internal/app/models/dto"
	"github.com/skillkhoj/backend/internal/pkg/apperrors"
	"github.com/skillkhoj/backend/internal/pkg/auth"
	"github.com/skillkhoj/backend/internal/pkg/validation"
)

// AuthOptions tunes registration behaviour
type AuthOptions struct {
	AllowAdminRegistration bool
}

// AuthService handles authentication operations
type AuthService struct {
	users      UserStore
	jwtService *auth.JWTService
	hasher     *auth.Hasher
	opts       AuthOptions
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	users UserStore,
	jwtService *auth.JWTService,
	hasher *auth.Hasher,
	opts AuthOptions,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		jwtService: jwtService,
		hasher:     hasher,
		opts:       opts,
		logger:     logger,
	}
}

// validateEmail validates an already normalized email address
func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email cannot be empty", apperrors.ErrValidationFailed)
	}
	if !validation.IsValidEmail(email) {
		return fmt.Errorf("%w: invalid email format", apperrors.ErrValidationFailed)
	}
	return nil
}

// validatePassword checks if password meets requirements
func validatePassword(password string) error {
	if problem := validation.PasswordProblem(password); problem != "" {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidPassword, problem)
	}
	return nil
}

// Register creates an account. No session token is issued; the caller logs in separately.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	email := validation.NormalizeEmail(req.Email)

	if !validation.IsValidName(name) {
		return nil, fmt.Errorf("%w: name is required and at most 100 characters", apperrors.ErrValidationFailed)
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}
	if !req.Role.IsValid() {
		return nil, fmt.Errorf("%w: role must be one of Student, Recruiter, Admin", apperrors.ErrValidationFailed)
	}
	if req.Role == models.RoleAdmin && !s.opts.AllowAdminRegistration {
		return nil, apperrors.ErrRoleNotAllowed
	}

	// Early exit only; the unique index on email is the real guard.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, fmt.Errorf("error checking if email exists: %w", err)
	}

	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		Password: hashedPassword,
		Role:     req.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("user creation error: %w", err)
	}

	s.logger.Info().Str("userID", user.ID).Str("role", string(user.Role)).Msg("User registered")
	return user, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	email := validation.NormalizeEmail(req.Email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.logger.Debug().Str("email", email).Msg("Login with unknown email")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error finding user: %w", err)
	}

	if !s.hasher.Check(user.Password, req.Password) {
		s.logger.Debug().Str("userID", user.ID).Msg("Login with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.Issue(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &dto.LoginResponse{
		Message:   "Login Successful",
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(s.jwtService.Expiration().Seconds()),
		User:      dto.NewUserResponse(user),
	}, nil
}
