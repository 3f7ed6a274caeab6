package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	apperrors "agency/internal/errors"
	"agency/internal/logger"
	"agency/internal/models"
	"agency/internal/repositories"
	"agency/internal/utils"
	"agency/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Login(ctx context.Context, email, password string) (*models.User, string, string, error)
	RefreshTokens(ctx context.Context, refreshToken string) (string, string, error)
	// Authenticate verifies an access token against the current user record.
	Authenticate(ctx context.Context, accessToken string) (*models.UserClaims, error)
	CreateUser(ctx context.Context, email, name, password, role string) (*models.User, error)
}

type service struct {
	userRepo repositories.UserRepository
	tokens   *utils.TokenManager
	log      *slog.Logger
}

func NewService(userRepo repositories.UserRepository, tokens *utils.TokenManager, log *slog.Logger) Service {
	if log == nil {
		log = logger.Discard()
	}
	return &service{
		userRepo: userRepo,
		tokens:   tokens,
		log:      log,
	}
}

func (s *service) Login(ctx context.Context, email, password string) (*models.User, string, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		s.log.Warn("login failed: unknown user", "email", email)
		return nil, "", "", apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.log.Warn("login failed: wrong password", "user_id", user.ID)
		return nil, "", "", apperrors.ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.tokens.GenerateTokens(claimsFor(user))
	if err != nil {
		return nil, "", "", fmt.Errorf("generate tokens: %w", err)
	}
	return user, accessToken, refreshToken, nil
}

func (s *service) RefreshTokens(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := s.tokens.ParseToken(refreshToken, utils.TokenTypeRefresh)
	if err != nil {
		return "", "", apperrors.ErrUnauthorized
	}

	user, err := s.current(ctx, claims)
	if err != nil {
		return "", "", err
	}
	return s.tokens.GenerateTokens(claimsFor(user))
}

func (s *service) Authenticate(ctx context.Context, accessToken string) (*models.UserClaims, error) {
	claims, err := s.tokens.ParseToken(accessToken, utils.TokenTypeAccess)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	if _, err := s.current(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// CreateUser stores a user with a bcrypt hashed password.
func (s *service) CreateUser(ctx context.Context, email, name, password, role string) (*models.User, error) {
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	if role != models.RoleAdmin && role != models.RoleAgent {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Name:         name,
		Password:     string(hashed),
		Role:         role,
		TokenVersion: 1,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// current loads the user behind claims and rejects tokens issued before
// the user's token version was bumped.
func (s *service) current(ctx context.Context, claims *models.UserClaims) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

func claimsFor(user *models.User) *models.UserClaims {
	return &models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		Permissions:  models.GetDefaultPermissions(user.Role),
	}
}
