package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/civicfix/report-service/internal/auth"
	"github.com/civicfix/report-service/internal/config"
	"github.com/civicfix/report-service/internal/domain"
	"github.com/civicfix/report-service/internal/repository"
	apperrors "github.com/civicfix/report-service/pkg/util"
)

// AuthService coordinates login, logout and password-reset flows.
type AuthService struct {
	users      repository.UserRepository
	tokenStore *repository.TokenStore
	tokenMgr   *auth.TokenManager
	bcryptCost int
	accessTTL  time.Duration
	resetTTL   time.Duration
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, tokenStore *repository.TokenStore) *AuthService {
	return &AuthService{
		users:      users,
		tokenStore: tokenStore,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
		accessTTL:  time.Duration(cfg.AccessTokenTTLMinutes) * time.Minute,
		resetTTL:   time.Duration(cfg.PasswordResetTTLMinutes) * time.Minute,
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Login authenticates a user by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// IssueToken mints a token for a freshly registered user.
func (s *AuthService) IssueToken(user *domain.User) (string, time.Time, error) {
	return s.tokenMgr.GenerateToken(user.ID, user.Role)
}

// Logout revokes the current token id for the remainder of its lifetime.
func (s *AuthService) Logout(ctx context.Context, tokenID string) error {
	return s.tokenStore.Revoke(ctx, tokenID, s.accessTTL)
}

// RequestPasswordReset issues a one-shot reset token. An unknown email is
// not an error, so the endpoint cannot be used to probe for accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	token := uuid.NewString()
	if err := s.tokenStore.StoreResetToken(ctx, token, user.ID, s.resetTTL); err != nil {
		return "", err
	}
	return token, nil
}

// ConfirmPasswordReset consumes a reset token and sets the new password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return apperrors.NewValidationError("new password required", nil)
	}
	userID, err := s.tokenStore.ConsumeResetToken(ctx, token)
	if err != nil {
		return err
	}
	if userID == "" {
		return apperrors.NewUnauthorized("invalid or expired reset token")
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return err
	}
	return nil
}
