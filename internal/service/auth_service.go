package service

import (
	"context"
	"time"

	"github.com/spec-kit/registry-service/internal/auth"
	"github.com/spec-kit/registry-service/internal/config"
	apperrors "github.com/spec-kit/registry-service/pkg/util"
)

// Admin login messages.
const (
	MsgInvalidPassword = "Invalid password"
	MsgMisconfigured   = "Server misconfigured"
)

// AuthService verifies the admin password and issues session tokens.
type AuthService struct {
	password     string
	passwordHash string
	tokenMgr     *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AdminConfig) *AuthService {
	return &AuthService{
		password:     cfg.Password,
		passwordHash: cfg.PasswordHash,
		tokenMgr:     auth.NewTokenManager(cfg.SessionSecret, cfg.SessionTTL),
	}
}

// Login checks password against the configured hash or plaintext secret.
func (s *AuthService) Login(_ context.Context, password string) (string, time.Time, error) {
	switch {
	case s.passwordHash != "":
		if password == "" || auth.ComparePassword(s.passwordHash, password) != nil {
			return "", time.Time{}, apperrors.NewUnauthorized(MsgInvalidPassword)
		}
	case s.password != "":
		if !auth.EqualSecret(s.password, password) {
			return "", time.Time{}, apperrors.NewUnauthorized(MsgInvalidPassword)
		}
	default:
		return "", time.Time{}, apperrors.NewMisconfigured(MsgMisconfigured)
	}

	token, exp, err := s.tokenMgr.GenerateToken()
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return token, exp, nil
}

// Logout is a no-op for the stateless session; the handler clears the cookie.
func (s *AuthService) Logout(_ context.Context) error {
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
