package service

import (
	"errors"
	"strings"
	"time"

	"github.com/spec-kit/support-panel/internal/auth"
	"github.com/spec-kit/support-panel/internal/config"
	"github.com/spec-kit/support-panel/pkg/util"
)

// AuthService authenticates the panel operator against the configured
// credential and issues access tokens.
type AuthService struct {
	operatorEmail string
	passwordHash  string
	tokens        *auth.TokenManager
}

// NewAuthService builds the service. A plaintext operator password is
// hashed once at startup; having neither hash nor password configured is
// a startup error.
func NewAuthService(cfg config.AuthConfig) (*AuthService, error) {
	hash := cfg.OperatorPasswordHash
	if hash == "" {
		if cfg.OperatorPassword == "" {
			return nil, errors.New("no operator credential configured: set PANEL_OPERATOR_PASSWORD_HASH or PANEL_OPERATOR_PASSWORD")
		}
		hashed, err := auth.HashPassword(cfg.OperatorPassword, cfg.BcryptCost)
		if err != nil {
			return nil, err
		}
		hash = hashed
	}

	return &AuthService{
		operatorEmail: cfg.OperatorEmail,
		passwordHash:  hash,
		tokens:        auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
	}, nil
}

// Login verifies the operator credential and returns a signed token with
// its expiry.
func (s *AuthService) Login(email, password string) (string, time.Time, error) {
	if !strings.EqualFold(strings.TrimSpace(email), s.operatorEmail) {
		return "", time.Time{}, util.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(s.passwordHash, password); err != nil {
		return "", time.Time{}, util.NewUnauthorized("invalid credentials")
	}
	return s.tokens.GenerateToken(s.operatorEmail)
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}
