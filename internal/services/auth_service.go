package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/BradenHooton/ideabox/internal/auth"
	"github.com/BradenHooton/ideabox/internal/models"
	pkglogger "github.com/BradenHooton/ideabox/pkg/logger"
)

// TokenRevoker records revoked token ids until they expire on their own.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
}

// Authenticator checks credentials against the account directory.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*models.LoginResult, error)
}

// LoginResponse is what a successful login hands back to the client.
type LoginResponse struct {
	AccessToken         string
	ExpiresAt           time.Time
	User                *models.User
	NeedsIntroduction   bool
	NeedsPasswordChange bool
}

// AuthService issues and revokes access tokens
type AuthService struct {
	accounts Authenticator
	tm       *auth.TokenManager
	revoker  TokenRevoker
	audit    Auditor
	logger   *slog.Logger
	env      string
}

// NewAuthService creates a new AuthService. revoker may be nil, in which case
// logout only records the event and tokens live until they expire. env controls
// whether attempted usernames are redacted from logs.
func NewAuthService(accounts Authenticator, tm *auth.TokenManager, revoker TokenRevoker, audit Auditor, logger *slog.Logger, env string) *AuthService {
	return &AuthService{
		accounts: accounts,
		tm:       tm,
		revoker:  revoker,
		audit:    auditorOrNoop(audit),
		logger:   logger,
		env:      env,
	}
}

// Login authenticates a user and returns an access token
func (s *AuthService) Login(ctx context.Context, username, password, ipAddress string) (*LoginResponse, error) {
	result, err := s.accounts.Authenticate(ctx, username, password)
	if err != nil {
		reason := "invalid_credentials"
		switch {
		case errors.Is(err, models.ErrAccountBlocked):
			reason = "account_blocked"
		case !errors.Is(err, models.ErrUnauthorized):
			reason = "internal_error"
		}
		s.logger.WarnContext(ctx, "login failed",
			pkglogger.RedactedAttr("username", username, s.env),
			slog.String("reason", reason),
		)
		s.audit.LogAuthEvent(ctx, "login_failed", nil, false, reason, ipAddress)
		return nil, err
	}

	user := result.User
	token, expiresAt, err := s.tm.GenerateAccessToken(user)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to generate access token", slog.Int64("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	userID := user.ID
	s.audit.LogAuthEvent(ctx, models.AuditEventTypeLogin, &userID, true, "", ipAddress)

	return &LoginResponse{
		AccessToken:         token,
		ExpiresAt:           expiresAt,
		User:                user,
		NeedsIntroduction:   result.NeedsIntroduction,
		NeedsPasswordChange: result.NeedsPasswordChange,
	}, nil
}

// Logout revokes the token described by claims.
func (s *AuthService) Logout(ctx context.Context, claims *models.TokenClaims, ipAddress string) error {
	if claims == nil || claims.ID == "" {
		return models.ErrUnauthorized
	}

	if s.revoker != nil {
		expiresAt := time.Now().Add(time.Minute)
		if claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
		if err := s.revoker.Revoke(ctx, claims.ID, expiresAt); err != nil {
			s.logger.ErrorContext(ctx, "failed to revoke token", slog.String("jti", claims.ID), slog.Any("error", err))
			return models.ErrInternalServer
		}
	}

	userID := claims.UserID
	s.logger.InfoContext(ctx, "user logged out", slog.Int64("user_id", userID))
	s.audit.LogAuthEvent(ctx, models.AuditEventTypeLogout, &userID, true, "", ipAddress)
	return nil
}
