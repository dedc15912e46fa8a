package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/BradenHooton/ideabox/internal/auth"
	"github.com/BradenHooton/ideabox/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-32-characters-long!"

// MockAuthenticator implements Authenticator for testing
type MockAuthenticator struct {
	AuthenticateFunc func(ctx context.Context, username, password string) (*models.LoginResult, error)
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, username, password string) (*models.LoginResult, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, username, password)
	}
	return nil, models.ErrUnauthorized
}

// MockTokenRevoker implements TokenRevoker for testing
type MockTokenRevoker struct {
	RevokeFunc func(ctx context.Context, jti string, expiresAt time.Time) error
}

func (m *MockTokenRevoker) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, jti, expiresAt)
	}
	return nil
}

func TestAuthService_Login_Success(t *testing.T) {
	tm := auth.NewTokenManager(testJWTSecret, time.Hour)
	audit := &RecordingAuditor{}
	accounts := &MockAuthenticator{
		AuthenticateFunc: func(ctx context.Context, username, password string) (*models.LoginResult, error) {
			return &models.LoginResult{
				User:              NewTestUser(7, username, models.RoleUser),
				NeedsIntroduction: true,
			}, nil
		},
	}
	svc := NewAuthService(accounts, tm, nil, audit, testLogger(), "test")

	resp, err := svc.Login(context.Background(), "alice", "secret1", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, resp.NeedsIntroduction)
	assert.False(t, resp.NeedsPasswordChange)
	assert.Equal(t, int64(7), resp.User.ID)

	claims, err := tm.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.WithinDuration(t, resp.ExpiresAt, claims.ExpiresAt.Time, time.Second)

	require.Len(t, audit.AuthEvents, 1)
	event := audit.AuthEvents[0]
	assert.Equal(t, models.AuditEventTypeLogin, event.EventType)
	assert.True(t, event.Success)
	require.NotNil(t, event.UserID)
	assert.Equal(t, int64(7), *event.UserID)
	assert.Equal(t, "10.0.0.1", event.IPAddress)
}

func TestAuthService_Login_Failures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantReason string
	}{
		{"bad credentials", models.ErrUnauthorized, "invalid_credentials"},
		{"blocked", models.ErrAccountBlocked, "account_blocked"},
		{"storage", models.ErrInternalServer, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			audit := &RecordingAuditor{}
			accounts := &MockAuthenticator{
				AuthenticateFunc: func(ctx context.Context, username, password string) (*models.LoginResult, error) {
					return nil, tt.err
				},
			}
			svc := NewAuthService(accounts, auth.NewTokenManager(testJWTSecret, time.Hour), nil, audit, testLogger(), "test")

			resp, err := svc.Login(context.Background(), "alice", "x", "10.0.0.1")
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, tt.err)

			require.Len(t, audit.AuthEvents, 1)
			assert.False(t, audit.AuthEvents[0].Success)
			assert.Equal(t, tt.wantReason, audit.AuthEvents[0].FailureReason)
			assert.Nil(t, audit.AuthEvents[0].UserID)
		})
	}
}

func TestAuthService_Login_FailureLogRedactsUsername(t *testing.T) {
	tests := []struct {
		env       string
		wantValue string
	}{
		{"production", "username=[REDACTED]"},
		{"development", "username=alice"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))
			svc := NewAuthService(&MockAuthenticator{}, auth.NewTokenManager(testJWTSecret, time.Hour), nil, nil, logger, tt.env)

			_, err := svc.Login(context.Background(), "alice", "wrong", "10.0.0.1")
			require.ErrorIs(t, err, models.ErrUnauthorized)
			assert.Contains(t, buf.String(), "login failed")
			assert.Contains(t, buf.String(), tt.wantValue)
		})
	}
}

func TestAuthService_Login_WithAccountService(t *testing.T) {
	ctx := context.Background()
	accounts, store, _ := newAccounts(t)
	seedUser(t, store, "alice", "secret1", models.RoleUser)
	svc := NewAuthService(accounts, auth.NewTokenManager(testJWTSecret, time.Hour), nil, nil, testLogger(), "test")

	resp, err := svc.Login(ctx, "alice", "secret1", "")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = svc.Login(ctx, "alice", "nope", "")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAuthService_Logout(t *testing.T) {
	tm := auth.NewTokenManager(testJWTSecret, time.Hour)
	token, expiresAt, err := tm.GenerateAccessToken(NewTestUser(7, "alice", models.RoleUser))
	require.NoError(t, err)
	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)

	var revokedJTI string
	var revokedUntil time.Time
	revoker := &MockTokenRevoker{
		RevokeFunc: func(ctx context.Context, jti string, exp time.Time) error {
			revokedJTI = jti
			revokedUntil = exp
			return nil
		},
	}
	audit := &RecordingAuditor{}
	svc := NewAuthService(&MockAuthenticator{}, tm, revoker, audit, testLogger(), "test")

	require.NoError(t, svc.Logout(context.Background(), claims, "10.0.0.1"))
	assert.Equal(t, claims.ID, revokedJTI)
	assert.WithinDuration(t, expiresAt, revokedUntil, time.Second)

	require.Len(t, audit.AuthEvents, 1)
	assert.Equal(t, models.AuditEventTypeLogout, audit.AuthEvents[0].EventType)
}

func TestAuthService_Logout_Errors(t *testing.T) {
	revoker := &MockTokenRevoker{
		RevokeFunc: func(ctx context.Context, jti string, exp time.Time) error {
			return errors.New("redis down")
		},
	}
	svc := NewAuthService(&MockAuthenticator{}, auth.NewTokenManager(testJWTSecret, time.Hour), revoker, nil, testLogger(), "test")

	assert.ErrorIs(t, svc.Logout(context.Background(), nil, ""), models.ErrUnauthorized)
	assert.ErrorIs(t, svc.Logout(context.Background(), &models.TokenClaims{}, ""), models.ErrUnauthorized)

	claims := &models.TokenClaims{UserID: 7}
	claims.ID = "jti-1"
	assert.ErrorIs(t, svc.Logout(context.Background(), claims, ""), models.ErrInternalServer)
}

func TestAuthService_Logout_WithoutRevoker(t *testing.T) {
	svc := NewAuthService(&MockAuthenticator{}, auth.NewTokenManager(testJWTSecret, time.Hour), nil, nil, testLogger(), "test")

	claims := &models.TokenClaims{UserID: 7}
	claims.ID = "jti-1"
	assert.NoError(t, svc.Logout(context.Background(), claims, ""))
}
