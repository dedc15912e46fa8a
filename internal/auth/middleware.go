package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/BradenHooton/ideabox/internal/models"
	pkghttp "github.com/BradenHooton/ideabox/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

const (
	claimsContextKey contextKey = "claims"
	userContextKey   contextKey = "user"
	actorContextKey  contextKey = "actor"
)

// TokenRevocationChecker defines the interface for checking if tokens are revoked
type TokenRevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// UserResolver looks up the account behind a token.
type UserResolver interface {
	FindUser(ctx context.Context, id int64) (*models.User, error)
}

// RevocationConfig holds configuration for token revocation behavior
type RevocationConfig struct {
	FailClosed bool // deny access when the revocation store cannot be reached
}

// Authenticate validates the bearer token, checks revocation, and loads the
// current account so role changes, blocks and deletions apply immediately.
// The resolved models.Actor is stored in the request context.
func Authenticate(tm *TokenManager, users UserResolver, revocation TokenRevocationChecker, cfg RevocationConfig, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := BearerToken(r)
			if !ok {
				pkghttp.WriteUnauthorized(w, "missing or malformed authorization header")
				return
			}

			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				pkghttp.WriteUnauthorized(w, "invalid or expired token")
				return
			}

			if revocation != nil {
				revoked, err := revocation.IsRevoked(r.Context(), claims.ID)
				if err != nil {
					logger.WarnContext(r.Context(), "token revocation check failed", slog.Any("error", err))
					if cfg.FailClosed {
						pkghttp.WriteError(w, http.StatusServiceUnavailable, "service_unavailable", "unable to verify token status")
						return
					}
				}
				if revoked {
					pkghttp.WriteUnauthorized(w, "token has been revoked")
					return
				}
			}

			user, err := users.FindUser(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					pkghttp.WriteUnauthorized(w, "account no longer exists")
					return
				}
				pkghttp.WriteInternalError(w, "internal server error")
				return
			}
			if !user.IsActive {
				pkghttp.WriteError(w, http.StatusForbidden, "account_blocked", "account is blocked")
				return
			}

			ctx := WithClaims(r.Context(), claims)
			ctx = context.WithValue(ctx, userContextKey, user)
			ctx = context.WithValue(ctx, actorContextKey, models.ActorFor(user))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests whose actor is not an administrator.
// Must be used after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			pkghttp.WriteUnauthorized(w, "unauthorized")
			return
		}
		if !actor.IsAdmin() {
			pkghttp.WriteForbidden(w, "forbidden: insufficient permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// ActorFromContext returns the authenticated actor.
func ActorFromContext(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey).(models.Actor)
	return actor, ok
}

// ClaimsFromContext returns the validated token claims.
func ClaimsFromContext(ctx context.Context) *models.TokenClaims {
	claims, _ := ctx.Value(claimsContextKey).(*models.TokenClaims)
	return claims
}

// UserFromContext returns the account resolved for the request.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

// WithActor returns a context carrying actor and user, for tests and internal callers.
func WithActor(ctx context.Context, user *models.User) context.Context {
	ctx = context.WithValue(ctx, userContextKey, user)
	return context.WithValue(ctx, actorContextKey, models.ActorFor(user))
}

// WithClaims returns a context carrying validated token claims.
func WithClaims(ctx context.Context, claims *models.TokenClaims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}
