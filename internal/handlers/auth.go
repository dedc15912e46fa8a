package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/BradenHooton/ideabox/internal/auth"
	"github.com/BradenHooton/ideabox/internal/models"
	"github.com/BradenHooton/ideabox/internal/services"
	pkghttp "github.com/BradenHooton/ideabox/pkg/http"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Login(ctx context.Context, username, password, ipAddress string) (*services.LoginResponse, error)
	Logout(ctx context.Context, claims *models.TokenClaims, ipAddress string) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service  AuthServiceInterface
	ipConfig *pkghttp.IPConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface, ipConfig *pkghttp.IPConfig) *AuthHandler {
	return &AuthHandler{
		service:  service,
		ipConfig: ipConfig,
	}
}

// Login handles user login
// @Summary User login
// @Accept json
// @Param request body LoginRequest true "Login request"
// @Produce json
// @Success 200 {object} LoginResponse
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 401 {object} pkghttp.ErrorResponse
// @Failure 403 {object} pkghttp.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ipAddress := pkghttp.ExtractClientIP(r, h.ipConfig)

	resp, err := h.service.Login(r.Context(), strings.TrimSpace(req.Username), req.Password, ipAddress)
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, LoginResponse{
		AccessToken:         resp.AccessToken,
		TokenType:           "Bearer",
		ExpiresAt:           resp.ExpiresAt,
		User:                userModelToResponse(resp.User),
		NeedsIntroduction:   resp.NeedsIntroduction,
		NeedsPasswordChange: resp.NeedsPasswordChange,
	})
}

// Logout revokes the presented access token
// @Summary User logout
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} pkghttp.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "authentication required")
		return
	}

	if err := h.service.Logout(r.Context(), claims, pkghttp.ExtractClientIP(r, h.ipConfig)); err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
