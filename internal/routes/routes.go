package routes

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/BradenHooton/ideabox/internal/auth"
	"github.com/BradenHooton/ideabox/internal/handlers"
	"github.com/BradenHooton/ideabox/internal/metrics"
	"github.com/BradenHooton/ideabox/internal/middleware"
	pkghttp "github.com/BradenHooton/ideabox/pkg/http"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// HealthChecker reports whether a backing store is reachable.
type HealthChecker func(ctx context.Context) error

// RouterConfig holds the cross-cutting HTTP settings
type RouterConfig struct {
	Env            string
	AllowedOrigins []string
	LoginRateLimit middleware.RateLimitConfig
	RequestTimeout time.Duration
	Health         map[string]HealthChecker // component name -> check
}

// NewRouter builds the API router with the global middleware chain, the
// health and metrics endpoints and every application route.
func NewRouter(cfg RouterConfig, h Handlers, authenticate func(http.Handler) http.Handler, logger *slog.Logger) chi.Router {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(middleware.SecurityHeaders(middleware.SecurityHeadersConfig{Env: cfg.Env}))
	router.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigins: cfg.AllowedOrigins}))
	router.Use(middleware.SecureLogger(logger))
	router.Use(middleware.HTTPMetrics)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Timeout(timeout))

	router.Get("/health", healthHandler(cfg.Health))
	router.Handle("/metrics", metrics.Handler())

	RegisterRoutes(router, h, authenticate, cfg.LoginRateLimit)
	return router
}

func healthHandler(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "healthy"}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "unhealthy"
				body[name] = "down"
				continue
			}
			body[name] = "up"
		}
		pkghttp.WriteJSON(w, status, body)
	}
}

// Handlers bundles every HTTP handler the API exposes
type Handlers struct {
	Auth       *handlers.AuthHandler
	Ideas      *handlers.IdeaHandler
	Profile    *handlers.ProfileHandler
	Categories *handlers.CategoryHandler
	Users      *handlers.UserHandler
	Admin      *handlers.AdminHandler
	Audit      *handlers.AuditHandler
}

// RegisterRoutes registers all application routes. authenticate is the token
// middleware built by auth.Authenticate.
func RegisterRoutes(
	router chi.Router,
	h Handlers,
	authenticate func(http.Handler) http.Handler,
	loginRateLimit middleware.RateLimitConfig,
) {
	// Public routes - no authentication required
	router.Get("/categories", h.Categories.ListCategories)
	router.With(middleware.RateLimitByIP(loginRateLimit)).Post("/auth/login", h.Auth.Login)

	// Protected routes - authentication required
	router.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Post("/auth/logout", h.Auth.Logout)

		r.Get("/me", h.Profile.GetMe)
		r.Put("/me/introduction", h.Profile.CompleteIntroduction)
		r.Put("/me/password", h.Profile.ChangePassword)

		r.Get("/ideas", h.Ideas.ListIdeas)
		r.Post("/ideas", h.Ideas.CreateIdea)
		r.Get("/ideas/{id}", h.Ideas.GetIdea)
		r.Post("/ideas/{id}/vote", h.Ideas.Vote)
		r.Post("/ideas/{id}/comments", h.Ideas.AddComment)

		// Admin-only routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireAdmin)

			r.Get("/dashboard", h.Admin.GetDashboardStats)
			r.Get("/audit", h.Audit.GetRecentActivity)

			r.Get("/ideas", h.Admin.ListIdeas)
			r.Post("/ideas/{id}/approve", h.Admin.ApproveIdea)
			r.Post("/ideas/{id}/hide", h.Admin.HideIdea)
			r.Post("/ideas/{id}/unhide", h.Admin.UnhideIdea)
			r.Delete("/ideas/{id}/comments/{commentID}", h.Admin.DeleteComment)

			r.Get("/users", h.Users.ListUsers)
			r.Post("/users", h.Users.RegisterUser)
			r.Post("/users/generate", h.Users.GenerateUsers)
			r.Get("/users/temp-passwords", h.Users.ListTempPasswords)
			r.Delete("/users/temp-passwords", h.Users.PurgeTempPasswords)
			r.Post("/users/{id}/block", h.Users.BlockUser)
			r.Post("/users/{id}/unblock", h.Users.UnblockUser)
			r.Delete("/users/{id}", h.Users.DeleteUser)

			r.Get("/categories", h.Categories.ListCategories)
			r.Post("/categories", h.Categories.AddCategory)
			r.Put("/categories/{name}", h.Categories.RenameCategory)
			r.Delete("/categories/{name}", h.Categories.DeleteCategory)
		})
	})
}
