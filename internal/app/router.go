package app

import (
	"net/http"

	"github.com/centerpass/centerpass/internal/apperrors"
	"github.com/centerpass/centerpass/internal/auth"
	"github.com/centerpass/centerpass/internal/centers"
	"github.com/centerpass/centerpass/internal/config"
	"github.com/centerpass/centerpass/internal/grants"
	"github.com/centerpass/centerpass/internal/invitations"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRouter creates and configures the Chi router with all middleware and routes
func NewRouter(pool *pgxpool.Pool, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	isProduction := !cfg.IsDev()

	// Middleware stack
	r.Use(middleware.RealIP)         // Set RemoteAddr to real IP
	r.Use(apperrors.RequestIDMiddleware)
	r.Use(LoggingMiddleware)         // Structured request logging
	r.Use(RecoveryMiddleware)        // Recover from panics
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.BaseURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(auth.SessionMiddleware(cfg.JWTSecret)) // Validate session cookies

	// Health check routes (no authentication required)
	r.Get("/healthz", handleHealthz)
	r.Get("/readyz", handleReadyz(pool))

	// API routes - Authentication
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(CSRFMiddleware(isProduction))

		r.Get("/csrf", auth.HandleCSRF(isProduction))

		r.Post("/signup", auth.HandleSignup(pool, cfg.JWTSecret, cfg.SessionDays, isProduction))

		// Login with rate limiting (10 requests per minute)
		r.With(LoginRateLimitMiddleware()).Post("/login", auth.HandleLogin(pool, cfg.JWTSecret, cfg.SessionDays, isProduction))

		r.With(auth.RequireAuth).Post("/logout", auth.HandleLogout)
	})

	// API routes - Invitations
	r.Route("/api/v1/invitations", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(CSRFMiddleware(isProduction))

		// Inspection is public: holding the token is the credential
		r.Get("/{token}", invitations.HandleGet(pool))

		r.With(auth.RequireAuth).Post("/", invitations.HandleCreate(pool))
		r.With(auth.RequireAuth).Post("/consume", invitations.HandleConsume(pool))
	})

	// API routes - Centers (require authentication)
	r.Route("/api/v1/centers", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(auth.RequireAuth)

		r.Get("/", centers.HandleListAll(pool))
	})

	// API routes - Current user (require authentication)
	r.Route("/api/v1/me", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(auth.RequireAuth)

		r.Get("/centers", grants.HandleMyCenters(pool))
	})

	return r
}

// handleHealthz returns a simple liveness check
// Always returns 200 OK if the service is running
func handleHealthz(w http.ResponseWriter, r *http.Request) {
	apperrors.WriteSuccess(w, r, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// handleReadyz returns a readiness check that includes database connectivity
// Returns 200 OK if service is ready to accept traffic, 503 if not
func handleReadyz(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			apperrors.WriteServiceUnavailable(w, r, "Database connection failed")
			return
		}

		apperrors.WriteSuccess(w, r, http.StatusOK, map[string]string{
			"status": "ready",
			"db":     "ok",
		})
	}
}
