package api

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"

	"github.com/Plantrich-blimp/plantrich-app/internal/api/handlers"
	"github.com/Plantrich-blimp/plantrich-app/pkg/config"
	"github.com/Plantrich-blimp/plantrich-app/pkg/logger"
)

// Handlers groups every handler the router mounts
type Handlers struct {
	Advisor    *handlers.AdvisorHandler
	Onboarding *handlers.OnboardingHandler
	Catalog    *handlers.CatalogHandler
	Session    *handlers.SessionHandler
}

// NewRouter creates and configures the HTTP router.
// An empty allowedOrigins accepts any origin without credentials.
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(h Handlers, rl config.RateLimitConfig, allowedOrigins []string, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Risk profiles
	api.HandleFunc("/profiles", h.Advisor.ListProfiles).Methods(http.MethodGet)
	api.HandleFunc("/profiles/{name}", h.Advisor.GetProfile).Methods(http.MethodGet)

	// Engine
	api.HandleFunc("/allocation", h.Advisor.Allocate).Methods(http.MethodPost)
	api.HandleFunc("/products/{type}", h.Advisor.ListProducts).Methods(http.MethodGet)
	api.HandleFunc("/projection", h.Advisor.Project).Methods(http.MethodPost)

	// Recommendations
	api.HandleFunc("/recommendations", h.Advisor.CreateRecommendation).Methods(http.MethodPost)
	api.HandleFunc("/recommendations", h.Advisor.ListRecommendations).Methods(http.MethodGet)
	api.HandleFunc("/recommendations/{id}", h.Advisor.GetRecommendation).Methods(http.MethodGet)

	// Onboarding
	api.HandleFunc("/onboarding", h.Onboarding.ListSections).Methods(http.MethodGet)
	api.HandleFunc("/onboarding/{section}", h.Onboarding.GetSection).Methods(http.MethodGet)

	// Catalog maintenance
	api.HandleFunc("/catalog/refresh", h.Catalog.Refresh).Methods(http.MethodPost)

	// Interactive session
	r.HandleFunc("/ws/session", h.Session.Serve).Methods(http.MethodGet)

	// Apply middleware
	r.Use(recoveryMiddleware(log))
	r.Use(loggingMiddleware(log))
	api.Use(rateLimitMiddleware(newClientLimiter(rl)))

	// CORS wraps the whole router so preflight requests never reach route matching
	return corsMiddleware(allowedOrigins)(r)
}

// corsMiddleware lets the browser dashboard call the API
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "Retry-After"},
		MaxAge:         300,
	}
	if len(allowedOrigins) > 0 {
		opts.AllowedOrigins = allowedOrigins
		opts.AllowCredentials = true
	}
	return cors.Handler(opts)
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok","service":"` + logger.ServiceName + `"}`))
}
