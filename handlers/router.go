package handlers

import (
	"net/http"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"portfolioAPI/middleware"
)

type RouterConfig struct {
	Progress    *ProgressHandler
	Contact     *ContactHandler
	Projects    *ProjectsHandler
	Health      *HealthHandler
	Auth        *middleware.Auth
	RateLimiter *middleware.RateLimiter
	Logger      *zap.Logger

	MetricsUser string
	MetricsPass string
}

// NewRouter wires every route and wraps the result in CORS.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.MonitorMiddleware(cfg.Logger))
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Middleware)
	}

	r.Handle("/metrics", middleware.BasicAuthMiddleware(cfg.MetricsUser, cfg.MetricsPass)(promhttp.Handler())).Methods("GET")
	r.HandleFunc("/health", cfg.Health.Health).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/progress", cfg.Progress.GetProgress).Methods("GET")
	api.HandleFunc("/progress/calendar", cfg.Progress.GetCalendar).Methods("GET")
	api.HandleFunc("/projects", cfg.Projects.GetProjects).Methods("GET")
	api.HandleFunc("/contact", cfg.Contact.SubmitMessage).Methods("POST")

	// -------------------------------------------------------------------------
	// OWNER ROUTES (CLERK TOKEN OF AN ADMIN)
	// -------------------------------------------------------------------------
	admin := api.PathPrefix("").Subrouter()
	admin.Use(cfg.Auth.ClerkAuthMiddleware, cfg.Auth.RequireAdmin)

	admin.HandleFunc("/progress", cfg.Progress.AddRecord).Methods("POST")
	admin.HandleFunc("/contact/messages", cfg.Contact.ListMessages).Methods("GET")

	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
	)

	return corsHandler(r)
}
