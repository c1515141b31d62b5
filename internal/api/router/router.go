package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/wolfman30/care-portal/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/care-portal/internal/http/middleware"
	"github.com/wolfman30/care-portal/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	SymptomChecker *handlers.SymptomCheckerHandler
	AnalysisRender *handlers.AnalysisRenderHandler
	Facilities     *handlers.FacilitiesHandler
	Doctors        *handlers.DoctorsHandler
	Scheduling     *handlers.SchedulingHandler
	MetricsHandler http.Handler

	CORSAllowedOrigins []string
	// RateLimiter throttles the routes that call a model or upstream API.
	RateLimiter *httpmiddleware.RateLimiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", handlers.HealthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Routes that reach a model or a third-party API are throttled per client.
	limit := func(next http.Handler) http.Handler { return next }
	if cfg.RateLimiter != nil {
		limit = httpmiddleware.RateLimit(cfg.RateLimiter)
	}

	if cfg.SymptomChecker != nil {
		r.With(limit).Post("/symptom-checker", cfg.SymptomChecker.Check)
	}
	if cfg.Facilities != nil {
		r.With(limit).Get("/hospital-finder/cards", cfg.Facilities.Cards)
	}
	if cfg.Doctors != nil {
		r.Get("/doctor-finder/cards", cfg.Doctors.Cards)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.AnalysisRender != nil {
			api.Post("/analysis/render", cfg.AnalysisRender.Render)
		}
		if cfg.Facilities != nil {
			api.With(limit).Get("/facilities", cfg.Facilities.List)
		}
		if cfg.Doctors != nil {
			api.Get("/doctors", cfg.Doctors.List)
		}
		if cfg.Scheduling != nil {
			api.Get("/slots", cfg.Scheduling.Slots)
			api.Post("/appointments/preview", cfg.Scheduling.Preview)
		}
		api.Post("/password-strength", handlers.PasswordStrength)
	})

	return r
}
