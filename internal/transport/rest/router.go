package rest

import (
	"net/http"

	"screener/config"
	"screener/internal/logger"
	"screener/internal/service"
	"screener/internal/transport/rest/handler"
	"screener/internal/transport/rest/middleware"
	"screener/internal/transport/ws"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	AssessmentService handler.AssessmentService
	ReferenceService  *service.ReferenceService
	WSHub             *ws.Hub
	CORS              config.CORSConfig
	Logger            logger.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	assessmentHandler := handler.NewAssessmentHandler(c.AssessmentService, c.Logger)
	adminHandler := handler.NewAdminHandler(c.ReferenceService, c.Logger)
	healthHandler := handler.NewHealthHandler(c.ReferenceService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.Logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.CORS))
	r.Use(middleware.Observe(c.Logger))

	// Public routes
	r.HandleFunc("/assessments/screener", assessmentHandler.GetScreener).Methods("GET", "OPTIONS")
	r.HandleFunc("/assessments/score", assessmentHandler.Score).Methods("POST", "OPTIONS")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Probes and metrics
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.HandleFunc("/ready", healthHandler.Ready).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// WebSocket routes (token in query param)
	r.HandleFunc("/admin/ws/submissions", wsHandler.SubmissionsWS).Methods("GET")

	// Host routes (require host auth)
	hostRoutes := r.PathPrefix("/admin").Subrouter()
	hostRoutes.Use(authMW.RequireHost)

	hostRoutes.HandleFunc("/reference/reload", adminHandler.ReloadReference).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(cors config.CORSConfig) mux.MiddlewareFunc {
	allowedOrigins := cors.AllowedOrigins
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	allowedMethods := cors.AllowedMethods
	if allowedMethods == "" {
		allowedMethods = "GET, POST, OPTIONS"
	}
	allowedHeaders := cors.AllowedHeaders
	if allowedHeaders == "" {
		allowedHeaders = "Content-Type, Authorization"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
