package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"supscore/internal/service"
	"supscore/internal/transport/rest/handler"
	"supscore/internal/transport/rest/middleware"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	ContentService *service.ContentService
	SessionService *service.SessionService
	ScoringService *service.ScoringService
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	assessmentHandler := handler.NewAssessmentHandler(c.ContentService)
	sessionHandler := handler.NewSessionHandler(c.SessionService)
	reportHandler := handler.NewReportHandler(c.ScoringService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Supervisor routes (require auth)
	supervisorRoutes := v1.NewRoute().Subrouter()
	supervisorRoutes.Use(authMW.RequireSupervisor)

	// Checklist management
	supervisorRoutes.HandleFunc("/assessments", assessmentHandler.Create).Methods("POST", "OPTIONS")
	supervisorRoutes.HandleFunc("/assessments", assessmentHandler.List).Methods("GET", "OPTIONS")
	supervisorRoutes.HandleFunc("/assessments/import", assessmentHandler.Import).Methods("POST", "OPTIONS")
	supervisorRoutes.HandleFunc("/assessments/{id}", assessmentHandler.Get).Methods("GET", "OPTIONS")
	supervisorRoutes.HandleFunc("/assessments/{id}", assessmentHandler.Update).Methods("PUT", "OPTIONS")
	supervisorRoutes.HandleFunc("/assessments/{id}", assessmentHandler.Delete).Methods("DELETE", "OPTIONS")
	supervisorRoutes.HandleFunc("/assessments/{id}/export", assessmentHandler.Export).Methods("GET", "OPTIONS")

	// Templates
	supervisorRoutes.HandleFunc("/templates", assessmentHandler.CreateTemplate).Methods("POST", "OPTIONS")
	supervisorRoutes.HandleFunc("/templates", assessmentHandler.ListTemplates).Methods("GET", "OPTIONS")
	supervisorRoutes.HandleFunc("/templates/{id}/instantiate", assessmentHandler.InstantiateTemplate).Methods("POST", "OPTIONS")

	// Supervision sessions
	supervisorRoutes.HandleFunc("/sessions", sessionHandler.Start).Methods("POST", "OPTIONS")
	supervisorRoutes.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods("GET", "OPTIONS")
	supervisorRoutes.HandleFunc("/sessions/{id}/responses", sessionHandler.Submit).Methods("POST", "OPTIONS")
	supervisorRoutes.HandleFunc("/sessions/{id}/progress", sessionHandler.Progress).Methods("GET", "OPTIONS")
	supervisorRoutes.HandleFunc("/sessions/{id}/questions/{position}", sessionHandler.Question).Methods("GET", "OPTIONS")
	supervisorRoutes.HandleFunc("/sessions/{id}/goto/{questionId}", sessionHandler.GoTo).Methods("POST", "OPTIONS")
	supervisorRoutes.HandleFunc("/sessions/{id}/complete", sessionHandler.Complete).Methods("POST", "OPTIONS")
	supervisorRoutes.HandleFunc("/sessions/{id}/abandon", sessionHandler.Abandon).Methods("POST", "OPTIONS")
	supervisorRoutes.HandleFunc("/sessions/{id}/result", reportHandler.SessionResult).Methods("GET", "OPTIONS")

	// Ad hoc scoring and reporting
	supervisorRoutes.HandleFunc("/score", reportHandler.Score).Methods("POST", "OPTIONS")
	supervisorRoutes.HandleFunc("/score/breakdown", reportHandler.Breakdown).Methods("POST", "OPTIONS")
	supervisorRoutes.HandleFunc("/score/validate", reportHandler.Validate).Methods("POST", "OPTIONS")
	supervisorRoutes.HandleFunc("/results", reportHandler.Results).Methods("GET", "OPTIONS")
	supervisorRoutes.HandleFunc("/rankings/{assessmentId}", reportHandler.Rankings).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

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
