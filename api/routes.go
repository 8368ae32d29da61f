package api

import (
	"github.com/gorilla/mux"

	"github.com/hireloop/interviewd/internal/archive"
	"github.com/hireloop/interviewd/internal/config"
	"github.com/hireloop/interviewd/internal/session"
	"github.com/hireloop/interviewd/pkg/repository"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, mgr *session.Manager, arch *archive.Service, ivRepo repository.InterviewerRepo) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(ivRepo, cfg.JWTSecret, cfg.TokenDuration)
	sessionHandler := NewSessionHandler(mgr)
	candidatesHandler := NewCandidatesHandler(arch)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")

	// Candidate flow (open: the interviewee has no account)
	r.HandleFunc("/v1/session", sessionHandler.Get).Methods("GET")
	r.HandleFunc("/v1/session/resume", sessionHandler.ResolveResume).Methods("POST")
	r.HandleFunc("/v1/session/upload", sessionHandler.Upload).Methods("POST")
	r.HandleFunc("/v1/session/info", sessionHandler.EditField).Methods("POST")
	r.HandleFunc("/v1/session/confirm", sessionHandler.Confirm).Methods("POST")
	r.HandleFunc("/v1/session/cancel", sessionHandler.Cancel).Methods("POST")
	r.HandleFunc("/v1/session/start", sessionHandler.Start).Methods("POST")
	r.HandleFunc("/v1/session/answer", sessionHandler.Answer).Methods("POST")
	r.HandleFunc("/v1/session/restart", sessionHandler.Restart).Methods("POST")

	// API v1 Protected routes (interviewer dashboard)
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	authV1 := apiV1.PathPrefix("/auth").Subrouter()
	authV1.HandleFunc("/signout", authHandler.Signout).Methods("POST")

	apiV1.HandleFunc("/candidates", candidatesHandler.List).Methods("GET")
	apiV1.HandleFunc("/candidates/{id}", candidatesHandler.Get).Methods("GET")

	return r
}
