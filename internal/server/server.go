// Package server provides the HTTP REST API for the resume ATS engine.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-ats/internal/config"
	"github.com/jonathan/resume-ats/internal/db"
	"github.com/jonathan/resume-ats/internal/extraction"
	"github.com/jonathan/resume-ats/internal/lexicon"
	"github.com/jonathan/resume-ats/internal/llm"
	"github.com/jonathan/resume-ats/internal/patching"
	"github.com/jonathan/resume-ats/internal/scoring"
	"github.com/jonathan/resume-ats/internal/server/middleware"
	"github.com/jonathan/resume-ats/internal/server/ratelimit"
	"github.com/jonathan/resume-ats/internal/types"
)

// Store is the persistence surface the handlers need. *db.DB satisfies
// it; tests substitute an in-memory implementation.
type Store interface {
	CreateResume(ctx context.Context, name string, state *types.ResumeState) (uuid.UUID, error)
	GetResume(ctx context.Context, resumeID uuid.UUID) (*db.Resume, error)
	AppendResumeVersion(ctx context.Context, resumeID uuid.UUID, state *types.ResumeState) (int, error)
	ListResumeVersions(ctx context.Context, resumeID uuid.UUID) ([]db.VersionSummary, error)
	LoadOverrides(ctx context.Context, resumeID uuid.UUID) (*types.Overrides, error)
	SaveOverrides(ctx context.Context, resumeID uuid.UUID, overrides *types.Overrides) error
}

// Server represents the HTTP server.
type Server struct {
	httpServer  *http.Server
	store       Store
	cfg         *config.Config
	scorer      *scoring.Scorer
	suggester   *patching.Suggester
	extractor   *extraction.Extractor
	jdParser    *llm.JDParser
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
}

// New creates a server. jdParser may be nil-client-backed; bearer auth
// activates only when ATS_JWT_SECRET is set.
func New(cfg *config.Config, store Store, jdParser *llm.JDParser) (*Server, error) {
	lex := lexicon.Default()
	s := &Server{
		store:     store,
		cfg:       cfg,
		scorer:    scoring.New(lex),
		suggester: patching.NewSuggester(lex),
		extractor: extraction.New(lex),
		jdParser:  jdParser,
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	if os.Getenv("ATS_JWT_SECRET") != "" {
		jwtConfig, err := config.NewJWTConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create JWT config: %w", err)
		}
		s.jwtService = NewJWTService(jwtConfig)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.Handle("POST /resumes", s.protect(s.handleCreateResume))
	mux.HandleFunc("GET /resumes/{id}", s.handleGetResume)
	mux.Handle("PATCH /resumes/{id}/bullet", s.protect(s.handleEditBullet))

	mux.HandleFunc("POST /ats-score", s.handleAtsScore)
	mux.HandleFunc("POST /jd/extract-skills", s.handleExtractSkills)
	mux.HandleFunc("POST /jd/parse", s.handleParseJD)

	mux.HandleFunc("POST /resumes/{id}/suggest-patches", s.handleSuggestPatches)
	mux.Handle("POST /resumes/{id}/apply-patches", s.protect(s.handleApplyPatches))
	mux.HandleFunc("POST /resumes/{id}/blocked-plan", s.handleBlockedPlan)

	mux.Handle("POST /resumes/{id}/overrides", s.protect(s.handleSaveOverrides))
	mux.HandleFunc("GET /resumes/{id}/overrides", s.handleGetOverrides)
	mux.Handle("POST /resumes/{id}/overrides/from-blocked", s.protect(s.handleOverridesFromBlocked))
	mux.HandleFunc("POST /resumes/{id}/roles/suggest", s.handleSuggestRoles)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening and blocks until SIGINT/SIGTERM, then shuts
// down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	log.Println("Server stopped")
	return nil
}

// protect wraps mutating handlers with bearer auth when a JWT secret is
// configured; otherwise the handler runs unguarded.
func (s *Server) protect(h http.HandlerFunc) http.Handler {
	if s.jwtService == nil {
		return h
	}
	return middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(h)
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// withRateLimit rejects clients that exceed the configured request rate.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.Allow(clientID(r)) {
			s.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// engineError maps a typed engine error to its HTTP status.
func (s *Server) engineError(w http.ResponseWriter, err error) {
	s.errorResponse(w, HTTPStatus(err), err.Error())
}

// clientID identifies a client for rate limiting by IP.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// resumeID parses the {id} path segment.
func resumeID(r *http.Request) (uuid.UUID, error) {
	idStr := r.PathValue("id")
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("resume ID is required")
	}
	return uuid.Parse(idStr)
}
