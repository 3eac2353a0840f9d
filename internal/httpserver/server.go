package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"foodie/backend/internal/config"
	"foodie/backend/internal/logging"
	authusecase "foodie/backend/internal/usecase/authorization"
	recipeusecase "foodie/backend/internal/usecase/recipe"
)

// Server wraps the HTTP server lifecycle.
type Server struct {
	httpServer    *http.Server
	router        *http.ServeMux
	authService   *authusecase.Service
	recipeService *recipeusecase.Service
	log           logging.Logger
	cookieMaxAge  int
	addr          string
}

// NewServer constructs a new Server with configured dependencies.
func NewServer(cfg config.Config, authService *authusecase.Service, recipeService *recipeusecase.Service, log logging.Logger) *Server {
	mux := http.NewServeMux()
	addr := cfg.HTTPPort
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	handler := withLogging(withCORS(mux, cfg.AllowedOrigins), log)

	srv := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  time.Duration(cfg.ReadTimeoutSec) * time.Second,
			WriteTimeout: time.Duration(cfg.WriteTimeoutSec) * time.Second,
			IdleTimeout:  time.Duration(cfg.IdleTimeoutSec) * time.Second,
		},
		router:        mux,
		authService:   authService,
		recipeService: recipeService,
		log:           log,
		cookieMaxAge:  int(cfg.TokenMaxAge.Seconds()),
		addr:          addr,
	}
	srv.registerRoutes()
	return srv
}

// Start bootstraps the HTTP server on the configured address.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the root handler chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the configured network address for the HTTP server.
func (s *Server) Addr() string {
	return s.addr
}
