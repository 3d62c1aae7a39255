package imagearchiver

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Server exposes the archiver over HTTP: asynchronous archive jobs plus a
// static download endpoint over the output directory.
type Server struct {
	addr     string
	archiver *Archiver
	states   *StateManager
	jobs     singleflight.Group
	auth     *AuthMiddleware
}

// NewServer creates a new server instance with optional auth configuration
func NewServer(addr string, archiver *Archiver, authConfig *AuthConfig) *Server {
	return &Server{
		addr:     addr,
		archiver: archiver,
		states:   NewStateManager(),
		auth:     NewAuthMiddleware(authConfig),
	}
}

// Router builds the HTTP routes. Split out from Run so tests can drive the
// handlers without a listening socket.
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()

	// Public endpoints (no auth required)
	router.HandleFunc("/health", s.HealthHandler).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Protected endpoints (auth required when enabled)
	router.HandleFunc("/archive", s.auth.WrapFunc(s.ArchiveHandler)).Methods("GET")
	router.HandleFunc("/status", s.auth.WrapFunc(s.StatusHandler)).Methods("GET")
	router.PathPrefix("/download/").Handler(http.StripPrefix("/download/",
		http.FileServer(http.Dir(s.archiver.OutputDir))))

	return handlers.LoggingHandler(os.Stdout, router)
}

// Run starts the HTTP server
func (s *Server) Run() error {
	if err := os.MkdirAll(s.archiver.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := s.archiver.CheckTools(); err != nil {
		return err
	}

	if s.auth.IsEnabled() {
		log.Infof("Listening on %s (output: %s, auth: enabled)", s.addr, s.archiver.OutputDir)
	} else {
		log.Infof("Listening on %s (output: %s)", s.addr, s.archiver.OutputDir)
	}
	return http.ListenAndServe(s.addr, s.Router())
}
