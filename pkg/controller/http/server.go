package http

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/uhernandez2497-source/flota-trigger/pkg/domain/interfaces"
	"github.com/uhernandez2497-source/flota-trigger/pkg/domain/model"
)

// TriggerPath is where the dashboard posts update requests
const TriggerPath = "/api/trigger-update"

// config holds internal HTTP server configuration
type config struct {
	addr       string
	loadConfig ConfigLoader
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithConfigLoader replaces how the dispatch configuration is loaded per request
func WithConfigLoader(loadConfig ConfigLoader) Option {
	return func(c *config) {
		c.loadConfig = loadConfig
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	triggerUC interfaces.TriggerUseCase,
	opts ...Option,
) (*Server, error) {
	// Default configuration
	cfg := &config{
		addr:       "localhost:8080",
		loadConfig: LoadConfigFromEnv,
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	// Health check
	router.Get("/health", handleHealth)

	// Trigger endpoint handles every method itself: OPTIONS preflight and 405 included
	triggerHandler := NewTriggerHandler(triggerUC, cfg.loadConfig)
	router.HandleFunc(TriggerPath, triggerHandler.Handle)

	// chi rejects methods outside its method map before matching routes
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == TriggerPath {
			triggerHandler.Handle(w, r)
			return
		}
		w.WriteHeader(http.StatusMethodNotAllowed)
	})

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}

// LoadConfigFromEnv reads the dispatch configuration from the process environment
func LoadConfigFromEnv() *model.DispatchConfig {
	return model.DispatchConfigFromEnv(os.Getenv)
}
