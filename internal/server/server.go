package server

import (
	"context"
	"fmt"
	"net/http"

	"SensorHubAPI/internal/auth"
	"SensorHubAPI/internal/config"
	"SensorHubAPI/internal/handler"
	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/middleware"
	"SensorHubAPI/internal/ratelimit"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	httpServer *http.Server
	router     *mux.Router
	cfg        *config.Config
	log        *logger.Logger
}

// Handlers groups everything the router serves.
type Handlers struct {
	Auth      *handler.AuthHandler
	Telemetry *handler.TelemetryHandler
	Rules     *handler.RuleHandler
	Alerts    *handler.AlertHandler
	Devices   *handler.DeviceHandler
	Commands  *handler.CommandHandler
	Reports   *handler.ReportHandler
	Health    *handler.HealthHandler
	Realtime  *handler.RealtimeHandler
}

func New(cfg *config.Config, log *logger.Logger) *Server {
	router := mux.NewRouter()

	var root http.Handler = router
	if cfg.Server.MaxBodyBytes > 0 {
		root = http.MaxBytesHandler(router, cfg.Server.MaxBodyBytes)
	}

	server := &Server{
		router: router,
		cfg:    cfg,
		log:    log,
		httpServer: &http.Server{
			Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:        root,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		},
	}

	return server
}

// Router exposes the underlying router, mainly for tests.
func (s *Server) Router() *mux.Router {
	return s.router
}

// RegisterHandlers wires the routes. limiter may be nil to disable rate
// limiting.
func (s *Server) RegisterHandlers(h Handlers, authn *middleware.Authenticator, limiter ratelimit.Store) {
	s.router.Use(middleware.RequestLogger(s.log))
	s.router.Use(middleware.Recovery(s.log))
	s.router.Use(middleware.CORS(s.cfg.Security.CORSAllowedOrigins, s.cfg.Security.CORSAllowedMethods))

	// Preflight requests have no route of their own; CORS answers them.
	s.router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	h.Health.RegisterRoutes(s.router)
	h.Realtime.RegisterRoutes(s.router)
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := s.router.PathPrefix("/api/v1").Subrouter()
	if limiter != nil {
		api.Use(middleware.RateLimit(limiter))
	}

	cron := api.PathPrefix("/cron").Subrouter()
	cron.Use(middleware.SharedSecret(s.cfg.Security.CronSecretHeader, s.cfg.Security.CronSecret))
	h.Health.RegisterCronRoutes(cron)

	h.Auth.RegisterPublicRoutes(api)

	// Ingest keys reach only the write paths devices use.
	ingest := api.NewRoute().Subrouter()
	ingest.Use(authn.Middleware)
	ingest.Use(middleware.RequireRole(auth.RoleIngest, auth.RoleTenantAdmin, auth.RolePlatformAdmin))
	h.Telemetry.RegisterIngestRoutes(ingest)
	h.Devices.RegisterIngestRoutes(ingest)

	users := api.NewRoute().Subrouter()
	users.Use(authn.Middleware)
	users.Use(middleware.RequireRole(auth.RolePlatformAdmin, auth.RoleTenantAdmin, auth.RoleViewer))
	h.Auth.RegisterRoutes(users)
	h.Telemetry.RegisterRoutes(users)
	h.Rules.RegisterRoutes(users)
	h.Alerts.RegisterRoutes(users)
	h.Devices.RegisterRoutes(users)
	h.Commands.RegisterRoutes(users)
	h.Reports.RegisterRoutes(users)

	s.log.Info("All handlers registered")
}

func (s *Server) Start() error {
	s.log.Info("Starting HTTP server on %s", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed to start: %w", err)
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.log.Info("HTTP server stopped")
	return nil
}
