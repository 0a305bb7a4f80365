// Package api assembles the HTTP surface of fetcharr.
package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/fetcharr/fetcharr/internal/grab"
	"github.com/fetcharr/fetcharr/internal/history"
	"github.com/fetcharr/fetcharr/internal/scheduler"
	"github.com/fetcharr/fetcharr/internal/search"
	"github.com/fetcharr/fetcharr/internal/watch"
)

// Version is set at build time.
var Version = "dev"

// Services holds the wired services the API exposes.
type Services struct {
	Search    *search.Service
	Grab      *grab.Service
	History   *history.Service
	Watch     *watch.Service
	Scheduler *scheduler.Scheduler
}

// Server handles HTTP requests for the fetcharr API.
type Server struct {
	echo     *echo.Echo
	services Services
	logger   zerolog.Logger
}

// NewServer creates a new API server instance.
func NewServer(services Services, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:     e,
		services: services,
		logger:   logger.With().Str("component", "api").Logger(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())
	s.echo.Use(middleware.BodyLimit("1M"))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Info().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	api := s.echo.Group("/api/v1")
	api.GET("/status", s.getStatus)
	api.GET("/tasks", s.listTasks)
	api.POST("/tasks/:id/run", s.runTask)

	searchHandlers := search.NewHandlers(s.services.Search, s.logger)
	searchHandlers.RegisterRoutes(api)

	grabHandlers := grab.NewHandlers(s.services.Grab, s.logger)
	grabHandlers.RegisterRoutes(api)

	historyHandlers := history.NewHandlers(s.services.History)
	historyHandlers.RegisterRoutes(api.Group("/history"))

	watchHandlers := watch.NewHandlers(s.services.Watch, s.logger)
	watchHandlers.RegisterRoutes(api.Group("/watches"))
}

// healthCheck responds to liveness probes.
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// getStatus reports version and wiring information.
func (s *Server) getStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"version": Version,
		"sources": s.services.Search.Sources(),
		"client":  string(s.services.Grab.ClientType()),
	})
}

// listTasks reports the scheduler's registered tasks.
func (s *Server) listTasks(c echo.Context) error {
	if s.services.Scheduler == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{"tasks": []scheduler.TaskInfo{}})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"tasks": s.services.Scheduler.ListTasks()})
}

// runTask triggers a scheduled task outside its schedule.
func (s *Server) runTask(c echo.Context) error {
	if s.services.Scheduler == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "scheduler not running"})
	}
	if err := s.services.Scheduler.RunNow(c.Param("id")); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusAccepted, map[string]string{"status": "triggered"})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("Starting HTTP server")
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// Echo exposes the underlying Echo instance for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
