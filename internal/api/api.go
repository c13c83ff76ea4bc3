// Package api exposes the read-side HTTP interface: recent flights,
// aggregate statistics and the administrative control endpoints.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/flugtracker/flugtracker-go/internal/conf"
	"github.com/flugtracker/flugtracker-go/internal/datastore"
	"github.com/flugtracker/flugtracker-go/internal/logging"
	"github.com/flugtracker/flugtracker-go/internal/typedb"
)

// Package-level logger for the HTTP API
var (
	apiLogger   *slog.Logger
	apiLevelVar = new(slog.LevelVar)
)

func init() {
	var err error
	apiLevelVar.Set(slog.LevelInfo)
	apiLogger, _, err = logging.NewFileLogger("logs/api.log", "api", apiLevelVar)
	if err != nil {
		logging.Error("Failed to initialize API file logger", "error", err)
		apiLogger = logging.Default().With("service", "api")
	}
}

// Server wires the HTTP routes to the store and resolver.
type Server struct {
	echo     *echo.Echo
	settings *conf.Settings
	store    datastore.Interface
	resolver *typedb.Resolver
	started  time.Time
}

// New creates the API server and registers all routes.
func New(settings *conf.Settings, store datastore.Interface, resolver *typedb.Resolver) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger())

	s := &Server{
		echo:     e,
		settings: settings,
		store:    store,
		resolver: resolver,
		started:  time.Now(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.handleHealth)

	v1 := s.echo.Group("/api/v1")
	v1.GET("/flights/recent", s.handleRecentFlights)
	v1.GET("/analytics/daily", s.handleDailyCounts)
	v1.GET("/analytics/models", s.handleModelCounts)
	v1.GET("/analytics/hourly", s.handleHourlyCounts)
	v1.GET("/stats", s.handleStats)
	v1.POST("/control/reset", s.handleReset)
	v1.POST("/control/typedb/refresh", s.handleTypeDBRefresh)
}

// requestLogger logs each request through the package logger.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
				apiLogger.Warn("Request failed", attrs...)
				return nil
			}
			apiLogger.Debug("Request", attrs...)
			return nil
		},
	})
}

// Start serves the API in a goroutine and shuts it down when the quit
// channel closes.
func (s *Server) Start(wg *sync.WaitGroup, quit <-chan struct{}) {
	addr := fmt.Sprintf(":%s", s.settings.WebServer.Port)

	wg.Add(1)
	go func() {
		defer wg.Done()
		apiLogger.Info("Starting HTTP API", "addr", addr)
		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			apiLogger.Error("HTTP API failed", "error", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-quit
		if err := s.echo.Close(); err != nil {
			apiLogger.Warn("Error closing HTTP API", "error", err)
		}
	}()
}
