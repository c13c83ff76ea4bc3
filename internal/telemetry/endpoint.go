package telemetry

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flugtracker/flugtracker-go/internal/conf"
	"github.com/flugtracker/flugtracker-go/internal/logging"
)

// Endpoint serves the Prometheus scrape endpoint on its own listener.
type Endpoint struct {
	server *http.Server
	logger *slog.Logger
}

// NewEndpoint creates a metrics endpoint listening on the configured address.
func NewEndpoint(settings *conf.Settings, metrics *Metrics) *Endpoint {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))

	return &Endpoint{
		server: &http.Server{
			Addr:         settings.Telemetry.Listen,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		logger: logging.Default().With("service", "telemetry"),
	}
}

// Start serves the endpoint in a goroutine and shuts it down when the quit
// channel closes.
func (e *Endpoint) Start(wg *sync.WaitGroup, quit <-chan struct{}) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		e.logger.Info("Starting telemetry endpoint", "listen", e.server.Addr)
		if err := e.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			e.logger.Error("Telemetry endpoint failed", "error", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-quit
		if err := e.server.Close(); err != nil {
			e.logger.Warn("Error closing telemetry endpoint", "error", err)
		}
	}()
}
