package tracker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/flugtracker/flugtracker-go/internal/api"
	"github.com/flugtracker/flugtracker-go/internal/conf"
	"github.com/flugtracker/flugtracker-go/internal/datastore"
	"github.com/flugtracker/flugtracker-go/internal/feed"
	"github.com/flugtracker/flugtracker-go/internal/mqtt"
	"github.com/flugtracker/flugtracker-go/internal/telemetry"
	"github.com/flugtracker/flugtracker-go/internal/typedb"
)

// Run wires up the full tracking service and blocks until a termination
// signal arrives. All background loops stop through one shared quit channel.
func Run(settings *conf.Settings) error {
	fmt.Printf("Starting %s: station %.4f,%.4f radius %.1f NM, polling every %ds\n",
		settings.Main.Name,
		settings.Station.Latitude, settings.Station.Longitude,
		settings.Station.RadiusNM,
		settings.Tracker.PollInterval)

	store := datastore.New(settings)
	if err := store.Open(); err != nil {
		return fmt.Errorf("opening datastore: %w", err)
	}
	defer closeDataStore(store)

	provider, err := feed.New(settings)
	if err != nil {
		return err
	}

	resolver := typedb.New(settings, nil)

	var metrics *telemetry.Metrics
	if settings.Telemetry.Enabled {
		metrics, err = telemetry.NewMetrics()
		if err != nil {
			return fmt.Errorf("initializing metrics: %w", err)
		}
	}

	var publisher mqtt.Publisher
	if settings.MQTT.Enabled {
		publisher = mqtt.NewClient(settings)
		ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
		if err := publisher.Connect(ctx); err != nil {
			// Best effort integration; the tracker runs without it
			trackerLogger.Warn("MQTT connection failed, continuing without publishing", "error", err)
			publisher = nil
		}
		cancel()
	}

	service := New(settings, provider, resolver, store, metrics, publisher)

	var wg sync.WaitGroup
	quitChan := make(chan struct{})

	service.StartPolling(&wg, quitChan)
	service.StartRetention(&wg, quitChan)

	if settings.Telemetry.Enabled && metrics != nil {
		telemetry.NewEndpoint(settings, metrics).Start(&wg, quitChan)
	}

	if settings.WebServer.Enabled {
		api.New(settings, store, resolver).Start(&wg, quitChan)
	}

	monitorCtrlC(quitChan)

	<-quitChan
	wg.Wait()

	if publisher != nil {
		publisher.Disconnect()
	}
	return nil
}

// monitorCtrlC closes the quit channel on SIGINT or SIGTERM.
func monitorCtrlC(quitChan chan struct{}) {
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		<-sigChan
		fmt.Println("\nReceived shutdown signal, stopping tracker")
		close(quitChan)
	}()
}

func closeDataStore(store datastore.Interface) {
	if err := store.Close(); err != nil {
		trackerLogger.Error("Failed to close datastore", "error", err)
	} else {
		trackerLogger.Info("Datastore closed")
	}
}
