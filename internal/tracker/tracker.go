// Package tracker orchestrates the ingestion pipeline: fetch, normalize,
// geofence filter, in-cycle dedup, type resolution and batch insert, plus
// the retention sweep that keeps storage growth bounded.
package tracker

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flugtracker/flugtracker-go/internal/conf"
	"github.com/flugtracker/flugtracker-go/internal/datastore"
	"github.com/flugtracker/flugtracker-go/internal/errors"
	"github.com/flugtracker/flugtracker-go/internal/feed"
	"github.com/flugtracker/flugtracker-go/internal/geo"
	"github.com/flugtracker/flugtracker-go/internal/logging"
	"github.com/flugtracker/flugtracker-go/internal/mqtt"
	"github.com/flugtracker/flugtracker-go/internal/telemetry"
	"github.com/flugtracker/flugtracker-go/internal/typedb"
)

// Package-level logger for tracker operations
var (
	trackerLogger   *slog.Logger
	trackerLevelVar = new(slog.LevelVar)
)

func init() {
	var err error
	trackerLevelVar.Set(slog.LevelInfo)
	trackerLogger, _, err = logging.NewFileLogger("logs/tracker.log", "tracker", trackerLevelVar)
	if err != nil {
		logging.Error("Failed to initialize tracker file logger", "error", err)
		trackerLogger = logging.Default().With("service", "tracker")
	}
}

// Service runs the ingestion pipeline on a fixed interval and the retention
// sweep on its own independent interval.
type Service struct {
	settings  *conf.Settings
	provider  feed.Provider
	resolver  *typedb.Resolver
	store     datastore.Interface
	metrics   *telemetry.Metrics // may be nil
	publisher mqtt.Publisher     // may be nil

	// cycleActive prevents overlapping ingestion cycles; a cycle that is
	// still running when the next tick fires makes that tick a no-op.
	cycleActive atomic.Bool
}

// New creates the tracker service. metrics and publisher are optional.
func New(settings *conf.Settings, provider feed.Provider, resolver *typedb.Resolver,
	store datastore.Interface, metrics *telemetry.Metrics, publisher mqtt.Publisher) *Service {
	return &Service{
		settings:  settings,
		provider:  provider,
		resolver:  resolver,
		store:     store,
		metrics:   metrics,
		publisher: publisher,
	}
}

// RunOnce executes one ingestion cycle and returns the number of persisted
// observations. All rows of the cycle share now's unix timestamp and are
// inserted as one atomic batch. Feed and store failures yield zero rows;
// the next scheduled cycle proceeds normally.
func (s *Service) RunOnce(now time.Time) (int, error) {
	if !s.cycleActive.CompareAndSwap(false, true) {
		trackerLogger.Warn("Previous ingestion cycle still running, skipping this cycle")
		return 0, nil
	}
	defer s.cycleActive.Store(false)

	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.IngestionDuration.Observe(time.Since(start).Seconds())
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(s.settings.Feed.Timeout+5)*time.Second)
	defer cancel()

	aircraft, err := s.provider.FetchAircraft(ctx)
	if err != nil {
		if s.metrics != nil {
			s.metrics.FeedFetchErrors.Inc()
		}
		s.logError("Feed fetch failed, no observations this cycle", err)
		return 0, err
	}

	batch := s.filterAndResolve(aircraft, now.Unix())
	if len(batch) == 0 {
		trackerLogger.Debug("No aircraft inside geofence this cycle", "fetched", len(aircraft))
		return 0, nil
	}

	if err := s.store.InsertBatch(batch); err != nil {
		// No mid-cycle retry; the next fetch will re-observe the same aircraft
		s.logError("Failed to persist observation batch", err)
		return 0, err
	}

	if s.metrics != nil {
		s.metrics.ObservationsPersisted.Add(float64(len(batch)))
		if total, err := s.store.ObservationCount(); err == nil {
			s.metrics.StoredObservations.Set(float64(total))
		}
	}

	s.publishBatch(ctx, batch)

	trackerLogger.Info("Ingestion cycle complete",
		"fetched", len(aircraft),
		"persisted", len(batch),
		"observed_at", now.Unix(),
	)
	return len(batch), nil
}

// filterAndResolve applies the data-quality, geofence and in-cycle dedup
// rules and resolves each surviving record's model label.
func (s *Service) filterAndResolve(aircraft []feed.Aircraft, observedAt int64) []datastore.Observation {
	station := s.settings.Station

	seen := make(map[string]struct{}, len(aircraft))
	batch := make([]datastore.Observation, 0, len(aircraft))

	for i := range aircraft {
		ac := &aircraft[i]

		// Records without identity, position or altitude are dropped
		if ac.Hex == "" || ac.BaroAltitudeFt == nil || !ac.HasPosition() {
			continue
		}
		if !geo.WithinRadius(station.Latitude, station.Longitude, *ac.Lat, *ac.Lon, station.RadiusNM) {
			continue
		}
		// A feed may return the same aircraft twice in one snapshot
		if _, dup := seen[ac.Hex]; dup {
			continue
		}
		seen[ac.Hex] = struct{}{}

		batch = append(batch, datastore.Observation{
			IcaoHex:        ac.Hex,
			Callsign:       ac.Callsign,
			BaroAltitudeFt: ac.BaroAltitudeFt,
			GroundSpeedKt:  ac.GroundSpeedKt,
			Latitude:       *ac.Lat,
			Longitude:      *ac.Lon,
			ModelLabel:     s.resolver.Resolve(ac.Hex, ac.TypeCode),
			ObservedAt:     observedAt,
		})
	}
	return batch
}

// publishBatch publishes persisted observations to MQTT, best effort.
func (s *Service) publishBatch(ctx context.Context, batch []datastore.Observation) {
	if s.publisher == nil || !s.publisher.IsConnected() {
		return
	}
	for i := range batch {
		if err := s.publisher.PublishObservation(ctx, &batch[i]); err != nil {
			s.logError("Failed to publish observation", err)
			return
		}
	}
}

// StartPolling runs the ingestion pipeline on the configured interval until
// the quit channel closes. The first cycle runs immediately.
func (s *Service) StartPolling(wg *sync.WaitGroup, quit <-chan struct{}) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		interval := time.Duration(s.settings.Tracker.PollInterval) * time.Second
		trackerLogger.Info("Starting ingestion polling",
			"provider", s.provider.Name(),
			"interval_seconds", s.settings.Tracker.PollInterval,
			"radius_nm", s.settings.Station.RadiusNM,
		)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		if _, err := s.RunOnce(time.Now()); err != nil {
			trackerLogger.Warn("Initial ingestion cycle failed", "error", err)
		}

		for {
			select {
			case <-ticker.C:
				if _, err := s.RunOnce(time.Now()); err != nil {
					trackerLogger.Warn("Ingestion cycle failed", "error", err)
				}
			case <-quit:
				trackerLogger.Info("Stopping ingestion polling")
				return
			}
		}
	}()
}

// logError logs an error with its component/category attributes when it is
// an enhanced error.
func (s *Service) logError(msg string, err error) {
	var enhanced *errors.EnhancedError
	if errors.As(err, &enhanced) {
		trackerLogger.Error(msg, append([]any{"error", err}, enhanced.LogAttrs()...)...)
		return
	}
	trackerLogger.Error(msg, "error", err)
}
