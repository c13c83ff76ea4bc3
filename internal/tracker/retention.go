package tracker

import (
	"sync"
	"time"

	"github.com/flugtracker/flugtracker-go/internal/conf"
	"github.com/flugtracker/flugtracker-go/internal/errors"
)

// SweepOnce deletes observations older than the configured maximum age and
// returns the number of removed rows. Failures leave the data untouched;
// the next scheduled sweep retries.
func (s *Service) SweepOnce(now time.Time) (int64, error) {
	maxAgeHours, err := conf.ParseRetentionPeriod(s.settings.Tracker.Retention.MaxAge)
	if err != nil {
		return 0, errors.New(err).
			Component("tracker").
			Category(errors.CategoryConfiguration).
			Context("max_age", s.settings.Tracker.Retention.MaxAge).
			Build()
	}

	cutoff := now.Add(-time.Duration(maxAgeHours) * time.Hour).Unix()
	deleted, err := s.store.DeleteObservationsBefore(cutoff)
	if err != nil {
		s.logError("Retention sweep failed", err)
		return 0, err
	}

	if s.metrics != nil {
		s.metrics.RetentionRowsDeleted.Add(float64(deleted))
		if total, err := s.store.ObservationCount(); err == nil {
			s.metrics.StoredObservations.Set(float64(total))
		}
	}

	if deleted > 0 {
		trackerLogger.Info("Retention sweep complete",
			"deleted", deleted,
			"cutoff", cutoff,
			"max_age", s.settings.Tracker.Retention.MaxAge,
		)
	}
	return deleted, nil
}

// StartRetention runs retention sweeps on their own interval, independent of
// the ingestion schedule, until the quit channel closes.
func (s *Service) StartRetention(wg *sync.WaitGroup, quit <-chan struct{}) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		interval := time.Duration(s.settings.Tracker.Retention.Interval) * time.Second
		trackerLogger.Info("Starting retention sweeps",
			"interval_seconds", s.settings.Tracker.Retention.Interval,
			"max_age", s.settings.Tracker.Retention.MaxAge,
		)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := s.SweepOnce(time.Now()); err != nil {
					trackerLogger.Warn("Retention sweep failed", "error", err)
				}
			case <-quit:
				trackerLogger.Info("Stopping retention sweeps")
				return
			}
		}
	}()
}
