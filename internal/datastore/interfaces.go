// interfaces.go: this code defines the interface for the observation store
package datastore

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/flugtracker/flugtracker-go/internal/conf"
	"github.com/flugtracker/flugtracker-go/internal/errors"
	"github.com/flugtracker/flugtracker-go/internal/logging"
)

// Package-level logger for datastore operations
var (
	datastoreLogger   *slog.Logger
	datastoreLevelVar = new(slog.LevelVar)
)

func init() {
	var err error
	datastoreLevelVar.Set(slog.LevelInfo)
	datastoreLogger, _, err = logging.NewFileLogger("logs/datastore.log", "datastore", datastoreLevelVar)
	if err != nil {
		logging.Error("Failed to initialize datastore file logger", "error", err)
		datastoreLogger = logging.Default().With("service", "datastore")
	}
}

// Interface abstracts the underlying database implementation and defines
// the operations of the observation store.
type Interface interface {
	Open() error
	Close() error

	// write side
	InsertBatch(observations []Observation) error
	DeleteObservationsBefore(cutoff int64) (int64, error)
	ResetAll() error

	// read side
	RecentObservations(limit int, maxAltitudeFt *float64, day string) ([]Observation, error)
	CountsByDay(limitDays int) ([]DailyCount, error)
	CountsByModel(limit int) ([]ModelCount, error)
	CountsByHour() ([24]int, error)
	ObservationCount() (int64, error)
	LatestObservedAt() (int64, error)
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB
}

// New creates a store instance based on the configured output backend.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{Settings: settings}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{Settings: settings}
	default:
		return nil
	}
}

// InsertBatch stores all observations of one ingestion cycle in a single
// transaction so a concurrent reader sees either all of the cycle's rows or
// none of them.
func (ds *DataStore) InsertBatch(observations []Observation) error {
	if len(observations) == 0 {
		return nil
	}

	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&observations).Error
	})
	if err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "insert_batch").
			Context("batch_size", len(observations)).
			Build()
	}
	return nil
}

// ObservationCount returns the total number of stored observations.
func (ds *DataStore) ObservationCount() (int64, error) {
	var count int64
	if err := ds.DB.Model(&Observation{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting observations: %w", err)
	}
	return count, nil
}

// LatestObservedAt returns the timestamp of the newest observation, or zero
// when the store is empty.
func (ds *DataStore) LatestObservedAt() (int64, error) {
	var latest *int64
	err := ds.DB.Model(&Observation{}).Select("MAX(observed_at)").Scan(&latest).Error
	if err != nil {
		return 0, fmt.Errorf("getting latest observation time: %w", err)
	}
	if latest == nil {
		return 0, nil
	}
	return *latest, nil
}

// performAutoMigration automates database migrations with error handling.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(&Observation{}); err != nil {
		return fmt.Errorf("failed to auto-migrate %s database: %w", dbType, err)
	}

	if debug {
		datastoreLogger.Debug("Database connection initialized", "type", dbType, "connection", connectionInfo)
	}
	return nil
}

// createGormLogger configures and returns a new GORM logger instance.
func createGormLogger() logger.Interface {
	return logger.New(
		slog.NewLogLogger(datastoreLogger.Handler(), slog.LevelWarn),
		logger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      logger.Warn,
		},
	)
}
