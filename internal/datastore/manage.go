// manage.go: destructive store operations, retention sweep and manual reset
package datastore

import (
	"github.com/flugtracker/flugtracker-go/internal/errors"
)

// DeleteObservationsBefore removes all observations older than the cutoff
// timestamp and returns the number of deleted rows. Idempotent.
func (ds *DataStore) DeleteObservationsBefore(cutoff int64) (int64, error) {
	result := ds.DB.Where("observed_at < ?", cutoff).Delete(&Observation{})
	if result.Error != nil {
		return 0, errors.New(result.Error).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "delete_observations_before").
			Context("cutoff", cutoff).
			Build()
	}

	if result.RowsAffected > 0 {
		datastoreLogger.Info("Deleted expired observations", "rows", result.RowsAffected, "cutoff", cutoff)
	}
	return result.RowsAffected, nil
}

// ResetAll deletes every observation. Destructive and irreversible,
// intended for manual operator use only.
func (ds *DataStore) ResetAll() error {
	result := ds.DB.Exec("DELETE FROM observations")
	if result.Error != nil {
		return errors.New(result.Error).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "reset_all").
			Build()
	}

	datastoreLogger.Warn("Observation store reset", "rows_deleted", result.RowsAffected)
	return nil
}
