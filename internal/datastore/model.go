// model.go this code defines the data model for the observation store
package datastore

// Observation is one persisted snapshot of an aircraft's state at one
// ingestion cycle's timestamp. Rows are append-only; the retention sweep
// and the manual reset are the only deleters, nothing updates in place.
type Observation struct {
	ID             uint   `gorm:"primaryKey"`
	IcaoHex        string `gorm:"index:idx_observations_hex"`
	Callsign       string `gorm:"index:idx_observations_callsign"`
	BaroAltitudeFt *float64
	GroundSpeedKt  *float64
	Latitude       float64 `gorm:"index:idx_observations_position"`
	Longitude      float64 `gorm:"index:idx_observations_position"`
	ModelLabel     string  `gorm:"index:idx_observations_model"`
	ObservedAt     int64   `gorm:"index:idx_observations_observed_at"` // unix epoch seconds, shared by all rows of a cycle
}

// DailyCount is one row of the counts-by-day aggregate.
type DailyCount struct {
	Day   string // "2006-01-02", UTC
	Count int
}

// ModelCount is one row of the counts-by-model aggregate.
type ModelCount struct {
	ModelLabel string
	Count      int
}
