// analytics.go: aggregate queries consumed by the HTTP layer
package datastore

import (
	"fmt"
	"time"
)

// dateFormat returns the database-specific SQL fragment formatting the
// observed_at epoch column as a UTC calendar day.
func (ds *DataStore) dateFormat() string {
	switch ds.DB.Dialector.Name() {
	case "sqlite":
		return "strftime('%Y-%m-%d', observed_at, 'unixepoch')"
	case "mysql":
		return "DATE_FORMAT(FROM_UNIXTIME(observed_at), '%Y-%m-%d')"
	default:
		return ""
	}
}

// hourFormat returns the database-specific SQL fragment formatting the
// observed_at epoch column as an hour of day.
func (ds *DataStore) hourFormat() string {
	switch ds.DB.Dialector.Name() {
	case "sqlite":
		return "CAST(strftime('%H', observed_at, 'unixepoch') AS INTEGER)"
	case "mysql":
		return "HOUR(FROM_UNIXTIME(observed_at))"
	default:
		return ""
	}
}

// RecentObservations returns stored observations newest first, optionally
// filtered by an altitude ceiling and/or a UTC calendar day.
func (ds *DataStore) RecentObservations(limit int, maxAltitudeFt *float64, day string) ([]Observation, error) {
	query := ds.DB.Model(&Observation{})

	if maxAltitudeFt != nil {
		query = query.Where("baro_altitude_ft < ?", *maxAltitudeFt)
	}
	if day != "" {
		start, err := time.Parse("2006-01-02", day)
		if err != nil {
			return nil, fmt.Errorf("invalid day filter %q: %w", day, err)
		}
		end := start.Add(24*time.Hour - time.Second)
		query = query.Where("observed_at BETWEEN ? AND ?", start.Unix(), end.Unix())
	}

	var observations []Observation
	err := query.Order("observed_at DESC, id DESC").Limit(limit).Find(&observations).Error
	if err != nil {
		return nil, fmt.Errorf("error getting recent observations: %w", err)
	}
	return observations, nil
}

// CountsByDay returns per-day observation counts for the most recent days.
func (ds *DataStore) CountsByDay(limitDays int) ([]DailyCount, error) {
	dateExpr := ds.dateFormat()

	var results []DailyCount
	err := ds.DB.Model(&Observation{}).
		Select(fmt.Sprintf("%s as day, COUNT(*) as count", dateExpr)).
		Group(dateExpr).
		Order("day DESC").
		Limit(limitDays).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("error getting daily counts: %w", err)
	}
	return results, nil
}

// CountsByModel returns observation counts grouped by resolved model label,
// most frequent first.
func (ds *DataStore) CountsByModel(limit int) ([]ModelCount, error) {
	var results []ModelCount
	err := ds.DB.Model(&Observation{}).
		Select("model_label, COUNT(*) as count").
		Group("model_label").
		Order("count DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("error getting model counts: %w", err)
	}
	return results, nil
}

// CountsByHour returns observation counts for each hour of day, 00 to 23.
func (ds *DataStore) CountsByHour() ([24]int, error) {
	var hourlyCounts [24]int
	var results []struct {
		Hour  int
		Count int
	}

	hourExpr := ds.hourFormat()
	err := ds.DB.Model(&Observation{}).
		Select(fmt.Sprintf("%s as hour, COUNT(*) as count", hourExpr)).
		Group(hourExpr).
		Scan(&results).Error
	if err != nil {
		return hourlyCounts, fmt.Errorf("error getting hourly counts: %w", err)
	}

	for _, result := range results {
		if result.Hour >= 0 && result.Hour < 24 {
			hourlyCounts[result.Hour] = result.Count
		}
	}
	return hourlyCounts, nil
}
