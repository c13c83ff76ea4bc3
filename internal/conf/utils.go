package conf

import (
	"fmt"
	"strconv"
)

// ParseRetentionPeriod converts a retention period such as "90d" or "24h"
// into hours. Supported suffixes are h, d, w, m and y; a bare number is read
// as hours.
func ParseRetentionPeriod(period string) (int, error) {
	if period == "" {
		return 0, fmt.Errorf("retention period is empty")
	}

	suffix := period[len(period)-1]

	// No suffix, the whole string is an hour count
	if suffix >= '0' && suffix <= '9' {
		hours, err := strconv.Atoi(period)
		if err != nil {
			return 0, fmt.Errorf("malformed retention period %q", period)
		}
		return hours, nil
	}

	value, err := strconv.Atoi(period[:len(period)-1])
	if err != nil {
		return 0, fmt.Errorf("malformed retention period %q", period)
	}

	switch suffix {
	case 'h':
		return value, nil
	case 'd':
		return value * 24, nil
	case 'w':
		return value * 24 * 7, nil
	case 'm':
		return value * 24 * 30, nil // months read as 30 days
	case 'y':
		return value * 24 * 365, nil // years read as 365 days
	default:
		return 0, fmt.Errorf("unknown retention period suffix %q", string(suffix))
	}
}
