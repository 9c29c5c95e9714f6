package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseInterval reads "30", "30s", "1.5m" or "2h" as a number of seconds.
func ParseInterval(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty interval")
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}

	if len(s) < 2 {
		return 0, fmt.Errorf("unexpected interval format: %s", s)
	}
	unit := s[len(s)-1]
	value, err := strconv.ParseFloat(s[:len(s)-1], 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected interval format: %s", s)
	}
	switch unit {
	case 's':
		return value, nil
	case 'm':
		return value * 60, nil
	case 'h':
		return value * 3600, nil
	default:
		return 0, fmt.Errorf("unexpected time unit: %s", string(unit))
	}
}
