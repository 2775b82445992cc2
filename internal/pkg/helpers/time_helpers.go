package helpers

import "time"

// ParseDuration parses a duration string, falling back to the given default
// on empty or malformed input.
func ParseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
