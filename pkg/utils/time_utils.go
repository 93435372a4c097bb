package utils

import (
	"time"
)

// CurrentEpochSeconds returns the current time in seconds since epoch.
// All persisted consent timestamps use this resolution.
func CurrentEpochSeconds() int64 {
	return time.Now().Unix()
}

// EpochSecondsToTime converts seconds since epoch to time.Time
func EpochSecondsToTime(seconds int64) time.Time {
	return time.Unix(seconds, 0)
}

// FormatTime formats time in ISO 8601 format
func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

// ParseTime parses ISO 8601 formatted time string
func ParseTime(timeStr string) (time.Time, error) {
	return time.Parse(time.RFC3339, timeStr)
}

// IsExpired checks if a given expiry time (seconds since epoch) has passed.
// A zero expiry time means no expiry is set.
func IsExpired(expiryTime int64) bool {
	if expiryTime == 0 {
		return false
	}
	return CurrentEpochSeconds() > expiryTime
}

// GetExpiryTime calculates an expiry time from the current time and a
// validity duration in seconds.
func GetExpiryTime(validitySeconds int64) int64 {
	return CurrentEpochSeconds() + validitySeconds
}
