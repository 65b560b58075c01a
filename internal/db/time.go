package db

import "time"

// TimeFormat is a fixed-width UTC layout so stored timestamps sort lexically
const TimeFormat = "2006-01-02T15:04:05.000000000Z"

// FormatTime renders t in UTC using TimeFormat
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// ParseTime parses a value written by FormatTime, falling back to RFC3339
func ParseTime(s string) time.Time {
	if t, err := time.Parse(TimeFormat, s); err == nil {
		return t
	}
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
