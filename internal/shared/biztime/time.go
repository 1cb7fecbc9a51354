// Package biztime centralizes time handling. All storage and transport use UTC;
// implicit local timezone is prohibited.
package biztime

import "time"

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// FromMillis converts a unix millisecond timestamp to UTC time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// MillisPtr converts an optional time to an optional unix millisecond timestamp.
func MillisPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

// TimePtr converts an optional unix millisecond timestamp to an optional UTC time.
func TimePtr(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := FromMillis(*ms)
	return &t
}
