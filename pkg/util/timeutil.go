package util

import "time"

// NowUTC returns the current time truncated to microseconds, the precision PostgreSQL keeps.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
