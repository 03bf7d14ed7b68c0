package domain

import "time"

// Now is the timestamp every constructor stamps: UTC at microsecond
// precision, which is what a timestamptz column stores.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
