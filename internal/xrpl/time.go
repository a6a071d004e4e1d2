package xrpl

import "time"

// rippleEpochOffset is the number of seconds between the Unix epoch and the
// ledger epoch (2000-01-01T00:00:00Z).
const rippleEpochOffset int64 = 946684800

// RippleTime converts a ledger-epoch timestamp to UTC wall time.
func RippleTime(secs int64) time.Time {
	return time.Unix(secs+rippleEpochOffset, 0).UTC()
}

// ToRippleTime converts UTC wall time to ledger-epoch seconds.
func ToRippleTime(t time.Time) int64 {
	return t.Unix() - rippleEpochOffset
}
