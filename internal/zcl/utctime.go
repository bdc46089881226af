package zcl

import "time"

// utcTimeEpoch is the ZCL "UTCTime" data type's epoch: 2000-01-01T00:00:00Z,
// not the Unix epoch (spec.md §8 worked example #4).
var utcTimeEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// UTCTimeToGo converts a raw UTCTime (0xE2) attribute value -- seconds since
// utcTimeEpoch -- to a time.Time.
func UTCTimeToGo(raw uint32) time.Time {
	return utcTimeEpoch.Add(time.Duration(raw) * time.Second)
}

// GoToUTCTime converts a time.Time to the raw UTCTime wire value, truncating
// to whole seconds and clamping to 0 for instants before the epoch.
func GoToUTCTime(t time.Time) uint32 {
	d := t.Sub(utcTimeEpoch)
	if d < 0 {
		return 0
	}
	return uint32(d / time.Second)
}
