package components

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mergestat/timediff"
)

// FormatRelativeTime formats a time.Time as a relative time string like "3 days ago"
func FormatRelativeTime(t time.Time) string {
	return timediff.TimeDiff(t)
}

// FormatFileSize formats a file size in bytes to a human-readable string
func FormatFileSize(bytes uint64) string {
	return humanize.Bytes(bytes)
}
