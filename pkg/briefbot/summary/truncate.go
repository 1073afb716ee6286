// Package summary - truncate.go enforces the platform message-length limit.
package summary

import "strings"

// MaxMessageLength is Discord's per-message character limit. Every string
// returned by the generator and handed to a sender must fit within it.
const MaxMessageLength = 2000

// ellipsis marks truncated output.
const ellipsis = "..."

// Truncate cuts s down to at most MaxMessageLength bytes. The cut lands on
// the latest sentence end, newline, or space that still leaves room for the
// ellipsis marker; with no such break point the text is hard-cut. Strings
// already within the limit pass through unchanged.
func Truncate(s string) string {
	return truncateTo(s, MaxMessageLength)
}

func truncateTo(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	prefix := s[:limit-len(ellipsis)]

	// Take whichever break point is closest to the limit.
	cut := strings.LastIndexByte(prefix, '.')
	if idx := strings.LastIndexByte(prefix, '\n'); idx > cut {
		cut = idx
	}
	if idx := strings.LastIndexByte(prefix, ' '); idx > cut {
		cut = idx
	}

	if cut <= 0 {
		return prefix + ellipsis
	}
	return strings.TrimRight(prefix[:cut+1], " \n") + ellipsis
}
