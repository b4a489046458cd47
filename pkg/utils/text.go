// Package utils provides small shared helpers for text, vectors, and logging.
package utils

// Truncate shortens s to at most maxLen bytes, appending "..." when cut.
// Non-positive maxLen leaves s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
