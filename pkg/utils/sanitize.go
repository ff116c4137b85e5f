// pkg/utils/sanitize.go - utility functions for building safe file names.

package utils

import "regexp"

var (
	illegalFilenameChars = regexp.MustCompile(`[\\/:*?"<>|+\s]`)
	edgePunctuation      = regexp.MustCompile(`^[^a-zA-Z0-9]+|[^a-zA-Z0-9]+$`)
)

// SanitizeFilename maps a display name to a safe filesystem path component.
// Characters illegal in Windows file names and all whitespace are removed,
// then leading and trailing non-alphanumeric characters are trimmed. The
// result is never empty and the function is idempotent.
func SanitizeFilename(name string) string {
	if name == "" {
		return "DefaultApp"
	}
	sanitized := illegalFilenameChars.ReplaceAllString(name, "")
	sanitized = edgePunctuation.ReplaceAllString(sanitized, "")
	if sanitized == "" {
		return "DefaultAppInstall"
	}
	return sanitized
}
