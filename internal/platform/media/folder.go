package media

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	invalidFolderChars = regexp.MustCompile(`[^a-zA-Z0-9\-_/]`)
	underscoreRuns     = regexp.MustCompile(`_{2,}`)
)

// SanitizeFolder keeps [a-zA-Z0-9-_/], replaces everything else with an
// underscore, collapses runs and trims leading/trailing underscores. The
// result is stable under repeated application.
func SanitizeFolder(name string) string {
	s := invalidFolderChars.ReplaceAllString(name, "_")
	s = underscoreRuns.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// ListingFolder derives the destination folder for a listing's photos from a
// description prefix plus the submission timestamp.
func ListingFolder(description string, now time.Time) string {
	prefix := description
	if utf8.RuneCountInString(prefix) > 24 {
		prefix = string([]rune(prefix)[:24])
	}
	return SanitizeFolder(fmt.Sprintf("%s_%d", prefix, now.UnixMilli()))
}
