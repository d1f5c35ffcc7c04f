package utils

import (
	"fmt"
	"regexp"
)

var (
	bareVideoID = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

	videoIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})`),
		regexp.MustCompile(`youtube\.com/.*[?&]v=([a-zA-Z0-9_-]{11})`),
	}
)

// ExtractVideoID resolves a bare 11-character video ID or any of the common
// YouTube URL shapes (watch, short, embed) to the canonical video ID. Returns
// an empty string when no pattern matches.
func ExtractVideoID(urlOrID string) string {
	if bareVideoID.MatchString(urlOrID) {
		return urlOrID
	}
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(urlOrID); len(m) == 2 {
			return m[1]
		}
	}
	return ""
}

// WatchURL returns the canonical watch URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// FormatTime renders seconds as h:mm:ss, or m:ss below one hour.
func FormatTime(seconds float64) string {
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
