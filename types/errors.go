package types

import "errors"

var (
	// ErrInvalidRequest means the user message is missing or blank. Surfaced to
	// the caller as a bad request, never recovered with fallback text.
	ErrInvalidRequest = errors.New("message is required")

	// ErrInvalidVideoID means the input could not be resolved to a YouTube
	// video identifier.
	ErrInvalidVideoID = errors.New("invalid YouTube URL or video ID")
)
