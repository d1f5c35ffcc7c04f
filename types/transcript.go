package types

// CaptionEvent is a single timed caption line as returned by the transcript
// fetcher. Start and Duration are in seconds.
type CaptionEvent struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// TranscriptChunk is a bounded slice of a video transcript with approximate
// time bounds. Word positions do not map exactly to caption events, so
// StartTime/EndTime carry no precision guarantee.
type TranscriptChunk struct {
	Text      string  `json:"text"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	VideoID   string  `json:"video_id"`
	VideoURL  string  `json:"video_url"`
}

// IngestedVideo is a video tracked by the transcript retriever. Chunks may be
// empty when the video has no captions; the record is still kept so repeat
// imports are idempotent.
type IngestedVideo struct {
	VideoID string            `json:"video_id"`
	URL     string            `json:"url"`
	Title   string            `json:"title,omitempty"`
	Chunks  []TranscriptChunk `json:"chunks,omitempty"`
}

// TranscriptServiceConfig contains configuration options for transcript chunking
type TranscriptServiceConfig struct {
	MaxChunkSize int // Maximum size for text chunks, in characters
	OverlapSize  int // Size of overlap between chunks
}
