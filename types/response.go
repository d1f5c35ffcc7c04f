package types

type DataResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ImportVideosRequest struct {
	VideoIDs  []string `json:"video_ids,omitempty"`
	VideoURLs []string `json:"video_urls,omitempty"`
}

type ImportVideosResponse struct {
	Imported int            `json:"imported"`
	Failed   int            `json:"failed"`
	Total    int            `json:"total"`
	Errors   []string       `json:"errors,omitempty"`
	Videos   []VideoSummary `json:"videos"`
}

type VideoSummary struct {
	VideoID     string `json:"video_id"`
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	ChunksCount int    `json:"chunks_count"`
}

type ListVideosResponse struct {
	Videos      []VideoSummary `json:"videos"`
	TotalChunks int            `json:"total_chunks"`
	TotalVideos int            `json:"total_videos"`
}

// ChunkPreview is the inspection view of a single transcript chunk.
type ChunkPreview struct {
	VideoID    string  `json:"video_id,omitempty"`
	VideoTitle string  `json:"video_title,omitempty"`
	VideoURL   string  `json:"video_url,omitempty"`
	Text       string  `json:"text"`
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
	Duration   float64 `json:"duration"`
	Preview    string  `json:"preview"`
}

type TranscriptContentSummary struct {
	TotalVideos     int `json:"total_videos"`
	TotalChunks     int `json:"total_chunks"`
	TotalTextLength int `json:"total_text_length"`
}

type TranscriptContentResponse struct {
	Summary      TranscriptContentSummary `json:"summary"`
	Videos       []VideoSummary           `json:"videos"`
	SampleChunks []ChunkPreview           `json:"sample_chunks"`
	Showing      int                      `json:"showing"`
	Search       string                   `json:"search,omitempty"`
	Message      string                   `json:"message,omitempty"`
}
