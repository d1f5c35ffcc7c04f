package handler

import (
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/docs-chat-be/service"
	"github.com/tieubaoca/docs-chat-be/types"
)

const defaultChunkInspectLimit = 10

type VideoHandler struct {
	youtubeRAG *service.YouTubeRetriever
}

func NewVideoHandler(youtubeRAG *service.YouTubeRetriever) *VideoHandler {
	return &VideoHandler{
		youtubeRAG: youtubeRAG,
	}
}

// HandleImport ingests a batch of video IDs and/or URLs concurrently and
// reports per-item results. One failed video never aborts its siblings.
func (h *VideoHandler) HandleImport(c *gin.Context) {
	var req types.ImportVideosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid request body"})
		return
	}
	allVideos := append(append([]string{}, req.VideoIDs...), req.VideoURLs...)
	if len(allVideos) == 0 {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "video_ids or video_urls required"})
		return
	}

	var (
		mu     sync.Mutex
		failed []string
		wg     sync.WaitGroup
	)
	for _, video := range allVideos {
		wg.Add(1)
		go func(video string) {
			defer wg.Done()
			if err := h.youtubeRAG.AddVideo(c.Request.Context(), video, ""); err != nil {
				mu.Lock()
				failed = append(failed, err.Error())
				mu.Unlock()
			}
		}(video)
	}
	wg.Wait()

	c.JSON(http.StatusOK, types.ImportVideosResponse{
		Imported: len(allVideos) - len(failed),
		Failed:   len(failed),
		Total:    len(allVideos),
		Errors:   failed,
		Videos:   h.videoSummaries(),
	})
}

// HandleListVideos returns all tracked videos with chunk counts.
func (h *VideoHandler) HandleListVideos(c *gin.Context) {
	summaries := h.videoSummaries()
	totalChunks := 0
	for _, s := range summaries {
		totalChunks += s.ChunksCount
	}
	c.JSON(http.StatusOK, types.ListVideosResponse{
		Videos:      summaries,
		TotalChunks: totalChunks,
		TotalVideos: len(summaries),
	})
}

// HandleClearVideos drops all ingested transcript state.
func (h *VideoHandler) HandleClearVideos(c *gin.Context) {
	h.youtubeRAG.Clear()
	c.JSON(http.StatusOK, types.DataResponse{Status: "success", Message: "All videos cleared"})
}

// HandleContent exposes the ingested chunks for inspection: per-video when
// video_id is given, otherwise summary statistics plus sample chunks. An
// optional search parameter filters chunks by substring.
func (h *VideoHandler) HandleContent(c *gin.Context) {
	videoID := c.Query("video_id")
	search := strings.ToLower(c.Query("search"))
	limit := defaultChunkInspectLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	videos := h.youtubeRAG.Videos()
	if len(videos) == 0 {
		c.JSON(http.StatusOK, types.TranscriptContentResponse{
			Videos:       []types.VideoSummary{},
			SampleChunks: []types.ChunkPreview{},
			Message:      "No videos imported yet",
		})
		return
	}

	if videoID != "" {
		h.handleVideoContent(c, videos, videoID, search, limit)
		return
	}

	var allChunks []types.TranscriptChunk
	titles := make(map[string]string)
	totalTextLength := 0
	for _, video := range videos {
		titles[video.VideoID] = video.Title
		for _, chunk := range video.Chunks {
			totalTextLength += len(chunk.Text)
			if search != "" && !strings.Contains(strings.ToLower(chunk.Text), search) {
				continue
			}
			allChunks = append(allChunks, chunk)
		}
	}

	previews := make([]types.ChunkPreview, 0, limit)
	for _, chunk := range allChunks {
		if len(previews) == limit {
			break
		}
		previews = append(previews, types.ChunkPreview{
			VideoID:    chunk.VideoID,
			VideoTitle: titles[chunk.VideoID],
			VideoURL:   chunk.VideoURL,
			Text:       chunk.Text,
			StartTime:  chunk.StartTime,
			EndTime:    chunk.EndTime,
			Duration:   chunk.EndTime - chunk.StartTime,
			Preview:    previewText(chunk.Text, 150),
		})
	}

	totalChunks := 0
	summaries := h.videoSummaries()
	for _, s := range summaries {
		totalChunks += s.ChunksCount
	}

	c.JSON(http.StatusOK, types.TranscriptContentResponse{
		Summary: types.TranscriptContentSummary{
			TotalVideos:     len(videos),
			TotalChunks:     totalChunks,
			TotalTextLength: totalTextLength,
		},
		Videos:       summaries,
		SampleChunks: previews,
		Showing:      len(previews),
		Search:       search,
	})
}

func (h *VideoHandler) handleVideoContent(c *gin.Context, videos []types.IngestedVideo, videoID, search string, limit int) {
	for _, video := range videos {
		if video.VideoID != videoID {
			continue
		}
		previews := make([]types.ChunkPreview, 0, limit)
		matched := 0
		for _, chunk := range video.Chunks {
			if search != "" && !strings.Contains(strings.ToLower(chunk.Text), search) {
				continue
			}
			matched++
			if len(previews) == limit {
				continue
			}
			previews = append(previews, types.ChunkPreview{
				Text:      chunk.Text,
				StartTime: chunk.StartTime,
				EndTime:   chunk.EndTime,
				Duration:  chunk.EndTime - chunk.StartTime,
				Preview:   previewText(chunk.Text, 200),
			})
		}
		c.JSON(http.StatusOK, gin.H{
			"video": types.VideoSummary{
				VideoID:     video.VideoID,
				URL:         video.URL,
				Title:       video.Title,
				ChunksCount: len(video.Chunks),
			},
			"chunks":       previews,
			"total_chunks": matched,
			"showing":      len(previews),
		})
		return
	}
	c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Video " + videoID + " not found"})
}

func (h *VideoHandler) videoSummaries() []types.VideoSummary {
	videos := h.youtubeRAG.Videos()
	summaries := make([]types.VideoSummary, 0, len(videos))
	for _, video := range videos {
		summaries = append(summaries, types.VideoSummary{
			VideoID:     video.VideoID,
			URL:         video.URL,
			Title:       video.Title,
			ChunksCount: len(video.Chunks),
		})
	}
	return summaries
}

func previewText(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
