package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/tieubaoca/docs-chat-be/types"
	"github.com/tieubaoca/docs-chat-be/utils"
)

// YouTubeRetriever owns the set of ingested video transcripts and scores their
// chunks against queries. Ingestion is best-effort per video: a failed caption
// fetch is logged and skipped so batch imports are never aborted by one video.
type YouTubeRetriever struct {
	fetcher    TranscriptFetcher
	transcript *TranscriptService
	language   string

	mu        sync.RWMutex
	videos    map[string]*types.IngestedVideo
	order     []string
	allChunks []types.TranscriptChunk
}

func NewYouTubeRetriever(fetcher TranscriptFetcher, transcript *TranscriptService, language string) *YouTubeRetriever {
	return &YouTubeRetriever{
		fetcher:    fetcher,
		transcript: transcript,
		language:   language,
		videos:     make(map[string]*types.IngestedVideo),
	}
}

// AddVideo resolves the input to a canonical video ID, fetches and chunks its
// transcript, and stores the result. Re-adding a tracked video is a no-op.
// Videos without captions are stored with an empty chunk list so repeat imports
// stay idempotent. Fetch errors are logged and leave the video untracked; only
// an unparseable identifier is returned as an error.
func (r *YouTubeRetriever) AddVideo(ctx context.Context, videoIDOrURL string, title string) error {
	videoID := utils.ExtractVideoID(videoIDOrURL)
	if videoID == "" {
		return fmt.Errorf("%w: %s", types.ErrInvalidVideoID, videoIDOrURL)
	}

	r.mu.RLock()
	_, exists := r.videos[videoID]
	r.mu.RUnlock()
	if exists {
		log.Printf("[YouTube RAG] Video %s already added", videoID)
		return nil
	}

	events, err := r.fetcher.FetchTranscript(ctx, videoID, r.language)
	if err != nil {
		log.Printf("[YouTube RAG] Failed to add video %s: %v", videoID, err)
		return nil
	}

	chunks := r.transcript.Chunk(events)
	videoURL := utils.WatchURL(videoID)
	for i := range chunks {
		chunks[i].VideoID = videoID
		chunks[i].VideoURL = videoURL
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.videos[videoID]; exists {
		// A concurrent AddVideo won the race.
		return nil
	}
	r.videos[videoID] = &types.IngestedVideo{
		VideoID: videoID,
		URL:     videoURL,
		Title:   title,
		Chunks:  chunks,
	}
	r.order = append(r.order, videoID)
	r.allChunks = append(r.allChunks, chunks...)

	if len(chunks) == 0 {
		log.Printf("[YouTube RAG] Video %s has no transcript chunks", videoID)
	} else {
		log.Printf("[YouTube RAG] Added video %s with %d chunks", videoID, len(chunks))
	}
	return nil
}

// AddVideos ingests all videos concurrently. Per-item failures are logged by
// AddVideo; callers needing per-item results must call AddVideo themselves.
func (r *YouTubeRetriever) AddVideos(ctx context.Context, videoIDsOrURLs []string) {
	var wg sync.WaitGroup
	for _, id := range videoIDsOrURLs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := r.AddVideo(ctx, id, ""); err != nil {
				log.Printf("[YouTube RAG] Skipping %s: %v", id, err)
			}
		}(id)
	}
	wg.Wait()
}

// FindRelevant scores every ingested chunk by query word occurrence. Transcript
// content is optional, so no matches yields an empty result rather than a
// fallback.
func (r *YouTubeRetriever) FindRelevant(query string, limit int) []types.RelevantDoc {
	r.mu.RLock()
	defer r.mu.RUnlock()

	queryLower := strings.ToLower(query)
	var queryWords []string
	for _, word := range strings.Fields(queryLower) {
		if len(word) > 2 {
			queryWords = append(queryWords, word)
		}
	}

	type scoredChunk struct {
		chunk types.TranscriptChunk
		score float64
	}
	var scored []scoredChunk
	for _, chunk := range r.allChunks {
		chunkText := strings.ToLower(chunk.Text)
		var score float64

		// Raw occurrence counting works better than keyword lists on large
		// uncurated transcript text.
		for _, word := range queryWords {
			score += float64(strings.Count(chunkText, word)) * 2
		}
		if strings.Contains(chunkText, queryLower) {
			score += 10
		}
		for _, word := range queryWords {
			if strings.Contains(chunkText, word) {
				score += 3
			}
		}

		if score > 0 {
			scored = append(scored, scoredChunk{chunk: chunk, score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}

	results := make([]types.RelevantDoc, 0, len(scored))
	for _, s := range scored {
		video := r.videos[s.chunk.VideoID]
		topic := ""
		title := ""
		if video != nil {
			title = video.Title
		}
		if title != "" {
			topic = title
		} else {
			topic = "YouTube Video: " + s.chunk.VideoID
		}
		results = append(results, types.RelevantDoc{
			Topic:   topic,
			Content: FormatChunkForRAG(s.chunk, title),
			Score:   s.score,
		})
	}
	return results
}

// GenerateFollowUps suggests questions about the topic when an ingested video
// title matches it, otherwise a generic list.
func (r *YouTubeRetriever) GenerateFollowUps(topic string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	topicLower := strings.ToLower(topic)
	related := false
	for _, id := range r.order {
		video := r.videos[id]
		if video.Title != "" && strings.Contains(strings.ToLower(video.Title), topicLower) {
			related = true
			break
		}
	}

	if !related {
		return []string{
			"Tell me more about this",
			"What other examples are there?",
			"How do I apply this in practice?",
		}
	}
	return []string{
		fmt.Sprintf("Tell me more about %s", topic),
		"Show examples from the videos",
		"What other videos cover this topic?",
		"Explain it in simple terms",
	}
}

// Videos returns all ingested videos in insertion order.
func (r *YouTubeRetriever) Videos() []types.IngestedVideo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	videos := make([]types.IngestedVideo, 0, len(r.order))
	for _, id := range r.order {
		videos = append(videos, *r.videos[id])
	}
	return videos
}

// Clear drops all ingested videos and chunks.
func (r *YouTubeRetriever) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.videos = make(map[string]*types.IngestedVideo)
	r.order = nil
	r.allChunks = nil
}

// FormatChunkForRAG renders a chunk as the context block handed to the model:
// a header with the video title, the time range, the source URL, and the text.
func FormatChunkForRAG(chunk types.TranscriptChunk, videoTitle string) string {
	header := "[YouTube Video]"
	if videoTitle != "" {
		header = "[YouTube Video: " + videoTitle + "]"
	}
	return fmt.Sprintf("%s\nTime: %s - %s\nURL: %s\n\nContent:\n%s",
		header,
		utils.FormatTime(chunk.StartTime),
		utils.FormatTime(chunk.EndTime),
		chunk.VideoURL,
		chunk.Text,
	)
}
