package service

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tieubaoca/docs-chat-be/types"
)

type mockTranscriptFetcher struct {
	fetch      func(ctx context.Context, videoID, language string) ([]types.CaptionEvent, error)
	fetchCalls atomic.Int32
}

func (m *mockTranscriptFetcher) FetchTranscript(ctx context.Context, videoID, language string) ([]types.CaptionEvent, error) {
	m.fetchCalls.Add(1)
	return m.fetch(ctx, videoID, language)
}

func newTestYouTubeRetriever(fetcher TranscriptFetcher) *YouTubeRetriever {
	return NewYouTubeRetriever(fetcher, NewTranscriptService(DefaultTranscriptServiceConfig), "en")
}

func TestAddVideoInvalidID(t *testing.T) {
	fetcher := &mockTranscriptFetcher{
		fetch: func(ctx context.Context, videoID, language string) ([]types.CaptionEvent, error) {
			return nil, nil
		},
	}
	r := newTestYouTubeRetriever(fetcher)

	err := r.AddVideo(context.Background(), "not a url", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidVideoID)
	assert.Empty(t, r.Videos())
	assert.Zero(t, fetcher.fetchCalls.Load())
}

func TestAddVideoIdempotent(t *testing.T) {
	fetcher := &mockTranscriptFetcher{
		fetch: func(ctx context.Context, videoID, language string) ([]types.CaptionEvent, error) {
			return []types.CaptionEvent{{Text: "kubernetes deployment basics", Start: 0, Duration: 5}}, nil
		},
	}
	r := newTestYouTubeRetriever(fetcher)

	require.NoError(t, r.AddVideo(context.Background(), "dQw4w9WgXcQ", ""))
	// Same video by URL must not be fetched again.
	require.NoError(t, r.AddVideo(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ", ""))

	assert.Equal(t, int32(1), fetcher.fetchCalls.Load())
	videos := r.Videos()
	require.Len(t, videos, 1)
	assert.Equal(t, "dQw4w9WgXcQ", videos[0].VideoID)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", videos[0].URL)
	require.Len(t, videos[0].Chunks, 1)
	assert.Equal(t, "dQw4w9WgXcQ", videos[0].Chunks[0].VideoID)
}

func TestAddVideoFetchErrorLeavesVideoUntracked(t *testing.T) {
	fetcher := &mockTranscriptFetcher{
		fetch: func(ctx context.Context, videoID, language string) ([]types.CaptionEvent, error) {
			return nil, errors.New("network down")
		},
	}
	r := newTestYouTubeRetriever(fetcher)

	// Fetch failures are logged, not returned; the video stays unseen so a
	// later import can retry it.
	require.NoError(t, r.AddVideo(context.Background(), "dQw4w9WgXcQ", ""))
	assert.Empty(t, r.Videos())

	require.NoError(t, r.AddVideo(context.Background(), "dQw4w9WgXcQ", ""))
	assert.Equal(t, int32(2), fetcher.fetchCalls.Load())
}

func TestAddVideoWithoutCaptionsIsStored(t *testing.T) {
	fetcher := &mockTranscriptFetcher{
		fetch: func(ctx context.Context, videoID, language string) ([]types.CaptionEvent, error) {
			return nil, nil
		},
	}
	r := newTestYouTubeRetriever(fetcher)

	require.NoError(t, r.AddVideo(context.Background(), "dQw4w9WgXcQ", ""))
	videos := r.Videos()
	require.Len(t, videos, 1)
	assert.Empty(t, videos[0].Chunks)

	// Stored with zero chunks means no refetch on the next import.
	require.NoError(t, r.AddVideo(context.Background(), "dQw4w9WgXcQ", ""))
	assert.Equal(t, int32(1), fetcher.fetchCalls.Load())
}

func TestAddVideosConcurrent(t *testing.T) {
	fetcher := &mockTranscriptFetcher{
		fetch: func(ctx context.Context, videoID, language string) ([]types.CaptionEvent, error) {
			return []types.CaptionEvent{{Text: "content for " + videoID, Start: 0, Duration: 1}}, nil
		},
	}
	r := newTestYouTubeRetriever(fetcher)

	r.AddVideos(context.Background(), []string{"aaaaaaaaaaa", "bbbbbbbbbbb", "not a url"})
	assert.Len(t, r.Videos(), 2)
}

func TestYouTubeFindRelevant(t *testing.T) {
	fetcher := &mockTranscriptFetcher{
		fetch: func(ctx context.Context, videoID, language string) ([]types.CaptionEvent, error) {
			return []types.CaptionEvent{
				{Text: "kubernetes deployment and kubernetes services explained", Start: 0, Duration: 10},
			}, nil
		},
	}
	r := newTestYouTubeRetriever(fetcher)
	require.NoError(t, r.AddVideo(context.Background(), "dQw4w9WgXcQ", ""))

	results := r.FindRelevant("kubernetes deployment", 3)
	require.Len(t, results, 1)
	assert.Equal(t, "YouTube Video: dQw4w9WgXcQ", results[0].Topic)
	assert.Greater(t, results[0].Score, 0.0)
	assert.Contains(t, results[0].Content, "kubernetes deployment")
	assert.Contains(t, results[0].Content, "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	assert.Contains(t, results[0].Content, "Time: 0:00 - 0:10")
}

func TestYouTubeFindRelevantUsesTitleAsTopic(t *testing.T) {
	fetcher := &mockTranscriptFetcher{
		fetch: func(ctx context.Context, videoID, language string) ([]types.CaptionEvent, error) {
			return []types.CaptionEvent{{Text: "grafana alerting deep dive", Start: 0, Duration: 5}}, nil
		},
	}
	r := newTestYouTubeRetriever(fetcher)
	require.NoError(t, r.AddVideo(context.Background(), "dQw4w9WgXcQ", "Grafana Alerting Tutorial"))

	results := r.FindRelevant("alerting", 3)
	require.Len(t, results, 1)
	assert.Equal(t, "Grafana Alerting Tutorial", results[0].Topic)
	assert.Contains(t, results[0].Content, "[YouTube Video: Grafana Alerting Tutorial]")
}

func TestYouTubeFindRelevantNoMatchIsEmpty(t *testing.T) {
	fetcher := &mockTranscriptFetcher{
		fetch: func(ctx context.Context, videoID, language string) ([]types.CaptionEvent, error) {
			return []types.CaptionEvent{{Text: "kubernetes deployment basics", Start: 0, Duration: 5}}, nil
		},
	}
	r := newTestYouTubeRetriever(fetcher)
	require.NoError(t, r.AddVideo(context.Background(), "dQw4w9WgXcQ", ""))

	// Unlike the docs corpus there is no fallback for transcripts.
	assert.Empty(t, r.FindRelevant("unrelated topic entirely", 3))
}

func TestYouTubeFindRelevantRanksByOccurrence(t *testing.T) {
	fetcher := &mockTranscriptFetcher{
		fetch: func(ctx context.Context, videoID, language string) ([]types.CaptionEvent, error) {
			if videoID == "aaaaaaaaaaa" {
				return []types.CaptionEvent{{Text: "docker docker docker docker", Start: 0, Duration: 5}}, nil
			}
			return []types.CaptionEvent{{Text: "docker mentioned once here", Start: 0, Duration: 5}}, nil
		},
	}
	r := newTestYouTubeRetriever(fetcher)
	require.NoError(t, r.AddVideo(context.Background(), "aaaaaaaaaaa", ""))
	require.NoError(t, r.AddVideo(context.Background(), "bbbbbbbbbbb", ""))

	results := r.FindRelevant("docker", 3)
	require.Len(t, results, 2)
	assert.Equal(t, "YouTube Video: aaaaaaaaaaa", results[0].Topic)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestYouTubeGenerateFollowUps(t *testing.T) {
	fetcher := &mockTranscriptFetcher{
		fetch: func(ctx context.Context, videoID, language string) ([]types.CaptionEvent, error) {
			return []types.CaptionEvent{{Text: "some content", Start: 0, Duration: 5}}, nil
		},
	}
	r := newTestYouTubeRetriever(fetcher)
	require.NoError(t, r.AddVideo(context.Background(), "dQw4w9WgXcQ", "Kubernetes Tutorial"))

	related := r.GenerateFollowUps("Kubernetes")
	require.Len(t, related, 4)
	assert.Equal(t, "Tell me more about Kubernetes", related[0])

	generic := r.GenerateFollowUps("Cooking")
	require.Len(t, generic, 3)
	assert.Contains(t, generic, "Tell me more about this")
}

func TestClearVideos(t *testing.T) {
	fetcher := &mockTranscriptFetcher{
		fetch: func(ctx context.Context, videoID, language string) ([]types.CaptionEvent, error) {
			return []types.CaptionEvent{{Text: "kubernetes deployment basics", Start: 0, Duration: 5}}, nil
		},
	}
	r := newTestYouTubeRetriever(fetcher)
	require.NoError(t, r.AddVideo(context.Background(), "dQw4w9WgXcQ", ""))
	require.NotEmpty(t, r.Videos())

	r.Clear()
	assert.Empty(t, r.Videos())
	assert.Empty(t, r.FindRelevant("kubernetes", 3))
}

func TestFormatChunkForRAG(t *testing.T) {
	chunk := types.TranscriptChunk{
		Text:      "some transcript text",
		StartTime: 65,
		EndTime:   125,
		VideoID:   "dQw4w9WgXcQ",
		VideoURL:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	}

	withTitle := FormatChunkForRAG(chunk, "My Video")
	assert.True(t, strings.HasPrefix(withTitle, "[YouTube Video: My Video]\n"))
	assert.Contains(t, withTitle, "Time: 1:05 - 2:05")
	assert.Contains(t, withTitle, "URL: https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	assert.Contains(t, withTitle, "Content:\nsome transcript text")

	withoutTitle := FormatChunkForRAG(chunk, "")
	assert.True(t, strings.HasPrefix(withoutTitle, "[YouTube Video]\n"))
}
