package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tieubaoca/docs-chat-be/types"
)

// TranscriptFetcher fetches the timed caption events of a video. An empty
// result is not an error; it means the video has no captions in any of the
// attempted languages.
type TranscriptFetcher interface {
	FetchTranscript(ctx context.Context, videoID string, language string) ([]types.CaptionEvent, error)
}

var captionEventRegex = regexp.MustCompile(`<text start="([\d.]+)" dur="([\d.]+)">(.*?)</text>`)

var htmlTagRegex = regexp.MustCompile(`<[^>]+>`)

// YouTubeTranscriptFetcher fetches captions from YouTube's timedtext endpoint.
type YouTubeTranscriptFetcher struct {
	client *http.Client
}

func NewYouTubeTranscriptFetcher() *YouTubeTranscriptFetcher {
	return &YouTubeTranscriptFetcher{
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchTranscript tries the preferred language first, then English and Russian.
// Returns the first non-empty caption track found.
func (f *YouTubeTranscriptFetcher) FetchTranscript(ctx context.Context, videoID string, language string) ([]types.CaptionEvent, error) {
	languages := []string{language}
	for _, fallback := range []string{"en", "ru"} {
		if fallback != language {
			languages = append(languages, fallback)
		}
	}

	var lastErr error
	for _, lang := range languages {
		events, err := f.fetchLanguage(ctx, videoID, lang)
		if err != nil {
			lastErr = err
			continue
		}
		if len(events) > 0 {
			return events, nil
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("failed to fetch transcript for video %s: %w", videoID, lastErr)
	}
	return nil, nil
}

func (f *YouTubeTranscriptFetcher) fetchLanguage(ctx context.Context, videoID, lang string) ([]types.CaptionEvent, error) {
	url := fmt.Sprintf("https://www.youtube.com/api/timedtext?lang=%s&v=%s&fmt=srv3", lang, videoID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "text/xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("timedtext returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return ParseTimedTextXML(string(body)), nil
}

// ParseTimedTextXML extracts caption events from YouTube's srv3 XML payload.
func ParseTimedTextXML(xmlText string) []types.CaptionEvent {
	var events []types.CaptionEvent
	for _, m := range captionEventRegex.FindAllStringSubmatch(xmlText, -1) {
		start, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		duration, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		text := decodeCaptionText(m[3])
		if text == "" {
			continue
		}
		events = append(events, types.CaptionEvent{
			Text:     text,
			Start:    start,
			Duration: duration,
		})
	}
	return events
}

func decodeCaptionText(text string) string {
	replacer := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
	text = replacer.Replace(text)
	text = htmlTagRegex.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
