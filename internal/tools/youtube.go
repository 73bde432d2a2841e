package tools

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kkdai/youtube/v2"
)

// TranscriptFetcher returns the spoken text of a video.
type TranscriptFetcher interface {
	Transcript(ctx context.Context, videoID string) (string, error)
}

// YouTubeTranscripts reads caption tracks through the public player API.
type YouTubeTranscripts struct {
	client *youtube.Client
	lang   string
}

// NewYouTubeTranscripts fetches English captions using httpClient.
func NewYouTubeTranscripts(httpClient *http.Client) *YouTubeTranscripts {
	return &YouTubeTranscripts{
		client: &youtube.Client{HTTPClient: httpClient},
		lang:   "en",
	}
}

// Transcript joins the caption segments of videoID with single spaces.
func (y *YouTubeTranscripts) Transcript(ctx context.Context, videoID string) (string, error) {
	video, err := y.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return "", fmt.Errorf("failed to load video %s: %w", videoID, err)
	}
	transcript, err := y.client.GetTranscriptCtx(ctx, video, y.lang)
	if err != nil {
		return "", fmt.Errorf("failed to load transcript for %s: %w", videoID, err)
	}
	return joinSegments(transcript)
}

func joinSegments(transcript youtube.VideoTranscript) (string, error) {
	parts := make([]string, 0, len(transcript))
	for _, seg := range transcript {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "", errors.New("transcript is empty")
	}
	return strings.Join(parts, " "), nil
}
